package handler

import "net/http"

// ListTags handles GET /v1/tags.
// The optional ?prefix= query parameter filters tags case-insensitively.
func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.List(r.Context(), r.URL.Query().Get("prefix"))
	if err != nil {
		s.respondErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
