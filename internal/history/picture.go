package history

import (
	"slices"

	"github.com/intermodalpt/catalogue/internal/domain"
)

// StopPicturePatch is a sparse change to a picture's dynamic metadata.
type StopPicturePatch struct {
	Public    *bool          `json:"public,omitempty"`
	Sensitive *bool          `json:"sensitive,omitempty"`
	Lon       Field[float64] `json:"lon,omitzero"`
	Lat       Field[float64] `json:"lat,omitzero"`
	Quality   *int16         `json:"quality,omitempty"`
	Tags      *[]string      `json:"tags,omitempty"`
	Attrs     *[]string      `json:"attrs,omitempty"`
	Notes     Field[string]  `json:"notes,omitzero"`
}

func (p *StopPicturePatch) fields() []patchField {
	return []patchField{
		opt("public", axisNone, &p.Public),
		opt("sensitive", axisNone, &p.Sensitive),
		tri("lon", axisNone, &p.Lon),
		tri("lat", axisNone, &p.Lat),
		opt("quality", axisNone, &p.Quality),
		opt("tags", axisNone, &p.Tags),
		opt("attrs", axisNone, &p.Attrs),
		tri("notes", axisNone, &p.Notes),
	}
}

// IsEmpty, FieldNames and DropFields mirror their StopPatch counterparts.
func (p StopPicturePatch) IsEmpty() bool          { return fieldsEmpty(p.fields()) }
func (p StopPicturePatch) FieldNames() []string   { return specifiedNames(p.fields()) }
func (p *StopPicturePatch) DropFields(n FieldSet) { dropNamed(p.fields(), n) }

// DropNoops unsets every field whose outcome already matches the current value.
func (p *StopPicturePatch) DropNoops(m domain.StopPicDynMeta) {
	dropOpt(&p.Public, m.Public, equal)
	dropOpt(&p.Sensitive, m.Sensitive, equal)
	dropNoop(&p.Lon, m.Lon, equal)
	dropNoop(&p.Lat, m.Lat, equal)
	dropOpt(&p.Quality, m.Quality, equal)
	dropOpt(&p.Tags, m.Tags, slices.Equal)
	dropOpt(&p.Attrs, m.Attrs, slices.Equal)
	dropNoop(&p.Notes, m.Notes, equal)
}

// Apply assigns every specified field.
func (p StopPicturePatch) Apply(m *domain.StopPicDynMeta) {
	applyOpt(p.Public, &m.Public)
	applyOpt(p.Sensitive, &m.Sensitive)
	applyField(p.Lon, &m.Lon)
	applyField(p.Lat, &m.Lat)
	applyOpt(p.Quality, &m.Quality)
	if p.Tags != nil {
		m.Tags = slices.Clone(*p.Tags)
	}
	if p.Attrs != nil {
		m.Attrs = slices.Clone(*p.Attrs)
	}
	applyField(p.Notes, &m.Notes)
}

// DeriveStopPicturePatch returns the patch that turns current into proposed.
func DeriveStopPicturePatch(proposed, current domain.StopPicDynMeta) StopPicturePatch {
	return StopPicturePatch{
		Public:    diffValue(proposed.Public, current.Public, equal),
		Sensitive: diffValue(proposed.Sensitive, current.Sensitive, equal),
		Lon:       diffField(proposed.Lon, current.Lon, equal),
		Lat:       diffField(proposed.Lat, current.Lat, equal),
		Quality:   diffValue(proposed.Quality, current.Quality, equal),
		Tags:      diffValue(slices.Clone(proposed.Tags), current.Tags, slices.Equal),
		Attrs:     diffValue(slices.Clone(proposed.Attrs), current.Attrs, slices.Equal),
		Notes:     diffField(proposed.Notes, current.Notes, equal),
	}
}
