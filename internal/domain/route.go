package domain

// Route is a commercial line run by an operator.
type Route struct {
	ID           int32   `json:"id"`
	TypeID       int32   `json:"type_id"`
	OperatorID   int32   `json:"operator_id"`
	Code         *string `json:"code"`
	Name         string  `json:"name"`
	Circular     bool    `json:"circular"`
	Active       bool    `json:"active"`
	MainSubroute *int32  `json:"main_subroute"`
}

// Subroute is one path variant of a Route.
type Subroute struct {
	ID          int32         `json:"id"`
	RouteID     int32         `json:"route_id"`
	Group       int32         `json:"group"`
	Flag        string        `json:"flag"`
	Headsign    string        `json:"headsign"`
	Origin      string        `json:"origin"`
	Destination string        `json:"destination"`
	Via         []SubrouteVia `json:"via"`
	Circular    bool          `json:"circular"`
	Polyline    *string       `json:"polyline"`
}

// SubrouteVia is a named waypoint, optionally bounded by a pair of stop ids.
type SubrouteVia struct {
	Name  string    `json:"name"`
	Stops *[2]int32 `json:"stops"`
}

// Departure is a scheduled trip start on a subroute.
// Time is minutes after midnight.
type Departure struct {
	ID         int32 `json:"id"`
	SubrouteID int32 `json:"subroute_id"`
	Time       int16 `json:"time"`
	CalendarID int32 `json:"calendar_id"`
}
