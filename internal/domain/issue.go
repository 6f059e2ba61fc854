package domain

import (
	"encoding/json"
	"time"
)

// Issue is a publicly reported problem or suggestion about the network.
type Issue struct {
	ID                 int32           `json:"id"`
	Title              string          `json:"title"`
	Message            string          `json:"message"`
	Creation           time.Time       `json:"creation"`
	Category           IssueCategory   `json:"category"`
	Impact             int32           `json:"impact"`
	Lat                *float64        `json:"lat"`
	Lon                *float64        `json:"lon"`
	Content            json.RawMessage `json:"content"`
	State              IssueState      `json:"state"`
	StateJustification *string         `json:"state_justification"`
	RegionIDs          []int32         `json:"region_ids"`
	OperatorIDs        []int32         `json:"operator_ids"`
	RouteIDs           []int32         `json:"route_ids"`
	StopIDs            []int32         `json:"stop_ids"`
	PicIDs             []int32         `json:"pic_ids"`
}

// IssueCategory classifies an Issue.
type IssueCategory string

const (
	IssueStopIssue           IssueCategory = "stopissue"
	IssueStopImprovement     IssueCategory = "stopimprovement"
	IssueRouteImprovement    IssueCategory = "routeimprovement"
	IssueScheduleIssue       IssueCategory = "scheduleissue"
	IssueScheduleImprovement IssueCategory = "scheduleimprovement"
	IssueServiceImprovement  IssueCategory = "serviceimprovement"
	IssueGTFS                IssueCategory = "gtfs"
)

// IssueState is the moderation state of an Issue.
type IssueState string

const (
	IssueUnanswered    IssueState = "unanswered"
	IssueWontfix       IssueState = "wontfix"
	IssueFixInProgress IssueState = "fixinprogress"
	IssueFixDone       IssueState = "fixdone"
)

// Abnormality is a temporary change to the network, such as a detour.
type Abnormality struct {
	ID           int32           `json:"id"`
	Summary      string          `json:"summary"`
	Message      string          `json:"message"`
	Creation     time.Time       `json:"creation"`
	FromDatetime *time.Time      `json:"from_datetime"`
	ToDatetime   *time.Time      `json:"to_datetime"`
	Content      json.RawMessage `json:"content"`
	MarkResolved bool            `json:"mark_resolved"`
}
