package models

import "time"

// GroupSuggestion is a proposed group walk produced by a formation pass.
type GroupSuggestion struct {
	ID                string             `json:"id"`
	MemberIDs         []string           `json:"memberIds"`
	Members           []BookingCandidate `json:"members"`
	Centroid          Coordinate         `json:"centroid"`
	RadiusMeters      float64            `json:"radiusMeters"`
	WindowStart       time.Time          `json:"windowStart"` // earliest acceptable start shared by all members
	WindowEnd         time.Time          `json:"windowEnd"`   // latest acceptable start shared by all members
	DogCount          int                `json:"dogCount"`
	AvgDistanceMeters float64            `json:"avgDistanceMeters"`
	Score             float64            `json:"score"`
	Date              string             `json:"date"` // "YYYY-MM-DD" of WindowStart
}

// UngroupableReason explains why a candidate stayed an individual booking.
type UngroupableReason string

const (
	UngroupableInvalidInput    UngroupableReason = "INVALID_INPUT"
	UngroupableIneligibleDog   UngroupableReason = "INELIGIBLE_DOG"
	UngroupableNoFeasibleGroup UngroupableReason = "NO_FEASIBLE_GROUP"
	UngroupableDeferred        UngroupableReason = "DEFERRED"
)

type UngroupableCandidate struct {
	CandidateID string            `json:"candidateId"`
	Reason      UngroupableReason `json:"reason"`
	Detail      string            `json:"detail,omitempty"`
}

// FormationResult is the output of one engine pass.
type FormationResult struct {
	Suggestions []GroupSuggestion      `json:"suggestions"`
	Ungroupable []UngroupableCandidate `json:"ungroupable"`
	Truncated   bool                   `json:"truncated,omitempty"` // the pass stopped early on context cancellation
}

// FormationReport wraps the merged results of a scheduled or on-demand pass.
type FormationReport struct {
	PassID      string                 `json:"passId"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Regions     int                    `json:"regions"`
	Candidates  int                    `json:"candidates"`
	Suggestions []GroupSuggestion      `json:"suggestions"`
	Ungroupable []UngroupableCandidate `json:"ungroupable"`
	Truncated   bool                   `json:"truncated,omitempty"`
}
