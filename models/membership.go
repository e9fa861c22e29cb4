package models

import "time"

// RejectionReason is the specific constraint a join request violated.
type RejectionReason string

const (
	RejectCapacityExceeded  RejectionReason = "CAPACITY_EXCEEDED"
	RejectIncompatibleDog   RejectionReason = "INCOMPATIBLE_DOG"
	RejectOutOfRadius       RejectionReason = "OUT_OF_RADIUS"
	RejectOutsideTimeWindow RejectionReason = "OUTSIDE_TIME_WINDOW"
	RejectSlotNotJoinable   RejectionReason = "SLOT_NOT_JOINABLE"
)

// JoinRequest describes a customer asking to attach a booking to an open slot.
// Callers send DogIDs only; Dogs is filled from the dog directory before the
// request is evaluated.
type JoinRequest struct {
	BookingID    string     `json:"bookingId" binding:"required"`
	CustomerID   string     `json:"customerId"`
	Location     Coordinate `json:"location"`
	DesiredStart time.Time  `json:"desiredStart" binding:"required"`
	DogIDs       []string   `json:"dogIds" binding:"required"`
	Dogs         []Dog      `json:"-"`
}

// JoinOutcome is either an accepted delta or a typed rejection.
type JoinOutcome struct {
	Accepted    bool            `json:"accepted"`
	Reason      RejectionReason `json:"reason,omitempty"`
	NewCentroid Coordinate      `json:"newCentroid"`
	NewRadius   float64         `json:"newRadius"`
	NewDogCount int             `json:"newDogCount"`
	BecomesFull bool            `json:"becomesFull"`
	Member      SlotMember      `json:"member"`
}

// LeaveOutcome is the recomputed geometry after a member leaves.
type LeaveOutcome struct {
	NewCentroid  Coordinate `json:"newCentroid"`
	NewRadius    float64    `json:"newRadius"`
	NewDogCount  int        `json:"newDogCount"`
	ShouldCancel bool       `json:"shouldCancel"` // no members remain
	Reopens      bool       `json:"reopens"`      // FULL slot drops below capacity
}
