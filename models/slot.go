package models

import "time"

// SlotStatus is the lifecycle state of a group walk slot.
type SlotStatus string

const (
	SlotOpen       SlotStatus = "OPEN"
	SlotFull       SlotStatus = "FULL"
	SlotInProgress SlotStatus = "IN_PROGRESS"
	SlotCompleted  SlotStatus = "COMPLETED"
	SlotCancelled  SlotStatus = "CANCELLED"
)

// SlotMember is one booking attached to a group walk slot.
type SlotMember struct {
	BookingID    string     `bson:"bookingId" json:"bookingId"`
	CustomerID   string     `bson:"customerId" json:"customerId"`
	Location     Coordinate `bson:"location" json:"location"`
	DogIDs       []string   `bson:"dogIds" json:"dogIds"`
	DogCount     int        `bson:"dogCount" json:"dogCount"`
	DesiredStart time.Time  `bson:"desiredStart" json:"desiredStart"`
}

// GroupWalkSlot is a persisted, walker-assignable group walk.
type GroupWalkSlot struct {
	ID               string       `bson:"id" json:"id"`
	WalkerID         string       `bson:"walkerId,omitempty" json:"walkerId,omitempty"`
	Date             string       `bson:"date" json:"date"` // e.g., "2025-02-25"
	StartTime        time.Time    `bson:"startTime" json:"startTime"`
	EndTime          time.Time    `bson:"endTime" json:"endTime"`
	WindowStart      time.Time    `bson:"windowStart,omitempty" json:"windowStart,omitempty"` // zero for slots created from a single booking
	WindowEnd        time.Time    `bson:"windowEnd,omitempty" json:"windowEnd,omitempty"`
	Capacity         int          `bson:"capacity" json:"capacity"` // max dogs
	CurrentDogCount  int          `bson:"currentDogCount" json:"currentDogCount"`
	Status           SlotStatus   `bson:"status" json:"status"`
	Center           Coordinate   `bson:"center" json:"center"`
	RadiusMeters     float64      `bson:"radiusMeters" json:"radiusMeters"`
	AcceptedByWalker bool         `bson:"acceptedByWalker" json:"acceptedByWalker"`
	Members          []SlotMember `bson:"members" json:"members"`
	Version          int          `bson:"version" json:"version"`
	CreatedAt        time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// RemainingCapacity returns the number of dogs the slot can still take.
func (s GroupWalkSlot) RemainingCapacity() int {
	return s.Capacity - s.CurrentDogCount
}

// RankedSlot is a join candidate slot returned by slot search.
type RankedSlot struct {
	Slot               GroupWalkSlot `json:"slot"`
	DistanceMeters     float64       `json:"distanceMeters"`
	RemainingAfterJoin int           `json:"remainingAfterJoin"`
	FitScore           float64       `json:"fitScore"`
}
