package models

import "time"

// BookingCandidate is an individually booked walk that has not been grouped yet.
type BookingCandidate struct {
	ID              string     `bson:"id" json:"id"`
	CustomerID      string     `bson:"customerId" json:"customerId"`
	AddressID       string     `bson:"addressId" json:"addressId"`
	Location        Coordinate `bson:"location" json:"location"`
	DesiredStart    time.Time  `bson:"desiredStart" json:"desiredStart"`
	DurationMinutes int        `bson:"durationMinutes" json:"durationMinutes"`
	DogIDs          []string   `bson:"dogIds" json:"dogIds"`
	DogCount        int        `bson:"dogCount" json:"dogCount"`
	PostalCode      string     `bson:"postalCode" json:"postalCode"`
	Status          string     `bson:"status,omitempty" json:"status,omitempty"` // "pending" until grouped
	SlotID          string     `bson:"slotId,omitempty" json:"slotId,omitempty"`
}

const (
	CandidateStatusPending = "pending"
	CandidateStatusGrouped = "grouped"
)
