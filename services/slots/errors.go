package slots

import (
	"errors"
	"fmt"

	slotRepo "pawpack/database/repository/slot"
	"pawpack/models"
)

var (
	ErrSlotNotFound      = slotRepo.ErrSlotNotFound
	ErrVersionConflict   = slotRepo.ErrVersionConflict
	ErrInvalidTransition = errors.New("invalid slot status transition")
	ErrInvalidCapacity   = errors.New("capacity cannot hold the suggested group")
	ErrInvalidSearch     = errors.New("invalid slot search")
	ErrBookingNotPending = errors.New("booking is not pending")
)

// RejectionError reports a join that violated a slot constraint.
type RejectionError struct {
	SlotID string
	Reason models.RejectionReason
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("join rejected for slot %s: %s", e.SlotID, e.Reason)
}

// AsRejection extracts the rejection from err, if any.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	ok := errors.As(err, &rej)
	return rej, ok
}
