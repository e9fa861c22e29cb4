package grouping

import (
	"time"

	"pawpack/models"
)

// MembershipManager validates joins and leaves against a snapshot of a slot.
// It never persists anything: the caller applies the returned delta under its
// own version check and re-evaluates against a fresh snapshot on conflict.
type MembershipManager struct {
	cfg Config
}

// NewMembershipManager returns a manager enforcing cfg's radius, capacity and window rules.
func NewMembershipManager(cfg Config) *MembershipManager {
	return &MembershipManager{cfg: cfg}
}

// IsJoinable reports whether membership may still change for a slot status.
func IsJoinable(status models.SlotStatus) bool {
	return status == models.SlotOpen || status == models.SlotFull
}

// EvaluateJoin checks, in order: slot status, capacity, dog eligibility,
// distance to the advertised center, the recomputed radius, and the start
// window. A malformed request returns an INVALID_INPUT error; a constraint
// violation returns an outcome carrying the rejection reason.
func (m *MembershipManager) EvaluateJoin(slot models.GroupWalkSlot, req models.JoinRequest) (models.JoinOutcome, error) {
	if err := validateJoinRequest(slot, req); err != nil {
		return models.JoinOutcome{}, err
	}

	reject := func(reason models.RejectionReason) (models.JoinOutcome, error) {
		return models.JoinOutcome{
			Reason:      reason,
			NewCentroid: slot.Center,
			NewRadius:   slot.RadiusMeters,
			NewDogCount: slot.CurrentDogCount,
		}, nil
	}

	if !IsJoinable(slot.Status) {
		return reject(models.RejectSlotNotJoinable)
	}

	newDogCount := slot.CurrentDogCount + len(req.Dogs)
	if newDogCount > slot.Capacity {
		return reject(models.RejectCapacityExceeded)
	}

	if !AreDogSetsCompatible(nil, req.Dogs) {
		return reject(models.RejectIncompatibleDog)
	}

	// Checked against the advertised center so a join cannot drag the
	// service area away from what other members signed up for.
	if len(slot.Members) > 0 && Distance(req.Location, slot.Center) > m.cfg.MaxGroupRadiusMeters {
		return reject(models.RejectOutOfRadius)
	}

	member := models.SlotMember{
		BookingID:    req.BookingID,
		CustomerID:   req.CustomerID,
		Location:     req.Location,
		DogIDs:       dogIDs(req.Dogs),
		DogCount:     len(req.Dogs),
		DesiredStart: req.DesiredStart,
	}
	members := append(cloneMembers(slot.Members), member)
	center, radius := memberGeometry(members)
	if radius > m.cfg.MaxGroupRadiusMeters {
		return reject(models.RejectOutOfRadius)
	}

	windowStart, windowEnd := m.JoinWindow(slot)
	if req.DesiredStart.Before(windowStart) || req.DesiredStart.After(windowEnd) {
		return reject(models.RejectOutsideTimeWindow)
	}

	return models.JoinOutcome{
		Accepted:    true,
		NewCentroid: center,
		NewRadius:   radius,
		NewDogCount: newDogCount,
		BecomesFull: newDogCount == slot.Capacity,
		Member:      member,
	}, nil
}

// EvaluateLeave recomputes the slot geometry without bookingID. When nobody
// remains the outcome signals cancellation; the caller decides.
func (m *MembershipManager) EvaluateLeave(slot models.GroupWalkSlot, bookingID string) (models.LeaveOutcome, error) {
	if !IsJoinable(slot.Status) {
		return models.LeaveOutcome{}, newGroupingError(CodeSlotNotJoinable, "slot %s is %s", slot.ID, slot.Status)
	}
	idx := memberIndex(slot.Members, bookingID)
	if idx < 0 {
		return models.LeaveOutcome{}, newGroupingError(CodeMemberNotFound, "booking %s is not a member of slot %s", bookingID, slot.ID)
	}

	remaining := removeMember(slot.Members, idx)
	newDogCount := slot.CurrentDogCount - slot.Members[idx].DogCount
	if newDogCount < 0 {
		newDogCount = 0
	}

	out := models.LeaveOutcome{
		NewDogCount: newDogCount,
		Reopens:     slot.Status == models.SlotFull && newDogCount < slot.Capacity,
	}
	if len(remaining) == 0 {
		out.NewCentroid = slot.Center
		out.ShouldCancel = true
		return out, nil
	}
	out.NewCentroid, out.NewRadius = memberGeometry(remaining)
	return out, nil
}

// JoinWindow returns the acceptable start window of a slot. Slots created from
// a single booking carry no window and get one centred on their start time.
func (m *MembershipManager) JoinWindow(slot models.GroupWalkSlot) (time.Time, time.Time) {
	if !slot.WindowStart.IsZero() && !slot.WindowEnd.IsZero() {
		return slot.WindowStart, slot.WindowEnd
	}
	half := m.cfg.halfWindow()
	return slot.StartTime.Add(-half), slot.StartTime.Add(half)
}

// ApplyJoin returns a copy of slot with an accepted join applied.
func ApplyJoin(slot models.GroupWalkSlot, out models.JoinOutcome) models.GroupWalkSlot {
	next := slot
	next.Members = append(cloneMembers(slot.Members), out.Member)
	next.Center = out.NewCentroid
	next.RadiusMeters = out.NewRadius
	next.CurrentDogCount = out.NewDogCount
	if out.BecomesFull {
		next.Status = models.SlotFull
	}
	return next
}

// ApplyLeave returns a copy of slot with bookingID removed and the leave outcome applied.
// Cancellation is left to the caller.
func ApplyLeave(slot models.GroupWalkSlot, bookingID string, out models.LeaveOutcome) models.GroupWalkSlot {
	next := slot
	if idx := memberIndex(slot.Members, bookingID); idx >= 0 {
		next.Members = removeMember(slot.Members, idx)
	}
	next.Center = out.NewCentroid
	next.RadiusMeters = out.NewRadius
	next.CurrentDogCount = out.NewDogCount
	if out.Reopens {
		next.Status = models.SlotOpen
	}
	return next
}

func validateJoinRequest(slot models.GroupWalkSlot, req models.JoinRequest) error {
	switch {
	case req.BookingID == "":
		return newGroupingError(CodeInvalidInput, "booking id is empty")
	case len(req.Dogs) == 0:
		return newGroupingError(CodeInvalidInput, "join request carries no dogs")
	case !req.Location.Valid():
		return newGroupingError(CodeInvalidInput, "invalid coordinate lat=%.6f lon=%.6f", req.Location.Lat, req.Location.Lon)
	case req.DesiredStart.IsZero():
		return newGroupingError(CodeInvalidInput, "desired start is not set")
	case memberIndex(slot.Members, req.BookingID) >= 0:
		return newGroupingError(CodeInvalidInput, "booking %s already belongs to slot %s", req.BookingID, slot.ID)
	}
	return nil
}

func memberIndex(members []models.SlotMember, bookingID string) int {
	for i, mb := range members {
		if mb.BookingID == bookingID {
			return i
		}
	}
	return -1
}

func removeMember(members []models.SlotMember, idx int) []models.SlotMember {
	out := make([]models.SlotMember, 0, len(members)-1)
	out = append(out, members[:idx]...)
	return append(out, members[idx+1:]...)
}

func cloneMembers(members []models.SlotMember) []models.SlotMember {
	out := make([]models.SlotMember, len(members), len(members)+1)
	copy(out, members)
	return out
}

func dogIDs(dogs []models.Dog) []string {
	ids := make([]string, len(dogs))
	for i, d := range dogs {
		ids[i] = d.ID
	}
	return ids
}
