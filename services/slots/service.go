package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pawpack/models"
	"pawpack/services/grouping"
)

const dateLayout = "2006-01-02"

func (s *DefaultSlotService) Search(ctx context.Context, req SearchRequest) ([]models.RankedSlot, error) {
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidSearch, req.Date)
	}
	if !req.Location.Valid() {
		return nil, fmt.Errorf("%w: invalid location", ErrInvalidSearch)
	}

	dogs, err := s.resolveDogs(ctx, req.DogIDs)
	if err != nil {
		return nil, err
	}

	open, err := s.Repo.ListJoinable(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to list joinable slots: %w", err)
	}
	return s.Searcher.FindCandidateSlots(open, req.Location, dogs, req.Date), nil
}

func (s *DefaultSlotService) GetSlot(ctx context.Context, slotID string) (*models.GroupWalkSlot, error) {
	return s.Repo.GetByID(ctx, slotID)
}

// Join evaluates req against a fresh snapshot and saves the result under the
// snapshot's version. On a version conflict the snapshot is re-read and the
// join re-evaluated, up to MaxRetries times.
//
// Dog attributes come from the directory, never from the request. The booking
// is claimed (pending -> grouped) before the slot is touched and released
// again if the join does not go through.
func (s *DefaultSlotService) Join(ctx context.Context, slotID string, req models.JoinRequest) (*models.GroupWalkSlot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dogs, err := s.resolveDogs(ctx, req.DogIDs)
	if err != nil {
		return nil, err
	}
	req.Dogs = dogs

	claimed, err := s.Bookings.MarkGrouped(ctx, []string{req.BookingID}, slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to claim booking %s: %w", req.BookingID, err)
	}
	if claimed != 1 {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotPending, req.BookingID)
	}

	slot, err := s.join(ctx, slotID, req)
	if err != nil {
		s.release(ctx, req.BookingID, slotID)
		return nil, err
	}
	return slot, nil
}

func (s *DefaultSlotService) join(ctx context.Context, slotID string, req models.JoinRequest) (*models.GroupWalkSlot, error) {
	return s.mutate(ctx, slotID, "join", func(slot models.GroupWalkSlot) (models.GroupWalkSlot, error) {
		out, err := s.Manager.EvaluateJoin(slot, req)
		if err != nil {
			return slot, err
		}
		if !out.Accepted {
			return slot, &RejectionError{SlotID: slot.ID, Reason: out.Reason}
		}
		return grouping.ApplyJoin(slot, out), nil
	})
}

// resolveDogs loads dog attributes from the directory. Unknown ids come back
// as dogs with no attributes set, which no group admits.
func (s *DefaultSlotService) resolveDogs(ctx context.Context, ids []string) ([]models.Dog, error) {
	directory, err := s.Bookings.GetDogs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load dogs: %w", err)
	}
	found, missing := grouping.ResolveDogs(ids, directory)
	if len(missing) > 0 {
		s.Logger.Warn("unknown dogs treated as ineligible", zap.Strings("dogIds", missing))
		for _, id := range missing {
			found = append(found, models.Dog{ID: id})
		}
	}
	return found, nil
}

// release undoes a claim made by Join. It runs even when ctx is done.
func (s *DefaultSlotService) release(ctx context.Context, bookingID, slotID string) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.Bookings.ReleaseGrouped(ctx, []string{bookingID}, slotID); err != nil {
		s.Logger.Error("failed to release booking claim",
			zap.String("bookingId", bookingID),
			zap.String("slotId", slotID),
			zap.Error(err),
		)
	}
}

// Leave removes bookingID from the slot. A slot left empty is cancelled when
// CancelEmpty is set and stays OPEN with no members otherwise.
func (s *DefaultSlotService) Leave(ctx context.Context, slotID, bookingID string) (*models.GroupWalkSlot, error) {
	return s.mutate(ctx, slotID, "leave", func(slot models.GroupWalkSlot) (models.GroupWalkSlot, error) {
		out, err := s.Manager.EvaluateLeave(slot, bookingID)
		if err != nil {
			return slot, err
		}
		next := grouping.ApplyLeave(slot, bookingID, out)
		if out.ShouldCancel && s.CancelEmpty {
			next.Status = models.SlotCancelled
		}
		return next, nil
	})
}

// mutate runs the read, evaluate, conditional-write loop shared by Join and Leave.
func (s *DefaultSlotService) mutate(ctx context.Context, slotID, op string, apply func(models.GroupWalkSlot) (models.GroupWalkSlot, error)) (*models.GroupWalkSlot, error) {
	retries := max(s.MaxRetries, 0)

	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slot, err := s.Repo.GetByID(ctx, slotID)
		if err != nil {
			return nil, err
		}

		next, err := apply(*slot)
		if err != nil {
			return nil, err
		}

		err = s.Repo.SaveMembership(ctx, next, slot.Version)
		if errors.Is(err, ErrVersionConflict) {
			s.Logger.Info("slot version conflict, retrying",
				zap.String("op", op),
				zap.String("slotId", slotID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save %s on slot %s: %w", op, slotID, err)
		}

		next.Version = slot.Version + 1
		s.Logger.Info("slot membership changed",
			zap.String("op", op),
			zap.String("slotId", slotID),
			zap.Int("dogs", next.CurrentDogCount),
			zap.String("status", string(next.Status)),
		)
		return &next, nil
	}
	return nil, fmt.Errorf("%s on slot %s gave up after %d attempts: %w", op, slotID, retries+1, ErrVersionConflict)
}

// CreateFromSuggestion persists an accepted suggestion as a new slot. The walk
// starts at the opening of the shared window and lasts as long as the
// longest member booking. An empty slotID gets a fresh one.
func (s *DefaultSlotService) CreateFromSuggestion(ctx context.Context, slotID string, sg models.GroupSuggestion, walkerID string, capacity int) (*models.GroupWalkSlot, error) {
	if capacity <= 0 {
		capacity = s.DefaultCapacity
	}
	if capacity < sg.DogCount {
		return nil, fmt.Errorf("%w: capacity %d, dogs %d", ErrInvalidCapacity, capacity, sg.DogCount)
	}

	var longest int
	members := make([]models.SlotMember, 0, len(sg.Members))
	for _, c := range sg.Members {
		longest = max(longest, c.DurationMinutes)
		members = append(members, models.SlotMember{
			BookingID:    c.ID,
			CustomerID:   c.CustomerID,
			Location:     c.Location,
			DogIDs:       append([]string(nil), c.DogIDs...),
			DogCount:     c.DogCount,
			DesiredStart: c.DesiredStart,
		})
	}

	status := models.SlotOpen
	if sg.DogCount >= capacity {
		status = models.SlotFull
	}
	if slotID == "" {
		slotID = uuid.New().String()
	}
	slot := models.GroupWalkSlot{
		ID:               slotID,
		WalkerID:         walkerID,
		Date:             sg.Date,
		StartTime:        sg.WindowStart,
		EndTime:          sg.WindowStart.Add(time.Duration(longest) * time.Minute),
		WindowStart:      sg.WindowStart,
		WindowEnd:        sg.WindowEnd,
		Capacity:         capacity,
		CurrentDogCount:  sg.DogCount,
		Status:           status,
		Center:           sg.Centroid,
		RadiusMeters:     sg.RadiusMeters,
		AcceptedByWalker: walkerID != "",
		Members:          members,
	}

	id, err := s.Repo.Create(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to create slot from suggestion %s: %w", sg.ID, err)
	}
	slot.ID = id

	s.Logger.Info("slot created from suggestion",
		zap.String("slotId", id),
		zap.String("suggestionId", sg.ID),
		zap.Int("members", len(members)),
		zap.Int("dogs", sg.DogCount),
	)
	return &slot, nil
}

// Transition moves the slot along the walker workflow.
func (s *DefaultSlotService) Transition(ctx context.Context, slotID string, to models.SlotStatus) (*models.GroupWalkSlot, error) {
	slot, err := s.Repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(slot.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, slot.Status, to)
	}
	switch {
	case to == models.SlotOpen && slot.RemainingCapacity() <= 0:
		return nil, fmt.Errorf("%w: slot %s has no room to reopen", ErrInvalidTransition, slotID)
	case to == models.SlotFull && slot.RemainingCapacity() > 0:
		return nil, fmt.Errorf("%w: slot %s still has room for %d dogs", ErrInvalidTransition, slotID, slot.RemainingCapacity())
	}

	if err := s.Repo.UpdateStatus(ctx, slotID, slot.Status, to, slot.Version); err != nil {
		return nil, err
	}

	s.Logger.Info("slot status changed",
		zap.String("slotId", slotID),
		zap.String("from", string(slot.Status)),
		zap.String("to", string(to)),
	)
	slot.Status = to
	slot.Version++
	return slot, nil
}
