package grouping

import (
	"sort"

	"pawpack/models"
)

// SlotSearcher ranks open slots a customer could join.
type SlotSearcher struct {
	cfg Config
}

func NewSlotSearcher(cfg Config) *SlotSearcher {
	return &SlotSearcher{cfg: cfg}
}

// FindCandidateSlots keeps slots on date that are joinable, within the group
// radius of at and have room for every dog, provided all dogs are eligible.
// Results are nearest first; ties prefer the slot left fuller after the join.
func (s *SlotSearcher) FindCandidateSlots(openSlots []models.GroupWalkSlot, at models.Coordinate, dogs []models.Dog, date string) []models.RankedSlot {
	ranked := []models.RankedSlot{}
	if len(dogs) == 0 || !AreDogSetsCompatible(nil, dogs) {
		return ranked
	}

	for _, slot := range openSlots {
		if slot.Date != date || !IsJoinable(slot.Status) {
			continue
		}
		remaining := slot.RemainingCapacity()
		if remaining < len(dogs) {
			continue
		}
		dist := Distance(at, slot.Center)
		if dist > s.cfg.MaxGroupRadiusMeters {
			continue
		}
		ranked = append(ranked, models.RankedSlot{
			Slot:               slot,
			DistanceMeters:     dist,
			RemainingAfterJoin: remaining - len(dogs),
			FitScore:           1 - dist/s.cfg.MaxGroupRadiusMeters,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DistanceMeters != ranked[j].DistanceMeters {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		}
		if ranked[i].RemainingAfterJoin != ranked[j].RemainingAfterJoin {
			return ranked[i].RemainingAfterJoin < ranked[j].RemainingAfterJoin
		}
		return ranked[i].Slot.ID < ranked[j].Slot.ID
	})
	return ranked
}
