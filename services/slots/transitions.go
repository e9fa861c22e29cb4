package slots

import "pawpack/models"

// transitions lists the walker workflow moves allowed from each status.
// COMPLETED and CANCELLED are terminal.
var transitions = map[models.SlotStatus]map[models.SlotStatus]struct{}{
	models.SlotOpen: {
		models.SlotFull:       {},
		models.SlotInProgress: {},
		models.SlotCancelled:  {},
	},
	models.SlotFull: {
		models.SlotOpen:       {},
		models.SlotInProgress: {},
		models.SlotCancelled:  {},
	},
	models.SlotInProgress: {
		models.SlotCompleted: {},
		models.SlotCancelled: {},
	},
}

// CanTransition reports whether a slot may move from one status to another.
func CanTransition(from, to models.SlotStatus) bool {
	next, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}
