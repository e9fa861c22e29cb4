// File: pawpack/handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// AdminSecret signs the admin bearer tokens.
	AdminSecret       string
	MaxRequestsPerMin int

	// Slot endpoints
	SearchSlots      gin.HandlerFunc
	GetSlot          gin.HandlerFunc
	JoinSlot         gin.HandlerFunc
	LeaveSlot        gin.HandlerFunc
	UpdateSlotStatus gin.HandlerFunc

	// Formation endpoints
	RunFormation     gin.HandlerFunc
	ListSuggestions  gin.HandlerFunc
	AcceptSuggestion gin.HandlerFunc

	// Health reports backing store status.
	Health gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the service handlers.
func NewHandlerBundle(slotH *SlotHandler, formationH *FormationHandler, adminSecret string, perMin int) *HandlerBundle {
	return &HandlerBundle{
		AdminSecret:       adminSecret,
		MaxRequestsPerMin: perMin,

		SearchSlots:      slotH.SearchSlots,
		GetSlot:          slotH.GetSlot,
		JoinSlot:         slotH.JoinSlot,
		LeaveSlot:        slotH.LeaveSlot,
		UpdateSlotStatus: slotH.UpdateSlotStatus,

		RunFormation:     formationH.RunFormation,
		ListSuggestions:  formationH.ListSuggestions,
		AcceptSuggestion: formationH.AcceptSuggestion,

		Health: HealthHandler,
	}
}
