package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pawpack/models"
	"pawpack/services/slots"
)

type SlotHandler struct {
	Service slots.SlotService
}

func NewSlotHandler(service slots.SlotService) *SlotHandler {
	return &SlotHandler{Service: service}
}

// SearchSlots lists joinable slots near a customer, nearest first.
func (h *SlotHandler) SearchSlots(c *gin.Context) {
	var req slots.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	ranked, err := h.Service.Search(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": ranked})
}

func (h *SlotHandler) GetSlot(c *gin.Context) {
	slot, err := h.Service.GetSlot(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (h *SlotHandler) JoinSlot(c *gin.Context) {
	var req models.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	slot, err := h.Service.Join(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined group walk", "slot": slot})
}

func (h *SlotHandler) LeaveSlot(c *gin.Context) {
	var body struct {
		BookingID string `json:"bookingId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid bookingId"})
		return
	}

	slot, err := h.Service.Leave(c.Request.Context(), c.Param("id"), body.BookingID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left group walk", "slot": slot})
}

// UpdateSlotStatus moves a slot along the walker workflow.
func (h *SlotHandler) UpdateSlotStatus(c *gin.Context) {
	var body struct {
		Status models.SlotStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid status"})
		return
	}

	slot, err := h.Service.Transition(c.Request.Context(), c.Param("id"), body.Status)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}
