package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawpack/services/formation"
	"pawpack/utils"
)

type FormationHandler struct {
	Service formation.FormationService
}

func NewFormationHandler(service formation.FormationService) *FormationHandler {
	return &FormationHandler{Service: service}
}

// RunFormation runs a pass on demand. The body may pin the clock with
// {"now": RFC3339}; an empty body uses the current time.
func (h *FormationHandler) RunFormation(c *gin.Context) {
	var body struct {
		Now *time.Time `json:"now"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
			return
		}
	}
	now := time.Now().UTC()
	if body.Now != nil {
		now = *body.Now
	}

	report, err := h.Service.RunPass(c.Request.Context(), now)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.GetLogger().Info("manual formation pass",
		zap.String("adminId", c.GetString("adminID")),
		zap.String("passId", report.PassID),
	)
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *FormationHandler) ListSuggestions(c *gin.Context) {
	report, err := h.Service.Latest(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// AcceptSuggestion creates a slot from a cached suggestion.
func (h *FormationHandler) AcceptSuggestion(c *gin.Context) {
	var body struct {
		WalkerID string `json:"walkerId"`
		Capacity int    `json:"capacity"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
			return
		}
	}

	slot, err := h.Service.Accept(c.Request.Context(), c.Param("id"), body.WalkerID, body.Capacity)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Group walk created", "slot": slot})
}
