package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawpack/services/formation"
	"pawpack/services/grouping"
	"pawpack/services/slots"
	"pawpack/utils"
)

// writeServiceError maps service and engine errors onto HTTP responses.
// Join rejections carry their reason code with 409.
func writeServiceError(c *gin.Context, err error) {
	if rej, ok := slots.AsRejection(err); ok {
		utils.JSONCodeError(c, http.StatusConflict, string(rej.Reason), "Join rejected")
		return
	}

	var gerr *grouping.GroupingError
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case grouping.CodeInvalidInput:
			utils.JSONCodeError(c, http.StatusBadRequest, gerr.Code, gerr.Message)
		case grouping.CodeMemberNotFound:
			utils.JSONCodeError(c, http.StatusNotFound, gerr.Code, gerr.Message)
		case grouping.CodeSlotNotJoinable:
			utils.JSONCodeError(c, http.StatusConflict, gerr.Code, gerr.Message)
		default:
			utils.JSONCodeError(c, http.StatusInternalServerError, gerr.Code, gerr.Message)
		}
		return
	}

	switch {
	case errors.Is(err, slots.ErrSlotNotFound):
		utils.JSONError(c, http.StatusNotFound, "Slot not found", err.Error())
	case errors.Is(err, formation.ErrSuggestionNotFound), errors.Is(err, formation.ErrNoReport):
		utils.JSONError(c, http.StatusNotFound, "Suggestion not found", err.Error())
	case errors.Is(err, slots.ErrVersionConflict):
		utils.JSONCodeError(c, http.StatusConflict, "VERSION_CONFLICT", "Slot is busy, try again")
	case errors.Is(err, slots.ErrBookingNotPending):
		utils.JSONCodeError(c, http.StatusConflict, "BOOKING_NOT_PENDING", err.Error())
	case errors.Is(err, formation.ErrSuggestionStale):
		utils.JSONCodeError(c, http.StatusConflict, "SUGGESTION_STALE", err.Error())
	case errors.Is(err, slots.ErrInvalidTransition):
		utils.JSONCodeError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, slots.ErrInvalidSearch), errors.Is(err, slots.ErrInvalidCapacity):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		utils.GetLogger().Error("unexpected service error", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
