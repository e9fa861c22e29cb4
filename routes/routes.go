package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pawpack/handlers"
	"pawpack/middleware"
)

// RegisterSlotRoutes registers the customer facing slot endpoints.
func RegisterSlotRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/slots")
	{
		api.POST("/search", hb.SearchSlots)
		api.GET("/:id", hb.GetSlot)
		api.POST("/:id/join", hb.JoinSlot)
		api.POST("/:id/leave", hb.LeaveSlot)
	}
}

// RegisterAdminRoutes sets up endpoints for operators and walkers.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware(hb.AdminSecret))
		adminGroup.POST("/formation/run", hb.RunFormation)
		adminGroup.GET("/formation/suggestions", hb.ListSuggestions)
		adminGroup.POST("/formation/suggestions/:id/accept", hb.AcceptSuggestion)
		adminGroup.PATCH("/slots/:id/status", hb.UpdateSlotStatus)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterSlotRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
