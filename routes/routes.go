package routes

import (
	"net/http"
	"time"

	"voicebook/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers the voice booking session endpoints.
func RegisterVoiceRoutes(r *gin.Engine, h *handlers.VoiceSessionHandler) {
	voice := r.Group("/api/voice")
	{
		voice.POST("/session", h.StartSession)
		voice.GET("/session/:sessionID", h.GetSession)
		voice.POST("/session/:sessionID/utterance", h.PostUtterance)
		voice.POST("/session/:sessionID/select", h.SelectSlot)
		voice.DELETE("/session/:sessionID", h.EndSession)
	}
}

// RegisterAIRoutes registers AI endpoints.
func RegisterAIRoutes(r *gin.Engine, stt *handlers.STTHandler) {
	api := r.Group("/api/ai")
	{
		api.POST("/stt", stt.Transcribe)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Sofia"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, voice *handlers.VoiceSessionHandler, stt *handlers.STTHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterVoiceRoutes(r, voice)
	RegisterAIRoutes(r, stt)
	RegisterHealthRoute(r)
}
