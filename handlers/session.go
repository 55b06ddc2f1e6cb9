package handlers

import (
	"errors"
	"net/http"

	"voicebook/models"
	"voicebook/services/conversation"
	"voicebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VoiceSessionHandler exposes the conversation controller over HTTP. The
// browser client drives one turn per request; speech capture and
// synthesis stay on the client.
type VoiceSessionHandler struct {
	Controller *conversation.Controller
	Logger     *zap.Logger
}

func NewVoiceSessionHandler(ctrl *conversation.Controller, logger *zap.Logger) *VoiceSessionHandler {
	return &VoiceSessionHandler{Controller: ctrl, Logger: logger}
}

// StartSession creates a session from the submitted contact info and
// returns the greeting plus the candidate slots for the UI buttons.
func (h *VoiceSessionHandler) StartSession(c *gin.Context) {
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid contact info", err.Error())
		return
	}

	sess, err := h.Controller.Start(c.Request.Context(), contact)
	if err != nil {
		h.Logger.Error("failed to start voice session", zap.Error(err))
		utils.JSONError(c, upstreamStatus(err), "failed to start session", err.Error())
		return
	}

	greeting := ""
	if n := len(sess.Turns); n > 0 {
		greeting = sess.Turns[n-1].Text
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId": sess.ID,
		"stage":     sess.Stage,
		"greeting":  greeting,
		"slots":     sess.Slots,
	})
}

// GetSession returns the current projection of a session.
func (h *VoiceSessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.resume(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionId":   sess.ID,
		"stage":       sess.Stage,
		"slots":       sess.Slots,
		"transcript":  sess.Transcript,
		"appointment": sess.Appointment,
	})
}

// PostUtterance runs one conversational turn.
func (h *VoiceSessionHandler) PostUtterance(c *gin.Context) {
	var input struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sess, ok := h.resume(c)
	if !ok {
		return
	}
	result, err := h.Controller.HandleUtterance(c.Request.Context(), sess, input.Text)
	if err != nil {
		h.Logger.Error("turn failed", zap.String("sessionId", sess.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "turn failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// SelectSlot books a slot picked via the UI buttons.
func (h *VoiceSessionHandler) SelectSlot(c *gin.Context) {
	var input struct {
		SlotIndex *int `json:"slotIndex" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sess, ok := h.resume(c)
	if !ok {
		return
	}
	result, err := h.Controller.SelectSlot(c.Request.Context(), sess, *input.SlotIndex)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "slot selection failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// EndSession force-terminates the call from any state.
func (h *VoiceSessionHandler) EndSession(c *gin.Context) {
	sess, ok := h.resume(c)
	if !ok {
		return
	}
	result, err := h.Controller.End(c.Request.Context(), sess)
	if err != nil {
		h.Logger.Error("failed to end session", zap.String("sessionId", sess.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to end session", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *VoiceSessionHandler) resume(c *gin.Context) (*models.Session, bool) {
	sess, err := h.Controller.Resume(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			utils.JSONError(c, http.StatusNotFound, "session not found or expired", "")
		} else {
			utils.JSONError(c, http.StatusInternalServerError, "failed to load session", err.Error())
		}
		return nil, false
	}
	return sess, true
}

func upstreamStatus(err error) int {
	switch {
	case utils.HasCode(err, utils.CodeUpstreamUnavailable):
		return http.StatusBadGateway
	case utils.HasCode(err, utils.CodeConfigurationMissing):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
