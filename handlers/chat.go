package handlers

import (
	"net/http"

	"astraguru/utils"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessageHandler gates a consultation question on the credit balance and
// appends it to the transcript.
func (hb *HandlerBundle) SendMessageHandler(c *gin.Context) {
	userID := currentUserID(c)

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid message payload", err.Error())
		return
	}

	result, err := hb.Chat.Send(c.Request.Context(), userID, req.Text)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// TranscriptHandler returns the local transcript.
func (hb *HandlerBundle) TranscriptHandler(c *gin.Context) {
	userID := currentUserID(c)
	messages, err := hb.Chat.History(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

type draftRequest struct {
	Text string `json:"text"`
}

// SaveDraftHandler persists the draft-message text so it survives reloads.
func (hb *HandlerBundle) SaveDraftHandler(c *gin.Context) {
	userID := currentUserID(c)

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid draft payload", err.Error())
		return
	}
	if err := hb.Sessions.SetDraft(c.Request.Context(), userID, req.Text); err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DraftHandler returns the persisted draft text.
func (hb *HandlerBundle) DraftHandler(c *gin.Context) {
	userID := currentUserID(c)
	text, err := hb.Sessions.Draft(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, userID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "text": text})
}
