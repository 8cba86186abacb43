package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"chatterbox/pkg/chat"
	"chatterbox/pkg/history"
	"chatterbox/pkg/logger"
	"chatterbox/pkg/models"
	"chatterbox/pkg/openai"
	"chatterbox/pkg/utils"
	"chatterbox/pkg/validation"
)

// Deps carries the collaborators the chat handlers close over.
type Deps struct {
	Service   *chat.Service
	Store     *history.Store
	MaxMsgLen int
}

// RegisterChat registers HTTP handlers for chat endpoints on r.
func RegisterChat(r *mux.Router, d Deps) {
	r.HandleFunc("/chat/send", d.sendMessage).Methods(http.MethodPost)
	r.HandleFunc("/chat/history", d.getHistory).Methods(http.MethodGet)
	r.HandleFunc("/chat/clear", d.clearHistory).Methods(http.MethodPost)
	r.HandleFunc("/chat/health", d.health).Methods(http.MethodGet)
	r.HandleFunc("/chat/files", d.listFiles).Methods(http.MethodGet)
}

type sendRequest struct {
	Message string `json:"message"`
}

type sendResponse struct {
	Success     bool             `json:"success"`
	UserMessage string           `json:"userMessage"`
	AIResponse  string           `json:"aiResponse"`
	Timestamp   time.Time        `json:"timestamp"`
	ChatHistory []models.Message `json:"chatHistory"`
}

func (d Deps) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateChatMessage(req.Message, d.MaxMsgLen); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid message: "+err.Error())
		return
	}

	userText := validation.Sanitize(req.Message)
	exch, err := d.Service.SendAndRecord(r.Context(), userText)
	if err != nil {
		if errors.Is(err, openai.ErrNotConfigured) {
			utils.JSONError(w, http.StatusServiceUnavailable, "completion service is not configured")
			return
		}
		// RequestError and MalformedResponseError look the same to the
		// caller; the distinction lives in the logs.
		logger.Error("chat_send_failed", "error", err)
		utils.JSONError(w, http.StatusBadGateway, "upstream completion failed")
		return
	}

	_ = utils.JSONWrite(w, http.StatusOK, sendResponse{
		Success:     true,
		UserMessage: exch.UserText,
		AIResponse:  exch.ReplyText,
		Timestamp:   time.Now(),
		ChatHistory: d.Service.History(),
	})
}

func (d Deps) getHistory(w http.ResponseWriter, r *http.Request) {
	msgs := d.Service.History()
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Success  bool             `json:"success"`
		Messages []models.Message `json:"messages"`
		Count    int              `json:"count"`
	}{Success: true, Messages: msgs, Count: len(msgs)})
}

func (d Deps) clearHistory(w http.ResponseWriter, r *http.Request) {
	d.Service.ClearHistory()
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "chat history cleared",
	})
}

func (d Deps) health(w http.ResponseWriter, r *http.Request) {
	_ = utils.JSONWrite(w, http.StatusOK, map[string]any{
		"status":     "healthy",
		"configured": d.Service.IsConfigured(),
		"timestamp":  time.Now(),
	})
}

func (d Deps) listFiles(w http.ResponseWriter, r *http.Request) {
	files := d.Store.ListSavedFiles()
	if files == nil {
		files = []string{}
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Success bool     `json:"success"`
		Files   []string `json:"files"`
	}{Success: true, Files: files})
}
