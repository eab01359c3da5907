// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/middleware"
	"github.com/foodcycle/foodcycle/models"
)

type MessageHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMessageHandler(db *sql.DB, cfg cliparse.Config) *MessageHandler {
	return &MessageHandler{db: db, cfg: cfg}
}

// SendMessage handles POST /messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.SenderID = strings.TrimSpace(req.SenderID)
	req.RecipientID = strings.TrimSpace(req.RecipientID)
	if req.SenderID == "" || req.RecipientID == "" || strings.TrimSpace(req.Message) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sender_id, recipient_id, and message are required")
		return
	}

	messageID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO messages (id, sender_id, recipient_id, message)
		VALUES ($1, $2, $3, $4)
	`, messageID, req.SenderID, req.RecipientID, req.Message)
	if err != nil {
		slog.Error("failed to insert message", "error", err, "sender_id", req.SenderID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("message sent", "message_id", messageID)
	middleware.JSONResponse(w, http.StatusCreated, models.SendMessageResponse{MessageID: messageID})
}

// ListMessages handles GET /users/{id}/messages, returning messages the
// user sent or received, newest first.
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	rows, err := h.db.Query(`
		SELECT id, sender_id, recipient_id, message, read, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		slog.Error("failed to query messages", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			slog.Error("failed to scan message", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate messages", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, messages)
}
