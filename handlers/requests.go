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

type RequestHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRequestHandler(db *sql.DB, cfg cliparse.Config) *RequestHandler {
	return &RequestHandler{db: db, cfg: cfg}
}

// CreateRequest handles POST /requests
//
// Creating a request reserves the donation in the same transaction. The
// status transition is a conditional UPDATE guarded on 'available', so
// when two recipients race for the same donation exactly one wins; the
// loser's UPDATE affects zero rows and the whole transaction rolls back.
//
// The UPDATE is the first statement of the transaction. Opening with a
// read would start SQLite in a deferred read transaction that cannot
// upgrade while the winner holds the write lock, turning the loser's
// outcome into SQLITE_BUSY instead of zero rows. Leading with the write
// lets busy_timeout serialize the racers; the 404-vs-409 distinction is
// resolved after the reserve fails.
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.RecipientID = strings.TrimSpace(req.RecipientID)
	req.DonationID = strings.TrimSpace(req.DonationID)
	if req.RecipientID == "" || req.DonationID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipient_id and donation_id are required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE donations SET status = $1 WHERE id = $2 AND status = $3
	`, models.DonationReserved, req.DonationID, models.DonationAvailable)
	if err != nil {
		slog.Error("failed to reserve donation", "error", err, "donation_id", req.DonationID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		tx.Rollback()

		var exists bool
		err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM donations WHERE id = $1)`, req.DonationID).Scan(&exists)
		if err != nil {
			slog.Error("failed to check donation", "error", err, "donation_id", req.DonationID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !exists {
			middleware.ErrorResponse(w, http.StatusNotFound, "Donation not found")
			return
		}
		middleware.ErrorResponse(w, http.StatusConflict, "Donation is no longer available")
		return
	}

	requestID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO requests (id, recipient_id, donation_id, status)
		VALUES ($1, $2, $3, $4)
	`, requestID, req.RecipientID, req.DonationID, models.RequestPending)
	if err != nil {
		slog.Error("failed to insert request", "error", err, "recipient_id", req.RecipientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("request created", "request_id", requestID, "donation_id", req.DonationID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateRequestResponse{
		RequestID: requestID,
		Status:    "success",
		Message:   "Request created successfully.",
	})
}

// ListRecipientRequests handles GET /users/{id}/requests
func (h *RequestHandler) ListRecipientRequests(w http.ResponseWriter, r *http.Request) {
	recipientID := r.PathValue("id")

	history, err := fetchRecipientHistory(h.db, recipientID)
	if err != nil {
		slog.Error("failed to fetch requests", "error", err, "recipient_id", recipientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}
