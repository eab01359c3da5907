// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/middleware"
	"github.com/foodcycle/foodcycle/models"
)

// matchingAvailableLimit bounds the availability snapshot fed to the
// general matching path.
const matchingAvailableLimit = 20

type MatchHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMatchHandler(db *sql.DB, cfg cliparse.Config) *MatchHandler {
	return &MatchHandler{db: db, cfg: cfg}
}

// GetPreferences handles GET /recipients/:id/preferences
func (h *MatchHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	recipientID := r.PathValue("id")
	if recipientID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipient id is required")
		return
	}

	history, err := fetchRecipientHistory(h.db, recipientID)
	if err != nil {
		slog.Error("failed to query recipient history", "error", err, "recipient_id", recipientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, EstimatePreferences(foodRecords(history)))
}

// GetMatches handles GET /recipients/:id/matches
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	recipientID := r.PathValue("id")
	if recipientID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "recipient id is required")
		return
	}

	result, err := MatchDonationsForRecipient(h.db, recipientID, time.Now())
	if err != nil {
		slog.Error("failed to match donations", "error", err, "recipient_id", recipientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// MatchDonationsForRecipient ranks the current availability snapshot
// against the recipient's inferred preferences in general mode.
//
// Empty inputs are not errors: no available donations and no preference
// history each produce a defined empty-state result with an explanatory
// message.
func MatchDonationsForRecipient(db *sql.DB, recipientID string, now time.Time) (models.MatchResult, error) {
	history, err := fetchRecipientHistory(db, recipientID)
	if err != nil {
		return models.MatchResult{}, fmt.Errorf("failed to fetch recipient history: %w", err)
	}
	prefs := EstimatePreferences(foodRecords(history))

	available, err := fetchAvailableDonations(db, matchingAvailableLimit)
	if err != nil {
		return models.MatchResult{}, fmt.Errorf("failed to fetch available donations: %w", err)
	}

	if len(available) == 0 {
		return models.MatchResult{
			Matches:     []models.ScoredDonation{},
			Preferences: prefs,
			Message:     "No available donations at this time.",
		}, nil
	}

	matches := RankDonations(available, prefs, now, ModeGeneral)

	message := fmt.Sprintf("Found %d donations matching your preferences.", len(matches))
	if prefs.Empty() {
		message = "Showing available donations (no preference data available)."
	}

	return models.MatchResult{
		Matches:     matches,
		Preferences: prefs,
		Message:     message,
	}, nil
}
