// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/middleware"
	"github.com/foodcycle/foodcycle/models"
	"github.com/foodcycle/foodcycle/quantity"
)

type DonationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDonationHandler(db *sql.DB, cfg cliparse.Config) *DonationHandler {
	return &DonationHandler{db: db, cfg: cfg}
}

// CreateDonation handles POST /donations
func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDonationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req.DonorID = strings.TrimSpace(req.DonorID)
	req.FoodName = strings.TrimSpace(req.FoodName)
	req.Quantity = strings.TrimSpace(req.Quantity)
	if req.DonorID == "" || req.FoodName == "" || req.Quantity == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "donor_id, food_name, and quantity are required")
		return
	}
	if req.ExpiryDate != nil {
		if _, err := time.Parse("2006-01-02", *req.ExpiryDate); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
			return
		}
	}

	var donorExists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, req.DonorID).Scan(&donorExists)
	if err != nil {
		slog.Error("failed to check donor", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !donorExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Donor not found")
		return
	}

	donation := models.Donation{
		ID:          uuid.NewString(),
		DonorID:     req.DonorID,
		FoodName:    req.FoodName,
		Quantity:    req.Quantity,
		ExpiryDate:  req.ExpiryDate,
		Description: req.Description,
		Location:    req.Location,
		Status:      models.DonationAvailable,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = h.db.Exec(`
		INSERT INTO donations (id, donor_id, food_name, quantity, expiry_date, description, location, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, donation.ID, donation.DonorID, donation.FoodName, donation.Quantity,
		nullableString(donation.ExpiryDate), donation.Description, donation.Location, donation.Status)
	if err != nil {
		slog.Error("failed to insert donation", "error", err, "donor_id", req.DonorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	kg := quantity.EstimateKilograms(donation.Quantity)
	meals := int(kg * mealsPerKg)
	impact := fmt.Sprintf("Your donation of %s could provide roughly %s meals (~%s kg of food).",
		donation.FoodName, humanize.Comma(int64(meals)), humanize.CommafWithDigits(kg, 1))

	suggestions, err := GenerateDonorSuggestions(h.db, donation)
	if err != nil {
		// Suggestions are advisory; the donation itself succeeded.
		slog.Warn("failed to generate donor suggestions", "error", err, "donation_id", donation.ID)
		suggestions = []models.Recommendation{}
	}

	slog.Info("donation created", "donation_id", donation.ID, "food_name", donation.FoodName)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateDonationResponse{
		Donation:        donation,
		Message:         "Donation created successfully. Thank you for sharing!",
		Impact:          impact,
		Recommendations: suggestions,
	})
}

// ListDonations handles GET /donations with an optional ?status= filter.
func (h *DonationHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && status != models.DonationAvailable &&
		status != models.DonationReserved && status != models.DonationCompleted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	query := `
		SELECT d.id, d.donor_id, u.name, d.food_name, d.quantity, d.expiry_date,
			d.description, d.location, d.status, d.created_at
		FROM donations d
		JOIN users u ON d.donor_id = u.id
	`
	var args []interface{}
	if status != "" {
		query += ` WHERE d.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY d.created_at DESC`

	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query donations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	donations, err := scanJoinedDonations(rows)
	if err != nil {
		slog.Error("failed to scan donations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, donations)
}

// GetDonation handles GET /donations/{id}
func (h *DonationHandler) GetDonation(w http.ResponseWriter, r *http.Request) {
	donationID := r.PathValue("id")

	rows, err := h.db.Query(`
		SELECT d.id, d.donor_id, u.name, d.food_name, d.quantity, d.expiry_date,
			d.description, d.location, d.status, d.created_at
		FROM donations d
		JOIN users u ON d.donor_id = u.id
		WHERE d.id = $1
	`, donationID)
	if err != nil {
		slog.Error("failed to query donation", "error", err, "donation_id", donationID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	donations, err := scanJoinedDonations(rows)
	if err != nil {
		slog.Error("failed to scan donation", "error", err, "donation_id", donationID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(donations) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Donation not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, donations[0])
}

// UpdateStatus handles PATCH /donations/{id}
func (h *DonationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	donationID := r.PathValue("id")

	var req models.UpdateDonationStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Status != models.DonationAvailable && req.Status != models.DonationReserved &&
		req.Status != models.DonationCompleted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid status")
		return
	}

	res, err := h.db.Exec(`UPDATE donations SET status = $1 WHERE id = $2`, req.Status, donationID)
	if err != nil {
		slog.Error("failed to update donation", "error", err, "donation_id", donationID)
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
		middleware.ErrorResponse(w, http.StatusNotFound, "Donation not found")
		return
	}

	slog.Info("donation status updated", "donation_id", donationID, "status", req.Status)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"id":     donationID,
		"status": req.Status,
	})
}

// DeleteDonation handles DELETE /donations/{id}
func (h *DonationHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	donationID := r.PathValue("id")

	res, err := h.db.Exec(`DELETE FROM donations WHERE id = $1`, donationID)
	if err != nil {
		slog.Error("failed to delete donation", "error", err, "donation_id", donationID)
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
		middleware.ErrorResponse(w, http.StatusNotFound, "Donation not found")
		return
	}

	slog.Info("donation deleted", "donation_id", donationID)
	w.WriteHeader(http.StatusNoContent)
}

// ListDonorDonations handles GET /users/{id}/donations
func (h *DonationHandler) ListDonorDonations(w http.ResponseWriter, r *http.Request) {
	donorID := r.PathValue("id")

	rows, err := h.db.Query(`
		SELECT d.id, d.donor_id, u.name, d.food_name, d.quantity, d.expiry_date,
			d.description, d.location, d.status, d.created_at
		FROM donations d
		JOIN users u ON d.donor_id = u.id
		WHERE d.donor_id = $1
		ORDER BY d.created_at DESC
	`, donorID)
	if err != nil {
		slog.Error("failed to query donor donations", "error", err, "donor_id", donorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	donations, err := scanJoinedDonations(rows)
	if err != nil {
		slog.Error("failed to scan donor donations", "error", err, "donor_id", donorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, donations)
}

// nullableString converts an optional string to its SQL value.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
