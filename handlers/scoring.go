// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"math"
	"sort"
	"time"

	"github.com/foodcycle/foodcycle/category"
	"github.com/foodcycle/foodcycle/models"
)

// ScoringMode selects the weighting variant for donation ranking.
type ScoringMode int

const (
	// ModeGeneral weights the base score by the preference percentage for
	// the donation's category. Expiry bonus: 2-7 days left +20, more +10.
	ModeGeneral ScoringMode = iota

	// ModeRecipient weights the base score by 10x the raw preference count.
	// Expiry bonus: 3-10 days left +20, more +10.
	ModeRecipient
)

// maxMatches caps every ranked result list.
const maxMatches = 5

// EstimatePreferences derives a category-frequency distribution from a
// recipient's request history. Rejected requests are excluded. Accumulation
// is insertion-ordered so that most-requested ties resolve to the category
// encountered first in the scan.
func EstimatePreferences(records []models.FoodRecord) models.PreferenceDistribution {
	counts := make(map[category.Category]int)
	var order []category.Category
	total := 0

	for _, rec := range records {
		if rec.Status == models.RequestRejected {
			continue
		}
		cat := category.Categorize(rec.FoodName)
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
		total++
	}

	if total == 0 {
		return models.PreferenceDistribution{
			Percentages: map[category.Category]int{},
			Counts:      map[category.Category]int{},
			Message:     "No preference data available.",
		}
	}

	// Each percentage rounds independently, so the sum may drift from 100.
	percentages := make(map[category.Category]int, len(counts))
	for cat, n := range counts {
		percentages[cat] = int(math.Round(float64(n) / float64(total) * 100))
	}

	mostRequested := order[0]
	for _, cat := range order[1:] {
		if counts[cat] > counts[mostRequested] {
			mostRequested = cat
		}
	}

	return models.PreferenceDistribution{
		Percentages:   percentages,
		Counts:        counts,
		Order:         order,
		MostRequested: mostRequested,
		TotalRequests: total,
	}
}

// RankDonations scores the available donations against the preference
// distribution and returns up to five, highest score first. The sort is
// stable: equal scores keep the order of the input slice, which the
// availability accessor supplies as expiry-ascending (nulls last) then
// newest first.
//
// With an empty distribution the first five donations are returned
// unscored.
func RankDonations(available []models.Donation, prefs models.PreferenceDistribution, now time.Time, mode ScoringMode) []models.ScoredDonation {
	if len(available) == 0 {
		return nil
	}

	scored := make([]models.ScoredDonation, 0, len(available))

	if prefs.Empty() {
		for _, d := range available {
			scored = append(scored, models.ScoredDonation{Donation: d})
		}
	} else {
		for _, d := range available {
			scored = append(scored, models.ScoredDonation{
				Donation: d,
				Score:    scoreDonation(d, prefs, now, mode),
			})
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
	}

	if len(scored) > maxMatches {
		scored = scored[:maxMatches]
	}
	return scored
}

// scoreDonation computes base preference weight plus expiry bonus.
func scoreDonation(d models.Donation, prefs models.PreferenceDistribution, now time.Time, mode ScoringMode) int {
	cat := category.Categorize(d.FoodName)

	score := 0
	switch mode {
	case ModeRecipient:
		score = prefs.Counts[cat] * 10
	default:
		score = prefs.Percentages[cat]
	}

	return score + expiryBonus(d.ExpiryDate, now, mode)
}

// expiryBonus applies the banded urgency bonus. Missing or unparseable
// expiry dates earn no bonus; they are a data-quality condition, not an
// error.
func expiryBonus(expiry *string, now time.Time, mode ScoringMode) int {
	daysLeft, ok := daysUntilExpiry(expiry, now)
	if !ok {
		return 0
	}

	switch mode {
	case ModeRecipient:
		if daysLeft >= 3 && daysLeft <= 10 {
			return 20
		}
		if daysLeft > 10 {
			return 10
		}
	default:
		if daysLeft >= 2 && daysLeft <= 7 {
			return 20
		}
		if daysLeft > 7 {
			return 10
		}
	}
	return 0
}

// daysUntilExpiry returns the calendar-day distance from now to the expiry
// date. Comparison is date-only; the time-of-day of now is discarded.
func daysUntilExpiry(expiry *string, now time.Time) (int, bool) {
	if expiry == nil || *expiry == "" {
		return 0, false
	}

	expiryDate, err := time.Parse("2006-01-02", *expiry)
	if err != nil {
		return 0, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiryDate.Sub(today).Hours() / 24), true
}

// Storage accessors shared by the matching and recommendation paths.

// fetchAvailableDonations returns available donations ordered soonest
// expiry first (missing expiry dates last), then newest first. This
// ordering is the input contract of RankDonations.
func fetchAvailableDonations(db *sql.DB, limit int) ([]models.Donation, error) {
	rows, err := db.Query(`
		SELECT d.id, d.donor_id, u.name, d.food_name, d.quantity, d.expiry_date,
		       d.description, d.location, d.status, d.created_at
		FROM donations d
		JOIN users u ON d.donor_id = u.id
		WHERE d.status = $1
		ORDER BY
			CASE WHEN d.expiry_date IS NULL THEN '9999-12-31' ELSE d.expiry_date END ASC,
			d.created_at DESC
		LIMIT $2
	`, models.DonationAvailable, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJoinedDonations(rows)
}

// fetchRecipientHistory returns the recipient's requests joined with food
// details, newest first.
func fetchRecipientHistory(db *sql.DB, recipientID string) ([]models.RequestRecord, error) {
	rows, err := db.Query(`
		SELECT r.id, r.recipient_id, r.donation_id, r.status, r.created_at,
		       d.food_name, d.quantity, d.expiry_date, u.name
		FROM requests r
		JOIN donations d ON r.donation_id = d.id
		JOIN users u ON d.donor_id = u.id
		WHERE r.recipient_id = $1
		ORDER BY r.created_at DESC
	`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.RequestRecord{}
	for rows.Next() {
		var rec models.RequestRecord
		var expiry sql.NullString
		if err := rows.Scan(
			&rec.ID, &rec.RecipientID, &rec.DonationID, &rec.Status, &rec.CreatedAt,
			&rec.FoodName, &rec.Quantity, &expiry, &rec.DonorName,
		); err != nil {
			return nil, err
		}
		if expiry.Valid {
			rec.ExpiryDate = &expiry.String
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// foodRecords projects a request history onto the preference-estimation
// input shape.
func foodRecords(history []models.RequestRecord) []models.FoodRecord {
	records := make([]models.FoodRecord, len(history))
	for i, h := range history {
		records[i] = models.FoodRecord{FoodName: h.FoodName, Status: h.Status}
	}
	return records
}

// scanJoinedDonations scans rows shaped like the donation+donor-name
// accessor queries.
func scanJoinedDonations(rows *sql.Rows) ([]models.Donation, error) {
	donations := []models.Donation{}
	for rows.Next() {
		var d models.Donation
		var expiry, description, location sql.NullString
		if err := rows.Scan(
			&d.ID, &d.DonorID, &d.DonorName, &d.FoodName, &d.Quantity,
			&expiry, &description, &location, &d.Status, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		if expiry.Valid {
			d.ExpiryDate = &expiry.String
		}
		d.Description = description.String
		d.Location = location.String
		donations = append(donations, d)
	}

	return donations, rows.Err()
}
