// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/foodcycle/foodcycle/category"
	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/middleware"
	"github.com/foodcycle/foodcycle/models"
)

// recsAvailableLimit caps the available-donation snapshot fed into
// recipient recommendations. Wider than the matching snapshot so the
// urgency nudge can see more of the expiring tail.
const recsAvailableLimit = 30

// donorHistoryWindow is how many recent donations feed the personal
// diversification check.
const donorHistoryWindow = 10

// generalDonorRecs pads donor recommendations up to three entries, in
// declared order.
var generalDonorRecs = []models.Recommendation{
	{Type: models.RecGeneral, Message: "Non-perishable items like canned goods and grains are always valuable donations."},
	{Type: models.RecGeneral, Message: "Consider donating fresh produce that has at least 5-7 days before expiration."},
	{Type: models.RecGeneral, Message: "Excess food from events can be donated if properly stored and transported."},
}

type RecommendationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRecommendationHandler(db *sql.DB, cfg cliparse.Config) *RecommendationHandler {
	return &RecommendationHandler{db: db, cfg: cfg}
}

// GetDonorRecommendations handles GET /donors/{id}/recommendations
func (h *RecommendationHandler) GetDonorRecommendations(w http.ResponseWriter, r *http.Request) {
	donorID := r.PathValue("id")

	recs, err := GenerateDonorRecommendations(h.db, donorID, time.Now())
	if err != nil {
		slog.Error("failed to generate donor recommendations", "error", err, "donor_id", donorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, recs)
}

// GetCommunityDonorRecommendations handles GET /recommendations/donors,
// the community-wide variant with no donor history blended in.
func (h *RecommendationHandler) GetCommunityDonorRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := GenerateDonorRecommendations(h.db, "", time.Now())
	if err != nil {
		slog.Error("failed to generate donor recommendations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, recs)
}

// GetRecipientRecommendations handles GET /recipients/{id}/recommendations
func (h *RecommendationHandler) GetRecipientRecommendations(w http.ResponseWriter, r *http.Request) {
	recipientID := r.PathValue("id")

	recs, err := GenerateRecipientRecommendations(h.db, recipientID, time.Now())
	if err != nil {
		slog.Error("failed to generate recipient recommendations", "error", err, "recipient_id", recipientID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, recs)
}

// GetDonorPatterns handles GET /donors/{id}/patterns
func (h *RecommendationHandler) GetDonorPatterns(w http.ResponseWriter, r *http.Request) {
	donorID := r.PathValue("id")

	patterns, err := AnalyzeDonorPatterns(h.db, donorID)
	if err != nil {
		slog.Error("failed to analyze donor patterns", "error", err, "donor_id", donorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, patterns)
}

// GenerateDonorRecommendations blends community supply gaps, shelf-life
// trends, and (when donorID is non-empty) the donor's own history into a
// list of at least three recommendations.
func GenerateDonorRecommendations(db *sql.DB, donorID string, now time.Time) (models.DonorRecommendations, error) {
	needs, err := ComputeCommunityNeeds(db)
	if err != nil {
		return models.DonorRecommendations{}, err
	}
	trends, err := ComputeDonationTrends(db)
	if err != nil {
		return models.DonorRecommendations{}, err
	}

	recommendations := []models.Recommendation{}

	// Top-3 highest-gap categories with a real shortfall.
	topGaps := needs.Gap
	if len(topGaps) > 3 {
		topGaps = topGaps[:3]
	}
	for _, g := range topGaps {
		if g.Gap > 50 {
			recommendations = append(recommendations, models.Recommendation{
				Type:     models.RecNeed,
				Category: g.Category,
				Message:  fmt.Sprintf("The community has a high need for %s. Consider donating these items.", g.Category),
			})
		}
	}

	if shelfLifeSkewed(trends.ShelfLife) {
		recommendations = append(recommendations, models.Recommendation{
			Type:    models.RecShelfLife,
			Message: "Many donations have very short shelf life. Consider donating items that last longer.",
		})
	}

	if donorID != "" {
		if rec, ok, err := diversificationRec(db, donorID, needs.Gap); err != nil {
			return models.DonorRecommendations{}, err
		} else if ok {
			recommendations = append(recommendations, rec)
		}
	}

	if len(recommendations) < 3 {
		recommendations = append(recommendations, generalDonorRecs[:3-len(recommendations)]...)
	}

	return models.DonorRecommendations{
		DonorID:         donorID,
		Recommendations: recommendations,
		CommunityNeeds:  needs.Gap,
		Trends:          trends,
	}, nil
}

// shelfLifeSkewed reports whether very-short-lived donations outnumber
// medium-lived ones.
func shelfLifeSkewed(distribution []models.ShelfLifeCount) bool {
	counts := make(map[string]int, len(distribution))
	for _, d := range distribution {
		counts[d.Band] = d.Count
	}
	return counts[models.ShelfVeryShort] > counts[models.ShelfMedium]
}

// diversificationRec checks whether one category dominates the donor's
// recent donations (>60% of the last 10) while another category has a
// supply gap above 30; if so it recommends the highest-gap alternative.
func diversificationRec(db *sql.DB, donorID string, gaps []models.CategoryGap) (models.Recommendation, bool, error) {
	foods, err := fetchFoodNames(db, `
		SELECT food_name FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, donorID, donorHistoryWindow)
	if err != nil {
		return models.Recommendation{}, false, err
	}
	if len(foods) == 0 {
		return models.Recommendation{}, false, nil
	}

	tally := tallyCategories(foods)
	dominant := tally[0]
	if float64(dominant.Count) <= 0.6*float64(len(foods)) {
		return models.Recommendation{}, false, nil
	}

	for _, g := range gaps {
		if g.Gap > 30 && g.Category != dominant.Category {
			return models.Recommendation{
				Type: models.RecDiversify,
				Message: fmt.Sprintf("You frequently donate %s. Consider diversifying with %s which is in high demand.",
					dominant.Category, g.Category),
			}, true, nil
		}
	}

	return models.Recommendation{}, false, nil
}

// GenerateRecipientRecommendations ranks the available snapshot for the
// recipient, reports preferred categories with no current supply, and
// flags donations expiring within three days.
func GenerateRecipientRecommendations(db *sql.DB, recipientID string, now time.Time) (models.RecipientRecommendations, error) {
	history, err := fetchRecipientHistory(db, recipientID)
	if err != nil {
		return models.RecipientRecommendations{}, err
	}
	prefs := EstimatePreferences(foodRecords(history))

	available, err := fetchAvailableDonations(db, recsAvailableLimit)
	if err != nil {
		return models.RecipientRecommendations{}, err
	}

	recommendations := []models.Recommendation{}

	ranked := RankDonations(available, prefs, now, ModeRecipient)
	if len(ranked) > 0 {
		top := make([]models.Donation, 0, len(ranked))
		for _, sd := range ranked {
			top = append(top, sd.Donation)
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:      models.RecDonations,
			Donations: top,
		})
	}

	if missing := missingPreferences(prefs, available); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, c := range missing {
			names[i] = string(c)
		}
		recommendations = append(recommendations, models.Recommendation{
			Type: models.RecUnavailable,
			Message: fmt.Sprintf("Your preferred food categories (%s) are currently unavailable. Consider alternative options or check back later.",
				strings.Join(names, ", ")),
		})
	}

	if expiring := expiringSoon(available, now); len(expiring) > 0 {
		listed := expiring
		if len(listed) > 3 {
			listed = listed[:3]
		}
		recommendations = append(recommendations, models.Recommendation{
			Type:      models.RecExpiringSoon,
			Message:   fmt.Sprintf("There are %d donations expiring soon. Consider requesting these to prevent food waste.", len(expiring)),
			Donations: listed,
		})
	}

	return models.RecipientRecommendations{
		RecipientID:     recipientID,
		Preferences:     prefs,
		Recommendations: recommendations,
	}, nil
}

// missingPreferences returns the recipient's preferred categories with no
// available donation, in preference scan order.
func missingPreferences(prefs models.PreferenceDistribution, available []models.Donation) []category.Category {
	availableCats := make(map[category.Category]struct{}, len(available))
	for _, d := range available {
		availableCats[category.Categorize(d.FoodName)] = struct{}{}
	}

	var missing []category.Category
	for _, c := range prefs.Order {
		if _, ok := availableCats[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

// expiringSoon filters donations whose expiry falls within three days of
// now, preserving input order.
func expiringSoon(available []models.Donation, now time.Time) []models.Donation {
	var expiring []models.Donation
	for _, d := range available {
		if days, ok := daysUntilExpiry(d.ExpiryDate, now); ok && days <= 3 {
			expiring = append(expiring, d)
		}
	}
	return expiring
}

// AnalyzeDonorPatterns summarizes a donor's history: cadence between
// donations, category distribution, and a predicted next donation date.
func AnalyzeDonorPatterns(db *sql.DB, donorID string) (models.DonorPatterns, error) {
	rows, err := db.Query(`
		SELECT food_name, created_at FROM donations
		WHERE donor_id = $1
		ORDER BY created_at DESC
	`, donorID)
	if err != nil {
		return models.DonorPatterns{}, fmt.Errorf("failed to query donor donations: %w", err)
	}
	defer rows.Close()

	var foods []string
	var dates []time.Time
	for rows.Next() {
		var food string
		var createdAt time.Time
		if err := rows.Scan(&food, &createdAt); err != nil {
			return models.DonorPatterns{}, err
		}
		foods = append(foods, food)
		dates = append(dates, createdAt)
	}
	if err := rows.Err(); err != nil {
		return models.DonorPatterns{}, err
	}

	if len(dates) == 0 {
		return models.DonorPatterns{Message: "No donation history found."}, nil
	}

	avgDays := averageDayGap(dates)

	distribution := tallyCategories(foods)
	patterns := models.DonorPatterns{
		TotalDonations: len(dates),
		MostCommonFood: distribution[0].Category,
		Distribution:   distribution,
		Frequency:      "First donation",
		NextPredicted:  "Unknown",
	}
	if avgDays > 0 {
		patterns.Frequency = fmt.Sprintf("Approximately every %d days", int(math.Round(avgDays)))
		patterns.NextPredicted = dates[0].AddDate(0, 0, int(math.Round(avgDays))).Format("2006-01-02")
	}

	return patterns, nil
}

// averageDayGap returns the mean day difference between consecutive
// donations, dates newest first. Zero when there are fewer than two.
func averageDayGap(dates []time.Time) float64 {
	if len(dates) < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < len(dates)-1; i++ {
		total += dates[i].Sub(dates[i+1]).Hours() / 24
	}
	return total / float64(len(dates)-1)
}

// GenerateDonorSuggestions produces the advisory feedback attached to a
// freshly created donation: current community needs, a diversification
// nudge, an expiring-stock warning, and a predicted next donation date.
func GenerateDonorSuggestions(db *sql.DB, donation models.Donation) ([]models.Recommendation, error) {
	patterns, err := AnalyzeDonorPatterns(db, donation.DonorID)
	if err != nil {
		return nil, err
	}

	suggestions := []models.Recommendation{}
	if patterns.TotalDonations == 0 {
		suggestions = append(suggestions, models.Recommendation{
			Type:    models.SuggestFirstTime,
			Message: "Welcome to FoodCycle! Consider donating non-perishable items for your first donation.",
		})
		return suggestions, nil
	}

	needed, err := fetchPendingNeeds(db)
	if err != nil {
		return nil, err
	}
	if len(needed) > 0 {
		suggestions = append(suggestions, models.Recommendation{
			Type:    models.SuggestCommunityNeeds,
			Message: fmt.Sprintf("The community currently needs: %s", strings.Join(needed, ", ")),
		})
	}

	suggestions = append(suggestions, models.Recommendation{
		Type:     models.SuggestDiversify,
		Category: patterns.MostCommonFood,
		Message: fmt.Sprintf("You've been donating a lot of %s. Consider diversifying with other food categories.",
			patterns.MostCommonFood),
	})

	expiringCount, err := countExpiringWithinWeek(db)
	if err != nil {
		return nil, err
	}
	if expiringCount > 0 {
		suggestions = append(suggestions, models.Recommendation{
			Type:    models.SuggestExpiring,
			Message: fmt.Sprintf("There are %d donations expiring soon. Consider donating items with longer shelf life.", expiringCount),
		})
	}

	if patterns.NextPredicted != "Unknown" {
		suggestions = append(suggestions, models.Recommendation{
			Type:    models.SuggestSchedule,
			Message: fmt.Sprintf("Based on your history, we expect your next donation around %s. Schedule it in advance!", patterns.NextPredicted),
		})
	}

	return suggestions, nil
}

// fetchPendingNeeds returns the five most requested food names among
// pending requests.
func fetchPendingNeeds(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT d.food_name, COUNT(*) FROM requests r
		JOIN donations d ON r.donation_id = d.id
		WHERE r.status = $1
		GROUP BY d.food_name
		ORDER BY COUNT(*) DESC, d.food_name ASC
		LIMIT 5
	`, models.RequestPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var needs []string
	for rows.Next() {
		var food string
		var count int
		if err := rows.Scan(&food, &count); err != nil {
			return nil, err
		}
		needs = append(needs, food)
	}

	return needs, rows.Err()
}

// countExpiringWithinWeek counts available donations whose expiry falls
// within the next seven days. The date comparison runs in Go so the query
// stays portable across both database drivers.
func countExpiringWithinWeek(db *sql.DB) (int, error) {
	rows, err := db.Query(`
		SELECT expiry_date FROM donations
		WHERE status = $1 AND expiry_date IS NOT NULL
	`, models.DonationAvailable)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	now := time.Now()
	count := 0
	for rows.Next() {
		var expiry string
		if err := rows.Scan(&expiry); err != nil {
			return 0, err
		}
		if days, ok := daysUntilExpiry(&expiry, now); ok && days >= 0 && days < 7 {
			count++
		}
	}

	return count, rows.Err()
}
