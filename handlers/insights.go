// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/foodcycle/foodcycle/category"
	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/middleware"
	"github.com/foodcycle/foodcycle/models"
	"github.com/foodcycle/foodcycle/quantity"
)

// Impact factors per kilogram of redistributed food.
const (
	mealsPerKg = 2.5
	co2PerKg   = 2.5
	waterPerKg = 1000
)

// highDemandWindow caps how many recent contested donations feed the
// demand tally.
const highDemandWindow = 20

// trendWindow caps the daily-count series to the most recent dates
// present in the data.
const trendWindow = 30

type InsightsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewInsightsHandler(db *sql.DB, cfg cliparse.Config) *InsightsHandler {
	return &InsightsHandler{db: db, cfg: cfg}
}

// GetImpact handles GET /insights/impact
func (h *InsightsHandler) GetImpact(w http.ResponseWriter, r *http.Request) {
	impact, err := ComputeOverallImpact(h.db)
	if err != nil {
		slog.Error("failed to compute overall impact", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, impact)
}

// GetTrends handles GET /insights/trends
func (h *InsightsHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := ComputeDonationTrends(h.db)
	if err != nil {
		slog.Error("failed to compute donation trends", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, trends)
}

// GetGaps handles GET /insights/gaps
func (h *InsightsHandler) GetGaps(w http.ResponseWriter, r *http.Request) {
	needs, err := ComputeCommunityNeeds(h.db)
	if err != nil {
		slog.Error("failed to compute community needs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, needs)
}

// GetWastePrevention handles GET /insights/waste-prevention
func (h *InsightsHandler) GetWastePrevention(w http.ResponseWriter, r *http.Request) {
	waste, err := ComputeWastePrevention(h.db)
	if err != nil {
		slog.Error("failed to compute waste prevention", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, waste)
}

// GetEngagement handles GET /insights/engagement
func (h *InsightsHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	engagement, err := ComputeEngagementMetrics(h.db)
	if err != nil {
		slog.Error("failed to compute engagement metrics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, engagement)
}

// GetReport handles GET /insights/report
//
// Sections degrade independently: a storage failure in one aggregation is
// logged and leaves that section at its zero value rather than failing the
// whole report.
func (h *InsightsHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	bundle := models.ImpactReportBundle{
		ReportDate: time.Now().Format("2006-01-02"),
	}

	var err error
	if bundle.OverallImpact, err = ComputeOverallImpact(h.db); err != nil {
		slog.Error("report: overall impact failed", "error", err)
	}
	if bundle.UserEngagement, err = ComputeEngagementMetrics(h.db); err != nil {
		slog.Error("report: engagement metrics failed", "error", err)
	}
	if bundle.WastePrevention, err = ComputeWastePrevention(h.db); err != nil {
		slog.Error("report: waste prevention failed", "error", err)
	}
	if bundle.Geographic, err = ComputeGeographicInsights(h.db); err != nil {
		slog.Error("report: geographic insights failed", "error", err)
	}
	if bundle.Trends, err = ComputeDonationTrends(h.db); err != nil {
		slog.Error("report: donation trends failed", "error", err)
	}

	middleware.JSONResponse(w, http.StatusOK, bundle)
}

// ComputeCommunityNeeds derives the current supply/demand picture: the most
// requested foods, the high-demand and available category tallies, and the
// gap between them.
func ComputeCommunityNeeds(db *sql.DB) (models.CommunityNeeds, error) {
	mostRequested, err := fetchMostRequestedFoods(db)
	if err != nil {
		return models.CommunityNeeds{}, fmt.Errorf("failed to fetch most requested foods: %w", err)
	}

	// High demand: completed donations that were requested more than once
	// before being fulfilled, most recent first.
	highDemandFoods, err := fetchFoodNames(db, `
		SELECT food_name FROM donations
		WHERE status = $1
		AND id IN (
			SELECT donation_id FROM requests GROUP BY donation_id
			HAVING COUNT(*) > 1
		)
		ORDER BY created_at DESC
		LIMIT $2
	`, models.DonationCompleted, highDemandWindow)
	if err != nil {
		return models.CommunityNeeds{}, fmt.Errorf("failed to fetch high-demand foods: %w", err)
	}

	availableFoods, err := fetchFoodNames(db, `
		SELECT food_name FROM donations WHERE status = $1
	`, models.DonationAvailable)
	if err != nil {
		return models.CommunityNeeds{}, fmt.Errorf("failed to fetch available foods: %w", err)
	}

	highDemand := tallyCategories(highDemandFoods)
	available := tallyCategories(availableFoods)

	return models.CommunityNeeds{
		MostRequested: mostRequested,
		HighDemand:    highDemand,
		Available:     available,
		Gap:           computeSupplyDemandGap(highDemand, available),
	}, nil
}

// computeSupplyDemandGap computes the unmet-demand percentage per category:
// (demand - min(demand, supply)) / demand * 100, rounded. Categories with
// zero demand are omitted, so division by zero cannot occur. The result is
// sorted by gap descending; ties keep demand-tally order.
func computeSupplyDemandGap(demand, supply []models.CategoryCount) []models.CategoryGap {
	supplyByCat := make(map[category.Category]int, len(supply))
	for _, s := range supply {
		supplyByCat[s.Category] = s.Count
	}

	gaps := []models.CategoryGap{}
	for _, d := range demand {
		if d.Count == 0 {
			continue
		}
		unmet := d.Count - min(d.Count, supplyByCat[d.Category])
		gaps = append(gaps, models.CategoryGap{
			Category: d.Category,
			Gap:      int(math.Round(float64(unmet) / float64(d.Count) * 100)),
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Gap > gaps[j].Gap
	})

	return gaps
}

// ComputeDonationTrends aggregates donation history into daily counts,
// all-time category counts, and the shelf-life distribution.
func ComputeDonationTrends(db *sql.DB) (models.DonationTrends, error) {
	rows, err := db.Query(`SELECT food_name, created_at, expiry_date FROM donations`)
	if err != nil {
		return models.DonationTrends{}, fmt.Errorf("failed to query donations: %w", err)
	}
	defer rows.Close()

	var foods []string
	var created []time.Time
	var shelfPairs []shelfLifePair
	for rows.Next() {
		var food string
		var createdAt time.Time
		var expiry sql.NullString
		if err := rows.Scan(&food, &createdAt, &expiry); err != nil {
			return models.DonationTrends{}, err
		}
		foods = append(foods, food)
		created = append(created, createdAt)
		if expiry.Valid {
			shelfPairs = append(shelfPairs, shelfLifePair{created: createdAt, expiry: expiry.String})
		}
	}
	if err := rows.Err(); err != nil {
		return models.DonationTrends{}, err
	}

	return models.DonationTrends{
		DailyTrends:    dailyCounts(created, trendWindow),
		FoodCategories: tallyCategories(foods),
		ShelfLife:      shelfLifeDistribution(shelfPairs),
	}, nil
}

type shelfLifePair struct {
	created time.Time
	expiry  string // YYYY-MM-DD
}

// shelfLifeBand buckets the (expiry - created) interval. Returns ok=false
// for unparseable expiry text, which callers skip.
func shelfLifeBand(created time.Time, expiry string) (string, bool) {
	expiryDate, err := time.Parse("2006-01-02", expiry)
	if err != nil {
		return "", false
	}

	days := expiryDate.Sub(created).Hours() / 24
	switch {
	case days <= 3:
		return models.ShelfVeryShort, true
	case days <= 7:
		return models.ShelfShort, true
	case days <= 14:
		return models.ShelfMedium, true
	default:
		return models.ShelfLong, true
	}
}

// shelfLifeDistribution tallies shelf-life bands, most common first.
func shelfLifeDistribution(pairs []shelfLifePair) []models.ShelfLifeCount {
	counts := make(map[string]int)
	var order []string
	for _, p := range pairs {
		band, ok := shelfLifeBand(p.created, p.expiry)
		if !ok {
			continue
		}
		if _, seen := counts[band]; !seen {
			order = append(order, band)
		}
		counts[band]++
	}

	distribution := []models.ShelfLifeCount{}
	for _, band := range order {
		distribution = append(distribution, models.ShelfLifeCount{Band: band, Count: counts[band]})
	}
	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Count > distribution[j].Count
	})

	return distribution
}

// dailyCounts groups creation timestamps by calendar date and returns the
// most recent dates present in the data, newest first.
func dailyCounts(created []time.Time, limit int) []models.DailyCount {
	counts := make(map[string]int)
	for _, t := range created {
		counts[t.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(counts))
	for date := range counts {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	if len(dates) > limit {
		dates = dates[:limit]
	}

	daily := []models.DailyCount{}
	for _, date := range dates {
		daily = append(daily, models.DailyCount{Date: date, Count: counts[date]})
	}
	return daily
}

// tallyCategories categorizes each food name and returns per-category
// counts sorted descending; ties keep first-encountered order.
func tallyCategories(foods []string) []models.CategoryCount {
	counts := make(map[category.Category]int)
	var order []category.Category
	for _, food := range foods {
		cat := category.Categorize(food)
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	tally := []models.CategoryCount{}
	for _, cat := range order {
		tally = append(tally, models.CategoryCount{Category: cat, Count: counts[cat]})
	}
	sort.SliceStable(tally, func(i, j int) bool {
		return tally[i].Count > tally[j].Count
	})

	return tally
}

// ComputeOverallImpact normalizes completed-donation quantities to
// kilograms and derives meal, CO2, and water savings estimates.
func ComputeOverallImpact(db *sql.DB) (models.ImpactReport, error) {
	rows, err := db.Query(`
		SELECT donor_id, quantity FROM donations WHERE status = $1
	`, models.DonationCompleted)
	if err != nil {
		return models.ImpactReport{}, fmt.Errorf("failed to query completed donations: %w", err)
	}
	defer rows.Close()

	totalKg := 0.0
	totalDonations := 0
	donors := make(map[string]struct{})
	for rows.Next() {
		var donorID, qty string
		if err := rows.Scan(&donorID, &qty); err != nil {
			return models.ImpactReport{}, err
		}
		totalKg += quantity.EstimateKilograms(qty)
		totalDonations++
		donors[donorID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return models.ImpactReport{}, err
	}

	var uniqueRecipients int
	err = db.QueryRow(`
		SELECT COUNT(DISTINCT recipient_id) FROM requests WHERE status = $1
	`, models.RequestAccepted).Scan(&uniqueRecipients)
	if err != nil {
		return models.ImpactReport{}, fmt.Errorf("failed to count recipients: %w", err)
	}

	meals := int(math.Round(totalKg * mealsPerKg))
	water := int(math.Round(totalKg * waterPerKg))

	return models.ImpactReport{
		TotalDonations:      totalDonations,
		EstimatedTotalKg:    math.Round(totalKg*100) / 100,
		EstimatedMeals:      meals,
		EstimatedCO2Saved:   math.Round(totalKg*co2PerKg*100) / 100,
		EstimatedWaterSaved: water,
		UniqueDonors:        len(donors),
		UniqueRecipients:    uniqueRecipients,
		Summary: fmt.Sprintf(
			"%s completed donations (~%s kg) provided an estimated %s meals and saved %s litres of water.",
			humanize.Comma(int64(totalDonations)),
			humanize.CommafWithDigits(totalKg, 1),
			humanize.Comma(int64(meals)),
			humanize.Comma(int64(water)),
		),
	}, nil
}

// ComputeWastePrevention estimates how much food was saved from waste:
// completed donations whose shelf life was a week or less are considered
// rescues.
func ComputeWastePrevention(db *sql.DB) (models.WastePrevention, error) {
	rows, err := db.Query(`
		SELECT created_at, expiry_date, quantity FROM donations
		WHERE status = $1 AND expiry_date IS NOT NULL
	`, models.DonationCompleted)
	if err != nil {
		return models.WastePrevention{}, fmt.Errorf("failed to query completed donations: %w", err)
	}
	defer rows.Close()

	var pairs []shelfLifePair
	savedKg := 0.0
	saved := 0
	for rows.Next() {
		var createdAt time.Time
		var expiry, qty string
		if err := rows.Scan(&createdAt, &expiry, &qty); err != nil {
			return models.WastePrevention{}, err
		}
		band, ok := shelfLifeBand(createdAt, expiry)
		if !ok {
			continue
		}
		pairs = append(pairs, shelfLifePair{created: createdAt, expiry: expiry})
		if band == models.ShelfVeryShort || band == models.ShelfShort {
			saved++
			savedKg += quantity.EstimateKilograms(qty)
		}
	}
	if err := rows.Err(); err != nil {
		return models.WastePrevention{}, err
	}

	var totalCompleted int
	err = db.QueryRow(`
		SELECT COUNT(*) FROM donations WHERE status = $1
	`, models.DonationCompleted).Scan(&totalCompleted)
	if err != nil {
		return models.WastePrevention{}, fmt.Errorf("failed to count completed donations: %w", err)
	}
	if totalCompleted == 0 {
		totalCompleted = 1 // guard the percentage, zero completions means zero saved anyway
	}

	return models.WastePrevention{
		DonationsSaved:    saved,
		PercentageOfTotal: int(math.Round(float64(saved) / float64(totalCompleted) * 100)),
		EstimatedKgSaved:  math.Round(savedKg*100) / 100,
		Environmental: models.EnvironmentalImpact{
			CO2Prevented: math.Round(savedKg*co2PerKg*100) / 100,
			WaterSaved:   int(math.Round(savedKg * waterPerKg)),
		},
		ShelfLifeDistribution: shelfLifeDistribution(pairs),
	}, nil
}

// ComputeEngagementMetrics summarizes donor, recipient, and messaging
// activity.
func ComputeEngagementMetrics(db *sql.DB) (models.EngagementMetrics, error) {
	donorActivity, err := fetchActivity(db, `
		SELECT donor_id, COUNT(*) FROM donations
		GROUP BY donor_id
		ORDER BY COUNT(*) DESC, donor_id ASC
	`)
	if err != nil {
		return models.EngagementMetrics{}, fmt.Errorf("failed to query donor activity: %w", err)
	}

	recipientActivity, err := fetchActivity(db, `
		SELECT recipient_id, COUNT(*) FROM requests
		GROUP BY recipient_id
		ORDER BY COUNT(*) DESC, recipient_id ASC
	`)
	if err != nil {
		return models.EngagementMetrics{}, fmt.Errorf("failed to query recipient activity: %w", err)
	}

	var messageCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messageCount); err != nil {
		return models.EngagementMetrics{}, fmt.Errorf("failed to count messages: %w", err)
	}

	totalDonations := 0
	recurringDonors := 0
	for _, a := range donorActivity {
		totalDonations += a.Count
		if a.Count > 1 {
			recurringDonors++
		}
	}

	totalRequests := 0
	recurringRecipients := 0
	for _, a := range recipientActivity {
		totalRequests += a.Count
		if a.Count > 1 {
			recurringRecipients++
		}
	}

	topDonors := donorActivity
	if len(topDonors) > 5 {
		topDonors = topDonors[:5]
	}

	return models.EngagementMetrics{
		Donors: models.DonorMetrics{
			TotalDonors:          len(donorActivity),
			AvgDonationsPerDonor: roundRatio(totalDonations, len(donorActivity)),
			RecurringDonorRate:   roundRate(recurringDonors, len(donorActivity)),
			TopDonors:            topDonors,
		},
		Recipients: models.RecipientMetrics{
			TotalRecipients:         len(recipientActivity),
			AvgRequestsPerRecipient: roundRatio(totalRequests, len(recipientActivity)),
			RecurringRecipientRate:  roundRate(recurringRecipients, len(recipientActivity)),
		},
		Communication: models.CommunicationMetrics{
			TotalMessages:          messageCount,
			AvgMessagesPerDonation: roundRatio(messageCount, totalDonations),
		},
	}, nil
}

// ComputeGeographicInsights summarizes where donations come from.
func ComputeGeographicInsights(db *sql.DB) (models.GeographicInsights, error) {
	rows, err := db.Query(`
		SELECT location, COUNT(*) FROM donations
		WHERE location IS NOT NULL AND location != ''
		GROUP BY location
		ORDER BY COUNT(*) DESC, location ASC
	`)
	if err != nil {
		return models.GeographicInsights{}, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locations := []models.LocationCount{}
	total := 0
	for rows.Next() {
		var lc models.LocationCount
		if err := rows.Scan(&lc.Location, &lc.Count); err != nil {
			return models.GeographicInsights{}, err
		}
		locations = append(locations, lc)
		total += lc.Count
	}
	if err := rows.Err(); err != nil {
		return models.GeographicInsights{}, err
	}

	mostActive := "Unknown"
	if len(locations) > 0 {
		mostActive = locations[0].Location
		for i := range locations {
			locations[i].Percentage = math.Round(float64(locations[i].Count)/float64(total)*1000) / 10
		}
	}

	return models.GeographicInsights{
		LocationDistribution: locations,
		TotalLocations:       len(locations),
		MostActiveLocation:   mostActive,
	}, nil
}

// fetchMostRequestedFoods returns the ten most requested food names.
func fetchMostRequestedFoods(db *sql.DB) ([]models.FoodRequestCount, error) {
	rows, err := db.Query(`
		SELECT d.food_name, COUNT(*) FROM requests r
		JOIN donations d ON r.donation_id = d.id
		GROUP BY d.food_name
		ORDER BY COUNT(*) DESC, d.food_name ASC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := []models.FoodRequestCount{}
	for rows.Next() {
		var f models.FoodRequestCount
		if err := rows.Scan(&f.FoodName, &f.RequestCount); err != nil {
			return nil, err
		}
		foods = append(foods, f)
	}

	return foods, rows.Err()
}

// fetchFoodNames runs a single-column food-name query.
func fetchFoodNames(db *sql.DB, query string, args ...interface{}) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var foods []string
	for rows.Next() {
		var food string
		if err := rows.Scan(&food); err != nil {
			return nil, err
		}
		foods = append(foods, food)
	}

	return foods, rows.Err()
}

// fetchActivity runs a (user_id, count) aggregation query.
func fetchActivity(db *sql.DB, query string) ([]models.UserActivity, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := []models.UserActivity{}
	for rows.Next() {
		var a models.UserActivity
		if err := rows.Scan(&a.UserID, &a.Count); err != nil {
			return nil, err
		}
		activity = append(activity, a)
	}

	return activity, rows.Err()
}

func roundRatio(total, n int) float64 {
	if n == 0 {
		n = 1
	}
	return math.Round(float64(total)/float64(n)*100) / 100
}

func roundRate(part, n int) float64 {
	if n == 0 {
		n = 1
	}
	return math.Round(float64(part)/float64(n)*1000) / 10
}
