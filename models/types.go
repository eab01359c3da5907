// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/foodcycle/foodcycle/category"
)

// Donation status constants
const (
	DonationAvailable = "available"
	DonationReserved  = "reserved"
	DonationCompleted = "completed"
)

// Request status constants
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// User type constants
const (
	UserDonor     = "donor"
	UserRecipient = "recipient"
)

// Request types

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"`
}

type CreateDonationRequest struct {
	DonorID     string  `json:"donor_id"`
	FoodName    string  `json:"food_name"`
	Quantity    string  `json:"quantity"`
	ExpiryDate  *string `json:"expiry_date,omitempty"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
}

type UpdateDonationStatusRequest struct {
	Status string `json:"status"`
}

type CreateRequestRequest struct {
	RecipientID string `json:"recipient_id"`
	DonationID  string `json:"donation_id"`
}

type SendMessageRequest struct {
	SenderID    string `json:"sender_id"`
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
}

// Response types

type CreateUserResponse struct {
	UserID string `json:"user_id"`
}

type CreateDonationResponse struct {
	Donation        Donation         `json:"donation"`
	Message         string           `json:"message"`
	Impact          string           `json:"impact"`
	Recommendations []Recommendation `json:"recommendations"`
}

type CreateRequestResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

type SendMessageResponse struct {
	MessageID string `json:"message_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	UserType     string    `json:"user_type"`
	CreatedAt    time.Time `json:"created_at"`
}

type Donation struct {
	ID          string    `json:"id"`
	DonorID     string    `json:"donor_id"`
	DonorName   string    `json:"donor_name,omitempty"`
	FoodName    string    `json:"food_name"`
	Quantity    string    `json:"quantity"`
	ExpiryDate  *string   `json:"expiry_date,omitempty"` // YYYY-MM-DD
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Request struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	DonationID  string    `json:"donation_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// RequestRecord is a request joined with its donation's food details, as
// returned by the history accessor.
type RequestRecord struct {
	Request
	FoodName   string  `json:"food_name"`
	Quantity   string  `json:"quantity"`
	ExpiryDate *string `json:"expiry_date,omitempty"`
	DonorName  string  `json:"donor_name,omitempty"`
}

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Matching and preference types

// FoodRecord is the minimal input to preference estimation: a food name and
// the status of the request that referenced it.
type FoodRecord struct {
	FoodName string
	Status   string
}

// PreferenceDistribution is a recipient's category-frequency profile
// derived from request history. It is recomputed on demand and never
// persisted. Percentages are rounded independently and may not sum to
// exactly 100. Order preserves the first-encountered scan order of
// categories and drives most-requested tie-breaking.
type PreferenceDistribution struct {
	Percentages   map[category.Category]int `json:"preferences"`
	Counts        map[category.Category]int `json:"counts,omitempty"`
	Order         []category.Category       `json:"-"`
	MostRequested category.Category         `json:"most_requested,omitempty"`
	TotalRequests int                       `json:"total_requests"`
	Message       string                    `json:"message,omitempty"`
}

// Empty reports whether no qualifying history was available.
func (p PreferenceDistribution) Empty() bool {
	return p.TotalRequests == 0
}

// ScoredDonation pairs a donation with its heuristic match score. The score
// is dimensionless, not a probability.
type ScoredDonation struct {
	Donation Donation `json:"donation"`
	Score    int      `json:"score"`
}

type MatchResult struct {
	Matches     []ScoredDonation       `json:"matches"`
	Preferences PreferenceDistribution `json:"recipient_preferences"`
	Message     string                 `json:"message"`
}

// Insight types

type CategoryCount struct {
	Category category.Category `json:"category"`
	Count    int               `json:"count"`
}

// CategoryGap is the unmet-demand percentage for a category, in [0,100].
// 0 means supply meets or exceeds demand; 100 means demand with no
// matching supply.
type CategoryGap struct {
	Category category.Category `json:"category"`
	Gap      int               `json:"gap"`
}

type FoodRequestCount struct {
	FoodName     string `json:"food_name"`
	RequestCount int    `json:"request_count"`
}

type CommunityNeeds struct {
	MostRequested []FoodRequestCount `json:"most_requested"`
	HighDemand    []CategoryCount    `json:"high_demand_categories"`
	Available     []CategoryCount    `json:"available_categories"`
	Gap           []CategoryGap      `json:"supply_demand_gap"`
}

type DailyCount struct {
	Date  string `json:"donation_date"`
	Count int    `json:"donation_count"`
}

// Shelf-life band labels, from (expiry - created) in days:
// <=3 very_short, <=7 short, <=14 medium, else long.
const (
	ShelfVeryShort = "very_short"
	ShelfShort     = "short"
	ShelfMedium    = "medium"
	ShelfLong      = "long"
)

type ShelfLifeCount struct {
	Band  string `json:"shelf_life"`
	Count int    `json:"count"`
}

type DonationTrends struct {
	DailyTrends    []DailyCount     `json:"daily_trends"`
	FoodCategories []CategoryCount  `json:"food_categories"`
	ShelfLife      []ShelfLifeCount `json:"shelf_life"`
}

type ImpactReport struct {
	TotalDonations      int     `json:"total_donations"`
	EstimatedTotalKg    float64 `json:"estimated_total_kg"`
	EstimatedMeals      int     `json:"estimated_meals_provided"`
	EstimatedCO2Saved   float64 `json:"estimated_co2_saved"`
	EstimatedWaterSaved int     `json:"estimated_water_saved"`
	UniqueDonors        int     `json:"unique_donors"`
	UniqueRecipients    int     `json:"unique_recipients"`
	Summary             string  `json:"summary,omitempty"`
}

type EnvironmentalImpact struct {
	CO2Prevented float64 `json:"co2_prevented"`
	WaterSaved   int     `json:"water_saved"`
}

type WastePrevention struct {
	DonationsSaved        int                 `json:"donations_saved_from_waste"`
	PercentageOfTotal     int                 `json:"percentage_of_total"`
	EstimatedKgSaved      float64             `json:"estimated_kg_saved"`
	Environmental         EnvironmentalImpact `json:"environmental_impact"`
	ShelfLifeDistribution []ShelfLifeCount    `json:"shelf_life_distribution"`
}

type UserActivity struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

type DonorMetrics struct {
	TotalDonors          int            `json:"total_donors"`
	AvgDonationsPerDonor float64        `json:"avg_donations_per_donor"`
	RecurringDonorRate   float64        `json:"recurring_donor_rate"`
	TopDonors            []UserActivity `json:"top_donors"`
}

type RecipientMetrics struct {
	TotalRecipients         int     `json:"total_recipients"`
	AvgRequestsPerRecipient float64 `json:"avg_requests_per_recipient"`
	RecurringRecipientRate  float64 `json:"recurring_recipient_rate"`
}

type CommunicationMetrics struct {
	TotalMessages          int     `json:"total_messages"`
	AvgMessagesPerDonation float64 `json:"avg_messages_per_donation"`
}

type EngagementMetrics struct {
	Donors        DonorMetrics         `json:"donor_metrics"`
	Recipients    RecipientMetrics     `json:"recipient_metrics"`
	Communication CommunicationMetrics `json:"communication_metrics"`
}

type LocationCount struct {
	Location   string  `json:"location"`
	Count      int     `json:"donation_count"`
	Percentage float64 `json:"percentage"`
}

type GeographicInsights struct {
	LocationDistribution []LocationCount `json:"location_distribution"`
	TotalLocations       int             `json:"total_locations"`
	MostActiveLocation   string          `json:"most_active_location"`
}

type ImpactReportBundle struct {
	ReportDate      string             `json:"report_date"`
	OverallImpact   ImpactReport       `json:"overall_impact"`
	UserEngagement  EngagementMetrics  `json:"user_engagement"`
	WastePrevention WastePrevention    `json:"food_waste_prevention"`
	Geographic      GeographicInsights `json:"geographic_insights"`
	Trends          DonationTrends     `json:"donation_trends"`
}

// Donor analysis types

type DonorPatterns struct {
	TotalDonations int               `json:"total_donations"`
	Frequency      string            `json:"donation_frequency,omitempty"`
	MostCommonFood category.Category `json:"most_common_food,omitempty"`
	Distribution   []CategoryCount   `json:"food_distribution,omitempty"`
	NextPredicted  string            `json:"next_predicted_donation,omitempty"`
	Message        string            `json:"message,omitempty"`
}

// Recommendation types

// Recommendation type constants
const (
	RecNeed         = "need"
	RecShelfLife    = "shelf_life"
	RecDiversify    = "diversify"
	RecGeneral      = "general"
	RecDonations    = "recommended_donations"
	RecUnavailable  = "unavailable_preference"
	RecExpiringSoon = "expiring_soon"
)

// Donor suggestion type constants
const (
	SuggestFirstTime      = "first_time"
	SuggestCommunityNeeds = "community_needs"
	SuggestDiversify      = "diversify"
	SuggestExpiring       = "expiring"
	SuggestSchedule       = "schedule"
)

type Recommendation struct {
	Type      string            `json:"type"`
	Category  category.Category `json:"category,omitempty"`
	Message   string            `json:"message,omitempty"`
	Donations []Donation        `json:"donations,omitempty"`
}

type DonorRecommendations struct {
	DonorID         string           `json:"donor_id,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	CommunityNeeds  []CategoryGap    `json:"community_needs"`
	Trends          DonationTrends   `json:"trends"`
}

type RecipientRecommendations struct {
	RecipientID     string                 `json:"recipient_id"`
	Preferences     PreferenceDistribution `json:"preferences"`
	Recommendations []Recommendation       `json:"recommendations"`
}
