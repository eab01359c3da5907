// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/handlers"
	"github.com/foodcycle/foodcycle/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg)
	donationHandler := handlers.NewDonationHandler(db, cfg)
	requestHandler := handlers.NewRequestHandler(db, cfg)
	matchHandler := handlers.NewMatchHandler(db, cfg)
	insightsHandler := handlers.NewInsightsHandler(db, cfg)
	recHandler := handlers.NewRecommendationHandler(db, cfg)
	messageHandler := handlers.NewMessageHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Users
	mux.HandleFunc("POST /users", middleware.WithLogging(userHandler.CreateUser))
	mux.HandleFunc("GET /users/{id}", middleware.WithLogging(userHandler.GetUser))

	// Donation lifecycle
	mux.HandleFunc("POST /donations", middleware.WithLogging(donationHandler.CreateDonation))
	mux.HandleFunc("GET /donations", middleware.WithLogging(donationHandler.ListDonations))
	mux.HandleFunc("GET /donations/{id}", middleware.WithLogging(donationHandler.GetDonation))
	mux.HandleFunc("PATCH /donations/{id}", middleware.WithLogging(donationHandler.UpdateStatus))
	mux.HandleFunc("DELETE /donations/{id}", middleware.WithLogging(donationHandler.DeleteDonation))
	mux.HandleFunc("GET /users/{id}/donations", middleware.WithLogging(donationHandler.ListDonorDonations))

	// Requests (recipient claims)
	mux.HandleFunc("POST /requests", middleware.WithLogging(requestHandler.CreateRequest))
	mux.HandleFunc("GET /users/{id}/requests", middleware.WithLogging(requestHandler.ListRecipientRequests))

	// Matching and preferences
	mux.HandleFunc("GET /recipients/{id}/preferences", middleware.WithLogging(matchHandler.GetPreferences))
	mux.HandleFunc("GET /recipients/{id}/matches", middleware.WithLogging(matchHandler.GetMatches))

	// Recommendations
	mux.HandleFunc("GET /recipients/{id}/recommendations", middleware.WithLogging(recHandler.GetRecipientRecommendations))
	mux.HandleFunc("GET /donors/{id}/recommendations", middleware.WithLogging(recHandler.GetDonorRecommendations))
	mux.HandleFunc("GET /recommendations/donors", middleware.WithLogging(recHandler.GetCommunityDonorRecommendations))
	mux.HandleFunc("GET /donors/{id}/patterns", middleware.WithLogging(recHandler.GetDonorPatterns))

	// Community insights
	mux.HandleFunc("GET /insights/impact", middleware.WithLogging(insightsHandler.GetImpact))
	mux.HandleFunc("GET /insights/trends", middleware.WithLogging(insightsHandler.GetTrends))
	mux.HandleFunc("GET /insights/gaps", middleware.WithLogging(insightsHandler.GetGaps))
	mux.HandleFunc("GET /insights/waste-prevention", middleware.WithLogging(insightsHandler.GetWastePrevention))
	mux.HandleFunc("GET /insights/engagement", middleware.WithLogging(insightsHandler.GetEngagement))
	mux.HandleFunc("GET /insights/report", middleware.WithLogging(insightsHandler.GetReport))

	// Messages (persistence only)
	mux.HandleFunc("POST /messages", middleware.WithLogging(messageHandler.SendMessage))
	mux.HandleFunc("GET /users/{id}/messages", middleware.WithLogging(messageHandler.ListMessages))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("foodcycle API v1"))
	})

	return mux
}
