// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodcycle/foodcycle/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "foodcycle API v1" {
		t.Errorf("Unexpected body: '%s'", w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// 400/404 are valid handler outcomes; 405 means the route is missing.
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/users"},
		{"GET", "/users/test-id"},
		{"GET", "/users/test-id/donations"},
		{"GET", "/users/test-id/requests"},
		{"GET", "/users/test-id/messages"},

		{"POST", "/donations"},
		{"GET", "/donations"},
		{"GET", "/donations/test-id"},
		{"PATCH", "/donations/test-id"},
		{"DELETE", "/donations/test-id"},

		{"POST", "/requests"},

		{"GET", "/recipients/test-id/preferences"},
		{"GET", "/recipients/test-id/matches"},
		{"GET", "/recipients/test-id/recommendations"},

		{"GET", "/donors/test-id/recommendations"},
		{"GET", "/donors/test-id/patterns"},
		{"GET", "/recommendations/donors"},

		{"GET", "/insights/impact"},
		{"GET", "/insights/trends"},
		{"GET", "/insights/gaps"},
		{"GET", "/insights/waste-prevention"},
		{"GET", "/insights/engagement"},
		{"GET", "/insights/report"},

		{"POST", "/messages"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"DELETE", "/insights/impact"},
		{"PUT", "/donations/test-id"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	userID := testutil.CreateTestUser(t, db, "carol", "recipient")

	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/users/"+userID, nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for an existing user, got %d. Body: %s", w.Code, w.Body.String())
	}
}
