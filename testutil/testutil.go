// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/foodcycle/foodcycle/cliparse"
	"github.com/foodcycle/foodcycle/db"
	"github.com/foodcycle/foodcycle/models"
)

// SetupTestDB creates a fresh SQLite database in the test's temp
// directory with the full schema. The busy timeout keeps concurrent
// writer tests from failing on lock contention.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "foodcycle_test.sqlite")
	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8081,
		DatabaseType: "sqlite",
		DatabaseURL:  "foodcycle_test.sqlite",
	}
}

// CreateTestUser inserts a user and returns its ID.
// userType should be "donor" or "recipient".
func CreateTestUser(t *testing.T, conn *sql.DB, name, userType string) string {
	t.Helper()

	userID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO users (id, name, email, password_hash, user_type)
		VALUES ($1, $2, $3, 'testhash', $4)
	`, userID, name, name+"@example.com", userType)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestDonation inserts a donation and returns its ID.
// expiryDate may be empty for donations without an expiry.
func CreateTestDonation(t *testing.T, conn *sql.DB, donorID, foodName, qty, expiryDate, status string) string {
	t.Helper()

	donationID := uuid.NewString()
	var expiry *string
	if expiryDate != "" {
		expiry = &expiryDate
	}

	_, err := conn.Exec(`
		INSERT INTO donations (id, donor_id, food_name, quantity, expiry_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, donationID, donorID, foodName, qty, expiry, status)
	if err != nil {
		t.Fatalf("Failed to create test donation: %v", err)
	}

	return donationID
}

// CreateTestDonationAt inserts a donation with an explicit creation time,
// for trend and pattern tests that depend on history spacing.
func CreateTestDonationAt(t *testing.T, conn *sql.DB, donorID, foodName, qty, expiryDate, status string, createdAt time.Time) string {
	t.Helper()

	donationID := uuid.NewString()
	var expiry *string
	if expiryDate != "" {
		expiry = &expiryDate
	}

	_, err := conn.Exec(`
		INSERT INTO donations (id, donor_id, food_name, quantity, expiry_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, donationID, donorID, foodName, qty, expiry, status, createdAt)
	if err != nil {
		t.Fatalf("Failed to create test donation: %v", err)
	}

	return donationID
}

// CreateTestRequest inserts a request and returns its ID.
// status should be "pending", "accepted", or "rejected".
func CreateTestRequest(t *testing.T, conn *sql.DB, recipientID, donationID, status string) string {
	t.Helper()

	requestID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO requests (id, recipient_id, donation_id, status)
		VALUES ($1, $2, $3, $4)
	`, requestID, recipientID, donationID, status)
	if err != nil {
		t.Fatalf("Failed to create test request: %v", err)
	}

	return requestID
}

// RequestHistory builds the FoodRecord slice that preference estimation
// consumes, in the given order.
func RequestHistory(pairs ...[2]string) []models.FoodRecord {
	records := make([]models.FoodRecord, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, models.FoodRecord{FoodName: p[0], Status: p[1]})
	}
	return records
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}

	jsonBody, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
