// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodcycle/foodcycle/category"
	"github.com/foodcycle/foodcycle/models"
	"github.com/foodcycle/foodcycle/testutil"
)

func TestMatchDonationsForRecipientNoAvailability(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recipientID := testutil.CreateTestUser(t, conn, "carol", models.UserRecipient)

	result, err := MatchDonationsForRecipient(conn, recipientID, time.Now())
	if err != nil {
		t.Fatalf("Matching failed: %v", err)
	}

	if len(result.Matches) != 0 {
		t.Errorf("Expected no matches, got %d", len(result.Matches))
	}
	if result.Message != "No available donations at this time." {
		t.Errorf("Unexpected empty-state message: %q", result.Message)
	}
}

func TestMatchDonationsForRecipientNoHistory(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	recipientID := testutil.CreateTestUser(t, conn, "carol", models.UserRecipient)

	testutil.CreateTestDonation(t, conn, donorID, "Fresh Apples", "3 kg", "", models.DonationAvailable)
	testutil.CreateTestDonation(t, conn, donorID, "Whole Milk", "2 L", "", models.DonationAvailable)

	result, err := MatchDonationsForRecipient(conn, recipientID, time.Now())
	if err != nil {
		t.Fatalf("Matching failed: %v", err)
	}

	if result.Message != "Showing available donations (no preference data available)." {
		t.Errorf("Unexpected fallback message: %q", result.Message)
	}
	if len(result.Matches) != 2 {
		t.Errorf("Expected both donations in the fallback, got %d", len(result.Matches))
	}
	for _, m := range result.Matches {
		if m.Score != 0 {
			t.Errorf("Fallback matches should be unscored, got %d", m.Score)
		}
	}
}

func TestMatchDonationsForRecipientPrefersHistoryCategory(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	recipientID := testutil.CreateTestUser(t, conn, "carol", models.UserRecipient)

	// History: two dairy requests.
	past := testutil.CreateTestDonation(t, conn, donorID, "Whole Milk", "2 L", "", models.DonationCompleted)
	testutil.CreateTestRequest(t, conn, recipientID, past, models.RequestAccepted)
	past2 := testutil.CreateTestDonation(t, conn, donorID, "Greek Yogurt", "500 g", "", models.DonationCompleted)
	testutil.CreateTestRequest(t, conn, recipientID, past2, models.RequestAccepted)

	dairyID := testutil.CreateTestDonation(t, conn, donorID, "Cheddar Cheese", "1 kg", "", models.DonationAvailable)
	testutil.CreateTestDonation(t, conn, donorID, "Rye Bread", "2 items", "", models.DonationAvailable)

	result, err := MatchDonationsForRecipient(conn, recipientID, time.Now())
	if err != nil {
		t.Fatalf("Matching failed: %v", err)
	}

	if len(result.Matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(result.Matches))
	}
	if result.Matches[0].Donation.ID != dairyID {
		t.Errorf("Expected the dairy donation ranked first, got %s", result.Matches[0].Donation.FoodName)
	}
	if result.Preferences.MostRequested != category.Dairy {
		t.Errorf("Expected dairy as most requested, got %s", result.Preferences.MostRequested)
	}
}

func TestGetPreferencesEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewMatchHandler(conn, cfg)

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	recipientID := testutil.CreateTestUser(t, conn, "carol", models.UserRecipient)
	donationID := testutil.CreateTestDonation(t, conn, donorID, "Fresh Apples", "3 kg", "", models.DonationCompleted)
	testutil.CreateTestRequest(t, conn, recipientID, donationID, models.RequestAccepted)

	req := testutil.MakeRequest("GET", "/recipients/"+recipientID+"/preferences", nil)
	req.SetPathValue("id", recipientID)
	w := httptest.NewRecorder()
	handler.GetPreferences(w, req)

	testutil.AssertStatus(t, w, 200)

	var prefs models.PreferenceDistribution
	testutil.AssertJSON(t, w, &prefs)
	if prefs.Percentages[category.Fruits] != 100 {
		t.Errorf("Expected fruits at 100%%, got %v", prefs.Percentages)
	}
}
