// Copyright (c) 2025 FoodCycle contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foodcycle/foodcycle/models"
	"github.com/foodcycle/foodcycle/testutil"
)

func TestCreateDonation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)

	expiry := "2025-12-01"
	req := testutil.MakeRequest("POST", "/donations", models.CreateDonationRequest{
		DonorID:    donorID,
		FoodName:   "Fresh Apples",
		Quantity:   "4 kg",
		ExpiryDate: &expiry,
		Location:   "Downtown",
	})
	w := httptest.NewRecorder()
	handler.CreateDonation(w, req)

	testutil.AssertStatus(t, w, 201)

	var resp models.CreateDonationResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Donation.ID == "" {
		t.Fatal("Expected a donation ID")
	}
	if resp.Donation.Status != models.DonationAvailable {
		t.Errorf("New donations must start available, got %s", resp.Donation.Status)
	}
	// 4 kg at 2.5 meals/kg.
	if resp.Impact == "" || !strings.Contains(resp.Impact, "10 meals") {
		t.Errorf("Unexpected impact estimate: %q", resp.Impact)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("Expected donor suggestions alongside the created donation")
	}
}

func TestCreateDonationUnknownDonor(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("POST", "/donations", models.CreateDonationRequest{
		DonorID:  "nonexistent",
		FoodName: "Fresh Apples",
		Quantity: "4 kg",
	})
	w := httptest.NewRecorder()
	handler.CreateDonation(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestCreateDonationBadExpiry(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)

	badExpiry := "01/12/2025"
	req := testutil.MakeRequest("POST", "/donations", models.CreateDonationRequest{
		DonorID:    donorID,
		FoodName:   "Fresh Apples",
		Quantity:   "4 kg",
		ExpiryDate: &badExpiry,
	})
	w := httptest.NewRecorder()
	handler.CreateDonation(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestListDonationsStatusFilter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	testutil.CreateTestDonation(t, conn, donorID, "Fresh Apples", "3 kg", "", models.DonationAvailable)
	testutil.CreateTestDonation(t, conn, donorID, "Whole Milk", "2 L", "", models.DonationCompleted)

	req := testutil.MakeRequest("GET", "/donations?status=available", nil)
	w := httptest.NewRecorder()
	handler.ListDonations(w, req)

	testutil.AssertStatus(t, w, 200)

	var donations []models.Donation
	testutil.AssertJSON(t, w, &donations)
	if len(donations) != 1 || donations[0].FoodName != "Fresh Apples" {
		t.Errorf("Expected only the available donation, got %+v", donations)
	}
	if donations[0].DonorName != "dan" {
		t.Errorf("Expected the donor name joined in, got %q", donations[0].DonorName)
	}
}

func TestListDonationsRejectsBadFilter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/donations?status=bogus", nil)
	w := httptest.NewRecorder()
	handler.ListDonations(w, req)

	testutil.AssertStatus(t, w, 400)
}

func TestUpdateDonationStatus(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	donationID := testutil.CreateTestDonation(t, conn, donorID, "Fresh Apples", "3 kg", "", models.DonationReserved)

	req := testutil.MakeRequest("PATCH", "/donations/"+donationID, models.UpdateDonationStatusRequest{
		Status: models.DonationCompleted,
	})
	req.SetPathValue("id", donationID)
	w := httptest.NewRecorder()
	handler.UpdateStatus(w, req)

	testutil.AssertStatus(t, w, 200)

	var status string
	if err := conn.QueryRow(`SELECT status FROM donations WHERE id = $1`, donationID).Scan(&status); err != nil {
		t.Fatalf("Failed to read status: %v", err)
	}
	if status != models.DonationCompleted {
		t.Errorf("Expected completed, got %s", status)
	}
}

func TestUpdateDonationStatusNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("PATCH", "/donations/nonexistent", models.UpdateDonationStatusRequest{
		Status: models.DonationCompleted,
	})
	req.SetPathValue("id", "nonexistent")
	w := httptest.NewRecorder()
	handler.UpdateStatus(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestDeleteDonation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	donorID := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	donationID := testutil.CreateTestDonation(t, conn, donorID, "Fresh Apples", "3 kg", "", models.DonationAvailable)

	req := testutil.MakeRequest("DELETE", "/donations/"+donationID, nil)
	req.SetPathValue("id", donationID)
	w := httptest.NewRecorder()
	handler.DeleteDonation(w, req)

	testutil.AssertStatus(t, w, 204)

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM donations WHERE id = $1`, donationID).Scan(&count); err != nil {
		t.Fatalf("Failed to count donations: %v", err)
	}
	if count != 0 {
		t.Error("Donation should be gone")
	}
}

func TestListDonorDonations(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewDonationHandler(conn, testutil.GetTestConfig())

	dan := testutil.CreateTestUser(t, conn, "dan", models.UserDonor)
	erin := testutil.CreateTestUser(t, conn, "erin", models.UserDonor)
	testutil.CreateTestDonation(t, conn, dan, "Fresh Apples", "3 kg", "", models.DonationAvailable)
	testutil.CreateTestDonation(t, conn, erin, "Whole Milk", "2 L", "", models.DonationAvailable)

	req := testutil.MakeRequest("GET", "/users/"+dan+"/donations", nil)
	req.SetPathValue("id", dan)
	w := httptest.NewRecorder()
	handler.ListDonorDonations(w, req)

	testutil.AssertStatus(t, w, 200)

	var donations []models.Donation
	testutil.AssertJSON(t, w, &donations)
	if len(donations) != 1 || donations[0].DonorID != dan {
		t.Errorf("Expected only dan's donation, got %+v", donations)
	}
}
