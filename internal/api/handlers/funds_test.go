package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brokersim/backend/internal/api/handlers"
	"github.com/brokersim/backend/internal/api/middleware"
	"github.com/brokersim/backend/internal/api/request"
	"github.com/brokersim/backend/internal/model"
	"github.com/brokersim/backend/internal/testutil"
)

func TestFundHandler_GetFund(t *testing.T) {
	t.Run("returns fund snapshot with transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)

		userID := testutil.CreateTestUser(t, db, "alice")
		if _, err := svc.Deposit(context.Background(), userID, 1000); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.GetFund(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var snapshot model.FundResponse
		if err := json.NewDecoder(w.Body).Decode(&snapshot); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if snapshot.Username != "alice" {
			t.Errorf("Expected username alice, got %s", snapshot.Username)
		}
		if len(snapshot.Transactions) != 1 {
			t.Errorf("Expected 1 transaction, got %d", len(snapshot.Transactions))
		}
	})

	t.Run("lazily creates an empty fund for a new user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)
		userID := testutil.CreateTestUser(t, db, "alice")

		req := httptest.NewRequest(http.MethodGet, "/api/funds", nil)
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.GetFund(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
	})
}

func TestFundHandler_Deposit(t *testing.T) {
	t.Run("credits the fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)
		userID := testutil.CreateTestUser(t, db, "alice")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/funds/add", request.FundAmountRequest{Amount: 2500})
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.Deposit(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var fund model.Fund
		if err := json.NewDecoder(w.Body).Decode(&fund); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if fund.AvailableAmount != 2500 {
			t.Errorf("Expected available 2500, got %.2f", fund.AvailableAmount)
		}
	})

	t.Run("rejects a non-positive amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)
		userID := testutil.CreateTestUser(t, db, "alice")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/funds/add", request.FundAmountRequest{Amount: -5})
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.Deposit(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestFundHandler_Withdraw(t *testing.T) {
	t.Run("maps insufficient funds to 422", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)
		userID := testutil.CreateTestUser(t, db, "alice")
		if _, err := svc.Deposit(context.Background(), userID, 100); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/funds/withdraw", request.FundAmountRequest{Amount: 500})
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusUnprocessableEntity {
			t.Errorf("Expected status 422, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("debits the fund", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFundService(t, db)
		handler := handlers.NewFundHandler(svc)
		userID := testutil.CreateTestUser(t, db, "alice")
		if _, err := svc.Deposit(context.Background(), userID, 1000); err != nil {
			t.Fatalf("Deposit failed: %v", err)
		}

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/funds/withdraw", request.FundAmountRequest{Amount: 400})
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
		w := httptest.NewRecorder()

		handler.Withdraw(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var fund model.Fund
		if err := json.NewDecoder(w.Body).Decode(&fund); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if fund.AvailableAmount != 600 {
			t.Errorf("Expected available 600, got %.2f", fund.AvailableAmount)
		}
	})
}
