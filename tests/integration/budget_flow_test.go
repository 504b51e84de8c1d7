package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestBudgetFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget@test.com", "password123")
	categoryID := app.createCategory(t, token, "Groceries")

	now := time.Now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	// Create
	body := fmt.Sprintf(`{"category_id":%q,"month":%q,"amount":400}`, categoryID, month)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	budgetID := budget["id"].(string)

	// Duplicate (user, category, month) is rejected.
	rec = app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate budget, got %d: %s", rec.Code, rec.Body.String())
	}

	// List for the month
	rec = app.request("GET", "/api/v1/budgets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	budgets := parseJSON(t, rec)["budgets"].([]interface{})
	if len(budgets) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(budgets))
	}

	// Update
	rec = app.request("PUT", "/api/v1/budgets/"+budgetID, `{"amount":550}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	updated := parseJSON(t, rec)["budget"].(map[string]interface{})
	if updated["amount"].(float64) != 550 {
		t.Errorf("expected amount 550, got %v", updated["amount"])
	}

	// Delete
	rec = app.request("DELETE", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestBudgetRequiresValidCategory(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "budget2@test.com", "password123")

	month := time.Now().UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"category_id":"8a0f8b1e-0000-7000-8000-000000000000","month":%q,"amount":400}`, month)
	rec := app.request("POST", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown category, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBudgetsAreUserScoped(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := app.registerUser(t, "owner@test.com", "password123")
	tokenB, _ := app.registerUser(t, "intruder@test.com", "password123")
	categoryID := app.createCategory(t, tokenA, "Rent")

	month := time.Now().UTC().Format(time.RFC3339)
	body := fmt.Sprintf(`{"category_id":%q,"month":%q,"amount":1200}`, categoryID, month)
	rec := app.request("POST", "/api/v1/budgets", body, tokenA)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	budgetID := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(string)

	rec = app.request("GET", "/api/v1/budgets/"+budgetID, "", tokenB)
	if rec.Code != http.StatusNotFound {
		t.Errorf("another user's budget should be invisible, got %d", rec.Code)
	}
}
