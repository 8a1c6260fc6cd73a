package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestReportFlow_MonthlySummary(t *testing.T) {
	app := setupApp(t)

	token, _ := app.registerUser(t, "report@test.com", "password123")
	foodID := app.findCategoryID(t, token, "Food")
	transportID := app.findCategoryID(t, token, "Transport")

	body := fmt.Sprintf(`{"category_id":%d,"month":6,"year":2025,"amount":"200.00"}`, int(foodID))
	rec := app.request("PUT", "/api/v1/budgets", body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("upsert budget failed: %d %s", rec.Code, rec.Body.String())
	}

	for _, e := range []struct {
		categoryID int
		amount     string
		date       string
	}{
		{int(foodID), "80.00", "2025-06-05T12:00:00Z"},
		{int(foodID), "20.00", "2025-06-12T12:00:00Z"},
		{int(transportID), "40.00", "2025-06-05T12:00:00Z"},
		// July spend must not appear in the June report.
		{int(foodID), "500.00", "2025-07-01T12:00:00Z"},
	} {
		body := fmt.Sprintf(`{"category_id":%d,"amount":%q,"date":%q}`, e.categoryID, e.amount, e.date)
		rec := app.request("POST", "/api/v1/expenses", body, token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec = app.request("GET", "/api/v1/reports?month=6&year=2025", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("report failed: %d %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)["report"].(map[string]interface{})

	if report["total_spent"] != "140" && report["total_spent"] != "140.00" {
		t.Errorf("expected total spent 140, got %v", report["total_spent"])
	}
	if report["total_budget"] != "200" && report["total_budget"] != "200.00" {
		t.Errorf("expected total budget 200, got %v", report["total_budget"])
	}

	lines := report["category_spending"].([]interface{})
	if len(lines) != 10 {
		t.Fatalf("expected a line per seeded category, got %d", len(lines))
	}
	for _, raw := range lines {
		line := raw.(map[string]interface{})
		if line["category_id"].(float64) == foodID {
			if line["spent"] != "100" && line["spent"] != "100.00" {
				t.Errorf("expected Food spent 100, got %v", line["spent"])
			}
			if line["percent"].(float64) != 50 {
				t.Errorf("expected Food percent 50, got %v", line["percent"])
			}
		}
	}

	daily := report["daily_spending"].([]interface{})
	if len(daily) != 2 {
		t.Errorf("expected 2 daily entries, got %d", len(daily))
	}
}
