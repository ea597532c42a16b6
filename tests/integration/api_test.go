package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpHandler "wager-ledger-analytics/internal/adapter/http/handler"
	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminKey = "integration-admin-key"

type testApp struct {
	server *httptest.Server
	repo   *inMemoryResultRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repo := newInMemoryResultRepo()

	tokenSvc := service.NewJWTTokenService("integration-secret", time.Hour, "wager-ledger-analytics")
	reportingSvc := service.NewReportingService(repo, nil, zerolog.Nop())

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ReportingSvc: reportingSvc,
		TokenSvc:     tokenSvc,
		AdminKey:     testAdminKey,
	})

	return &testApp{server: httptest.NewServer(router), repo: repo}
}

func (a *testApp) close() {
	a.server.Close()
}

func (a *testApp) seedRun(t *testing.T) *domain.RunSummary {
	t.Helper()
	summary := &domain.RunSummary{
		RunID:        uuid.New(),
		ComputedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Customers:    2,
		Countries:    2,
		Transactions: 8,
	}
	customers := []domain.CustomerResult{
		{CustomerID: "cust_a", Balance: decimal.RequireFromString("130"), ProfitLoss: decimal.RequireFromString("-30.5"), ComputedAt: summary.ComputedAt},
		{CustomerID: "cust_b", Balance: decimal.RequireFromString("900"), ProfitLoss: decimal.RequireFromString("14.9"), ComputedAt: summary.ComputedAt},
	}
	countries := []domain.CountryResult{
		{Country: "FI", NetProfit: decimal.RequireFromString("14.9"), ComputedAt: summary.ComputedAt},
		{Country: "SE", NetProfit: decimal.RequireFromString("-30.5"), ComputedAt: summary.ComputedAt},
	}
	require.NoError(t, a.repo.SaveRun(context.Background(), summary, customers, countries))
	return summary
}

func (a *testApp) token(t *testing.T) string {
	t.Helper()
	body := []byte(`{"admin_key":"` + testAdminKey + `"}`)
	resp, err := http.Post(a.server.URL+"/api/v1/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.NotEmpty(t, result.Data.Token)
	return result.Data.Token
}

func (a *testApp) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, a.server.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestAPI_TokenExchangeAndReports(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	summary := app.seedRun(t)
	token := app.token(t)

	// Latest summary
	resp := app.get(t, "/api/v1/reports/summary", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summaryResult struct {
		Data struct {
			RunID        string `json:"run_id"`
			Transactions int    `json:"transactions"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaryResult))
	assert.Equal(t, summary.RunID.String(), summaryResult.Data.RunID)
	assert.Equal(t, 8, summaryResult.Data.Transactions)

	// Customer report with 2dp formatting
	resp = app.get(t, "/api/v1/reports/customers", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var customersResult struct {
		Data struct {
			Items []struct {
				CustomerID string `json:"customer_id"`
				Balance    string `json:"balance"`
				ProfitLoss string `json:"profit_loss"`
			} `json:"items"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&customersResult))
	require.Equal(t, 2, customersResult.Data.Total)
	assert.Equal(t, "cust_a", customersResult.Data.Items[0].CustomerID)
	assert.Equal(t, "130.00", customersResult.Data.Items[0].Balance)
	assert.Equal(t, "-30.50", customersResult.Data.Items[0].ProfitLoss)

	// Country report scoped to an explicit run
	resp = app.get(t, "/api/v1/reports/countries?run_id="+summary.RunID.String(), token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var countriesResult struct {
		Data struct {
			Items []struct {
				Country   string `json:"country"`
				NetProfit string `json:"net_profit"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&countriesResult))
	require.Len(t, countriesResult.Data.Items, 2)
	assert.Equal(t, "FI", countriesResult.Data.Items[0].Country)
	assert.Equal(t, "14.90", countriesResult.Data.Items[0].NetProfit)
}

func TestAPI_RejectsBadAdminKey(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	body := []byte(`{"admin_key":"wrong"}`)
	resp, err := http.Post(app.server.URL+"/api/v1/auth/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ReportsRequireAuth(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp := app.get(t, "/api/v1/reports/summary", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.get(t, "/api/v1/reports/summary", "not-a-valid-jwt")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_NoRunYet(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	token := app.token(t)

	resp := app.get(t, "/api/v1/reports/summary", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_UnknownRunID(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.seedRun(t)
	token := app.token(t)

	resp := app.get(t, "/api/v1/reports/customers?run_id="+uuid.NewString(), token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
