//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Scenarios:
//   - Full inventory cycle: login → supplier → product → movements → detail
//   - OUT beyond stock is rejected with 409 and leaves state untouched
//   - Concurrent OUTs never oversell (real SELECT FOR UPDATE serialization)
//   - Protected deletes return 409

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/kyler004/inventory-system/internal/config"
	"github.com/kyler004/inventory-system/internal/infra"
	"github.com/kyler004/inventory-system/internal/router"
	"github.com/kyler004/inventory-system/internal/worker"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test environment ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("inventory_test"),
		tcPostgres.WithUsername("inventory"),
		tcPostgres.WithPassword("inventory"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin user (hash of "admin1234", bcrypt cost 12)
	err = db.Exec(`INSERT INTO users (id, username, name, password_hash, role, active, created_at)
		VALUES (gen_random_uuid(), 'admin', 'Admin E2E',
		        crypt('admin1234', gen_salt('bf', 12)), 'admin', true, NOW())
		ON CONFLICT DO NOTHING`).Error
	require.NoError(t, err)

	dispatcher := worker.NewDispatcher(rdb)
	srv := httptest.NewServer(router.New(cfg, db, rdb, dispatcher))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "admin1234"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)
	require.NotEmpty(t, login.AccessToken)

	return &testEnv{server: srv, token: login.AccessToken}
}

// createProduct makes a supplier plus a product under it, returns the product ID.
func (env *testEnv) createProduct(t *testing.T, sku string) string {
	t.Helper()

	resp := do(t, env.server, "POST", "/v1/suppliers",
		jsonBody(t, map[string]any{"name": "Supplier for " + sku, "contact_person": "E2E"}),
		env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sup struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sup)

	resp = do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{
			"sku": sku, "name": "Product " + sku,
			"supplier_id": sup.ID, "unit_price": "9.99", "minimum_stock": 2,
		}),
		env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
	}
	decodeJSON(t, resp, &prod)
	require.Equal(t, 0, prod.CurrentStock)
	return prod.ID
}

func (env *testEnv) move(t *testing.T, productID, movType string, qty int) *http.Response {
	t.Helper()
	return do(t, env.server, "POST", fmt.Sprintf("/v1/products/%s/movements", productID),
		jsonBody(t, map[string]any{"movement_type": movType, "quantity": qty}),
		env.token)
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestInventoryCycle(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-CYCLE")

	type movement struct {
		StockBefore int `json:"stock_before"`
		StockAfter  int `json:"stock_after"`
	}

	resp := env.move(t, productID, "IN", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var m movement
	decodeJSON(t, resp, &m)
	assert.Equal(t, 0, m.StockBefore)
	assert.Equal(t, 10, m.StockAfter)

	resp = env.move(t, productID, "OUT", 4)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &m)
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 6, m.StockAfter)

	resp = env.move(t, productID, "ADJUSTMENT", 3)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeJSON(t, resp, &m)
	assert.Equal(t, 6, m.StockBefore)
	assert.Equal(t, 3, m.StockAfter)

	// Detail view reflects the final stock and the recent ledger entries.
	resp = do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		CurrentStock    int        `json:"current_stock"`
		IsLowStock      bool       `json:"is_low_stock"`
		RecentMovements []movement `json:"recent_movements"`
	}
	decodeJSON(t, resp, &detail)
	assert.Equal(t, 3, detail.CurrentStock)
	require.Len(t, detail.RecentMovements, 3)
	assert.Equal(t, 3, detail.RecentMovements[0].StockAfter, "newest first")
}

func TestOversellRejected(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-OVERSELL")

	resp := env.move(t, productID, "IN", 5)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.move(t, productID, "OUT", 6)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Stock and ledger untouched by the failed movement.
	resp = do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	var detail struct {
		CurrentStock    int   `json:"current_stock"`
		RecentMovements []any `json:"recent_movements"`
	}
	decodeJSON(t, resp, &detail)
	assert.Equal(t, 5, detail.CurrentStock)
	assert.Len(t, detail.RecentMovements, 1)
}

// Concurrent OUTs against a real database: row locking must prevent overselling.
func TestConcurrentOutsNeverOversell(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-RACE")

	resp := env.move(t, productID, "IN", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	const attempts = 20
	var wg sync.WaitGroup
	statuses := make(chan int, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := env.move(t, productID, "OUT", 1)
			statuses <- r.StatusCode
			r.Body.Close()
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflict := 0, 0
	for s := range statuses {
		switch s {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflict++
		default:
			t.Fatalf("unexpected status %d", s)
		}
	}
	assert.Equal(t, 10, created)
	assert.Equal(t, attempts-10, conflict)

	resp = do(t, env.server, "GET", "/v1/products/"+productID, nil, env.token)
	var detail struct {
		CurrentStock int `json:"current_stock"`
	}
	decodeJSON(t, resp, &detail)
	assert.Equal(t, 0, detail.CurrentStock)
}

func TestProtectedDeletes(t *testing.T) {
	env := setupTestEnv(t)
	productID := env.createProduct(t, "E2E-PROTECT")

	resp := env.move(t, productID, "IN", 1)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Product with movements cannot be deleted.
	resp = do(t, env.server, "DELETE", "/v1/products/"+productID, nil, env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}
