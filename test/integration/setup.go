package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"product-panel/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// iphoneBody is the first product of the public dummy products API.
const iphoneBody = `{
	"products": [{
		"id": 1,
		"title": "iPhone 9",
		"description": "An apple mobile which is nothing like apple",
		"price": 549,
		"discountPercentage": 12.96,
		"rating": 4.69,
		"stock": 94,
		"brand": "Apple",
		"category": "smartphones",
		"thumbnail": "https://i.dummyjson.com/data/products/1/thumbnail.jpg",
		"images": ["https://i.dummyjson.com/data/products/1/1.jpg"]
	}],
	"total": 100,
	"skip": 0,
	"limit": 30
}`

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Store     *repository.PostgresStore
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the cache schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	store := repository.NewPostgresStore(pool, zerolog.Nop())
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Store:     store,
		ConnStr:   connStr,
	}
}

// CleanupDB removes every cached payload.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM panel_cache"); err != nil {
		t.Logf("failed to clean table panel_cache: %v", err)
	}
}

// Upstream is a fake products endpoint.
type Upstream struct {
	*httptest.Server
	status atomic.Int32
	body   atomic.Value
	hits   atomic.Int32
}

// NewUpstream starts an endpoint answering every request with status and body.
func NewUpstream(t *testing.T, status int, body string) *Upstream {
	t.Helper()

	u := &Upstream{}
	u.Respond(status, body)
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(u.body.Load().(string)))
	}))
	t.Cleanup(u.Close)

	return u
}

// Respond changes the answer for subsequent requests.
func (u *Upstream) Respond(status int, body string) {
	u.status.Store(int32(status))
	u.body.Store(body)
}

// Hits returns the number of requests served.
func (u *Upstream) Hits() int {
	return int(u.hits.Load())
}
