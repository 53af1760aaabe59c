package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"product-panel/internal/export"
	"product-panel/internal/handler"
	"product-panel/internal/model"
	"product-panel/internal/panel"
	"product-panel/internal/repository"
	"product-panel/internal/router"
	"product-panel/internal/service"
	"product-panel/internal/theme"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testAPIKey = "test-api-key"

// panelView mirrors the JSON served by GET /api/panel.
type panelView struct {
	Error *struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
	Loading   bool   `json:"loading"`
	ShowTable bool   `json:"showTable"`
	Source    string `json:"source"`
	Table     struct {
		Fields []struct {
			Name   string `json:"name"`
			Values []any  `json:"values"`
		} `json:"fields"`
	} `json:"table"`
}

// setupTestServer mounts a panel on locator and waits for the first fetch to settle.
func setupTestServer(t *testing.T, store repository.PayloadStore, locator string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	feed := service.NewProductFeed(&http.Client{}, store, "a", logger)
	productPanel := panel.New(feed, theme.Dark(), logger)

	select {
	case <-productPanel.Mount(context.Background(), locator):
	case <-time.After(10 * time.Second):
		t.Fatal("initial fetch did not settle")
	}

	return router.New(handler.NewPanelHandler(productPanel, logger), testAPIKey, logger)
}

func getView(t *testing.T, server http.Handler) panelView {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/panel", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var view panelView
	require.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	return view
}

func TestPanelAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)

	t.Run("GET /api/panel returns the fetched products", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		upstream := NewUpstream(t, http.StatusOK, iphoneBody)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		view := getView(t, server)

		assert.Nil(t, view.Error)
		assert.False(t, view.Loading)
		assert.True(t, view.ShowTable)
		assert.Equal(t, upstream.URL, view.Source)
		require.Len(t, view.Table.Fields, 8)
		assert.Equal(t, "Title", view.Table.Fields[0].Name)
		assert.Equal(t, []any{"iPhone 9"}, view.Table.Fields[0].Values)
		assert.Equal(t, []any{549.0}, view.Table.Fields[2].Values)
		assert.Equal(t, []any{4.69}, view.Table.Fields[7].Values)
		assert.Equal(t, 1, upstream.Hits())
	})

	t.Run("Cached payload stays visible next to the error banner", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		upstream := NewUpstream(t, http.StatusOK, iphoneBody)
		setupTestServer(t, testDB.Store, upstream.URL)

		// Cold start against a failing endpoint
		upstream.Respond(http.StatusInternalServerError, `{"message":"boom"}`)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		view := getView(t, server)

		require.NotNil(t, view.Error)
		assert.Equal(t, panel.BannerTitle, view.Error.Title)
		assert.Equal(t, model.MessageHTTP, view.Error.Message)
		assert.Equal(t, http.StatusInternalServerError, view.Error.Code)
		assert.False(t, view.Loading)
		assert.True(t, view.ShowTable)
		require.Len(t, view.Table.Fields, 8)
		assert.Equal(t, []any{"iPhone 9"}, view.Table.Fields[0].Values)
	})

	t.Run("Export returns a workbook with the product rows", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		upstream := NewUpstream(t, http.StatusOK, iphoneBody)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/panel/export.xlsx", nil)
		req.Header.Set("X-API-Key", testAPIKey)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))

		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows(export.SheetName)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Title", rows[0][0])
		assert.Equal(t, "iPhone 9", rows[1][0])
	})

	t.Run("Export without any payload is a conflict", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		upstream := NewUpstream(t, http.StatusNotFound, `{}`)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		req := httptest.NewRequest(http.MethodGet, "/api/panel/export.xlsx", nil)
		req.Header.Set("X-API-Key", testAPIKey)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("PUT /api/panel/source refetches from the new locator", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		first := NewUpstream(t, http.StatusOK, `{"products": [], "total": 0, "skip": 0, "limit": 30}`)
		second := NewUpstream(t, http.StatusOK, iphoneBody)
		server := setupTestServer(t, testDB.Store, first.URL)

		assert.Empty(t, getView(t, server).Table.Fields[0].Values)

		body := `{"url": "` + second.URL + `"}`
		req := httptest.NewRequest(http.MethodPut, "/api/panel/source", strings.NewReader(body))
		req.Header.Set("X-API-Key", testAPIKey)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)
		require.Equal(t, http.StatusAccepted, w.Code)

		require.Eventually(t, func() bool {
			view := getView(t, server)
			return !view.Loading && len(view.Table.Fields) == 8 && len(view.Table.Fields[0].Values) == 1
		}, 5*time.Second, 20*time.Millisecond)

		assert.Equal(t, second.URL, getView(t, server).Source)
		assert.Equal(t, 1, first.Hits())
		assert.Equal(t, 1, second.Hits())
	})

	t.Run("PUT /api/panel/source rejects relative locators", func(t *testing.T) {
		upstream := NewUpstream(t, http.StatusOK, iphoneBody)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		req := httptest.NewRequest(http.MethodPut, "/api/panel/source", strings.NewReader(`{"url": "/products"}`))
		req.Header.Set("X-API-Key", testAPIKey)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 1, upstream.Hits())
	})

	t.Run("GET /panel renders the table without an API key", func(t *testing.T) {
		upstream := NewUpstream(t, http.StatusOK, iphoneBody)
		server := setupTestServer(t, testDB.Store, upstream.URL)

		req := httptest.NewRequest(http.MethodGet, "/panel", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<td>iPhone 9</td>")
		assert.Contains(t, w.Body.String(), "<td>12.96%</td>")
	})
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	upstream := NewUpstream(t, http.StatusOK, iphoneBody)
	server := setupTestServer(t, repository.NewMemoryStore(), upstream.URL)

	t.Run("OPTIONS request returns CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/panel", nil)
		w := httptest.NewRecorder()

		server.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})
}
