package http

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/shopping-list/internal/database"
	"github.com/kahvecikaan/shopping-list/internal/domain"
	"github.com/kahvecikaan/shopping-list/internal/repository"
	"github.com/kahvecikaan/shopping-list/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

type testServer struct {
	handler http.Handler
	closeDB func() error
}

func newTestServer(t *testing.T, cors *CORSConfig) *testServer {
	t.Helper()

	db, dialect, err := database.Open("sqlite://" + filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(context.Background(), db, dialect)
	require.NoError(t, err)

	logger := hclog.NewNullLogger()
	svc := service.NewItemService(repository.NewSQLItemRepository(db, dialect), domain.NewValidation(), logger)

	return &testServer{
		handler: NewRouter(NewItemHandler(svc, logger), logger, cors, db),
		closeDB: db.Close,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeItem(t *testing.T, rec *httptest.ResponseRecorder) domain.Item {
	t.Helper()
	var item domain.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
	return item
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestItemAPI_EndToEnd(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/items", `{"description":"Milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/items/1", rec.Header().Get("Location"))
	assert.Equal(t, domain.Item{ID: 1, Description: "Milk", IsDone: false}, decodeItem(t, rec))

	rec = s.do(t, http.MethodGet, "/api/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"description":"Milk","isDone":false}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, "/api/items/1", `{"id":1,"description":"Milk","isDone":true}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeItem(t, rec).IsDone)

	rec = s.do(t, http.MethodDelete, "/api/items/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/items/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItemAPI_ListEmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestItemAPI_ListInIDOrder(t *testing.T) {
	s := newTestServer(t, nil)
	for _, d := range []string{"Milk", "Eggs", "Bread"} {
		require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/items", `{"description":"`+d+`"}`).Code)
	}

	rec := s.do(t, http.MethodGet, "/api/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []domain.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 3)
	assert.Equal(t, "Milk", items[0].Description)
	assert.Equal(t, "Eggs", items[1].Description)
	assert.Equal(t, "Bread", items[2].Description)
}

func TestItemAPI_CreateIgnoresClientDoneAndID(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/api/items", `{"id":50,"description":"Tea","isDone":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decodeItem(t, rec)
	assert.Equal(t, 1, item.ID)
	assert.False(t, item.IsDone)
}

func TestItemAPI_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/items", `{"description":"Milk"}`).Code)

	testCases := []struct {
		name    string
		method  string
		path    string
		body    string
		message string
	}{
		{"empty description", http.MethodPost, "/api/items", `{"description":""}`, "Item description cannot be empty."},
		{"blank description", http.MethodPost, "/api/items", `{"description":"   "}`, "Item description cannot be empty."},
		{"malformed json", http.MethodPost, "/api/items", `{"description":`, "Invalid item data"},
		{"id mismatch", http.MethodPut, "/api/items/1", `{"id":2,"description":"Milk","isDone":true}`, domain.ErrIDMismatch.Error()},
		{"blank update", http.MethodPut, "/api/items/1", `{"id":1,"description":"","isDone":true}`, "Item description cannot be empty."},
		{"id overflow", http.MethodGet, "/api/items/99999999999999999999999", "", "Invalid item ID"},
		{"non-numeric get", http.MethodGet, "/api/items/abc", "", "Invalid item ID"},
		{"non-numeric delete", http.MethodDelete, "/api/items/abc", "", "Invalid item ID"},
		{"non-numeric put", http.MethodPut, "/api/items/abc", `{"id":1,"description":"Milk","isDone":true}`, "Invalid item ID"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.message, decodeError(t, rec).Message)
		})
	}

	// nothing was persisted by the rejected requests
	rec := s.do(t, http.MethodGet, "/api/items", "")
	var items []domain.Item
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.False(t, items[0].IsDone)
}

func TestItemAPI_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/items/3", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/items/3", "").Code)
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPut, "/api/items/3", `{"id":3,"description":"Tea","isDone":false}`).Code)
}

func TestItemAPI_StoreUnavailable(t *testing.T) {
	s := newTestServer(t, nil)
	require.NoError(t, s.closeDB())

	rec := s.do(t, http.MethodGet, "/api/items", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Shopping list store not available.", decodeError(t, rec).Message)

	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/healthz", "").Code)
}

func TestItemAPI_Health(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCORS_AllowAll(t *testing.T) {
	s := newTestServer(t, AllowAllCORSConfig())

	rec := s.do(t, http.MethodOptions, "/api/items/1", "",
		"Origin", "http://anywhere.example",
		"Access-Control-Request-Method", "PUT",
		"Access-Control-Request-Headers", "Content-Type, X-Custom")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	assert.Equal(t, "Content-Type, X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))

	rec = s.do(t, http.MethodGet, "/api/items", "", "Origin", "http://anywhere.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_RestrictedOrigins(t *testing.T) {
	s := newTestServer(t, DefaultCORSConfig())

	rec := s.do(t, http.MethodGet, "/api/items", "", "Origin", "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(t, http.MethodGet, "/api/items", "", "Origin", "http://evil.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/items", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSwaggerSpecServed(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/swagger.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/items/{id}")
}

func TestUnknownRouteIsJSON(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Resource not found", decodeError(t, rec).Message)
}

// wrappingService returns validation failures wrapped in extra context
type wrappingService struct {
	service.ItemService
}

func (wrappingService) AddItem(ctx context.Context, description string) (*domain.Item, error) {
	return nil, fmt.Errorf("add item: %w", domain.ValidationErrors{
		{Field: "Description", Message: "Item description cannot be empty."},
	})
}

func TestWrappedValidationErrorsKeepMessages(t *testing.T) {
	logger := hclog.NewNullLogger()
	h := NewRouter(NewItemHandler(wrappingService{}, logger), logger, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader(`{"description":"x"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Item description cannot be empty.", resp.Message)
	assert.Equal(t, []string{"Item description cannot be empty."}, resp.Messages)
}
