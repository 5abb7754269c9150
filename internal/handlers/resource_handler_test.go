package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"wavemedia/internal/models"
	"wavemedia/internal/repositories"
)

// memStore is an in-memory Store[T] for handler tests.
type memStore[T any] struct {
	items  map[int64]T
	nextID int64
	setID  func(*T, int64)
}

func (m *memStore[T]) Create(e *T) (int64, error) {
	m.nextID++
	m.setID(e, m.nextID)
	m.items[m.nextID] = *e
	return m.nextID, nil
}

func (m *memStore[T]) GetByID(id int64) (*T, error) {
	e, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &e, nil
}

func (m *memStore[T]) Update(id int64, e *T) error {
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	m.setID(e, id)
	m.items[id] = *e
	return nil
}

func (m *memStore[T]) Delete(id int64) error {
	delete(m.items, id)
	return nil
}

func (m *memStore[T]) List(limit, offset int) ([]T, error) {
	ids := make([]int64, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	var out []T
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, m.items[id])
	}
	return out, nil
}

func newStationStore() *memStore[models.Station] {
	return &memStore[models.Station]{
		items: map[int64]models.Station{},
		setID: func(s *models.Station, id int64) { s.ID = id },
	}
}

func newStationRouter(store *memStore[models.Station]) *gin.Engine {
	h := NewResourceHandler[models.Station]("station", store)
	r := gin.New()
	r.POST("/api/stations", h.Create)
	r.GET("/api/stations", h.List)
	r.GET("/api/stations/:id", h.GetByID)
	r.PUT("/api/stations/:id", h.Update)
	r.DELETE("/api/stations/:id", h.Delete)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResourceCRUD(t *testing.T) {
	store := newStationStore()
	r := newStationRouter(store)

	w := do(r, http.MethodPost, "/api/stations", `{"name":"Wave FM","frequency":"101.5","city":"Riga"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Station
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, "Wave FM", created.Name)

	w = do(r, http.MethodGet, "/api/stations/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPut, "/api/stations/1", `{"name":"Wave FM","frequency":"102.0"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "102.0")

	w = do(r, http.MethodDelete, "/api/stations/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "station deleted")

	w = do(r, http.MethodGet, "/api/stations/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "station not found")
}

func TestResourceCreate_MissingRequiredField(t *testing.T) {
	r := newStationRouter(newStationStore())
	w := do(r, http.MethodPost, "/api/stations", `{"frequency":"101.5"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResourceGet_InvalidID(t *testing.T) {
	r := newStationRouter(newStationStore())
	w := do(r, http.MethodGet, "/api/stations/abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid id")
}

func TestResourceUpdate_NotFound(t *testing.T) {
	r := newStationRouter(newStationStore())
	w := do(r, http.MethodPut, "/api/stations/99", `{"name":"Ghost FM"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestResourceList_EmptyIsArray(t *testing.T) {
	r := newStationRouter(newStationStore())
	w := do(r, http.MethodGet, "/api/stations", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestResourceList_Pagination(t *testing.T) {
	store := newStationStore()
	r := newStationRouter(store)
	for i := 0; i < 5; i++ {
		w := do(r, http.MethodPost, "/api/stations", `{"name":"S"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := do(r, http.MethodGet, "/api/stations?page=2&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page []models.Station
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 2)
	require.Equal(t, int64(3), page[0].ID)
}
