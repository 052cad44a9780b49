package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderError(rec, errors.New(`unit "stone" is not supported`), http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `unit "stone" is not supported`, body.Error)
}

func TestRenderJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderJSON(rec, http.StatusCreated, NewPostResponse(true, "created", map[string]int{"id": 3}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":3}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RenderJSONResponse(rec, make(chan int))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewPaginationFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Offset: 0, Limit: DefaultPaginationLimit}},
		{"?offset=10&limit=5", Pagination{Offset: 10, Limit: 5}},
		{"?offset=-1&limit=0", Pagination{Offset: 0, Limit: DefaultPaginationLimit}},
		{"?offset=abc&limit=100000", Pagination{Offset: 0, Limit: MaxPaginationLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/projects"+tt.query, nil)
			assert.Equal(t, tt.want, NewPaginationFromRequest(r))
		})
	}
}

func TestCollectionResponse(t *testing.T) {
	p := NewPagination(0, 2, 7)
	c := NewCollectionResponse([]string{"a", "b"}, &p)
	assert.Equal(t, 2, c.Total)
	assert.Equal(t, 7, c.Pagination.Total)
}

func TestNotFoundHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()
	NewNotFoundHandler(logger)(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"request resource does not exist"}`, rec.Body.String())
}
