// internal/utils/pagination_test.go
package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsForQuery(t *testing.T, query string) PaginationParams {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/items?"+query, nil)

	return GetPaginationParams(c)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	params := paramsForQuery(t, "")

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsBounds(t *testing.T) {
	params := paramsForQuery(t, "page=0&limit=500")
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)

	params = paramsForQuery(t, "page=3&limit=100&order=asc")
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 100, params.Limit)
	assert.Equal(t, "asc", params.Order)

	params = paramsForQuery(t, "order=sideways")
	assert.Equal(t, "desc", params.Order)
}

func TestNewPagination(t *testing.T) {
	page := NewPagination(45, PaginationParams{Page: 2, Limit: 20})

	assert.Equal(t, int64(45), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestNewPaginationEdges(t *testing.T) {
	page := NewPagination(0, PaginationParams{Page: 1, Limit: 20})
	assert.Equal(t, 0, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page = NewPagination(20, PaginationParams{Page: 1, Limit: 20})
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)

	page = NewPagination(21, PaginationParams{Page: 1, Limit: 20})
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
}
