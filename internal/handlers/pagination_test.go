package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func pageParamsFor(t *testing.T, query string) (int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/leads"+query, nil)
	return pageParams(c)
}

func TestPageParamsDefaults(t *testing.T) {
	page, limit := pageParamsFor(t, "")
	assert.Equal(t, 1, page)
	assert.Equal(t, defaultPageSize, limit)
}

func TestPageParamsClampsToMax(t *testing.T) {
	page, limit := pageParamsFor(t, "?page=0&limit=9999")
	assert.Equal(t, 1, page)
	assert.Equal(t, maxPageSize, limit)
}

func TestPageParamsHonorsConfiguredBounds(t *testing.T) {
	SetPagination(10, 50)
	defer SetPagination(20, 100)

	_, limit := pageParamsFor(t, "")
	assert.Equal(t, 10, limit)

	_, limit = pageParamsFor(t, "?limit=200")
	assert.Equal(t, 50, limit)
}
