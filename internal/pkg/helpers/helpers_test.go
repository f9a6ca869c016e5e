package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestQueryLimit(t *testing.T) {
	assert.Equal(t, 50, QueryLimit(contextWithQuery(""), "limit", 50, 200))
	assert.Equal(t, 50, QueryLimit(contextWithQuery("limit=abc"), "limit", 50, 200))
	assert.Equal(t, 50, QueryLimit(contextWithQuery("limit=-3"), "limit", 50, 200))
	assert.Equal(t, 7, QueryLimit(contextWithQuery("limit=7"), "limit", 50, 200))
	assert.Equal(t, 200, QueryLimit(contextWithQuery("limit=5000"), "limit", 50, 200))
}

func TestQueryBool(t *testing.T) {
	assert.True(t, QueryBool(contextWithQuery("includeDropped=true"), "includeDropped"))
	assert.False(t, QueryBool(contextWithQuery("includeDropped=nope"), "includeDropped"))
	assert.False(t, QueryBool(contextWithQuery(""), "includeDropped"))
}

func TestQueryTime(t *testing.T) {
	v, ok := QueryTime(contextWithQuery("from=2025-03-04"), "from")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), *v)

	v, ok = QueryTime(contextWithQuery(""), "from")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = QueryTime(contextWithQuery("from=yesterday"), "from")
	assert.False(t, ok)
}

func TestMonthStartCrossesYear(t *testing.T) {
	now := time.Date(2025, 2, 17, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), MonthStart(now, -5))
	assert.Equal(t, "2024-09", MonthKey(MonthStart(now, -5)))
}

func TestPercent(t *testing.T) {
	assert.Nil(t, Percent(1, 0))
	assert.Equal(t, 67, *Percent(2, 3))
	assert.Equal(t, 100, *Percent(4, 4))
}
