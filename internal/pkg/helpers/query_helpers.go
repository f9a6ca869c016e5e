package helpers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// QueryBool reads a boolean query parameter; anything unparsable is false
func QueryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && v
}

// QueryLimit reads a positive limit, falling back to def and capping at max
func QueryLimit(c *gin.Context, key string, def, max int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// QueryTime reads an RFC 3339 timestamp or a plain YYYY-MM-DD date.
// It returns nil for an empty parameter and ok=false for a malformed one.
func QueryTime(c *gin.Context, key string) (t *time.Time, ok bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	if v, err := time.Parse(time.RFC3339, raw); err == nil {
		return &v, true
	}
	if v, err := time.Parse(time.DateOnly, raw); err == nil {
		return &v, true
	}
	return nil, false
}
