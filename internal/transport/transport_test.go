package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	origDefault, origMax := defaultListLimit, maxListLimit
	defaultListLimit, maxListLimit = 100, 500
	defer func() { defaultListLimit, maxListLimit = origDefault, origMax }()

	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
	}{
		{"defaults", "", 0, 100},
		{"explicit values", "skip=20&limit=50", 20, 50},
		{"negative skip clamped", "skip=-3", 0, 100},
		{"zero limit falls back to default", "limit=0", 0, 100},
		{"limit capped at configured max", "limit=9999", 0, 500},
		{"garbage falls back", "skip=abc&limit=xyz", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skip, limit := parsePagination(paginationContext(t, tt.query))
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
