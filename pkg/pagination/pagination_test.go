package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		expectPage  int
		expectLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "page=3&limit=50", 3, 50},
		{"zero page", "page=0&limit=10", 1, 10},
		{"negative page", "page=-2", 1, 20},
		{"limit capped", "limit=5000", 1, 100},
		{"zero limit", "limit=0", 1, 20},
		{"garbage falls back", "page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

			params := ParseParams(c)
			assert.Equal(t, tt.expectPage, params.Page)
			assert.Equal(t, tt.expectLimit, params.Limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, Params{Page: 3, Limit: 20}.Offset())
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 20}, 45)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, int64(45), meta.TotalRecords)
	assert.Equal(t, 3, meta.TotalPages)

	empty := BuildMeta(Params{Page: 1, Limit: 20}, 0)
	assert.Equal(t, 0, empty.TotalPages)
}
