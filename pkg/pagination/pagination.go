package pagination

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/driver-console/pkg/common"
)

const (
	// DefaultLimit is the default number of items per page
	DefaultLimit = 20
	// MaxLimit is the maximum number of items per page
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed)
	DefaultPage = 1
)

// Params represents pagination parameters
type Params struct {
	Page  int `form:"page" json:"page"`
	Limit int `form:"limit" json:"limit"`
}

// Offset converts the 1-indexed page into a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParseParams extracts and validates pagination parameters from request
func ParseParams(c *gin.Context) Params {
	params := Params{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	if err := c.ShouldBindQuery(&params); err != nil {
		// If binding fails, use defaults
		return Params{Page: DefaultPage, Limit: DefaultLimit}
	}

	if params.Page <= 0 {
		params.Page = DefaultPage
	}
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	return params
}

// BuildMeta creates pagination metadata for responses
func BuildMeta(params Params, total int64) *common.Meta {
	meta := &common.Meta{
		Page:         params.Page,
		Limit:        params.Limit,
		TotalRecords: total,
	}

	if params.Limit > 0 {
		meta.TotalPages = int(math.Ceil(float64(total) / float64(params.Limit)))
	}

	return meta
}
