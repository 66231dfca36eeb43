// utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListQuery carries the common list parameters: free-text search, offset
// pagination and a sort column checked against a per-entity allowlist.
type ListQuery struct {
	Search   string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// Pagination is the envelope block returned next to `data` on every list
// response.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
}

// ParseListQuery reads q/page/pageSize/sortBy/sortDir from the request.
// Out-of-range values are clamped rather than rejected; a sortBy outside
// the allowed set falls back to created_at.
func ParseListQuery(c *gin.Context, sortable ...string) ListQuery {
	q := ListQuery{
		Search:   strings.TrimSpace(c.Query("q")),
		Page:     1,
		PageSize: DefaultPageSize,
		SortBy:   "created_at",
		SortDir:  "desc",
	}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		switch {
		case v < 1:
			q.PageSize = 1
		case v > MaxPageSize:
			q.PageSize = MaxPageSize
		default:
			q.PageSize = v
		}
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		for _, col := range sortable {
			if sortBy == col {
				q.SortBy = sortBy
				break
			}
		}
	}
	if dir := strings.ToLower(c.Query("sortDir")); dir == "asc" {
		q.SortDir = "asc"
	}

	return q
}

// Offset returns the row offset for the current page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// OrderClause renders the ORDER BY fragment. SortBy is allowlisted in
// ParseListQuery so interpolation is safe here.
func (q ListQuery) OrderClause() string {
	return q.SortBy + " " + q.SortDir
}

// Paginate builds the envelope block for a filtered total.
func Paginate(q ListQuery, total int64) Pagination {
	pages := int(math.Ceil(float64(total) / float64(q.PageSize)))
	return Pagination{
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    total,
		Pages:    pages,
	}
}
