package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func listQueryFor(rawQuery string, sortable ...string) ListQuery {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return ParseListQuery(c, sortable...)
}

func TestParseListQuery_Defaults(t *testing.T) {
	q := listQueryFor("", "name", "created_at")

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "created_at", q.SortBy)
	assert.Equal(t, "desc", q.SortDir)
	assert.Equal(t, 0, q.Offset())
}

func TestParseListQuery_Clamping(t *testing.T) {
	q := listQueryFor("page=0&pageSize=500")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)

	q = listQueryFor("page=-3&pageSize=0")
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 1, q.PageSize)
}

func TestParseListQuery_SortAllowlist(t *testing.T) {
	q := listQueryFor("sortBy=name&sortDir=asc", "name", "created_at")
	assert.Equal(t, "name", q.SortBy)
	assert.Equal(t, "asc", q.SortDir)
	assert.Equal(t, "name asc", q.OrderClause())

	// Columns outside the allowlist fall back to created_at.
	q = listQueryFor("sortBy=phone;DROP%20TABLE%20customers", "name", "created_at")
	assert.Equal(t, "created_at", q.SortBy)
}

func TestParseListQuery_Offset(t *testing.T) {
	q := listQueryFor("page=3&pageSize=10")
	assert.Equal(t, 20, q.Offset())
}

func TestPaginate(t *testing.T) {
	q := ListQuery{Page: 2, PageSize: 10}

	p := Paginate(q, 15)
	assert.Equal(t, int64(15), p.Total)
	assert.Equal(t, 2, p.Pages)

	p = Paginate(q, 0)
	assert.Equal(t, 0, p.Pages)

	p = Paginate(q, 20)
	assert.Equal(t, 2, p.Pages)

	p = Paginate(q, 21)
	assert.Equal(t, 3, p.Pages)
}
