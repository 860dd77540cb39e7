package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/tindahan-pos/pkg/pagination"
)

func TestValidateClampsParams(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults for zero values", 0, 0, 1, 15},
		{"negative page", -3, 20, 1, 20},
		{"per page over cap", 2, 500, 2, 100},
		{"in range untouched", 4, 25, 4, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagination.PaginationParams{Page: tt.page, PerPage: tt.perPage}
			p.Validate()
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestOffset(t *testing.T) {
	p := pagination.PaginationParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())

	p = pagination.PaginationParams{Page: 1, PerPage: 15}
	assert.Equal(t, 0, p.Offset())
}

func TestNewPagination(t *testing.T) {
	meta := pagination.NewPagination(2, 10, 35)

	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, 4, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
}

func TestNewPaginationEdges(t *testing.T) {
	empty := pagination.NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)

	last := pagination.NewPagination(4, 10, 35)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrev)
}

func TestNewPaginatedResult(t *testing.T) {
	items := []string{"a", "b"}
	result := pagination.NewPaginatedResult(items, pagination.NewPagination(1, 10, 2))

	assert.Equal(t, items, result.Items)
	assert.Equal(t, 1, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasNext)
}
