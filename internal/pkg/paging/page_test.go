//go:build unit
// +build unit

package paging

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest_Clamps(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage int
		wantPage      int
		wantPerPage   int
		wantOffset    int
	}{
		{"defaults", 0, 0, 1, DefaultPerPage, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"second page", 2, 10, 2, 10, 10},
		{"capped size", 3, 1000, 3, MaxPerPage, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantPerPage, req.PerPage)
			assert.Equal(t, tt.wantOffset, req.Offset())
		})
	}
}

func TestNewRequest_HugePage(t *testing.T) {
	req := NewRequest(math.MaxInt, DefaultPerPage)
	assert.Equal(t, math.MaxInt/DefaultPerPage, req.Page)
	assert.GreaterOrEqual(t, req.Offset(), 0)

	page := NewPage[string](req, nil, 21)
	assert.Empty(t, page.Items)
	assert.Greater(t, page.Page, page.Pages)
}

func TestNewPage_Counts(t *testing.T) {
	page := NewPage(NewRequest(1, 10), []string{"a", "b"}, 21)
	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, int64(21), page.Total)
	assert.Len(t, page.Items, 2)
}

func TestNewPage_PastEnd(t *testing.T) {
	page := NewPage[string](NewRequest(9, 10), nil, 21)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 9, page.Page)
	assert.Equal(t, 3, page.Pages)
}

func TestNewPage_Empty(t *testing.T) {
	page := NewPage[int](NewRequest(1, 10), nil, 0)
	assert.Equal(t, 0, page.Pages)
}

func TestMap(t *testing.T) {
	page := NewPage(NewRequest(2, 2), []int{3, 4}, 5)
	mapped := Map(page, func(i int) string { return string(rune('a' + i)) })
	assert.Equal(t, []string{"d", "e"}, mapped.Items)
	assert.Equal(t, page.Pages, mapped.Pages)
	assert.Equal(t, page.Total, mapped.Total)
}
