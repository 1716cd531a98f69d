package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     Page
		want   Page
		offset int
	}{
		{name: "zero values", in: Page{}, want: Page{Page: 1, PageSize: DefaultPageSize}, offset: 0},
		{name: "second page", in: Page{Page: 2, PageSize: 10}, want: Page{Page: 2, PageSize: 10}, offset: 10},
		{name: "too large", in: Page{Page: 1, PageSize: 1000}, want: Page{Page: 1, PageSize: DefaultPageSize}, offset: 0},
		{name: "negative page", in: Page{Page: -3, PageSize: 5}, want: Page{Page: 1, PageSize: 5}, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
			assert.Equal(t, tt.offset, tt.in.Offset())
		})
	}
}

func TestNewResult(t *testing.T) {
	r := NewResult([]int{1, 2}, Page{Page: 1, PageSize: 2}, 5)
	assert.Equal(t, 3, r.TotalPages)
	assert.True(t, r.HasNext)

	empty := NewResult[int](nil, Page{}, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.NotNil(t, empty.Items)
}
