package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantPage   int
		wantSize   int
		wantOffset int
	}{
		{name: "defaults", url: "/patient/display", wantPage: 1, wantSize: 5, wantOffset: 0},
		{name: "explicit", url: "/patient/display?page=3&page_size=20", wantPage: 3, wantSize: 20, wantOffset: 40},
		{name: "zero page falls back", url: "/patient/display?page=0", wantPage: 1, wantSize: 5, wantOffset: 0},
		{name: "negative page falls back", url: "/patient/display?page=-2", wantPage: 1, wantSize: 5, wantOffset: 0},
		{name: "oversized page_size falls back", url: "/patient/display?page_size=500", wantPage: 1, wantSize: 5, wantOffset: 0},
		{name: "garbage falls back", url: "/patient/display?page=abc&page_size=xyz", wantPage: 1, wantSize: 5, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromRequest(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResultNilData(t *testing.T) {
	result := NewResult[string](nil, 0, DefaultParams())
	assert.NotNil(t, result.Data)
	assert.Empty(t, result.Data)
	assert.Equal(t, 0, result.Count)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 5, result.PageSize)
}
