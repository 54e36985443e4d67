package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Normalizes(t *testing.T) {
	p := New(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.Offset())

	p = New(3, 5)
	assert.Equal(t, 10, p.Offset())
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		params    Params
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty", 0, New(1, 5), 0, false, false},
		{"exact", 10, New(1, 5), 2, true, false},
		{"remainder", 11, New(2, 5), 3, true, true},
		{"last page", 11, New(3, 5), 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResult[int](nil, tt.total, tt.params)
			assert.NotNil(t, r.Data)
			assert.Equal(t, tt.wantPages, r.TotalPages)
			assert.Equal(t, tt.wantNext, r.HasNext)
			assert.Equal(t, tt.wantPrev, r.HasPrev)
			assert.Len(t, r.Pages(), tt.wantPages)
		})
	}
}
