package storage

import (
	"testing"
	"time"
)

func TestDateFilter(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		from     *time.Time
		to       *time.Time
		wantSQL  string
		wantArgs int
	}{
		{"no bounds", nil, nil, "", 0},
		{"from only", &from, nil, "WHERE o.created_at::date >= $1", 1},
		{"to only", nil, &to, "WHERE o.created_at::date <= $1", 1},
		{"both", &from, &to, "WHERE o.created_at::date >= $1 AND o.created_at::date <= $2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := dateFilter(tt.from, tt.to)
			if gotSQL != tt.wantSQL {
				t.Errorf("sql = %q, want %q", gotSQL, tt.wantSQL)
			}
			if len(gotArgs) != tt.wantArgs {
				t.Errorf("args = %d, want %d", len(gotArgs), tt.wantArgs)
			}
		})
	}
}
