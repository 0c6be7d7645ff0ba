package repository

import (
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"testing"
)

func TestCheckReset(t *testing.T) {
	tests := []struct {
		name    string
		value   int64
		highest int64
		ok      bool
	}{
		{"fresh counter", 0, 0, true},
		{"at highest issued", 5, 5, true},
		{"above highest issued", 500, 5, true},
		{"below highest issued", 0, 5, false},
		{"one below highest issued", 4, 5, false},
		{"negative", -1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkReset(models.TicketCounter, tt.value, tt.highest)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !apperr.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
