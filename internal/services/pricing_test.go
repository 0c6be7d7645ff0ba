package services

import (
	"laundry_manager/internal/apperr"
	"testing"
)

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name     string
		services []PricedService
		lines    []DryCleaningLine
		want     int64
		wantErr  bool
	}{
		{
			name:     "services and dry cleaning",
			services: []PricedService{{Name: "Lavado", Price: 15}, {Name: "Secado", Price: 10}},
			lines:    []DryCleaningLine{{Name: "Saco", Price: 20, Quantity: 2}},
			want:     65,
		},
		{name: "empty", want: 0},
		{name: "only dry cleaning", lines: []DryCleaningLine{{Name: "Tapado", Price: 3500, Quantity: 3}}, want: 10500},
		{name: "negative service price", services: []PricedService{{Name: "x", Price: -1}}, wantErr: true},
		{name: "negative line price", lines: []DryCleaningLine{{Name: "x", Price: -5, Quantity: 1}}, wantErr: true},
		{name: "zero quantity", lines: []DryCleaningLine{{Name: "x", Price: 5, Quantity: 0}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateTotal(tt.services, tt.lines)
			if tt.wantErr {
				if !apperr.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("CalculateTotal=%d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatTicketNumber(t *testing.T) {
	if got := FormatTicketNumber(42, 6); got != "000042" {
		t.Fatalf("got %q", got)
	}
	if got := FormatTicketNumber(1234567, 6); got != "1234567" {
		t.Fatalf("wider numbers must not be truncated, got %q", got)
	}
}
