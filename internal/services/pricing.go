package services

import (
	"fmt"
	"laundry_manager/internal/apperr"
)

// PricedService is a selected standard service with its catalog price.
type PricedService struct {
	Name  string
	Price int64
}

// DryCleaningLine is a dry-cleaning garment priced per piece.
type DryCleaningLine struct {
	Name     string
	Price    int64
	Quantity int
}

// CalculateTotal sums the standard service prices and every dry-cleaning
// line's price times quantity, in whole currency units.
func CalculateTotal(services []PricedService, dryCleaning []DryCleaningLine) (int64, error) {
	var total int64
	for _, s := range services {
		if s.Price < 0 {
			return 0, apperr.Validation("pricing.total", fmt.Sprintf("service %q has a negative price", s.Name))
		}
		total += s.Price
	}
	for _, line := range dryCleaning {
		if line.Price < 0 {
			return 0, apperr.Validation("pricing.total", fmt.Sprintf("item %q has a negative price", line.Name))
		}
		if line.Quantity <= 0 {
			return 0, apperr.Validation("pricing.total", fmt.Sprintf("item %q needs a positive quantity", line.Name))
		}
		total += line.Price * int64(line.Quantity)
	}
	return total, nil
}

// FormatTicketNumber zero-pads seq to width digits.
func FormatTicketNumber(seq int64, width int) string {
	return fmt.Sprintf("%0*d", width, seq)
}
