package services

import (
	"context"
	"errors"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/redis"
	"laundry_manager/internal/repository"
	"log"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

type ServiceTotal struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

type AnalyticsBucket struct {
	Start           time.Time                      `json:"start"`
	Label           string                         `json:"label"`
	Tickets         int                            `json:"tickets"`
	Canceled        int                            `json:"canceled"`
	Revenue         int64                          `json:"revenue"`
	Valets          int                            `json:"valets"`
	Services        []ServiceTotal                 `json:"services"`
	ByPaymentMethod map[models.PaymentMethod]int64 `json:"by_payment_method"`
}

type AnalyticsReport struct {
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	Period  Period            `json:"period"`
	Buckets []AnalyticsBucket `json:"buckets"`
}

type AnalyticsSummary struct {
	From            time.Time                      `json:"from"`
	To              time.Time                      `json:"to"`
	Tickets         int                            `json:"tickets"`
	Canceled        int                            `json:"canceled"`
	Revenue         int64                          `json:"revenue"`
	Expenses        int64                          `json:"expenses"`
	Net             int64                          `json:"net"`
	ByPaymentMethod map[models.PaymentMethod]int64 `json:"by_payment_method"`
}

// BucketStart truncates t to the start of its period in loc. Weeks start on
// Monday.
func BucketStart(t time.Time, p Period, loc *time.Location) time.Time {
	t = t.In(loc)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	switch p {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	}
	return day
}

func bucketLabel(start time.Time, p Period) string {
	if p == PeriodMonth {
		return start.Format("2006-01")
	}
	return start.Format("2006-01-02")
}

// BucketTickets groups tickets by period, in chronological order. Canceled
// tickets are counted but add no revenue, valets or services.
func BucketTickets(tickets []models.Ticket, period Period, loc *time.Location) []AnalyticsBucket {
	byStart := make(map[time.Time]*AnalyticsBucket)
	serviceTotals := make(map[time.Time]map[string]*ServiceTotal)
	for _, t := range tickets {
		start := BucketStart(t.CreatedAt, period, loc)
		b, ok := byStart[start]
		if !ok {
			b = &AnalyticsBucket{
				Start:           start,
				Label:           bucketLabel(start, period),
				Services:        []ServiceTotal{},
				ByPaymentMethod: map[models.PaymentMethod]int64{},
			}
			byStart[start] = b
			serviceTotals[start] = make(map[string]*ServiceTotal)
		}
		b.Tickets++
		if t.Status == models.TicketCanceled {
			b.Canceled++
			continue
		}
		b.Revenue += t.TotalPrice
		b.Valets += t.ValetQuantity
		b.ByPaymentMethod[t.PaymentMethod] += t.TotalPrice
		for _, item := range t.Items {
			st, ok := serviceTotals[start][item.Name]
			if !ok {
				st = &ServiceTotal{Name: item.Name}
				serviceTotals[start][item.Name] = st
			}
			st.Quantity += item.Quantity
			st.Revenue += item.Subtotal()
		}
	}

	buckets := make([]AnalyticsBucket, 0, len(byStart))
	for start, b := range byStart {
		for _, st := range serviceTotals[start] {
			b.Services = append(b.Services, *st)
		}
		sort.Slice(b.Services, func(i, j int) bool { return b.Services[i].Name < b.Services[j].Name })
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Start.Before(buckets[j].Start) })
	return buckets
}

// ReportCache is the read-through cache in front of report queries.
type ReportCache interface {
	GetReport(ctx context.Context, key string, dest interface{}) error
	SetReport(ctx context.Context, key string, report interface{}, ttl time.Duration) error
}

type AnalyticsService interface {
	Report(ctx context.Context, from, to time.Time, period Period) (*AnalyticsReport, error)
	Summary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error)
}

type analyticsService struct {
	ticketRepo  repository.TicketRepository
	expenseRepo repository.ExpenseRepository
	cache       ReportCache
	ttl         time.Duration
	loc         *time.Location
}

func NewAnalyticsService(
	ticketRepo repository.TicketRepository,
	expenseRepo repository.ExpenseRepository,
	cache ReportCache,
	ttl time.Duration,
	loc *time.Location,
) AnalyticsService {
	return &analyticsService{ticketRepo: ticketRepo, expenseRepo: expenseRepo, cache: cache, ttl: ttl, loc: loc}
}

func validateRange(op string, from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperr.Validation(op, "from and to are required")
	}
	if !from.Before(to) {
		return apperr.Validation(op, "from must be before to")
	}
	return nil
}

func (s *analyticsService) Report(ctx context.Context, from, to time.Time, period Period) (*AnalyticsReport, error) {
	if !period.Valid() {
		return nil, apperr.Validation("analytics.report", fmt.Sprintf("unknown period %q", period))
	}
	if err := validateRange("analytics.report", from, to); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s:%d:%d", period, from.Unix(), to.Unix())
	var cached AnalyticsReport
	if s.cache != nil {
		err := s.cache.GetReport(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			log.Printf("Analytics cache read %s: %v", key, err)
		}
	}

	tickets, err := s.ticketRepo.List(ctx, repository.TicketFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	report := &AnalyticsReport{
		From:    from,
		To:      to,
		Period:  period,
		Buckets: BucketTickets(tickets, period, s.loc),
	}
	if s.cache != nil {
		if err := s.cache.SetReport(ctx, key, report, s.ttl); err != nil {
			log.Printf("Analytics cache write %s: %v", key, err)
		}
	}
	return report, nil
}

func (s *analyticsService) Summary(ctx context.Context, from, to time.Time) (*AnalyticsSummary, error) {
	if err := validateRange("analytics.summary", from, to); err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.List(ctx, repository.TicketFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenseRepo.SumBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	summary := &AnalyticsSummary{
		From:            from,
		To:              to,
		Expenses:        expenses,
		ByPaymentMethod: map[models.PaymentMethod]int64{},
	}
	for _, t := range tickets {
		summary.Tickets++
		if t.Status == models.TicketCanceled {
			summary.Canceled++
			continue
		}
		summary.Revenue += t.TotalPrice
		summary.ByPaymentMethod[t.PaymentMethod] += t.TotalPrice
	}
	summary.Net = summary.Revenue - summary.Expenses
	return summary, nil
}

// ExportAnalyticsXLSX writes one row per bucket and one sheet with the
// service breakdown.
func ExportAnalyticsXLSX(report *AnalyticsReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Resumen"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Periodo", "Tickets", "Cancelados", "Facturado", "Valets"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, b := range report.Buckets {
		values := []any{b.Label, b.Tickets, b.Canceled, b.Revenue, b.Valets}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	detail := "Servicios"
	if _, err := f.NewSheet(detail); err != nil {
		return nil, err
	}
	for c, v := range []string{"Periodo", "Servicio", "Cantidad", "Facturado"} {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(detail, cell, v)
	}
	row := 2
	for _, b := range report.Buckets {
		for _, st := range b.Services {
			values := []any{b.Label, st.Name, st.Quantity, st.Revenue}
			for c, v := range values {
				cell, _ := excelize.CoordinatesToCellName(c+1, row)
				_ = f.SetCellValue(detail, cell, v)
			}
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(detail, "B", "B", 28)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "E1", style)
	_ = f.SetCellStyle(detail, "A1", "D1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
