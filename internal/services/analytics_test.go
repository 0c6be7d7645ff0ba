package services

import (
	"bytes"
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

func TestBucketStart(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	// Wednesday 2024-05-15 01:30 UTC is Tuesday 22:30 in ART.
	ts := time.Date(2024, 5, 15, 1, 30, 0, 0, time.UTC)
	tests := []struct {
		period Period
		want   time.Time
	}{
		{PeriodDay, time.Date(2024, 5, 14, 0, 0, 0, 0, loc)},
		{PeriodWeek, time.Date(2024, 5, 13, 0, 0, 0, 0, loc)},
		{PeriodMonth, time.Date(2024, 5, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		if got := BucketStart(ts, tt.period, loc); !got.Equal(tt.want) {
			t.Errorf("%s: got %v, want %v", tt.period, got, tt.want)
		}
	}
	sunday := time.Date(2024, 5, 19, 15, 0, 0, 0, loc)
	if got := BucketStart(sunday, PeriodWeek, loc); !got.Equal(time.Date(2024, 5, 13, 0, 0, 0, 0, loc)) {
		t.Errorf("sunday belongs to the week starting monday, got %v", got)
	}
}

func analyticsTicket(at time.Time, total int64, status models.TicketStatus, items ...models.TicketItem) models.Ticket {
	return models.Ticket{
		ID:            uuid.New(),
		CreatedAt:     at,
		TotalPrice:    total,
		Status:        status,
		PaymentMethod: models.PaymentCash,
		ValetQuantity: 1,
		Items:         items,
	}
}

func TestBucketTickets(t *testing.T) {
	loc := time.UTC
	wash := models.TicketItem{Name: "Lavado", UnitPrice: 15, Quantity: 1}
	jacket := models.TicketItem{Name: "Saco", UnitPrice: 20, Quantity: 2}
	tickets := []models.Ticket{
		analyticsTicket(time.Date(2024, 5, 2, 10, 0, 0, 0, loc), 55, models.TicketDelivered, wash, jacket),
		analyticsTicket(time.Date(2024, 5, 1, 10, 0, 0, 0, loc), 15, models.TicketPending, wash),
		analyticsTicket(time.Date(2024, 5, 1, 18, 0, 0, 0, loc), 15, models.TicketCanceled, wash),
	}
	buckets := BucketTickets(tickets, PeriodDay, loc)
	if len(buckets) != 2 {
		t.Fatalf("buckets=%d", len(buckets))
	}
	first := buckets[0]
	if first.Label != "2024-05-01" || first.Tickets != 2 || first.Canceled != 1 || first.Revenue != 15 || first.Valets != 1 {
		t.Fatalf("first bucket: %+v", first)
	}
	second := buckets[1]
	if second.Revenue != 55 || len(second.Services) != 2 || second.Services[1].Name != "Saco" || second.Services[1].Revenue != 40 {
		t.Fatalf("second bucket: %+v", second)
	}

	monthly := BucketTickets(tickets, PeriodMonth, loc)
	if len(monthly) != 1 || monthly[0].Label != "2024-05" || monthly[0].Revenue != 70 {
		t.Fatalf("monthly: %+v", monthly)
	}
	if monthly[0].ByPaymentMethod[models.PaymentCash] != 70 {
		t.Fatalf("by payment method: %+v", monthly[0].ByPaymentMethod)
	}
}

func TestAnalyticsReportUsesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(time.Now())
	cache := newMemCache()
	svc := NewAnalyticsService(memTicketRepo{store}, memExpenseRepo{store}, cache, time.Minute, time.UTC)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	t1 := analyticsTicket(from.Add(2*time.Hour), 100, models.TicketDelivered)
	store.tickets[t1.ID] = t1

	report, err := svc.Report(ctx, from, to, PeriodWeek)
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if len(report.Buckets) != 1 || report.Buckets[0].Revenue != 100 {
		t.Fatalf("report: %+v", report)
	}

	t2 := analyticsTicket(from.Add(3*time.Hour), 50, models.TicketDelivered)
	store.tickets[t2.ID] = t2
	cached, err := svc.Report(ctx, from, to, PeriodWeek)
	if err != nil {
		t.Fatalf("cached Report: %v", err)
	}
	if cached.Buckets[0].Revenue != 100 || cache.sets != 1 {
		t.Fatalf("expected cached report, got revenue=%d sets=%d", cached.Buckets[0].Revenue, cache.sets)
	}

	if _, err := svc.Report(ctx, from, to, "year"); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for period, got %v", err)
	}
	if _, err := svc.Report(ctx, to, from, PeriodDay); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for range, got %v", err)
	}
}

func TestAnalyticsSummary(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(time.Now())
	svc := NewAnalyticsService(memTicketRepo{store}, memExpenseRepo{store}, nil, time.Minute, time.UTC)
	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	for _, tk := range []models.Ticket{
		analyticsTicket(from.Add(time.Hour), 300, models.TicketDelivered),
		analyticsTicket(from.Add(2*time.Hour), 200, models.TicketReady),
		analyticsTicket(from.Add(3*time.Hour), 999, models.TicketCanceled),
		analyticsTicket(to.Add(time.Hour), 1000, models.TicketDelivered),
	} {
		store.tickets[tk.ID] = tk
	}
	store.expenses = append(store.expenses, models.Expense{Amount: 120, SpentAt: from.Add(time.Hour)})

	summary, err := svc.Summary(ctx, from, to)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Tickets != 3 || summary.Canceled != 1 || summary.Revenue != 500 || summary.Expenses != 120 || summary.Net != 380 {
		t.Fatalf("summary: %+v", summary)
	}
}

func TestExportAnalyticsXLSX(t *testing.T) {
	report := &AnalyticsReport{
		Period: PeriodDay,
		Buckets: []AnalyticsBucket{{
			Label:    "2024-05-01",
			Tickets:  2,
			Revenue:  65,
			Services: []ServiceTotal{{Name: "Lavado", Quantity: 1, Revenue: 15}},
		}},
	}
	data, err := ExportAnalyticsXLSX(report)
	if err != nil {
		t.Fatalf("ExportAnalyticsXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Resumen", "A2"); v != "2024-05-01" {
		t.Fatalf("Resumen!A2=%q", v)
	}
	if v, _ := f.GetCellValue("Servicios", "B2"); v != "Lavado" {
		t.Fatalf("Servicios!B2=%q", v)
	}
}
