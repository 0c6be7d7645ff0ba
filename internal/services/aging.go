package services

import (
	"context"
	"fmt"
	"laundry_manager/internal/config"
	"laundry_manager/internal/metrics"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
)

// staleClaimAfter is how long an unsent notice may stay claimed before a
// later scan assumes the sender died and takes it over.
const staleClaimAfter = time.Hour

type AgingPolicy struct {
	FirstWarningDays int
	FinalWarningDays int
}

func NewAgingPolicy(cfg config.AgingConfig) AgingPolicy {
	return AgingPolicy{FirstWarningDays: cfg.FirstWarningDays, FinalWarningDays: cfg.FinalWarningDays}
}

type AgingAlert struct {
	Ticket           models.Ticket      `json:"ticket"`
	DaysSinceCreated int                `json:"days_since_created"`
	Bucket           models.AgingBucket `json:"bucket"`
}

type AgingReport struct {
	GeneratedAt  time.Time    `json:"generated_at"`
	FirstWarning []AgingAlert `json:"first_warning"`
	FinalWarning []AgingAlert `json:"final_warning"`
}

// DaysSince is the number of whole days elapsed from created to now.
func DaysSince(created, now time.Time) int {
	if now.Before(created) {
		return 0
	}
	return int(now.Sub(created) / (24 * time.Hour))
}

// Classify places a ticket in at most one bucket; the final warning wins
// over the first one.
func (p AgingPolicy) Classify(days int) (models.AgingBucket, bool) {
	switch {
	case days >= p.FinalWarningDays:
		return models.AgingFinalWarning, true
	case days >= p.FirstWarningDays:
		return models.AgingFirstWarning, true
	}
	return "", false
}

// ClassifyAging buckets the uncollected tickets, oldest first. Delivered and
// canceled tickets are ignored.
func ClassifyAging(tickets []models.Ticket, now time.Time, policy AgingPolicy) AgingReport {
	report := AgingReport{
		GeneratedAt:  now,
		FirstWarning: []AgingAlert{},
		FinalWarning: []AgingAlert{},
	}
	for _, t := range tickets {
		if t.Status.Terminal() {
			continue
		}
		days := DaysSince(t.CreatedAt, now)
		bucket, ok := policy.Classify(days)
		if !ok {
			continue
		}
		alert := AgingAlert{Ticket: t, DaysSinceCreated: days, Bucket: bucket}
		if bucket == models.AgingFinalWarning {
			report.FinalWarning = append(report.FinalWarning, alert)
		} else {
			report.FirstWarning = append(report.FirstWarning, alert)
		}
	}
	oldestFirst := func(alerts []AgingAlert) {
		sort.SliceStable(alerts, func(i, j int) bool {
			return alerts[i].DaysSinceCreated > alerts[j].DaysSinceCreated
		})
	}
	oldestFirst(report.FirstWarning)
	oldestFirst(report.FinalWarning)
	return report
}

// ComposeAgingMessage renders the WhatsApp text sent for an alert.
func ComposeAgingMessage(alert AgingAlert, customerName string) string {
	if alert.Bucket == models.AgingFinalWarning {
		return fmt.Sprintf("Hola %s! Tu pedido #%s lleva %d días listo sin retirarse. "+
			"Si no lo retirás a la brevedad, las prendas podrán ser donadas.",
			customerName, alert.Ticket.TicketNumber, alert.DaysSinceCreated)
	}
	return fmt.Sprintf("Hola %s! Tu pedido #%s está listo para retirar hace %d días. Te esperamos!",
		customerName, alert.Ticket.TicketNumber, alert.DaysSinceCreated)
}

type AgingScanResult struct {
	Notified int `json:"notified"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

type AgingService interface {
	Report(ctx context.Context) (*AgingReport, error)
	// Scan notifies each aged ticket's owner once per bucket.
	Scan(ctx context.Context) (*AgingScanResult, error)
	Notices(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error)
}

type agingService struct {
	ticketRepo      repository.TicketRepository
	customerRepo    repository.CustomerRepository
	noticeRepo      repository.AgingNoticeRepository
	whatsappService WhatsAppService
	policy          AgingPolicy
	now             func() time.Time
}

func NewAgingService(
	ticketRepo repository.TicketRepository,
	customerRepo repository.CustomerRepository,
	noticeRepo repository.AgingNoticeRepository,
	whatsappService WhatsAppService,
	policy AgingPolicy,
) AgingService {
	return &agingService{
		ticketRepo:      ticketRepo,
		customerRepo:    customerRepo,
		noticeRepo:      noticeRepo,
		whatsappService: whatsappService,
		policy:          policy,
		now:             time.Now,
	}
}

func (s *agingService) Report(ctx context.Context) (*AgingReport, error) {
	tickets, err := s.ticketRepo.List(ctx, repository.TicketFilter{Status: models.TicketReady})
	if err != nil {
		return nil, err
	}
	report := ClassifyAging(tickets, s.now(), s.policy)
	return &report, nil
}

func (s *agingService) Scan(ctx context.Context) (*AgingScanResult, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	result := &AgingScanResult{}
	alerts := append(append([]AgingAlert{}, report.FinalWarning...), report.FirstWarning...)
	for _, alert := range alerts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		s.notify(ctx, alert, result)
	}
	log.Printf("Aging scan finished: notified=%d skipped=%d failed=%d", result.Notified, result.Skipped, result.Failed)
	return result, nil
}

func (s *agingService) notify(ctx context.Context, alert AgingAlert, result *AgingScanResult) {
	customer := alert.Ticket.Customer
	if customer == nil {
		c, err := s.customerRepo.GetByID(ctx, alert.Ticket.CustomerID)
		if err != nil {
			log.Printf("Aging scan: customer of ticket %s: %v", alert.Ticket.TicketNumber, err)
			result.Failed++
			return
		}
		customer = c
	}

	now := s.now()
	notice := &models.AgingNotice{
		TicketID:  alert.Ticket.ID,
		Bucket:    alert.Bucket,
		Phone:     customer.PhoneNumber,
		Message:   ComposeAgingMessage(alert, customer.Name),
		CreatedAt: now,
	}
	claimed, err := s.noticeRepo.Claim(ctx, notice, now.Add(-staleClaimAfter))
	if err != nil {
		log.Printf("Aging scan: claim notice for ticket %s: %v", alert.Ticket.TicketNumber, err)
		result.Failed++
		return
	}
	if !claimed {
		result.Skipped++
		return
	}

	if err := s.whatsappService.SendMessage(ctx, notice.Phone, notice.Message); err != nil {
		log.Printf("Aging scan: send to %s for ticket %s: %v", notice.Phone, alert.Ticket.TicketNumber, err)
		if rerr := s.noticeRepo.Release(ctx, notice.ID); rerr != nil {
			log.Printf("Aging scan: release notice %s: %v", notice.ID, rerr)
		}
		result.Failed++
		return
	}
	if err := s.noticeRepo.MarkSent(ctx, notice.ID); err != nil {
		log.Printf("Aging scan: mark notice %s sent: %v", notice.ID, err)
	}
	metrics.AgingNoticesSent.WithLabelValues(string(alert.Bucket)).Inc()
	result.Notified++
}

func (s *agingService) Notices(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error) {
	return s.noticeRepo.ListByTicket(ctx, ticketID)
}
