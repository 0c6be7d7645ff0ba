// Package metrics holds the prometheus collectors of the laundry service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TicketsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laundry_tickets_created_total",
		Help: "Tickets created.",
	})
	TicketTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "laundry_ticket_transitions_total",
		Help: "Ticket status transitions applied, by target status.",
	}, []string{"to"})
	LoyaltyPointsAccrued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laundry_loyalty_points_accrued_total",
		Help: "Loyalty points granted on delivery.",
	})
	LoyaltyRedemptions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "laundry_loyalty_redemptions_total",
		Help: "Free valets redeemed against points.",
	})
	AgingNoticesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "laundry_aging_notices_sent_total",
		Help: "Unretrieved ticket notices delivered, by bucket.",
	}, []string{"bucket"})
)

func init() {
	prometheus.MustRegister(
		TicketsCreated,
		TicketTransitions,
		LoyaltyPointsAccrued,
		LoyaltyRedemptions,
		AgingNoticesSent,
	)
}
