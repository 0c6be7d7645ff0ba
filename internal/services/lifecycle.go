package services

import "laundry_manager/internal/models"

var transitionMap = map[models.TicketStatus][]models.TicketStatus{
	models.TicketPending:    {models.TicketProcessing, models.TicketCanceled},
	models.TicketProcessing: {models.TicketReady, models.TicketCanceled},
	models.TicketReady:      {models.TicketDelivered, models.TicketCanceled},
}

// CanTransition reports whether a ticket in from may move to to. Delivered
// and canceled tickets never move again.
func CanTransition(from, to models.TicketStatus) bool {
	for _, status := range transitionMap[from] {
		if status == to {
			return true
		}
	}
	return false
}
