package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Service{},
		&Ticket{},
		&TicketItem{},
		&LoyaltyEntry{},
		&Counter{},
		&AgingNotice{},
		&Expense{},
		&InventoryItem{},
	}
}
