package services

import (
	"context"
	"encoding/json"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/redis"
	"laundry_manager/internal/repository"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memStore backs every fake repository with maps guarded by one mutex, so
// cross-repository writes behave like a single transaction.
type memStore struct {
	mu        sync.Mutex
	now       time.Time
	customers map[uuid.UUID]models.Customer
	tickets   map[uuid.UUID]models.Ticket
	services  map[uuid.UUID]models.Service
	ledger    []models.LoyaltyEntry
	notices   map[string]models.AgingNotice
	counters  map[string]int64
	expenses  []models.Expense
	inventory map[uuid.UUID]models.InventoryItem
	users     map[string]models.User

	ticketLookups int
}

func newMemStore(now time.Time) *memStore {
	return &memStore{
		now:       now,
		customers: map[uuid.UUID]models.Customer{},
		tickets:   map[uuid.UUID]models.Ticket{},
		services:  map[uuid.UUID]models.Service{},
		notices:   map[string]models.AgingNotice{},
		counters:  map[string]int64{},
		inventory: map[uuid.UUID]models.InventoryItem{},
		users:     map[string]models.User{},
	}
}

func (s *memStore) addService(name string, kind models.ServiceKind, price int64) models.Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc := models.Service{ID: uuid.New(), Name: name, Kind: kind, Price: price, IsActive: true}
	s.services[svc.ID] = svc
	return svc
}

func (s *memStore) addCustomer(name, phone string) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.Customer{ID: uuid.New(), Name: name, PhoneNumber: phone, CreatedAt: s.now}
	s.customers[c.ID] = c
	return c
}

func (s *memStore) customer(id uuid.UUID) models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customers[id]
}

// applyLocked mirrors the guarded UPDATE of the SQL repository.
func (s *memStore) applyLocked(id uuid.UUID, d models.CustomerDelta) (*models.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, apperr.NotFound("customers.apply_delta", "customer not found")
	}
	c.LoyaltyPoints += d.PointsDelta
	c.FreeValets += d.FreeValetsDelta
	c.ValetsCount += d.ValetsCountDelta
	c.ValetsRedeemed += d.ValetsRedeemedDelta
	if c.LoyaltyPoints < 0 || c.FreeValets < 0 || c.ValetsCount < 0 || c.ValetsRedeemed < 0 {
		return nil, apperr.Validation("customers.apply_delta", "insufficient balance")
	}
	if d.TouchLastVisit {
		visit := s.now
		c.LastVisit = &visit
	}
	c.UpdatedAt = s.now
	s.customers[id] = c
	return &c, nil
}

type memCustomerRepo struct{ s *memStore }

func (r memCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.PhoneNumber == customer.PhoneNumber {
			return apperr.Conflict("customers.create", "customer already exists")
		}
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.CreatedAt = r.s.now
	r.s.customers[customer.ID] = *customer
	return nil
}

func (r memCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, apperr.NotFound("customers.get", "customer not found")
	}
	return &c, nil
}

func (r memCustomerRepo) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.PhoneNumber == phone {
			c := c
			return &c, nil
		}
	}
	return nil, apperr.NotFound("customers.get_by_phone", "customer not found")
}

func (r memCustomerRepo) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Customer
	for _, c := range r.s.customers {
		if strings.Contains(strings.ToLower(c.Name), strings.ToLower(query)) || strings.Contains(c.PhoneNumber, query) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memCustomerRepo) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, apperr.NotFound("customers.update", "customer not found")
	}
	c.Name, c.PhoneNumber = name, phone
	r.s.customers[id] = c
	return &c, nil
}

func (r memCustomerRepo) ApplyDelta(ctx context.Context, id uuid.UUID, delta models.CustomerDelta) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.applyLocked(id, delta)
}

type memLoyaltyRepo struct{ s *memStore }

func (r memLoyaltyRepo) Record(ctx context.Context, entry *models.LoyaltyEntry) (*models.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, err := r.s.applyLocked(entry.CustomerID, entry.Delta())
	if err != nil {
		return nil, err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = r.s.now
	r.s.ledger = append(r.s.ledger, *entry)
	return c, nil
}

func (r memLoyaltyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.LoyaltyEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.LoyaltyEntry
	for i := len(r.s.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.s.ledger[i].CustomerID == customerID {
			out = append(out, r.s.ledger[i])
		}
	}
	return out, nil
}

type memServiceRepo struct{ s *memStore }

func (r memServiceRepo) Create(ctx context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, svc := range r.s.services {
		if svc.Name == service.Name {
			return apperr.Conflict("services.create", "service already exists")
		}
	}
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	r.s.services[service.ID] = *service
	return nil
}

func (r memServiceRepo) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Service
	for _, svc := range r.s.services {
		if activeOnly && !svc.IsActive {
			continue
		}
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memServiceRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]models.Service)
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			out[id] = svc
		}
	}
	return out, nil
}

func (r memServiceRepo) Update(ctx context.Context, service *models.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[service.ID]; !ok {
		return apperr.NotFound("services.update", "service not found")
	}
	r.s.services[service.ID] = *service
	return nil
}

type memTicketRepo struct{ s *memStore }

func (r memTicketRepo) Create(ctx context.Context, ticket *models.Ticket, counter string, format func(int64) string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	number := format(r.s.counters[counter] + 1)
	for _, t := range r.s.tickets {
		if t.TicketNumber == number {
			// the unique index rolls the draw back with the insert
			return apperr.Conflict("tickets.create", "ticket already exists")
		}
	}
	r.s.counters[counter]++
	ticket.TicketNumber = number
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.s.now
	}
	stored := *ticket
	stored.Customer = nil
	r.s.tickets[ticket.ID] = stored
	return nil
}

func (r memTicketRepo) loadLocked(t models.Ticket) *models.Ticket {
	if c, ok := r.s.customers[t.CustomerID]; ok {
		t.Customer = &c
	}
	return &t
}

func (r memTicketRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ticketLookups++
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, apperr.NotFound("tickets.get", "ticket not found")
	}
	return r.loadLocked(t), nil
}

func (r memTicketRepo) GetByNumber(ctx context.Context, number string) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tickets {
		if t.TicketNumber == number {
			return r.loadLocked(t), nil
		}
	}
	return nil, apperr.NotFound("tickets.get_by_number", "ticket not found")
}

func (r memTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Ticket
	for _, t := range r.s.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.CustomerID != nil && t.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.From != nil && t.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !t.CreatedAt.Before(*filter.To) {
			continue
		}
		out = append(out, *r.loadLocked(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r memTicketRepo) Transition(ctx context.Context, in repository.TransitionInput) (*models.Ticket, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[in.TicketID]
	if !ok {
		return nil, false, apperr.NotFound("tickets.transition", "ticket not found")
	}
	if t.Status != in.From {
		if t.Status == in.To {
			return r.loadLocked(t), false, nil
		}
		return nil, false, apperr.Conflict("tickets.transition", "ticket is "+string(t.Status))
	}

	if in.Loyalty != nil && !r.ledgerHasLocked(in.TicketID, in.To) {
		delta := in.Loyalty.Delta()
		delta.TouchLastVisit = true
		if _, err := r.s.applyLocked(in.Loyalty.CustomerID, delta); err != nil {
			return nil, false, err
		}
		entry := *in.Loyalty
		ticketID, target := in.TicketID, in.To
		entry.ID = uuid.New()
		entry.TicketID = &ticketID
		entry.TargetStatus = &target
		r.s.ledger = append(r.s.ledger, entry)
	}

	t.Status = in.To
	t.UpdatedAt = in.At
	if in.CancelReason != "" {
		t.CancelReason = in.CancelReason
	}
	if in.MarkPaid {
		t.IsPaid = true
	}
	if in.SetDelivered {
		at := in.At
		t.DeliveredAt = &at
	}
	r.s.tickets[t.ID] = t
	return r.loadLocked(t), true, nil
}

func (r memTicketRepo) ledgerHasLocked(ticketID uuid.UUID, to models.TicketStatus) bool {
	for _, e := range r.s.ledger {
		if e.TicketID != nil && *e.TicketID == ticketID && e.TargetStatus != nil && *e.TargetStatus == to {
			return true
		}
	}
	return false
}

func (r memTicketRepo) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, apperr.NotFound("tickets.mark_paid", "ticket not found")
	}
	if t.Status == models.TicketCanceled {
		return nil, apperr.Conflict("tickets.mark_paid", "ticket is canceled")
	}
	t.IsPaid = true
	r.s.tickets[id] = t
	return r.loadLocked(t), nil
}

type memNoticeRepo struct{ s *memStore }

func noticeKey(ticketID uuid.UUID, bucket models.AgingBucket) string {
	return ticketID.String() + "/" + string(bucket)
}

func (r memNoticeRepo) Claim(ctx context.Context, notice *models.AgingNotice, staleBefore time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := noticeKey(notice.TicketID, notice.Bucket)
	if existing, ok := r.s.notices[key]; ok && (existing.Sent || !existing.CreatedAt.Before(staleBefore)) {
		return false, nil
	}
	if notice.ID == uuid.Nil {
		notice.ID = uuid.New()
	}
	r.s.notices[key] = *notice
	return true, nil
}

func (r memNoticeRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, n := range r.s.notices {
		if n.ID == id {
			n.Sent = true
			r.s.notices[k] = n
		}
	}
	return nil
}

func (r memNoticeRepo) Release(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k, n := range r.s.notices {
		if n.ID == id && !n.Sent {
			delete(r.s.notices, k)
		}
	}
	return nil
}

func (r memNoticeRepo) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.AgingNotice
	for _, n := range r.s.notices {
		if n.TicketID == ticketID {
			out = append(out, n)
		}
	}
	return out, nil
}

type memCounterRepo struct{ s *memStore }

func (r memCounterRepo) Get(ctx context.Context, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.counters[name]
	if !ok {
		return 0, apperr.NotFound("counters.get", "counter not found")
	}
	return v, nil
}

func (r memCounterRepo) Reset(ctx context.Context, name string, value int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var highest int64
	if name == models.TicketCounter {
		for _, t := range r.s.tickets {
			if n, err := strconv.ParseInt(t.TicketNumber, 10, 64); err == nil && n > highest {
				highest = n
			}
		}
	}
	if value < 0 || value < highest {
		return apperr.Validation("counters.reset", "value below the highest number already issued")
	}
	r.s.counters[name] = value
	return nil
}

type memExpenseRepo struct{ s *memStore }

func (r memExpenseRepo) Create(ctx context.Context, expense *models.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	r.s.expenses = append(r.s.expenses, *expense)
	return nil
}

func (r memExpenseRepo) ListBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Expense
	for _, e := range r.s.expenses {
		if !e.SpentAt.Before(from) && e.SpentAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memExpenseRepo) SumBetween(ctx context.Context, from, to time.Time) (int64, error) {
	list, _ := r.ListBetween(ctx, from, to)
	var total int64
	for _, e := range list {
		total += e.Amount
	}
	return total, nil
}

type memInventoryRepo struct{ s *memStore }

func (r memInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.s.inventory[item.ID] = *item
	return nil
}

func (r memInventoryRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.InventoryItem
	for _, it := range r.s.inventory {
		out = append(out, it)
	}
	return out, nil
}

func (r memInventoryRepo) Adjust(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.inventory[id]
	if !ok {
		return nil, apperr.NotFound("inventory.adjust", "item not found")
	}
	if it.Quantity+delta < 0 {
		return nil, apperr.Validation("inventory.adjust", "insufficient stock")
	}
	it.Quantity += delta
	r.s.inventory[id] = it
	return &it, nil
}

func (r memInventoryRepo) ListLow(ctx context.Context) ([]models.InventoryItem, error) {
	all, _ := r.List(ctx)
	var out []models.InventoryItem
	for _, it := range all {
		if it.IsLow() {
			out = append(out, it)
		}
	}
	return out, nil
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Username]; ok {
		return apperr.Conflict("users.create", "user already exists")
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.s.users[user.Username] = *user
	return nil
}

func (r memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("users.get", "user not found")
}

func (r memUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, apperr.NotFound("users.get_by_username", "user not found")
	}
	return &u, nil
}

type fakeWhatsApp struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeWhatsApp) SendMessage(ctx context.Context, phone, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, phone+": "+message)
	return nil
}

// memCache stores JSON like the redis client does.
type memCache struct {
	mu      sync.Mutex
	reports map[string][]byte
	prefs   map[string]json.RawMessage
	sets    int
}

func newMemCache() *memCache {
	return &memCache{reports: map[string][]byte{}, prefs: map[string]json.RawMessage{}}
}

func (c *memCache) GetReport(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.reports[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memCache) SetReport(ctx context.Context, key string, report interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(report)
	if err != nil {
		return err
	}
	c.reports[key] = b
	c.sets++
	return nil
}

func (c *memCache) SetPreference(ctx context.Context, userID, key string, value json.RawMessage, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs[userID+":"+key] = value
	return nil
}

func (c *memCache) GetPreference(ctx context.Context, userID, key string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.prefs[userID+":"+key]
	if !ok {
		return nil, redis.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) DeletePreference(ctx context.Context, userID, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.prefs, userID+":"+key)
	return nil
}

func (c *memCache) ClearReports(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.reports))
	c.reports = map[string][]byte{}
	return n, nil
}

func (c *memCache) ClearPreferences(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := int64(len(c.prefs))
	c.prefs = map[string]json.RawMessage{}
	return n, nil
}

// harness wires the real services to one memStore.
type harness struct {
	store     *memStore
	customers CustomerService
	tickets   TicketService
	loyalty   LoyaltyService
	rule      LoyaltyRule
}

func newHarness(now time.Time) *harness {
	store := newMemStore(now)
	rule := LoyaltyRule{PointsPerValet: 10, RedemptionThreshold: 100}
	customers := NewCustomerService(memCustomerRepo{store}, "549")
	tickets := NewTicketService(memTicketRepo{store}, memServiceRepo{store}, customers, rule, 6)
	tickets.(*ticketService).now = func() time.Time { return store.now }
	return &harness{
		store:     store,
		customers: customers,
		tickets:   tickets,
		loyalty:   NewLoyaltyService(memCustomerRepo{store}, memLoyaltyRepo{store}, rule),
		rule:      rule,
	}
}
