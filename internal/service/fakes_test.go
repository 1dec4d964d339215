package service

import (
	"context"
	"sync"

	"storefront/internal/apiclient"
	"storefront/internal/model"
	"storefront/internal/repository"
)

type fakeBackend struct {
	mu sync.Mutex

	order       *model.Order
	orders      []model.Order
	ownerOrder  *apiclient.OwnerOrder
	summary     *model.CheckoutSummary
	notes       []model.Notification
	err         error
	createErrs  []error
	creates     int
	profiles    []model.Profile
	statusReqs  []model.StatusUpdateRequest
	marked      map[string]bool
	ownerListed bool
	ownerMarked bool
	cartQty     map[string]int
}

func (f *fakeBackend) backendFor(token string) Backend { return f }

func (f *fakeBackend) HasSession() bool { return true }

func (f *fakeBackend) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func (f *fakeBackend) ListOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders, f.err
}

func (f *fakeBackend) GetSummary(ctx context.Context, claimNewUser bool) (*model.CheckoutSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeBackend) SetCartQuantity(ctx context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartQty == nil {
		f.cartQty = map[string]int{}
	}
	f.cartQty[productID] = quantity
	return nil
}

func (f *fakeBackend) RemoveFromCart(ctx context.Context, productID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cartQty == nil {
		f.cartQty = map[string]int{}
	}
	f.cartQty[productID] = 0
	return nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &model.CreateOrderResponse{OrderID: "ord-1", OrderNumber: "SF-1"}, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, p model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeBackend) CreatePayment(ctx context.Context, orderID string) (*model.PaymentSession, error) {
	return &model.PaymentSession{Key: "rzp", GatewayOrderID: "gw-1", Currency: "INR"}, nil
}

func (f *fakeBackend) GetOwnerOrder(ctx context.Context, orderID string) (*apiclient.OwnerOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.ownerOrder
	return &cp, nil
}

func (f *fakeBackend) ListOwnerOrders(ctx context.Context) ([]apiclient.OwnerOrder, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []apiclient.OwnerOrder{*f.ownerOrder}, nil
}

func (f *fakeBackend) UpdateOrderStatus(ctx context.Context, orderID string, req model.StatusUpdateRequest) error {
	f.statusReqs = append(f.statusReqs, req)
	return nil
}

func (f *fakeBackend) ListNotifications(ctx context.Context, owner bool) ([]model.Notification, error) {
	f.ownerListed = owner
	return f.notes, f.err
}

func (f *fakeBackend) MarkNotification(ctx context.Context, id string, read, owner bool) error {
	if f.err != nil {
		return f.err
	}
	f.ownerMarked = owner
	if f.marked == nil {
		f.marked = map[string]bool{}
	}
	f.marked[id] = read
	return nil
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]model.Draft
}

func (m *memDrafts) SaveDraft(ctx context.Context, d *model.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drafts == nil {
		m.drafts = map[string]model.Draft{}
	}
	m.drafts[d.UserID] = *d
	return nil
}

func (m *memDrafts) FindDraft(ctx context.Context, userID string) (*model.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

type memEvents struct {
	events []model.StatusChange
}

func (m *memEvents) AppendEvent(ctx context.Context, c model.StatusChange) error {
	m.events = append(m.events, c)
	return nil
}

func (m *memEvents) FindEventsByUserID(ctx context.Context, userID string, limit int64) ([]model.StatusChange, error) {
	var out []model.StatusChange
	for i := len(m.events) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if m.events[i].UserID == userID {
			out = append(out, m.events[i])
		}
	}
	return out, nil
}

type fakePublisher struct {
	published []string
}

func (p *fakePublisher) PublishOrderPlaced(ctx context.Context, userID, orderID, orderNumber string, method model.PaymentMethod) (string, error) {
	p.published = append(p.published, orderID)
	return "corr-1", nil
}

var buyer = &AuthUser{ID: "buyer@example.com", Role: RoleUser, Token: "tok"}
var owner = &AuthUser{ID: "owner-1", Role: RoleShopOwner, Token: "tok-owner"}
