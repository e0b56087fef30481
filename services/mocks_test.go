package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Sweet repository ---

type memSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*models.Sweet
	err    error
}

func newMemSweetRepo(sweets ...*models.Sweet) *memSweetRepo {
	r := &memSweetRepo{sweets: make(map[string]*models.Sweet)}
	for _, s := range sweets {
		r.sweets[s.ID] = s
	}
	return r
}

func (m *memSweetRepo) Create(_ context.Context, s *models.Sweet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.sweets[s.ID]; ok {
		return repository.ErrDuplicate
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	cp := *s
	m.sweets[s.ID] = &cp
	return nil
}

func (m *memSweetRepo) FindByID(_ context.Context, id string) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSweetRepo) Search(_ context.Context, q models.SweetSearch) ([]*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Sweet{}
	for _, s := range m.sweets {
		if q.Matches(s) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memSweetRepo) Update(_ context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Category != nil {
		s.Category = *req.Category
	}
	if req.Price != nil {
		s.Price = *req.Price
	}
	if req.Quantity != nil {
		s.Quantity = *req.Quantity
	}
	if req.Description != nil {
		s.Description = *req.Description
	}
	if req.Image != nil {
		s.Image = *req.Image
	}
	cp := *s
	return &cp, nil
}

func (m *memSweetRepo) Delete(_ context.Context, id string) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(m.sweets, id)
	return s, nil
}

func (m *memSweetRepo) DecrementStock(_ context.Context, id string, quantity int) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if s.Quantity < quantity {
		return nil, repository.ErrInsufficientStock
	}
	s.Quantity -= quantity
	cp := *s
	return &cp, nil
}

func (m *memSweetRepo) IncrementStock(_ context.Context, id string, quantity int) (*models.Sweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sweets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	s.Quantity += quantity
	cp := *s
	return &cp, nil
}

func (m *memSweetRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.sweets)), nil
}

// --- Order repository ---

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	// beforeWrite runs inside compare-and-set writes to simulate a concurrent change.
	beforeWrite func(o *models.Order)
}

func newMemOrderRepo(orders ...*models.Order) *memOrderRepo {
	r := &memOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (m *memOrderRepo) Create(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o.CreatedAt = time.Now()
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindAll(_ context.Context) ([]*models.Order, error) {
	return m.filter(func(*models.Order) bool { return true }), nil
}

func (m *memOrderRepo) FindByUserID(_ context.Context, userID string) ([]*models.Order, error) {
	return m.filter(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (m *memOrderRepo) filter(keep func(*models.Order) bool) []*models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Order{}
	for _, o := range m.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memOrderRepo) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.beforeWrite != nil {
		m.beforeWrite(o)
	}
	if o.OrderStatus != from {
		return nil, repository.ErrStatusConflict
	}
	o.OrderStatus = to
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) MarkPaid(_ context.Context, id, paymentID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if m.beforeWrite != nil {
		m.beforeWrite(o)
	}
	if o.OrderStatus != models.OrderStatusPlaced {
		return nil, repository.ErrStatusConflict
	}
	o.PaymentStatus = models.PaymentStatusCompleted
	o.PaymentID = paymentID
	o.OrderStatus = models.OrderStatusConfirmed
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) MarkPaymentFailed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[id]; ok && o.PaymentStatus != models.PaymentStatusCompleted {
		o.PaymentStatus = models.PaymentStatusFailed
	}
	return nil
}

// --- User repository ---

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

// --- Cart repository ---

type memCartRepo struct {
	carts     map[string]*models.Cart
	wishlists map[string]map[string]bool
	err       error
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[string]*models.Cart{}, wishlists: map[string]map[string]bool{}}
}

func (m *memCartRepo) GetCart(_ context.Context, userID string) (*models.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.carts[userID], nil
}

func (m *memCartRepo) SaveCart(_ context.Context, cart *models.Cart) error {
	if m.err != nil {
		return m.err
	}
	m.carts[cart.UserID] = cart
	return nil
}

func (m *memCartRepo) DeleteCart(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return m.err
}

func (m *memCartRepo) GetWishlist(_ context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for id := range m.wishlists[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memCartRepo) AddToWishlist(_ context.Context, userID, sweetID string) error {
	if m.err != nil {
		return m.err
	}
	if m.wishlists[userID] == nil {
		m.wishlists[userID] = map[string]bool{}
	}
	m.wishlists[userID][sweetID] = true
	return nil
}

func (m *memCartRepo) RemoveFromWishlist(_ context.Context, userID, sweetID string) error {
	delete(m.wishlists[userID], sweetID)
	return m.err
}

// --- Gateway, publisher, metrics, presigner ---

type mockGateway struct {
	createFn func(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
}

func (m *mockGateway) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	return m.createFn(ctx, amountMinor, currency, receipt)
}

type mockPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (m *mockPublisher) Publish(_ context.Context, _ string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockMetrics() *mockMetrics { return &mockMetrics{counts: map[string]int{}} }

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return nil
}

func (m *mockMetrics) get(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

type mockPresigner struct {
	presignFn func(ctx context.Context, key, contentType string, expiry time.Duration) (*aws_pkg.PresignedUpload, error)
}

func (m *mockPresigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (*aws_pkg.PresignedUpload, error) {
	return m.presignFn(ctx, key, contentType, expiry)
}
