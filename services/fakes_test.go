package services

import (
	"context"
	"errors"
	"sync"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/geo"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/payments"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// In-memory repositories with the same guard semantics as the Mongo ones.

type fakeUsers struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	clearErr error
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) get(id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	cp.Cart = append([]models.CartItem(nil), u.Cart...)
	return &cp, nil
}

func (f *fakeUsers) DebitWallet(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.WalletBalance < amount {
		return repository.ErrConflict
	}
	u.WalletBalance -= amount
	return nil
}

func (f *fakeUsers) CreditWallet(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return repository.ErrConflict
	}
	u.WalletBalance += amount
	return nil
}

func (f *fakeUsers) ChargeCredit(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.CreditLimit-u.UsedCredit < amount {
		return repository.ErrConflict
	}
	u.UsedCredit += amount
	return nil
}

func (f *fakeUsers) ReleaseCredit(_ context.Context, id primitive.ObjectID, amount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return repository.ErrConflict
	}
	u.UsedCredit -= amount
	return nil
}

func (f *fakeUsers) AddCartItem(_ context.Context, id, productID primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			u.Cart[i].Quantity += quantity
			return nil
		}
	}
	u.Cart = append(u.Cart, models.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeUsers) SetCartItemQuantity(_ context.Context, id, productID primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return err
	}
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			u.Cart[i].Quantity = quantity
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeUsers) RemoveCartItem(_ context.Context, id, productID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, err := f.get(id)
	if err != nil {
		return err
	}
	kept := u.Cart[:0]
	for _, item := range u.Cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	u.Cart = kept
	return nil
}

func (f *fakeUsers) ClearCart(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Cart = []models.CartItem{}
	return nil
}

type fakeProducts struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: map[primitive.ObjectID]models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[primitive.ObjectID]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) List(_ context.Context, filter repository.ProductFilter, _ repository.Page) ([]models.Product, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Product{}
	for _, p := range f.products {
		if filter.Status == "" || p.Status == filter.Status {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.ProductStatus) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	before := p
	p.Status = status
	f.products[id] = p
	return &before, nil
}

type fakeAddresses struct {
	addresses map[primitive.ObjectID]models.Address
}

func newFakeAddresses(addresses ...models.Address) *fakeAddresses {
	f := &fakeAddresses{addresses: map[primitive.ObjectID]models.Address{}}
	for _, a := range addresses {
		f.addresses[a.Id] = a
	}
	return f
}

func (f *fakeAddresses) Create(_ context.Context, a *models.Address) error {
	f.addresses[a.Id] = *a
	return nil
}

func (f *fakeAddresses) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	out := []models.Address{}
	for _, a := range f.addresses {
		if a.UserId == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAddresses) FindForUser(_ context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	a, ok := f.addresses[id]
	if !ok || a.UserId != userID {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (f *fakeAddresses) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	a, ok := f.addresses[id]
	if !ok || a.UserId != userID {
		return repository.ErrNotFound
	}
	delete(f.addresses, id)
	return nil
}

type fakeOrders struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	createErr error
	// beforeApply runs inside ApplyTransition to simulate a concurrent writer.
	beforeApply func(o *models.Order)
}

func newFakeOrders(orders ...models.Order) *fakeOrders {
	f := &fakeOrders{orders: map[primitive.ObjectID]models.Order{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.StatusHistory = append([]models.StatusEntry(nil), o.StatusHistory...)
	return &o, nil
}

func (f *fakeOrders) List(_ context.Context, filter repository.OrderFilter, _ repository.Page) ([]models.Order, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.FranchiseID != nil && !o.IsAssignedTo(*filter.FranchiseID) {
			continue
		}
		if filter.FranchiseID == nil && filter.Unassigned && o.FranchiseID != nil {
			continue
		}
		if filter.DeliveryPartnerID != nil && !o.IsDeliveredBy(*filter.DeliveryPartnerID) {
			continue
		}
		if filter.Status != "" && o.OrderStatus != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrders) ApplyTransition(_ context.Context, t repository.OrderTransition) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[t.OrderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if f.beforeApply != nil {
		f.beforeApply(&o)
		f.orders[o.ID] = o
	}
	if o.Version != t.ExpectedVersion {
		return nil, repository.ErrConflict
	}
	o.OrderStatus = t.Status
	o.StockDeducted = t.StockDeducted
	o.StatusHistory = append(append([]models.StatusEntry(nil), o.StatusHistory...), t.Entry)
	o.UpdatedAt = t.Entry.UpdatedAt
	if t.DeliveredAt != nil {
		o.DeliveredAt = t.DeliveredAt
	}
	if t.DeliveryPartnerID != nil {
		id := *t.DeliveryPartnerID
		o.DeliveryPartnerID = &id
	}
	o.Version++
	f.orders[o.ID] = o
	return &o, nil
}

func (f *fakeOrders) ClaimForFranchise(_ context.Context, orderID, franchiseID primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.OrderStatus != models.StatusPlaced || (o.FranchiseID != nil && *o.FranchiseID != franchiseID) {
		return nil, repository.ErrConflict
	}
	id := franchiseID
	o.FranchiseID = &id
	o.Version++
	f.orders[o.ID] = o
	return &o, nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, orderID, userID primitive.ObjectID, gatewayOrderID, paymentID string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.UserID != userID || o.GatewayOrderID != gatewayOrderID {
		return nil, repository.ErrNotFound
	}
	o.PaymentStatus = models.PaymentCompleted
	o.PaymentID = paymentID
	f.orders[o.ID] = o
	return &o, nil
}

type fakeFranchises struct {
	franchises []models.Franchise
	err        error
}

func (f *fakeFranchises) FindByID(_ context.Context, id primitive.ObjectID) (*models.Franchise, error) {
	for _, fr := range f.franchises {
		if fr.ID == id {
			fr := fr
			return &fr, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeFranchises) ListActiveWithLocation(context.Context) ([]models.Franchise, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Franchise{}
	for _, fr := range f.franchises {
		if fr.Status == models.FranchiseActive && fr.Location != nil {
			out = append(out, fr)
		}
	}
	return out, nil
}

func (f *fakeFranchises) ListIDs(context.Context) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(f.franchises))
	for _, fr := range f.franchises {
		ids = append(ids, fr.ID)
	}
	return ids, nil
}

type fakeInventory struct {
	mu    sync.Mutex
	stock map[primitive.ObjectID]map[primitive.ObjectID]int
	// failAdjust makes AdjustStock fail for the product.
	failAdjust map[primitive.ObjectID]error
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		stock:      map[primitive.ObjectID]map[primitive.ObjectID]int{},
		failAdjust: map[primitive.ObjectID]error{},
	}
}

func (f *fakeInventory) set(franchiseID, productID primitive.ObjectID, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stock[franchiseID] == nil {
		f.stock[franchiseID] = map[primitive.ObjectID]int{}
	}
	f.stock[franchiseID][productID] = qty
}

func (f *fakeInventory) level(franchiseID, productID primitive.ObjectID) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, ok := f.stock[franchiseID][productID]
	return qty, ok
}

func (f *fakeInventory) FindByFranchise(_ context.Context, franchiseID primitive.ObjectID) (*models.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.stock[franchiseID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	inv := &models.Inventory{FranchiseID: franchiseID}
	for pid, qty := range rows {
		inv.Items = append(inv.Items, models.InventoryItem{ProductID: pid, CurrentStock: qty})
	}
	return inv, nil
}

func (f *fakeInventory) AdjustStock(_ context.Context, franchiseID, productID primitive.ObjectID, delta int, guard bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failAdjust[productID]; err != nil {
		return false, err
	}
	qty, ok := f.stock[franchiseID][productID]
	if !ok {
		return false, nil
	}
	if guard && delta < 0 && qty < -delta {
		return false, nil
	}
	f.stock[franchiseID][productID] = qty + delta
	return true, nil
}

func (f *fakeInventory) AddItem(_ context.Context, franchiseID primitive.ObjectID, item models.InventoryItem) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stock[franchiseID] == nil {
		f.stock[franchiseID] = map[primitive.ObjectID]int{}
	}
	if _, ok := f.stock[franchiseID][item.ProductID]; ok {
		return false, nil
	}
	f.stock[franchiseID][item.ProductID] = item.CurrentStock
	return true, nil
}

type fakeProcurement struct {
	requests map[primitive.ObjectID]models.ProcurementRequest
}

func newFakeProcurement(reqs ...models.ProcurementRequest) *fakeProcurement {
	f := &fakeProcurement{requests: map[primitive.ObjectID]models.ProcurementRequest{}}
	for _, r := range reqs {
		f.requests[r.ID] = r
	}
	return f
}

func (f *fakeProcurement) Create(_ context.Context, r *models.ProcurementRequest) error {
	f.requests[r.ID] = *r
	return nil
}

func (f *fakeProcurement) FindByID(_ context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeProcurement) List(_ context.Context, filter repository.ProcurementFilter) ([]models.ProcurementRequest, error) {
	out := []models.ProcurementRequest{}
	for _, r := range f.requests {
		if filter.FranchiseID != nil && r.FranchiseID != *filter.FranchiseID {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeProcurement) UpdateStatus(_ context.Context, u repository.ProcurementUpdate) (*models.ProcurementRequest, error) {
	r, ok := f.requests[u.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	allowed := false
	for _, from := range u.From {
		allowed = allowed || r.Status == from
	}
	if !allowed {
		return nil, repository.ErrConflict
	}
	r.Status = u.To
	if u.VendorID != nil {
		r.AssignedVendorID = u.VendorID
	}
	if u.Items != nil {
		r.Items = u.Items
	}
	f.requests[r.ID] = r
	return &r, nil
}

type fakeSettings struct {
	constraints *models.DeliveryConstraints
	err         error
}

func (f *fakeSettings) Get(_ context.Context, key string, out interface{}) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if key != models.DeliveryConstraintsKey || f.constraints == nil {
		return false, nil
	}
	dst, ok := out.(*models.DeliveryConstraints)
	if !ok {
		return false, errors.New("unexpected settings type")
	}
	*dst = *f.constraints
	return true, nil
}

func (f *fakeSettings) Set(_ context.Context, key string, value interface{}) error {
	c, ok := value.(models.DeliveryConstraints)
	if !ok || key != models.DeliveryConstraintsKey {
		return errors.New("unexpected settings write")
	}
	f.constraints = &c
	return nil
}

// Collaborator mocks.

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (geo.Point, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(geo.Point), args.Error(1)
}

type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Publish(ctx context.Context, topic, event string, payload interface{}) error {
	args := m.Called(ctx, topic, event, payload)
	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(amount float64, receipt string) (*payments.GatewayOrder, error) {
	args := m.Called(amount, receipt)
	order, _ := args.Get(0).(*payments.GatewayOrder)
	return order, args.Error(1)
}

func (m *mockGateway) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	return m.Called(gatewayOrderID, paymentID, signature).Error(0)
}

type staticAssigner struct {
	result Assignment
	calls  []string
}

func (s *staticAssigner) Assign(_ context.Context, address string) Assignment {
	s.calls = append(s.calls, address)
	return s.result
}

type recordingStock struct {
	mu        sync.Mutex
	deducted  [][]models.StockLine
	restored  [][]models.StockLine
	received  [][]models.StockLine
	listed    []primitive.ObjectID
	seeds     []int
	deductErr error
	listErr   error
}

func (r *recordingStock) ApplySaleDeduction(_ context.Context, _ primitive.ObjectID, lines []models.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deductErr != nil {
		return r.deductErr
	}
	r.deducted = append(r.deducted, lines)
	return nil
}

func (r *recordingStock) RestoreSale(_ context.Context, _ primitive.ObjectID, lines []models.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.restored = append(r.restored, lines)
	return nil
}

func (r *recordingStock) ApplyProcurementReceipt(_ context.Context, _ primitive.ObjectID, lines []models.StockLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.received = append(r.received, lines)
	return nil
}

func (r *recordingStock) EnsureProductListed(_ context.Context, productID primitive.ObjectID, seed int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listed = append(r.listed, productID)
	r.seeds = append(r.seeds, seed)
	return 1, r.listErr
}
