package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/repository"
)

type assignmentKey struct {
	PromoID int64
	UserID  int64
}

// MemoryStore keeps every repository in maps and implements repository.Factory
// together with repository.Transactor. A failed transaction restores the
// state captured when it began.
type MemoryStore struct {
	// Failures injects errors by operation name, e.g. "Orders.Update".
	Failures map[string]error
	Now      func() time.Time

	txMu sync.Mutex
	mu   sync.Mutex

	nextID      int64
	users       map[int64]model.User
	products    map[int64]model.Product
	carts       map[int64]map[int64]int
	orders      map[int64]model.Order
	history     []model.StatusHistoryEntry
	promos      map[int64]model.PromoCode
	assignments map[assignmentKey]model.UserPromoCode
	exclusions  map[assignmentKey]model.ExcludedUser
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Failures:    make(map[string]error),
		Now:         func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		users:       make(map[int64]model.User),
		products:    make(map[int64]model.Product),
		carts:       make(map[int64]map[int64]int),
		orders:      make(map[int64]model.Order),
		promos:      make(map[int64]model.PromoCode),
		assignments: make(map[assignmentKey]model.UserPromoCode),
		exclusions:  make(map[assignmentKey]model.ExcludedUser),
	}
}

var (
	_ repository.Factory    = (*MemoryStore)(nil)
	_ repository.Transactor = (*MemoryStore)(nil)
)

func (s *MemoryStore) Users() repository.UserRepository           { return memUsers{s} }
func (s *MemoryStore) Products() repository.ProductRepository     { return memProducts{s} }
func (s *MemoryStore) Carts() repository.CartRepository           { return memCarts{s} }
func (s *MemoryStore) Orders() repository.OrderRepository         { return memOrders{s} }
func (s *MemoryStore) History() repository.HistoryRepository      { return memHistory{s} }
func (s *MemoryStore) PromoCodes() repository.PromoCodeRepository { return memPromos{s} }

// WithinTransaction serialises transactions and rolls back state when fn fails.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	if err := s.fail("WithinTransaction"); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.snapshot()
	if err := fn(s); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *MemoryStore) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Failures[op]
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) snapshot() *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &MemoryStore{
		nextID:      s.nextID,
		users:       make(map[int64]model.User, len(s.users)),
		products:    make(map[int64]model.Product, len(s.products)),
		carts:       make(map[int64]map[int64]int, len(s.carts)),
		orders:      make(map[int64]model.Order, len(s.orders)),
		history:     append([]model.StatusHistoryEntry(nil), s.history...),
		promos:      make(map[int64]model.PromoCode, len(s.promos)),
		assignments: make(map[assignmentKey]model.UserPromoCode, len(s.assignments)),
		exclusions:  make(map[assignmentKey]model.ExcludedUser, len(s.exclusions)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, lines := range s.carts {
		copied := make(map[int64]int, len(lines))
		for p, q := range lines {
			copied[p] = q
		}
		c.carts[k] = copied
	}
	for k, v := range s.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range s.promos {
		c.promos[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	for k, v := range s.exclusions {
		c.exclusions[k] = v
	}
	return c
}

func (s *MemoryStore) restore(c *MemoryStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = c.nextID
	s.users = c.users
	s.products = c.products
	s.carts = c.carts
	s.orders = c.orders
	s.history = c.history
	s.promos = c.promos
	s.assignments = c.assignments
	s.exclusions = c.exclusions
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem(nil), o.Items...)
	for i := range o.Items {
		o.Items[i].OriginalValues = cloneOriginal(o.Items[i].OriginalValues)
	}
	if o.PromoCodeID != nil {
		id := *o.PromoCodeID
		o.PromoCodeID = &id
	}
	return o
}

func cloneOriginal(v model.OriginalValues) model.OriginalValues {
	if v.Price != nil {
		p := *v.Price
		v.Price = &p
	}
	if v.Quantity != nil {
		q := *v.Quantity
		v.Quantity = &q
	}
	return v
}

// AddUser stores a user directly and returns it with an assigned id.
func (s *MemoryStore) AddUser(login string, role model.Role) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := model.User{ID: s.id(), Login: login, PasswordHash: "hash:" + login, Role: role, CreatedAt: s.Now()}
	s.users[user.ID] = user
	return user
}

// AddProduct stores a product directly.
func (s *MemoryStore) AddProduct(product model.Product) model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = s.id()
	s.products[product.ID] = product
	return product
}

// AddPromo stores a promo code directly.
func (s *MemoryStore) AddPromo(code model.PromoCode) model.PromoCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	code.ID = s.id()
	s.promos[code.ID] = code
	return code
}

// AddOrder stores an order directly, assigning ids to it and its items.
func (s *MemoryStore) AddOrder(order model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = s.id()
	for i := range order.Items {
		order.Items[i].ID = s.id()
		order.Items[i].OrderID = order.ID
	}
	s.orders[order.ID] = cloneOrder(order)
	return order
}

// Order returns the stored copy of an order.
func (s *MemoryStore) Order(id int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	return cloneOrder(order), ok
}

// Promo returns the stored copy of a promo code.
func (s *MemoryStore) Promo(id int64) (model.PromoCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.promos[id]
	return code, ok
}

// Assignment returns a stored assignment.
func (s *MemoryStore) Assignment(promoID, userID int64) (model.UserPromoCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentKey{promoID, userID}]
	return a, ok
}

// Excluded reports whether the user is on the exclusion list of the code.
func (s *MemoryStore) Excluded(promoID, userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.exclusions[assignmentKey{promoID, userID}]
	return ok
}

// HistoryOf returns audit rows of an order in insertion order.
func (s *MemoryStore) HistoryOf(orderID int64) []model.StatusHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []model.StatusHistoryEntry
	for _, e := range s.history {
		if e.OrderID == orderID {
			rows = append(rows, e)
		}
	}
	return rows
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if err := r.s.fail("Users.Create"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Login == login {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	user := model.User{ID: r.s.id(), Login: login, PasswordHash: passwordHash, Role: role, CreatedAt: r.s.Now()}
	r.s.users[user.ID] = user
	return &user, nil
}

func (r memUsers) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if err := r.s.fail("Users.GetByLogin"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Login == login {
			return &u, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if err := r.s.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) SetRole(ctx context.Context, id int64, role model.Role) error {
	if err := r.s.fail("Users.SetRole"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	u.Role = role
	r.s.users[id] = u
	return nil
}

type memProducts struct{ s *MemoryStore }

func (r memProducts) Create(ctx context.Context, product *model.Product) error {
	if err := r.s.fail("Products.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.ID = r.s.id()
	product.CreatedAt = r.s.Now()
	r.s.products[product.ID] = *product
	return nil
}

func (r memProducts) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if err := r.s.fail("Products.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if err := r.s.fail("Products.List"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]model.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

type memCarts struct{ s *MemoryStore }

func (r memCarts) Items(ctx context.Context, userID int64) ([]model.CartItem, error) {
	if err := r.s.fail("Carts.Items"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var items []model.CartItem
	for productID, qty := range r.s.carts[userID] {
		p := r.s.products[productID]
		items = append(items, model.CartItem{UserID: userID, ProductID: productID, Name: p.Name, Price: p.Price, Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (r memCarts) Upsert(ctx context.Context, userID, productID int64, quantity int) error {
	if err := r.s.fail("Carts.Upsert"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[productID]; !ok {
		return domainErrors.ErrNotFound
	}
	if r.s.carts[userID] == nil {
		r.s.carts[userID] = make(map[int64]int)
	}
	r.s.carts[userID][productID] = quantity
	return nil
}

func (r memCarts) Remove(ctx context.Context, userID, productID int64) error {
	if err := r.s.fail("Carts.Remove"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.carts[userID][productID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.carts[userID], productID)
	return nil
}

func (r memCarts) Clear(ctx context.Context, userID int64) error {
	if err := r.s.fail("Carts.Clear"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.carts, userID)
	return nil
}

type memOrders struct{ s *MemoryStore }

func (r memOrders) Create(ctx context.Context, order *model.Order) error {
	if err := r.s.fail("Orders.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.ID = r.s.id()
	order.CreatedAt = r.s.Now()
	order.UpdatedAt = order.CreatedAt
	for i := range order.Items {
		order.Items[i].ID = r.s.id()
		order.Items[i].OrderID = order.ID
	}
	r.s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r memOrders) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if err := r.s.fail("Orders.GetByID"); err != nil {
		return nil, err
	}
	return r.get(id)
}

func (r memOrders) GetForUpdate(ctx context.Context, id int64) (*model.Order, error) {
	if err := r.s.fail("Orders.GetForUpdate"); err != nil {
		return nil, err
	}
	return r.get(id)
}

func (r memOrders) get(id int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r memOrders) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.List(ctx, model.OrderFilter{UserID: userID})
}

func (r memOrders) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if err := r.s.fail("Orders.List"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.Order
	for _, o := range r.s.orders {
		if filter.UserID != 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		result = append(result, cloneOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r memOrders) Update(ctx context.Context, order *model.Order) error {
	if err := r.s.fail("Orders.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	items := stored.Items
	stored = cloneOrder(*order)
	stored.Items = items
	stored.UpdatedAt = r.s.Now()
	order.UpdatedAt = stored.UpdatedAt
	r.s.orders[order.ID] = stored
	return nil
}

func (r memOrders) UpdateItem(ctx context.Context, item *model.OrderItem) error {
	if err := r.s.fail("Orders.UpdateItem"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.orders[item.OrderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for i := range stored.Items {
		if stored.Items[i].ID == item.ID {
			copied := *item
			copied.OriginalValues = cloneOriginal(item.OriginalValues)
			stored.Items[i] = copied
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

type memHistory struct{ s *MemoryStore }

func (r memHistory) Append(ctx context.Context, entry *model.StatusHistoryEntry) error {
	if err := r.s.fail("History.Append"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.id()
	r.s.history = append(r.s.history, *entry)
	return nil
}

func (r memHistory) ListByOrder(ctx context.Context, orderID int64) ([]model.StatusHistoryEntry, error) {
	if err := r.s.fail("History.ListByOrder"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.StatusHistoryEntry
	for i := len(r.s.history) - 1; i >= 0; i-- {
		if e := r.s.history[i]; e.OrderID == orderID {
			if u, ok := r.s.users[e.CreatedByID]; ok {
				e.CreatedByLogin = u.Login
			}
			rows = append(rows, e)
		}
	}
	return rows, nil
}

type memPromos struct{ s *MemoryStore }

func (r memPromos) Create(ctx context.Context, code *model.PromoCode) error {
	if err := r.s.fail("PromoCodes.Create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.promos {
		if p.Code == code.Code {
			return domainErrors.ErrAlreadyExists
		}
	}
	code.ID = r.s.id()
	code.CreatedAt = r.s.Now()
	code.UpdatedAt = code.CreatedAt
	r.s.promos[code.ID] = *code
	return nil
}

func (r memPromos) Update(ctx context.Context, code *model.PromoCode) error {
	if err := r.s.fail("PromoCodes.Update"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.promos[code.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	for _, p := range r.s.promos {
		if p.ID != code.ID && p.Code == code.Code {
			return domainErrors.ErrAlreadyExists
		}
	}
	code.UsedCount = stored.UsedCount
	code.CreatedAt = stored.CreatedAt
	code.UpdatedAt = r.s.Now()
	r.s.promos[code.ID] = *code
	return nil
}

func (r memPromos) Delete(ctx context.Context, id int64) error {
	if err := r.s.fail("PromoCodes.Delete"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.promos[id]; !ok {
		return domainErrors.ErrNotFound
	}
	for _, o := range r.s.orders {
		if o.PromoCodeID != nil && *o.PromoCodeID == id {
			return domainErrors.ErrInUse
		}
	}
	delete(r.s.promos, id)
	for k := range r.s.assignments {
		if k.PromoID == id {
			delete(r.s.assignments, k)
		}
	}
	for k := range r.s.exclusions {
		if k.PromoID == id {
			delete(r.s.exclusions, k)
		}
	}
	return nil
}

func (r memPromos) GetByID(ctx context.Context, id int64) (*model.PromoCode, error) {
	if err := r.s.fail("PromoCodes.GetByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.promos[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func (r memPromos) List(ctx context.Context) ([]model.PromoCode, error) {
	if err := r.s.fail("PromoCodes.List"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]model.PromoCode, 0, len(r.s.promos))
	for _, p := range r.s.promos {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memPromos) GetActiveByCode(ctx context.Context, code string, forUpdate bool) (*model.PromoCode, error) {
	if err := r.s.fail("PromoCodes.GetActiveByCode"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.promos {
		if p.Code == code && p.IsActive {
			return &p, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memPromos) Eligibility(ctx context.Context, promoID, userID int64) (model.PromoEligibility, error) {
	if err := r.s.fail("PromoCodes.Eligibility"); err != nil {
		return model.PromoEligibility{}, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var elig model.PromoEligibility
	_, elig.Excluded = r.s.exclusions[assignmentKey{promoID, userID}]
	for k, a := range r.s.assignments {
		if k.PromoID != promoID {
			continue
		}
		if k.UserID == userID {
			copied := a
			elig.Assignment = &copied
		} else if a.IsExclusive {
			elig.ReservedByOther = true
		}
	}
	return elig, nil
}

func (r memPromos) IncrementUsage(ctx context.Context, promoID int64) error {
	if err := r.s.fail("PromoCodes.IncrementUsage"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.promos[promoID]
	if !ok || p.Exhausted() {
		return domainErrors.ErrPromoExhausted
	}
	p.UsedCount++
	r.s.promos[promoID] = p
	return nil
}

func (r memPromos) DecrementUsage(ctx context.Context, promoID int64) error {
	if err := r.s.fail("PromoCodes.DecrementUsage"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.promos[promoID]; ok && p.UsedCount > 0 {
		p.UsedCount--
		r.s.promos[promoID] = p
	}
	return nil
}

func (r memPromos) MarkAssignmentUsed(ctx context.Context, promoID, userID int64) error {
	if err := r.s.fail("PromoCodes.MarkAssignmentUsed"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := assignmentKey{promoID, userID}
	if a, ok := r.s.assignments[key]; ok {
		now := r.s.Now()
		a.UsedAt = &now
		r.s.assignments[key] = a
	}
	return nil
}

func (r memPromos) Assignments(ctx context.Context, promoID int64) ([]model.UserPromoCode, error) {
	if err := r.s.fail("PromoCodes.Assignments"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.UserPromoCode
	for k, a := range r.s.assignments {
		if k.PromoID == promoID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (r memPromos) Exclusions(ctx context.Context, promoID int64) ([]model.ExcludedUser, error) {
	if err := r.s.fail("PromoCodes.Exclusions"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []model.ExcludedUser
	for k, e := range r.s.exclusions {
		if k.PromoID == promoID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (r memPromos) UpsertAssignment(ctx context.Context, a *model.UserPromoCode) error {
	if err := r.s.fail("PromoCodes.UpsertAssignment"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.promos[a.PromoCodeID]; !ok {
		return domainErrors.ErrNotFound
	}
	if _, ok := r.s.users[a.UserID]; !ok {
		return domainErrors.ErrNotFound
	}
	key := assignmentKey{a.PromoCodeID, a.UserID}
	if existing, ok := r.s.assignments[key]; ok {
		a.AssignedAt = existing.AssignedAt
		a.UsedAt = existing.UsedAt
	} else {
		a.AssignedAt = r.s.Now()
	}
	r.s.assignments[key] = *a
	return nil
}

func (r memPromos) DeleteAssignment(ctx context.Context, promoID, userID int64) error {
	if err := r.s.fail("PromoCodes.DeleteAssignment"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := assignmentKey{promoID, userID}
	if _, ok := r.s.assignments[key]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.assignments, key)
	return nil
}

func (r memPromos) AddExclusion(ctx context.Context, promoID, userID int64) error {
	if err := r.s.fail("PromoCodes.AddExclusion"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.promos[promoID]; !ok {
		return domainErrors.ErrNotFound
	}
	if _, ok := r.s.users[userID]; !ok {
		return domainErrors.ErrNotFound
	}
	key := assignmentKey{promoID, userID}
	if _, ok := r.s.exclusions[key]; !ok {
		r.s.exclusions[key] = model.ExcludedUser{UserID: userID, PromoCodeID: promoID, ExcludedAt: r.s.Now()}
	}
	return nil
}

func (r memPromos) DeleteExclusion(ctx context.Context, promoID, userID int64) error {
	if err := r.s.fail("PromoCodes.DeleteExclusion"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := assignmentKey{promoID, userID}
	if _, ok := r.s.exclusions[key]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.exclusions, key)
	return nil
}
