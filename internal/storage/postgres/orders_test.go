package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

var (
	orderRowColumns = []string{
		"id", "user_id", "status", "recipient_name", "phone", "shipping_address", "payment_method",
		"promo_code_id", "code", "promo_discount", "admin_discount", "savings", "items_edited", "created_at", "updated_at",
	}
	itemRowColumns = []string{
		"id", "order_id", "product_id", "product_name", "quantity", "price", "price_edited", "quantity_edited", "original_values",
	}
)

func TestOrderRepositoryCreate(t *testing.T) {
	_, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: mock}
	now := time.Now()

	order := &model.Order{
		UserID:          1,
		Status:          model.OrderStatusPending,
		RecipientName:   "Ann",
		Phone:           "555",
		ShippingAddress: "Main st 1",
		PaymentMethod:   model.PaymentCard,
		Items: []model.OrderItem{
			{ProductID: 2, ProductName: "Lamp", Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(int64(1), "PENDING", "Ann", "555", "Main st 1", "CARD", nil,
			pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), false).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(int64(7), int64(2), "Lamp", 2, pgxmockv3.AnyArg(), false, false, []byte("{}")).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(70)))

	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 7 || order.Items[0].ID != 70 || order.Items[0].OrderID != 7 {
		t.Fatalf("unexpected order: %+v", order)
	}

	mock.ExpectQuery("INSERT INTO orders").WillReturnError(errors.New("insert"))
	if err := repo.Create(context.Background(), &model.Order{}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	_, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: mock}
	now := time.Now()

	mock.ExpectQuery("FROM orders o WHERE o.id=").WithArgs(int64(7)).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(int64(7), int64(1), model.OrderStatusAdminPending, "Ann", "555", "Main st 1",
			model.PaymentCard, int64(3), "SAVE10", "5.00", "2.00", "7.00", true, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]int64{7}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).
			AddRow(int64(70), int64(7), int64(2), "Lamp", 3, "12.00", true, false, []byte(`{"price":{"value":"10","note":"price update"}}`)))

	order, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PromoCodeID == nil || *order.PromoCodeID != 3 || order.PromoCode != "SAVE10" {
		t.Fatalf("unexpected promo: %+v", order)
	}
	if !order.PromoDiscount.Valid || !order.Savings.Equal(decimal.RequireFromString("7")) {
		t.Fatalf("unexpected discounts: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].OriginalValues.Price == nil {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if !order.Items[0].OriginalValues.Price.Value.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected original price: %+v", order.Items[0].OriginalValues.Price)
	}

	mock.ExpectQuery("FROM orders o WHERE o.id=.* FOR UPDATE").WithArgs(int64(8)).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(int64(8), int64(1), model.OrderStatusPending, "Ann", "555", "Main st 1",
			model.PaymentCard, nil, "", nil, "0", "0", false, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]int64{8}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns))
	order, err = repo.GetForUpdate(context.Background(), 8)
	if err != nil || order.HasPromo() || order.PromoDiscount.Valid {
		t.Fatalf("unexpected order: %+v err=%v", order, err)
	}

	mock.ExpectQuery("FROM orders o WHERE o.id=").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM orders o WHERE o.id=").WithArgs(int64(10)).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).AddRow(int64(10), int64(1), model.OrderStatusPending, "Ann", "555", "Main st 1",
			model.PaymentCard, nil, "", nil, "0", "0", false, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]int64{10}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).
			AddRow(int64(71), int64(10), int64(2), "Lamp", 1, "12.00", false, false, []byte(`not json`)))
	if _, err := repo.GetByID(context.Background(), 10); err == nil {
		t.Fatal("expected decode error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryList(t *testing.T) {
	_, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: mock}
	now := time.Now()

	mock.ExpectQuery("FROM orders o WHERE o.user_id=").WithArgs(int64(1)).WillReturnRows(
		pgxmockv3.NewRows(orderRowColumns).
			AddRow(int64(2), int64(1), model.OrderStatusPending, "Ann", "555", "a", model.PaymentCard, nil, "", nil, "0", "0", false, now, now).
			AddRow(int64(1), int64(1), model.OrderStatusCompleted, "Ann", "555", "a", model.PaymentCashOnDelivery, nil, "", nil, "0", "0", false, now, now))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY").WithArgs([]int64{2, 1}).WillReturnRows(
		pgxmockv3.NewRows(itemRowColumns).
			AddRow(int64(10), int64(1), int64(5), "Pen", 1, "1.50", false, false, []byte(`{}`)).
			AddRow(int64(20), int64(2), int64(5), "Pen", 4, "1.50", false, false, []byte(`{}`)))
	orders, err := repo.ListByUser(context.Background(), 1)
	if err != nil || len(orders) != 2 {
		t.Fatalf("unexpected result: %v err=%v", orders, err)
	}
	if orders[0].Items[0].Quantity != 4 || orders[1].Items[0].Quantity != 1 {
		t.Fatalf("items not grouped per order: %+v", orders)
	}

	mock.ExpectQuery("FROM orders o WHERE o.user_id=").WithArgs(int64(3)).WillReturnRows(pgxmockv3.NewRows(orderRowColumns))
	orders, err = repo.ListByUser(context.Background(), 3)
	if err != nil || len(orders) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", orders, err)
	}

	mock.ExpectQuery("FROM orders o WHERE o.status=.* AND o.user_id=.* LIMIT .* OFFSET").
		WithArgs("PENDING", int64(1), 20, 40).
		WillReturnRows(pgxmockv3.NewRows(orderRowColumns))
	_, err = repo.List(context.Background(), model.OrderFilter{Status: model.OrderStatusPending, UserID: 1, Limit: 20, Offset: 40})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectQuery("FROM orders o ORDER BY").WithArgs(50, 0).WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background(), model.OrderFilter{Limit: 50}); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}

	failing := &orderRepository{db: &rowsErrorQuerier{rows: &errorRows{err: errors.New("rows")}}}
	if _, err := failing.ListByUser(context.Background(), 1); err == nil {
		t.Fatal("expected rows error")
	}
}

func TestOrderRepositoryUpdate(t *testing.T) {
	_, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: mock}
	now := time.Now()

	promoID := int64(3)
	order := &model.Order{ID: 7, Status: model.OrderStatusAccepted, PaymentMethod: model.PaymentCard, PromoCodeID: &promoID}
	mock.ExpectQuery("UPDATE orders SET status").
		WithArgs("ACCEPTED", "CARD", int64(3), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), pgxmockv3.AnyArg(), false, int64(7)).
		WillReturnRows(pgxmockv3.NewRows([]string{"updated_at"}).AddRow(now))
	if err := repo.Update(context.Background(), order); err != nil || !order.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected result: %+v err=%v", order, err)
	}

	mock.ExpectQuery("UPDATE orders SET status").WillReturnError(pgx.ErrNoRows)
	if err := repo.Update(context.Background(), &model.Order{ID: 99}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	item := &model.OrderItem{ID: 70, OrderID: 7, Quantity: 3, Price: decimal.NewFromInt(12), QuantityEdited: true,
		OriginalValues: model.OriginalValues{Quantity: &model.OriginalQuantity{Value: 2}}}
	mock.ExpectExec("UPDATE order_items SET quantity").
		WithArgs(3, pgxmockv3.AnyArg(), false, true, []byte(`{"quantity":{"value":2}}`), int64(70), int64(7)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.UpdateItem(context.Background(), item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE order_items SET quantity").WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.UpdateItem(context.Background(), item); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestHistoryRepository(t *testing.T) {
	_, mock := newMockStorage(t)
	defer mock.Close()
	repo := &historyRepository{db: mock}
	now := time.Now()

	previous := model.OrderStatusPending
	entry := &model.StatusHistoryEntry{
		OrderID: 7, PreviousStatus: &previous, NewStatus: model.OrderStatusAccepted,
		Note: "ok", CreatedByID: 1, CreatedByRole: model.RoleAdmin, CreatedAt: now,
	}
	mock.ExpectQuery("INSERT INTO order_status_history").
		WithArgs(int64(7), "PENDING", "ACCEPTED", "ok", int64(1), "ADMIN", now).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(5)))
	if err := repo.Append(context.Background(), entry); err != nil || entry.ID != 5 {
		t.Fatalf("unexpected result: %+v err=%v", entry, err)
	}

	placed := &model.StatusHistoryEntry{OrderID: 7, NewStatus: model.OrderStatusPending, Note: "Order placed",
		CreatedByID: 2, CreatedByRole: model.RoleCustomer, CreatedAt: now}
	mock.ExpectQuery("INSERT INTO order_status_history").
		WithArgs(int64(7), nil, "PENDING", "Order placed", int64(2), "CUSTOMER", now).
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(4)))
	if err := repo.Append(context.Background(), placed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	columns := []string{"id", "order_id", "previous_status", "new_status", "note", "created_by_id", "login", "created_by_role", "created_at"}
	mock.ExpectQuery("FROM order_status_history h JOIN users u").WithArgs(int64(7)).WillReturnRows(
		pgxmockv3.NewRows(columns).
			AddRow(int64(5), int64(7), "PENDING", model.OrderStatusAccepted, "ok", int64(1), "admin", model.RoleAdmin, now).
			AddRow(int64(4), int64(7), nil, model.OrderStatusPending, "Order placed", int64(2), "ann", model.RoleCustomer, now))
	entries, err := repo.ListByOrder(context.Background(), 7)
	if err != nil || len(entries) != 2 {
		t.Fatalf("unexpected entries: %v err=%v", entries, err)
	}
	if entries[0].PreviousStatus == nil || *entries[0].PreviousStatus != model.OrderStatusPending {
		t.Fatalf("unexpected previous status: %+v", entries[0])
	}
	if entries[1].PreviousStatus != nil || entries[1].CreatedByLogin != "ann" {
		t.Fatalf("unexpected placement entry: %+v", entries[1])
	}

	mock.ExpectQuery("FROM order_status_history h JOIN users u").WithArgs(int64(8)).WillReturnError(errors.New("boom"))
	if _, err := repo.ListByOrder(context.Background(), 8); err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
