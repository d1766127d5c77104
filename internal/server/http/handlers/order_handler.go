package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/domain/orderflow"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// OrderHandler manages order-related endpoints for customers and administrators.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), CurrentActor(c), usecase.CheckoutInput{
		RecipientName:   req.RecipientName,
		Phone:           req.Phone,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentActor(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders))
}

// AdminList handles GET /api/admin/orders.
func (h *OrderHandler) AdminList(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}
	filter := model.OrderFilter{Status: model.OrderStatus(c.Query("status")), Limit: limit, Offset: offset}

	orders, err := h.facade.AllOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderListResponse(orders))
}

// Get handles GET /api/orders/:id and /api/admin/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// CustomerStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) CustomerStatus(c *gin.Context) {
	var req dto.CustomerStatusRequest
	h.changeStatus(c, &req, func() (string, string) { return req.Status, req.Note })
}

// AdminStatus handles PATCH /api/admin/orders/:id/status.
func (h *OrderHandler) AdminStatus(c *gin.Context) {
	var req dto.AdminStatusRequest
	h.changeStatus(c, &req, func() (string, string) { return req.Status, req.Note })
}

func (h *OrderHandler) changeStatus(c *gin.Context, req any, fields func() (string, string)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := c.ShouldBindJSON(req); err != nil {
		respondBindError(c, err)
		return
	}
	status, note := fields()

	order, err := h.facade.ChangeOrderStatus(c.Request.Context(), CurrentActor(c), id, model.OrderStatus(status), note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusChangeResponse{
		Message: "Order status updated to " + string(order.Status),
		Order:   dto.NewOrderResponse(order),
	})
}

// EditItem handles PATCH /api/admin/orders/:id/items/:itemId.
func (h *OrderHandler) EditItem(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req dto.ItemEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.facade.EditOrderItem(c.Request.Context(), CurrentActor(c), orderID, itemID, orderflow.ItemEdit{
		Quantity:     req.Quantity,
		QuantityNote: req.QuantityNote,
		Price:        req.Price,
		PriceNote:    req.PriceNote,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderItemResponse(*item))
}

// SetDiscount handles PATCH /api/admin/orders/:id/discount.
func (h *OrderHandler) SetDiscount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := h.facade.SetAdminDiscount(c.Request.Context(), CurrentActor(c), id, *req.Amount, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// History handles GET /api/orders/:id/history and /api/admin/orders/:id/history.
// Only administrators see who wrote each row; customers get the role label.
func (h *OrderHandler) History(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	actor := CurrentActor(c)
	entries, err := h.facade.OrderHistory(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoryResponse(entries, actor.Role == model.RoleAdmin))
}
