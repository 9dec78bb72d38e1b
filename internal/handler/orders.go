package handler

import (
	"net/http"
	"time"

	"siwarapos/internal/apierror"
	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	svc       service.OrderService
	recipeSvc service.RecipeService
}

func NewOrderHandler(svc service.OrderService, recipeSvc service.RecipeService) *OrderHandler {
	return &OrderHandler{svc: svc, recipeSvc: recipeSvc}
}

// Create godoc
// @Summary Opens a new order ticket
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateOrderRequest true "Order lines"
// @Success 201 {object} dto.OrderResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get godoc
// @Summary Fetches one order with items and payments
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// List godoc
// @Summary Lists orders in a date range (defaults to today)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Param search query string false "Code substring"
// @Success 200 {object} dto.OrderListResponse
// @Router /v1/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	orders, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Advance godoc
// @Summary Moves an order along the queue (preparing / done / void)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body dto.AdvanceOrderRequest true "Target queue status"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/advance [post]
func (h *OrderHandler) Advance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdvanceOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.Advance(c.Request.Context(), id, req.QueueStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Discount godoc
// @Summary Applies a percentage discount to an unsettled order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body dto.DiscountRequest true "Percent (clamped to 0–100)"
// @Success 200 {object} dto.OrderResponse
// @Router /v1/orders/{id}/discount [post]
func (h *OrderHandler) Discount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.DiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.ApplyDiscountPercent(c.Request.Context(), id, req.Percent)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Settle godoc
// @Summary Records payment for an order (at most once)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param body body dto.SettleRequest true "Payment method, optional receipt email"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/settle [post]
func (h *OrderHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SettleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	order, err := h.svc.Settle(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Unsettle godoc
// @Summary Reverts a settled order to unpaid
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id}/unsettle [post]
func (h *OrderHandler) Unsettle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	order, err := h.svc.Unsettle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete godoc
// @Summary Deletes an order that has no recorded payments
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Consumption godoc
// @Summary Shows the order's theoretical ingredient usage
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {array} dto.ConsumptionLine
// @Router /v1/orders/{id}/consumption [get]
func (h *OrderHandler) Consumption(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	lines, err := h.recipeSvc.TheoreticalConsumption(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             o.ID.String(),
		Code:           o.Code,
		QueueStatus:    o.QueueStatus,
		PaymentStatus:  o.PaymentStatus,
		OpenedAt:       o.OpenedAt.Format(time.RFC3339),
		StartedAt:      fmtTime(o.StartedAt),
		DoneAt:         fmtTime(o.DoneAt),
		PaidAt:         fmtTime(o.PaidAt),
		PaidMethod:     o.PaidMethod,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		Total:          o.Total,
		Note:           o.Note,
		Items:          make([]dto.OrderItemResponse, 0, len(o.Items)),
		Payments:       make([]dto.PaymentResponse, 0, len(o.Payments)),
	}
	for _, item := range o.Items {
		out := dto.OrderItemResponse{
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		if item.Product != nil {
			out.Product = item.Product.Name
		}
		resp.Items = append(resp.Items, out)
	}
	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			Method: p.Method,
			Amount: p.Amount,
			PaidAt: p.PaidAt.Format(time.RFC3339),
		})
	}
	return resp
}

func fmtTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
