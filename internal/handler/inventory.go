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

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// CreateIngredient godoc
// @Summary Registers a raw material
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SaveIngredientRequest true "Ingredient data"
// @Success 201 {object} model.Ingredient
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/inventory/ingredients [post]
func (h *InventoryHandler) CreateIngredient(c *gin.Context) {
	var req dto.SaveIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ing, err := h.svc.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ing)
}

// ListIngredients godoc
// @Summary Lists raw materials
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param all query bool false "Include deactivated"
// @Success 200 {array} model.Ingredient
// @Router /v1/inventory/ingredients [get]
func (h *InventoryHandler) ListIngredients(c *gin.Context) {
	activeOnly := c.Query("all") != "true"
	ingredients, err := h.svc.ListIngredients(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

// UpdateIngredient godoc
// @Summary Updates a raw material
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ingredient ID"
// @Param body body dto.SaveIngredientRequest true "Ingredient data"
// @Success 200 {object} model.Ingredient
// @Router /v1/inventory/ingredients/{id} [put]
func (h *InventoryHandler) UpdateIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.SaveIngredientRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ing, err := h.svc.UpdateIngredient(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ing)
}

// DeleteIngredient godoc
// @Summary Removes an unreferenced raw material
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "Ingredient ID"
// @Success 204
// @Failure 409 {object} apierror.APIError "Referenced by movements or recipes — deactivate instead"
// @Router /v1/inventory/ingredients/{id} [delete]
func (h *InventoryHandler) DeleteIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeactivateIngredient godoc
// @Summary Takes a raw material out of use, keeping its history
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "Ingredient ID"
// @Success 204
// @Router /v1/inventory/ingredients/{id}/deactivate [patch]
func (h *InventoryHandler) DeactivateIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	if err := h.svc.DeactivateIngredient(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RecordMovement godoc
// @Summary Appends a stock movement (in / waste / adjust)
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.MovementRequest true "Movement data"
// @Success 201 {object} dto.MovementResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	var req dto.MovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.RecordMovement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMovementResponse(m))
}

// ReceivePacks godoc
// @Summary Receives whole purchase packs, converted to base units
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ReceivePacksRequest true "Pack delivery"
// @Success 201 {object} dto.MovementResponse
// @Router /v1/inventory/receive-packs [post]
func (h *InventoryHandler) ReceivePacks(c *gin.Context) {
	var req dto.ReceivePacksRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.ReceivePacks(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMovementResponse(m))
}

// ListMovements godoc
// @Summary Lists the stock ledger, newest first
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param ingredient_id query string false "Filter by ingredient"
// @Param kind query string false "Filter by kind"
// @Success 200 {object} dto.MovementListResponse
// @Router /v1/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	movements, total, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(movements)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movements {
		resp.Data = append(resp.Data, toMovementResponse(&movements[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// OnHand godoc
// @Summary Stock overview with low-stock flags and pack conversion
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OnHandResponse
// @Router /v1/inventory/onhand [get]
func (h *InventoryHandler) OnHand(c *gin.Context) {
	rows, err := h.svc.OnHandAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// LowStock godoc
// @Summary Ingredients at or below their minimum level
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.OnHandResponse
// @Router /v1/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	rows, err := h.svc.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func toMovementResponse(m *model.InventoryMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:        m.ID.String(),
		Kind:      m.Kind,
		Qty:       m.Qty,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
	if m.Ingredient != nil {
		resp.Ingredient = m.Ingredient.Name
	}
	return resp
}
