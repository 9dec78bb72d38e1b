package handler

import (
	"net/http"
	"strconv"
	"time"

	"siwarapos/internal/apierror"
	"siwarapos/internal/dto"
	"siwarapos/internal/model"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShiftHandler struct{ svc service.ShiftService }

func NewShiftHandler(svc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{svc: svc}
}

// Open godoc
// @Summary Opens the cash drawer for a new shift
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenShiftRequest true "Opening float"
// @Success 201 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/shifts/open [post]
func (h *ShiftHandler) Open(c *gin.Context) {
	var req dto.OpenShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shift, err := h.svc.Open(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toShiftResponse(c, shift, false))
}

// Current godoc
// @Summary Fetches the open shift with its expected cash
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ShiftResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/shifts/current [get]
func (h *ShiftHandler) Current(c *gin.Context) {
	shift, err := h.svc.Current(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toShiftResponse(c, shift, false))
}

// Get godoc
// @Summary Fetches a shift with its drawer ledger
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shift ID"
// @Success 200 {object} dto.ShiftResponse
// @Router /v1/shifts/{id} [get]
func (h *ShiftHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	shift, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toShiftResponse(c, shift, true))
}

// RecordMovement godoc
// @Summary Records a manual drawer movement
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CashMovementRequest true "Movement data"
// @Success 201 {object} dto.CashMovementResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/shifts/movements [post]
func (h *ShiftHandler) RecordMovement(c *gin.Context) {
	var req dto.CashMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	m, err := h.svc.RecordCashMovement(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCashMovementResponse(m))
}

// Close godoc
// @Summary Closes the shift and reconciles the drawer
// @Tags shifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseShiftRequest true "Counted cash"
// @Success 200 {object} dto.ShiftResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/shifts/close [post]
func (h *ShiftHandler) Close(c *gin.Context) {
	var req dto.CloseShiftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	shift, err := h.svc.Close(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toShiftResponse(c, shift, true))
}

// History godoc
// @Summary Lists closed shifts, newest first
// @Tags shifts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ShiftListResponse
// @Router /v1/shifts [get]
func (h *ShiftHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	shifts, total, err := h.svc.History(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.ShiftListResponse{
		Data:  make([]dto.ShiftResponse, 0, len(shifts)),
		Total: total,
		Page:  page,
		Limit: limit,
	}
	for i := range shifts {
		resp.Data = append(resp.Data, h.toShiftResponse(c, &shifts[i], false))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ShiftHandler) toShiftResponse(c *gin.Context, s *model.Shift, withMovements bool) dto.ShiftResponse {
	expected := decimal.Zero
	if e, err := h.svc.ExpectedCash(c.Request.Context(), s); err == nil {
		expected = e
	}
	resp := dto.ShiftResponse{
		ID:           s.ID.String(),
		OpenedAt:     s.OpenedAt.Format(time.RFC3339),
		OpeningCash:  s.OpeningCash,
		ExpectedCash: expected,
		ClosedAt:     fmtTime(s.ClosedAt),
		ClosingCash:  s.ClosingCash,
		CashDiff:     s.CashDiff,
		Note:         s.Note,
	}
	if withMovements {
		for _, m := range s.Movements {
			resp.Movements = append(resp.Movements, toCashMovementResponse(&m))
		}
	}
	return resp
}

func toCashMovementResponse(m *model.CashMovement) dto.CashMovementResponse {
	return dto.CashMovementResponse{
		ID:        m.ID.String(),
		TxnType:   m.TxnType,
		Amount:    m.Amount,
		Note:      m.Note,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}
