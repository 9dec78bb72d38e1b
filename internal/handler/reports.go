package handler

import (
	"net/http"

	"siwarapos/internal/apierror"
	"siwarapos/internal/dto"
	"siwarapos/internal/infra"
	"siwarapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportHandler struct {
	svc      service.ReportService
	orderSvc service.OrderService
	shopName string
	pdfDir   string
}

func NewReportHandler(svc service.ReportService, orderSvc service.OrderService, shopName, pdfDir string) *ReportHandler {
	return &ReportHandler{svc: svc, orderSvc: orderSvc, shopName: shopName, pdfDir: pdfDir}
}

// Sales godoc
// @Summary Sales summary over a date range (defaults to today)
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} dto.SalesReportResponse
// @Router /v1/reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	var filter dto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query: "+err.Error()))
		return
	}
	resp, err := h.svc.Sales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt godoc
// @Summary Downloads the PDF receipt of an order
// @Tags reports
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {file} file
// @Failure 404 {object} apierror.APIError
// @Router /v1/orders/{id}/receipt [get]
func (h *ReportHandler) Receipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	order, err := h.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := infra.GenerateReceiptPDF(order, h.shopName, h.pdfDir)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.FileAttachment(path, "receipt_"+order.Code+".pdf")
}
