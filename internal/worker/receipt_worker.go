package worker

// Processes receipt jobs from QueueReceiptEmail: renders the settled order
// as a PDF receipt and mails it to the customer.

import (
	"context"
	"encoding/json"
	"fmt"

	"siwarapos/internal/infra"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReceiptEmailPayload is the job envelope sent to QueueReceiptEmail.
type ReceiptEmailPayload struct {
	OrderID string `json:"order_id"`
	ToEmail string `json:"to_email"`
}

type ReceiptWorker struct {
	orders   repository.OrderRepository
	mailer   *infra.Mailer
	shopName string
	pdfDir   string
}

func NewReceiptWorker(orders repository.OrderRepository, mailer *infra.Mailer, shopName, pdfDir string) *ReceiptWorker {
	return &ReceiptWorker{orders: orders, mailer: mailer, shopName: shopName, pdfDir: pdfDir}
}

func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReceiptEmailPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("receipt_worker: empty to_email, skipping")
		return
	}
	id, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Str("order_id", payload.OrderID).Msg("receipt_worker: bad order id")
		return
	}

	order, err := w.orders.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: order lookup failed")
		return
	}

	pdfPath, err := infra.GenerateReceiptPDF(order, w.shopName, w.pdfDir)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("receipt_worker: pdf generation failed")
		return
	}

	subject := fmt.Sprintf("%s — receipt %s", w.shopName, order.Code)
	body := fmt.Sprintf("Thank you for your order %s. Your receipt is attached.", order.Code)
	if err := w.mailer.Send(payload.ToEmail, subject, body, pdfPath); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("receipt_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Str("order", order.Code).Msg("receipt_worker: receipt sent")
}
