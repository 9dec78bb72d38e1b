package worker

// Processes shift summary jobs from QueueShiftSummary: mails the drawer
// reconciliation of a just-closed shift to the configured address.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"siwarapos/internal/infra"
	"siwarapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ShiftSummaryPayload is the job envelope sent to QueueShiftSummary.
type ShiftSummaryPayload struct {
	ShiftID string `json:"shift_id"`
}

type ShiftSummaryWorker struct {
	shifts   repository.ShiftRepository
	mailer   *infra.Mailer
	shopName string
	toEmail  string
}

func NewShiftSummaryWorker(shifts repository.ShiftRepository, mailer *infra.Mailer, shopName, toEmail string) *ShiftSummaryWorker {
	return &ShiftSummaryWorker{shifts: shifts, mailer: mailer, shopName: shopName, toEmail: toEmail}
}

func (w *ShiftSummaryWorker) Process(ctx context.Context, raw json.RawMessage) {
	if w.toEmail == "" {
		return
	}
	var payload ShiftSummaryPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("shift_summary_worker: invalid payload")
		return
	}
	id, err := uuid.Parse(payload.ShiftID)
	if err != nil {
		log.Error().Str("shift_id", payload.ShiftID).Msg("shift_summary_worker: bad shift id")
		return
	}

	shift, err := w.shifts.FindByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("shift_id", payload.ShiftID).Msg("shift_summary_worker: shift lookup failed")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shift %s\n", shift.ID)
	fmt.Fprintf(&b, "Opened:  %s\n", shift.OpenedAt.Format(time.RFC1123))
	if shift.ClosedAt != nil {
		fmt.Fprintf(&b, "Closed:  %s\n", shift.ClosedAt.Format(time.RFC1123))
	}
	fmt.Fprintf(&b, "Opening cash: %s\n", shift.OpeningCash.StringFixed(2))
	if shift.ClosingCash != nil {
		fmt.Fprintf(&b, "Counted cash: %s\n", shift.ClosingCash.StringFixed(2))
	}
	if shift.CashDiff != nil {
		fmt.Fprintf(&b, "Difference:   %s\n", shift.CashDiff.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nDrawer movements: %d\n", len(shift.Movements))
	for _, m := range shift.Movements {
		fmt.Fprintf(&b, "  %-12s %10s\n", m.TxnType, m.Amount.StringFixed(2))
	}

	subject := fmt.Sprintf("%s — shift closed %s", w.shopName, time.Now().Format("2006-01-02"))
	if err := w.mailer.Send(w.toEmail, subject, b.String(), ""); err != nil {
		log.Error().Err(err).Str("to", w.toEmail).Msg("shift_summary_worker: failed to send email")
		return
	}
	log.Info().Str("shift_id", payload.ShiftID).Msg("shift_summary_worker: summary sent")
}
