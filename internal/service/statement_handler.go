package service

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mmynk/settlewise/internal/report"
	"github.com/mmynk/settlewise/internal/storage"
)

// StatementPattern is the route StatementHandler expects to be mounted on.
const StatementPattern = "GET /groups/{id}/statement.pdf"

// StatementHandler serves a group's balances and suggested payments as a
// PDF document.
func (s *GroupService) StatementHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groupID := r.PathValue("id")
		slog.Info("Statement requested", "group_id", groupID)

		summary, err := s.Balances(r.Context(), groupID)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("Statement failed", "group_id", groupID, "error", err)
			http.Error(w, "failed to build statement", http.StatusInternalServerError)
			return
		}

		st := report.Statement{
			GroupName:   summary.Group.Name,
			Currency:    summary.Group.Currency,
			GeneratedAt: time.Now(),
			Balances:    make([]report.Balance, len(summary.Balances)),
			Payments:    make([]report.Payment, len(summary.Payments)),
		}
		for i, b := range summary.Balances {
			st.Balances[i] = report.Balance{Name: b.Name, Net: b.NetBalance, Paid: b.TotalPaid, Owed: b.TotalOwed}
		}
		for i, p := range summary.Payments {
			st.Payments[i] = report.Payment{From: p.From, To: p.To, Amount: p.Amount}
		}

		var buf bytes.Buffer
		if err := report.WriteStatement(&buf, st); err != nil {
			slog.Error("Statement failed", "group_id", groupID, "error", err)
			http.Error(w, "failed to render statement", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set("Content-Disposition", `inline; filename="statement.pdf"`)
		w.Write(buf.Bytes())
	})
}
