package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/internal/calculator"
	"github.com/mmynk/settlewise/internal/money"
	"github.com/mmynk/settlewise/pkg/api"
	"github.com/mmynk/settlewise/pkg/api/apiconnect"
)

// PlanObserver is told about every settlement plan a service computes.
type PlanObserver interface {
	ObservePlan(participants, transactions int)
}

// SettlementService implements the stateless Connect SettlementService.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	observer PlanObserver
}

// NewSettlementService creates a SettlementService. observer may be nil.
func NewSettlementService(observer PlanObserver) *SettlementService {
	return &SettlementService{observer: observer}
}

// Plan settles the debts between the named participants.
func (s *SettlementService) Plan(ctx context.Context, req *connect.Request[api.PlanRequest]) (*connect.Response[api.PlanResponse], error) {
	slog.Info("Plan request received",
		"names", len(req.Msg.Names),
		"edges", len(req.Msg.Edges),
	)

	edges := make([]calculator.NamedEdge, len(req.Msg.Edges))
	for i, e := range req.Msg.Edges {
		amount, err := money.Parse(e.Amount)
		if err != nil {
			return nil, toConnectError(err)
		}
		edges[i] = calculator.NamedEdge{From: e.From, To: e.To, Amount: amount}
	}

	debts, err := calculator.Plan(req.Msg.Names, edges)
	if err != nil {
		slog.Warn("Plan rejected", "error", err)
		return nil, toConnectError(err)
	}
	observePlan(s.observer, len(req.Msg.Names), len(debts))

	slog.Info("Plan computed", "transactions", len(debts))

	transactions := make([]api.Payment, len(debts))
	for i, d := range debts {
		transactions[i] = paymentToAPI(d)
	}
	return connect.NewResponse(&api.PlanResponse{Transactions: transactions}), nil
}

func observePlan(observer PlanObserver, participants, transactions int) {
	if observer != nil {
		observer.ObservePlan(participants, transactions)
	}
}

func paymentToAPI(d calculator.DebtEdge) api.Payment {
	return api.Payment{From: d.From, To: d.To, Amount: money.Format(d.Amount)}
}
