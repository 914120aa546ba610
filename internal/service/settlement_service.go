package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/settlement"
	"github.com/mmynk/settleup/pkg/api"
)

// Ensure SettlementService implements api.SettlementServiceHandler
var _ api.SettlementServiceHandler = (*SettlementService)(nil)

// SettlementService implements the Connect SettlementService.
// It is stateless: every call settles the balances it is given and nothing is stored.
type SettlementService struct {
	solver  *settlement.Solver
	metrics *metrics.Metrics
}

// NewSettlementService creates a SettlementService. m may be nil to disable metrics.
func NewSettlementService(solver *settlement.Solver, m *metrics.Metrics) *SettlementService {
	return &SettlementService{solver: solver, metrics: m}
}

// ComputeSettlements returns the payments that clear the requested balances.
func (s *SettlementService) ComputeSettlements(ctx context.Context, req *connect.Request[api.ComputeSettlementsRequest]) (*connect.Response[api.ComputeSettlementsResponse], error) {
	requestID := middleware.GetRequestID(ctx)
	slog.Info("ComputeSettlements request received",
		"request_id", requestID,
		"balances_count", len(req.Msg.Balances),
	)

	// Convert wire balances to solver balances
	balances := make([]settlement.Balance, len(req.Msg.Balances))
	for i, b := range req.Msg.Balances {
		amount, _ := b.Amount.Float64()
		slog.Debug("Processing balance",
			"index", i+1,
			"user_id", b.UserID,
			"amount", amount,
		)
		balances[i] = settlement.Balance{
			UserID:  b.UserID,
			Amount:  amount,
			Profile: b.Profile,
		}
	}

	start := time.Now()
	result, err := s.solver.Solve(balances)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, settlement.ErrInvalidInput) {
			if s.metrics != nil {
				s.metrics.InvalidInputs.Inc()
			}
			slog.Warn("ComputeSettlements rejected input", "request_id", requestID, "error", err)
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		slog.Error("ComputeSettlements failed", "request_id", requestID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if s.metrics != nil {
		s.metrics.ObserveSolve(result.Strategy.String(), len(result.Settlements), elapsed)
	}

	// Convert to wire format
	settlements := make([]api.Settlement, len(result.Settlements))
	for i, st := range result.Settlements {
		settlements[i] = api.Settlement{
			From:        st.From,
			To:          st.To,
			Amount:      decimal.NewFromFloat(st.Amount).Round(2),
			FromProfile: rawProfile(st.FromProfile),
			ToProfile:   rawProfile(st.ToProfile),
		}
	}

	slog.Info("ComputeSettlements successful",
		"request_id", requestID,
		"strategy", result.Strategy.String(),
		"participants", result.Participants,
		"settlements_count", len(settlements),
		"duration_us", elapsed.Microseconds(),
	)

	return connect.NewResponse(&api.ComputeSettlementsResponse{
		Settlements:  settlements,
		Strategy:     result.Strategy.String(),
		Participants: result.Participants,
	}), nil
}

// rawProfile recovers the profile passed through the solver.
func rawProfile(v any) json.RawMessage {
	raw, _ := v.(json.RawMessage)
	return raw
}
