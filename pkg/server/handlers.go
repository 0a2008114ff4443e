package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/governor"
)

// chargeRequest is the body of POST /v1/charge.
type chargeRequest struct {
	ActorID        string `json:"actor_id"`
	OperationClass string `json:"operation_class"`
	InputUnits     int64  `json:"input_units"`
	OutputUnits    int64  `json:"output_units"`
}

// chargeResponse mirrors governor.Receipt.
type chargeResponse struct {
	CostUSD           string `json:"cost_usd"`
	DailyRemainingUSD string `json:"daily_remaining_usd"`
	GateOpen          bool   `json:"gate_open"`
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleCharge(w http.ResponseWriter, r *http.Request) {
	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if req.ActorID == "" {
		writeError(w, http.StatusBadRequest, "malformed_request", "actor_id is required")
		return
	}

	receipt, err := s.governor.Charge(req.ActorID, req.OperationClass, req.InputUnits, req.OutputUnits)
	switch {
	case errors.Is(err, governor.ErrBudgetExceeded):
		s.writeBudgetExceeded(w)
		return
	case errors.Is(err, governor.ErrInvalidUnits):
		writeError(w, http.StatusBadRequest, "invalid_units", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, chargeResponse{
		CostUSD:           receipt.Cost.String(),
		DailyRemainingUSD: receipt.DailyRemaining.String(),
		GateOpen:          receipt.GateOpen,
	})
}

// writeBudgetExceeded maps a closed gate to 429 with a Retry-After hint
// pointing at the next scheduled daily reset.
func (s *Server) writeBudgetExceeded(w http.ResponseWriter) {
	if s.scheduler != nil {
		if next, err := s.scheduler.NextDailyReset(); err == nil {
			retryAfter := int(time.Until(next).Seconds())
			if retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			}
		}
	}
	writeError(w, http.StatusTooManyRequests, "budget_exceeded",
		"budget exceeded, admission gate closed until reset")
}

// statusResponse mirrors governor.Snapshot.
type statusResponse struct {
	DailySpendUSD     string          `json:"daily_spend_usd"`
	MonthlySpendUSD   string          `json:"monthly_spend_usd"`
	DailyLimitUSD     string          `json:"daily_limit_usd"`
	MonthlyLimitUSD   string          `json:"monthly_limit_usd"`
	DailyPercentage   float64         `json:"daily_percentage"`
	MonthlyPercentage float64         `json:"monthly_percentage"`
	GateOpen          bool            `json:"gate_open"`
	LastDailyReset    time.Time       `json:"last_daily_reset"`
	Charges           int             `json:"charges"`
	TopActors         []breakdownRow  `json:"top_actors"`
	TopClasses        []breakdownRow  `json:"top_classes"`
}

type breakdownRow struct {
	Name    string `json:"name"`
	CostUSD string `json:"cost_usd"`
	Charges int    `json:"charges"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.governor.Status()

	writeJSON(w, http.StatusOK, statusResponse{
		DailySpendUSD:     snap.DailySpend.String(),
		MonthlySpendUSD:   snap.MonthlySpend.String(),
		DailyLimitUSD:     snap.DailyLimit.String(),
		MonthlyLimitUSD:   snap.MonthlyLimit.String(),
		DailyPercentage:   snap.DailyPercentage,
		MonthlyPercentage: snap.MonthlyPercentage,
		GateOpen:          snap.GateOpen,
		LastDailyReset:    snap.LastDailyReset,
		Charges:           snap.Charges,
		TopActors:         breakdownRows(snap.TopActors),
		TopClasses:        breakdownRows(snap.TopClasses),
	})
}

func breakdownRows(rows []governor.CostBreakdown) []breakdownRow {
	out := make([]breakdownRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, breakdownRow{
			Name:    row.Name,
			CostUSD: row.Cost.String(),
			Charges: row.Charges,
		})
	}
	return out
}

// projectionResponse mirrors pricing.Projection.
type projectionResponse struct {
	OperationClass  string `json:"operation_class"`
	OpsPerDay       int64  `json:"ops_per_day"`
	UnitsPerOp      int64  `json:"units_per_op"`
	CostPerOpUSD    string `json:"cost_per_op_usd"`
	DailyUSD        string `json:"daily_usd"`
	MonthlyUSD      string `json:"monthly_usd"`
	YearlyUSD       string `json:"yearly_usd"`
	YearlyAt10xUSD  string `json:"yearly_at_10x_usd"`
	YearlyAt100xUSD string `json:"yearly_at_100x_usd"`
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opsPerDay, err := strconv.ParseInt(q.Get("ops_per_day"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", "ops_per_day must be an integer")
		return
	}
	unitsPerOp, err := strconv.ParseInt(q.Get("units_per_op"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", "units_per_op must be an integer")
		return
	}
	class := q.Get("class")

	projection, err := s.governor.Projection(opsPerDay, unitsPerOp, class)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, projectionResponse{
		OperationClass:  projection.OperationClass,
		OpsPerDay:       projection.OpsPerDay,
		UnitsPerOp:      projection.UnitsPerOp,
		CostPerOpUSD:    projection.CostPerOp.String(),
		DailyUSD:        projection.Daily.String(),
		MonthlyUSD:      projection.Monthly.String(),
		YearlyUSD:       projection.Yearly.String(),
		YearlyAt10xUSD:  projection.YearlyAt10x.String(),
		YearlyAt100xUSD: projection.YearlyAt100x.String(),
	})
}

// overrideRequest is the body of POST /v1/override/reset.
type overrideRequest struct {
	Operator         string   `json:"operator"`
	NewDailyLimitUSD *float64 `json:"new_daily_limit_usd,omitempty"`
}

func (s *Server) handleOverrideReset(w http.ResponseWriter, r *http.Request) {
	if s.overrideToken != "" && r.Header.Get("Authorization") != "Bearer "+s.overrideToken {
		writeError(w, http.StatusForbidden, "unauthorized_override", "missing or invalid override token")
		return
	}

	var req overrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_request", fmt.Sprintf("invalid JSON body: %v", err))
		return
	}
	if req.Operator == "" {
		req.Operator = "unknown"
	}

	var newLimit *decimal.Decimal
	if req.NewDailyLimitUSD != nil {
		d := decimal.NewFromFloat(*req.NewDailyLimitUSD)
		newLimit = &d
	}

	err := s.governor.EmergencyReset(r.Context(), req.Operator, newLimit)
	switch {
	case errors.Is(err, governor.ErrUnauthorizedOverride):
		writeError(w, http.StatusForbidden, "unauthorized_override", err.Error())
		return
	case errors.Is(err, governor.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "invalid_limit", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	s.handleStatus(w, r)
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditStore == nil {
		writeError(w, http.StatusNotFound, "not_found", "audit store not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.auditStore.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}
