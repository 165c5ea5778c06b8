// Package server exposes the rental tax calculation over an HTTP JSON API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/rental-tax/pkg/constants"
	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/iwvelando/rental-tax/pkg/rental"
	"github.com/iwvelando/rental-tax/pkg/tax"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

type contextKey string

const requestIDKey contextKey = "requestID"

// NewHandler constructs the HTTP handler that serves the calculation API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Calculation endpoint
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Tax table for clients that render the bracket breakdown themselves
	mux.HandleFunc("/api/brackets", h.handleBrackets)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

// withRequestID tags every request with a uuid that is echoed in the response
// headers and attached to log entries.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// amountText accepts either a JSON string or a JSON number, so form fields
// can be forwarded verbatim.
type amountText string

func (a *amountText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*a = amountText(n.String())
	return nil
}

type expensesRequest struct {
	Cleaning    amountText `json:"cleaning"`
	Maintenance amountText `json:"maintenance"`
	Insurance   amountText `json:"insurance"`
	Utilities   amountText `json:"utilities"`
	Repairs     amountText `json:"repairs"`
}

type calculateRequest struct {
	EntityType       string          `json:"entityType"`
	RentalIncome     amountText      `json:"rentalIncome"`
	IncludeInsurance bool            `json:"includeInsurance"`
	VATElection      *bool           `json:"vatElection"`
	Expenses         expensesRequest `json:"expenses"`
}

func (req calculateRequest) input() (rental.CalculationInput, error) {
	entity, err := tax.ParseEntityType(req.EntityType)
	if err != nil {
		return rental.CalculationInput{}, err
	}

	raw := rental.RawExpenses{
		Cleaning:    string(req.Expenses.Cleaning),
		Maintenance: string(req.Expenses.Maintenance),
		Insurance:   string(req.Expenses.Insurance),
		Utilities:   string(req.Expenses.Utilities),
		Repairs:     string(req.Expenses.Repairs),
	}

	return rental.CalculationInput{
		AnnualRentalIncome: rental.ParseNonNegative(string(req.RentalIncome)),
		Expenses:           raw.Parse(),
		EntityType:         entity,
		VATElection:        tax.ElectionFromBool(req.VATElection),
		InsuranceIncluded:  req.IncludeInsurance,
	}, nil
}

type inputEcho struct {
	EntityType       tax.EntityType    `json:"entityType"`
	VATElection      *bool             `json:"vatElection,omitempty"`
	RentalIncome     float64           `json:"rentalIncome"`
	IncludeInsurance bool              `json:"includeInsurance"`
	Expenses         rental.ExpenseSet `json:"expenses"`
}

type calculateResponse struct {
	Input     inputEcho                `json:"input"`
	Result    rental.CalculationResult `json:"result"`
	Formatted rental.FormattedResult   `json:"formatted"`
	Duration  string                   `json:"duration"`
}

type bracketsResponse struct {
	Individual        []tax.Bracket `json:"individual"`
	CompanyVATRate    float64       `json:"companyVatRate"`
	CompanyProfitRate float64       `json:"companyProfitRate"`
	ManagementFeeRate float64       `json:"managementFeeRate"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	input, err := req.input()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := rental.Calculate(input)
	if err != nil {
		status := http.StatusInternalServerError
		if rental.IsPreconditionError(err) {
			status = http.StatusUnprocessableEntity
		}
		h.respondError(w, r, status, err.Error(), op)
		return
	}
	if !finiteResult(result) {
		h.respondError(w, r, http.StatusUnprocessableEntity, "amounts are too large to calculate", op)
		return
	}

	elapsed := time.Since(start)
	response := calculateResponse{
		Input: inputEcho{
			EntityType:       input.EntityType,
			VATElection:      input.VATElection.Bool(),
			RentalIncome:     input.AnnualRentalIncome,
			IncludeInsurance: input.InsuranceIncluded,
			Expenses:         input.Expenses,
		},
		Result:    result,
		Formatted: result.Formatted(),
		Duration:  elapsed.String(),
	}

	h.logger.Info("calculation computed",
		zap.String("op", op),
		zap.String("requestId", requestID(r.Context())),
		zap.Stringer("entityType", input.EntityType),
		zap.Float64("taxOwed", result.TaxOwed),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleBrackets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, bracketsResponse{
		Individual:        tax.Brackets(),
		CompanyVATRate:    constants.CompanyVATRate,
		CompanyProfitRate: constants.CompanyProfitRate,
		ManagementFeeRate: constants.ManagementFeeRate,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.String("requestId", requestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.String("op", "server.writeJSON"), zap.Error(err))
	}
}

func finiteResult(r rental.CalculationResult) bool {
	for _, v := range []float64{r.ManagementFee, r.TotalExpenses, r.NetOperatingIncome, r.TaxOwed, r.AfterTaxIncome} {
		if !mathutil.IsFinite(v) {
			return false
		}
	}
	return true
}
