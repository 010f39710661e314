package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type PayrollHandler interface {
	// Summary
	GetSummary(w http.ResponseWriter, r *http.Request)

	// Lifecycle
	Transition(w http.ResponseWriter, r *http.Request)
	TransitionBulk(w http.ResponseWriter, r *http.Request)

	// Records
	ListRecords(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// tokenScope reads the org and actor the verified token carries.
func tokenScope(r *http.Request) (orgID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", "", err
	}
	orgID, _ = claims["org_id"].(string)
	userID, _ = claims["user_id"].(string)
	return orgID, userID, nil
}

func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

// ========== SUMMARY ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := tokenScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	req := payroll.SummaryRequest{
		OrgID:       orgID,
		DeptID:      optionalQuery(r, "department_id"),
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}

	result, err := h.payrollService.GenerateSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== LIFECYCLE ==========

func (h *payrollHandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := tokenScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.OrgID = orgID
	req.ActorID = userID

	result, err := h.payrollService.TransitionPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.Action == string(payroll.ActionGenerate) {
		response.Created(w, "Payroll record generated", result)
		return
	}
	response.Success(w, result)
}

func (h *payrollHandlerImpl) TransitionBulk(w http.ResponseWriter, r *http.Request) {
	orgID, userID, err := tokenScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req payroll.BulkTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.OrgID = orgID
	req.ActorID = userID

	results, err := h.payrollService.TransitionPayrollBulk(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, results)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := tokenScope(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	req := payroll.ListPayrollsRequest{
		OrgID:       orgID,
		DeptID:      optionalQuery(r, "department_id"),
		PeriodStart: r.URL.Query().Get("period_start"),
		PeriodEnd:   r.URL.Query().Get("period_end"),
	}

	result, err := h.payrollService.ListPayrolls(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
