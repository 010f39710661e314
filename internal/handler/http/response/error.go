package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/bracket"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A rejected transition reports both the persisted and attempted
	// status so the client can resync.
	var transitionErr *payroll.InvalidStateTransitionError
	if errors.As(err, &transitionErr) {
		Conflict(w, transitionErr.Error(), map[string]string{
			"current_status":   string(transitionErr.Current),
			"attempted_status": string(transitionErr.Attempted),
		})
		return
	}

	// A gap in the statutory tables is a configuration fault on our side,
	// never a client error.
	var bracketErr *bracket.NoMatchingBracketError
	if errors.As(err, &bracketErr) {
		InternalServerError(w, bracketErr.Error())
		return
	}

	switch {
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyExists):
		Conflict(w, "Payroll record already exists for this period", nil)
	case errors.Is(err, payroll.ErrEmployeeNotEligible):
		BadRequest(w, "Employee has no current compensation for this period", nil)

	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
