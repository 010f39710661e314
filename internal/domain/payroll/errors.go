package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrPayrollNotFound      = errors.New("payroll record not found")
	ErrPayrollAlreadyExists = errors.New("payroll record already exists for this period")
	ErrEmployeeNotEligible  = errors.New("employee has no current compensation for this period")
)

// InvalidStateTransitionError is a rejected mutation attempt. Both the
// current persisted status and the attempted target are reported.
type InvalidStateTransitionError struct {
	Current   Status
	Attempted Status
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid payroll state transition: %s -> %s", e.Current, e.Attempted)
}
