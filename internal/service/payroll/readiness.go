package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
)

// evaluateReadiness synthesizes the go/no-go judgment. Pure function of
// the computed sections and the count of existing payroll records for the
// same period. Incomplete attendance and an existing run are advisory
// only; the single blocking condition is an empty eligible set.
func evaluateReadiness(elig payroll.EligibilitySection, att payroll.AttendanceSection, existingRecords int) payroll.ReadinessSection {
	var readiness payroll.ReadinessSection

	eligible := elig.EligibleWithSchedule + elig.EligibleWithoutSchedule
	if eligible == 0 {
		readiness.BlockingIssues = append(readiness.BlockingIssues,
			"no eligible employees in scope for this period")
	}

	if !att.Complete {
		readiness.Warnings = append(readiness.Warnings,
			fmt.Sprintf("attendance is incomplete: %d employee(s) have no time entries in the period", len(att.MissingEmployeeIDs)))
	}

	if existingRecords > 0 {
		readiness.Warnings = append(readiness.Warnings,
			fmt.Sprintf("%d payroll record(s) already exist for this period; re-generation is allowed but flagged", existingRecords))
	}

	readiness.CanGenerate = len(readiness.BlockingIssues) == 0
	return readiness
}
