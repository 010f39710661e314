package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/config"
	appHTTP "github.com/cmlabs-hris/payroll-engine-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-engine-go/internal/repository/postgresql"
	payrollService "github.com/cmlabs-hris/payroll-engine-go/internal/service/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/service/statutory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), cfg.App.SummaryWorkers)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	workScheduleRepo := postgresql.NewWorkScheduleRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	overtimeRepo := postgresql.NewOvertimeRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	bracketRepo := postgresql.NewBracketRepository(db)
	deductionPolicyRepo := postgresql.NewDeductionPolicyRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	snapshotRunner := postgresql.NewSnapshotRunner(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	statutoryCalculator := statutory.NewCalculator(bracketRepo)

	service := payrollService.NewService(
		employeeRepo,
		workScheduleRepo,
		timesheetRepo,
		overtimeRepo,
		holidayRepo,
		deductionPolicyRepo,
		payrollRepo,
		statutoryCalculator,
		snapshotRunner,
		cfg.App.SummaryWorkers,
	)

	payrollHandler := appHTTP.NewPayrollHandler(service)
	router := appHTTP.NewRouter(cfg, JWTService, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	log.Println("listening on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal("Server error: ", err)
	}
}
