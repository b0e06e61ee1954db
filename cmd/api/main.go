package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tadris-labs/school-backend-go/internal/config"
	appHTTP "github.com/tadris-labs/school-backend-go/internal/handler/http"
	"github.com/tadris-labs/school-backend-go/internal/pkg/cron"
	"github.com/tadris-labs/school-backend-go/internal/pkg/database"
	"github.com/tadris-labs/school-backend-go/internal/pkg/jwt"
	"github.com/tadris-labs/school-backend-go/internal/repository/postgresql"
	attendanceService "github.com/tadris-labs/school-backend-go/internal/service/attendance"
	authService "github.com/tadris-labs/school-backend-go/internal/service/auth"
	payrollService "github.com/tadris-labs/school-backend-go/internal/service/payroll"
	staffService "github.com/tadris-labs/school-backend-go/internal/service/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "school-backend"),
		slog.String("env", cfg.App.Env),
	)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	staffRepo := postgresql.NewStaffRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := authService.NewAuthService(userRepo, jwtService)
	staffSvc := staffService.NewStaffService(staffRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, staffRepo, payrollRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, staffRepo, attendanceRepo, logger)

	authHandler := appHTTP.NewAuthHandler(authSvc)
	staffHandler := appHTTP.NewStaffHandler(staffSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		staffHandler,
		attendanceHandler,
		payrollHandler,
	)

	if cfg.App.PayrollAutoRun {
		scheduler := cron.NewScheduler(logger)
		cron.NewPayrollJobs(payrollSvc, staffRepo, logger).Register(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
