package routes

import (
	"database/sql"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/config"
	authControllers "github.com/benhvien-dev/baocao-backend/internal/auth/controllers"
	authRoutes "github.com/benhvien-dev/baocao-backend/internal/auth/routes"
	authServices "github.com/benhvien-dev/baocao-backend/internal/auth/services"
	reportControllers "github.com/benhvien-dev/baocao-backend/internal/report/controllers"
	reportRoutes "github.com/benhvien-dev/baocao-backend/internal/report/routes"
	reportServices "github.com/benhvien-dev/baocao-backend/internal/report/services"
	"github.com/benhvien-dev/baocao-backend/ws"
)

// Init khởi tạo toàn bộ routes trên Echo.
func Init(e *echo.Echo, db *sql.DB, hub *ws.Hub, cfg *config.Config) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to Local", cfg.Timezone)
		loc = time.Local
	}

	// Service
	authService := authServices.NewAuthService(db)
	reportService := reportServices.NewReportService(db, cfg.WorkloadDivisor, cfg.ChunkSize, hub)
	templateService := reportServices.NewTemplateService(cfg.TemplateDir)

	// Controller
	authController := authControllers.NewAuthController(authService)
	reportController := reportControllers.NewReportController(reportService, templateService, loc)

	api := e.Group("/api")
	authRoutes.RegisterAuthRoutes(api, authController)
	reportRoutes.RegisterReportRoutes(api, reportController)

	// Kênh tiến độ tổng hợp cho dashboard.
	e.GET("/ws/progress", ws.ServeWS(hub))
}
