package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/internal/common/middlewares"
	"github.com/benhvien-dev/baocao-backend/internal/report/controllers"
)

// PrivXemBaoCao là privilege xem/xuất báo cáo.
const PrivXemBaoCao = 7

// RegisterReportRoutes gắn các route báo cáo, tất cả qua JWT + privilege.
func RegisterReportRoutes(api *echo.Group, rc *controllers.ReportController) {
	report := api.Group("/report",
		middlewares.JWTMiddleware(),
		middlewares.RequirePrivilege(PrivXemBaoCao))

	report.POST("/template", rc.RenderTemplate)
	report.GET("/:kind", rc.GetReport)
	report.GET("/:kind/widgets", rc.GetWidgets)
	report.GET("/:kind/export", rc.ExportReport)
}
