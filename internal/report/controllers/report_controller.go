package controllers

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/benhvien-dev/baocao-backend/internal/report/export"
	"github.com/benhvien-dev/baocao-backend/internal/report/projection"
	"github.com/benhvien-dev/baocao-backend/internal/report/services"
	"github.com/benhvien-dev/baocao-backend/pkg/utils"
)

type ReportController struct {
	Service   *services.ReportService
	Templates *services.TemplateService
	Loc       *time.Location
}

func NewReportController(svc *services.ReportService, tpl *services.TemplateService, loc *time.Location) *ReportController {
	return &ReportController{Service: svc, Templates: tpl, Loc: loc}
}

// parseRange đọc tu_ngay/den_ngay (dd/MM/yyyy) từ query, mặc định hôm nay.
func (rc *ReportController) parseRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now().In(rc.Loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, rc.Loc)

	parse := func(s string) (time.Time, error) {
		if s == "" {
			return today, nil
		}
		return time.ParseInLocation("02/01/2006", s, rc.Loc)
	}

	from, err := parse(c.QueryParam("tu_ngay"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid tu_ngay")
	}
	to, err := parse(c.QueryParam("den_ngay"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid den_ngay")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("den_ngay before tu_ngay")
	}
	return from, to, nil
}

func granularityParam(c echo.Context) (string, error) {
	g := c.QueryParam("granularity")
	switch g {
	case "", utils.GranularityDay:
		return utils.GranularityDay, nil
	case utils.GranularityMonth:
		return utils.GranularityMonth, nil
	}
	return "", errors.New("granularity must be day or month")
}

func paletteParam(c echo.Context) projection.Palette {
	if c.QueryParam("theme") == "dark" {
		return projection.DarkPalette
	}
	return projection.DefaultPalette
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"status":  http.StatusBadRequest,
		"message": msg,
		"data":    nil,
	})
}

func (rc *ReportController) kindParam(c echo.Context) (services.ReportKind, bool) {
	return services.KindByID(c.Param("kind"))
}

// GetReport handles GET /api/report/:kind
func (rc *ReportController) GetReport(c echo.Context) error {
	kind, ok := rc.kindParam(c)
	if !ok {
		return badRequest(c, "unknown report kind")
	}
	from, to, err := rc.parseRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	granularity, err := granularityParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	data, err := rc.Service.Load(c.Request().Context(), kind, from, to, granularity)
	if err != nil {
		// Lần tải bị thay thế bởi lần mới hơn: thoát im lặng.
		if errors.Is(err, context.Canceled) {
			return c.NoContent(http.StatusNoContent)
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "failed to load report: " + err.Error(),
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "OK",
		"data":    data,
	})
}

// GetWidgets handles GET /api/report/:kind/widgets — đường "vẽ lại màu":
// chiếu lại kết quả đã có với palette của theme, không tổng hợp lại.
func (rc *ReportController) GetWidgets(c echo.Context) error {
	kind, ok := rc.kindParam(c)
	if !ok {
		return badRequest(c, "unknown report kind")
	}

	data, ok := rc.Service.Repaint(kind.ID, paletteParam(c))
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "no report loaded yet",
			"data":    nil,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "OK",
		"data":    data,
	})
}

// ExportReport handles GET /api/report/:kind/export
func (rc *ReportController) ExportReport(c echo.Context) error {
	kind, ok := rc.kindParam(c)
	if !ok {
		return badRequest(c, "unknown report kind")
	}
	from, to, err := rc.parseRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	granularity, err := granularityParam(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	filename, blob, err := rc.Service.Export(c.Request().Context(), kind, from, to, granularity)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "failed to export report: " + err.Error(),
			"data":    nil,
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", blob)
}

type renderTemplateRequest struct {
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data"`
}

// RenderTemplate handles POST /api/report/template
func (rc *ReportController) RenderTemplate(c echo.Context) error {
	var req renderTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	blob, err := rc.Templates.Render(req.Template, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrNoTemplate):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "template not found",
				"data":    nil,
			})
		case errors.Is(err, export.ErrHTMLPayload):
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"status":  http.StatusBadGateway,
				"message": "template resource returned an error page",
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "failed to render template: " + err.Error(),
				"data":    nil,
			})
		}
	}

	// tên file tải về chỉ lấy basename và bỏ ký tự phá header,
	// cùng phép rút gọn với phía đọc template
	base := strings.NewReplacer(`"`, "", `\`, "").Replace(filepath.Base(req.Template))
	name := base + "_" + time.Now().In(rc.Loc).Format("20060102150405")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Blob(http.StatusOK, "application/octet-stream", blob)
}
