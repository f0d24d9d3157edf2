package report

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/healthwatch/healthwatch/pkg/pagination"
)

type Handler struct {
	svc         *Service
	store       Store
	includeName bool
	logger      zerolog.Logger
}

func NewHandler(svc *Service, store Store, includeName bool, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, store: store, includeName: includeName, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.SubmitReport)
	api.GET("/reports", h.ListReports)
	api.DELETE("/reports", h.DeleteReports)
	api.GET("/reports/export", h.ExportReports)
}

// SubmitReport validates and appends one report.
func (h *Handler) SubmitReport(c echo.Context) error {
	var sub Submission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.svc.Submit(sub)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return c.JSON(http.StatusBadRequest, verr)
		}
		h.logger.Error().Err(err).Msg("append failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store report")
	}
	return c.JSON(http.StatusCreated, rec)
}

// ListReports returns filtered records, most recent first, paginated.
func (h *Handler) ListReports(c echo.Context) error {
	constraints, err := constraintsFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	records := SortedByRecency(Filter(h.store.LoadAll(), constraints))

	pg := pagination.FromContext(c)
	total := len(records)
	start := pg.Offset
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, pagination.NewResponse(records[start:end], total, pg.Limit, pg.Offset))
}

type deleteRequest struct {
	Positions []int `json:"positions"`
}

// DeleteReports removes rows by their zero-based LoadAll positions. The
// positions refer to the store snapshot at the time of the request; clients
// must reload before reusing indices.
func (h *Handler) DeleteReports(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Positions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "positions is required")
	}

	if err := h.store.DeleteByPositions(req.Positions); err != nil {
		if errors.Is(err, ErrPositionOutOfRange) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("delete failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete reports")
	}

	return c.JSON(http.StatusOK, map[string]int{"deleted": len(req.Positions)})
}

// ExportReports streams the (optionally filtered) dataset as CSV or Excel.
func (h *Handler) ExportReports(c echo.Context) error {
	constraints, err := constraintsFromQuery(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	records := Filter(h.store.LoadAll(), constraints)

	stamp := time.Now().Format("20060102")
	switch format := c.QueryParam("format"); format {
	case "", "csv":
		data, err := ExportCSV(records, h.includeName)
		if err != nil {
			h.logger.Error().Err(err).Msg("csv export failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=health_data_%s.csv", stamp))
		return c.Blob(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := ExportExcel(records, h.includeName)
		if err != nil {
			h.logger.Error().Err(err).Msg("excel export failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "export failed")
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=health_data_%s.xlsx", stamp))
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
	}
}

func constraintsFromQuery(c echo.Context) (Constraints, error) {
	constraints := Constraints{
		Areas:     c.QueryParams()["area"],
		AgeGroups: c.QueryParams()["age_group"],
	}
	if from := c.QueryParam("from"); from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return Constraints{}, fmt.Errorf("invalid from date %q", from)
		}
		constraints.From = &t
	}
	if to := c.QueryParam("to"); to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return Constraints{}, fmt.Errorf("invalid to date %q", to)
		}
		constraints.To = &t
	}
	return constraints, nil
}
