package outbreak

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthwatch/healthwatch/internal/report"
)

// Handler exposes outbreak detection over HTTP. Deployment defaults come
// from configuration; both parameters can be overridden per request.
type Handler struct {
	store      report.Store
	threshold  int
	windowDays int
}

func NewHandler(store report.Store, threshold, windowDays int) *Handler {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Handler{store: store, threshold: threshold, windowDays: windowDays}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/outbreaks", h.GetOutbreaks)
}

type outbreaksResponse struct {
	GeneratedAt time.Time  `json:"generated_at"`
	Threshold   int        `json:"threshold"`
	WindowDays  int        `json:"window_days"`
	Outbreaks   []Outbreak `json:"outbreaks"`
}

// GetOutbreaks recomputes the outbreak rule over the current store contents.
func (h *Handler) GetOutbreaks(c echo.Context) error {
	threshold, err := intParam(c, "threshold", h.threshold)
	if err != nil {
		return err
	}
	windowDays, err := intParam(c, "window_days", h.windowDays)
	if err != nil {
		return err
	}

	now := time.Now()
	return c.JSON(http.StatusOK, outbreaksResponse{
		GeneratedAt: now,
		Threshold:   threshold,
		WindowDays:  windowDays,
		Outbreaks:   Detect(h.store.LoadAll(), now, threshold, windowDays),
	})
}

func intParam(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return v, nil
}
