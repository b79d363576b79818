package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/ThevergeOn/reservation-app/internal/errs"
	"github.com/ThevergeOn/reservation-app/internal/model"

	"github.com/ThevergeOn/reservation-app/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Handler struct {
	reservationSvc ReservationService
	log            *zap.Logger
}

func New(reservationSvc ReservationService, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: reservationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.GET("/reservations", h.ListReservations)
	api.POST("/reservations", h.CreateReservation)
	api.PATCH("/reservations/:id", h.UpdateReservation)
	api.DELETE("/reservations/:id", h.DeleteReservation)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res, err := h.reservationSvc.CreateReservation(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListReservations(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.reservationSvc.ListReservations(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) UpdateReservation(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is empty")
	}
	var req model.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	res, err := h.reservationSvc.UpdateReservation(ctx, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteReservation(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id is empty")
	}
	ctx := c.Request().Context()
	if err := h.reservationSvc.DeleteReservation(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// httpError maps the engine's error taxonomy onto transport statuses.
func httpError(err error) *echo.HTTPError {
	var vErr *errs.ValidationError
	if errors.As(err, &vErr) {
		return echo.NewHTTPError(http.StatusBadRequest, vErr.Error())
	}
	var cErr *errs.ConflictError
	if errors.As(err, &cErr) {
		return echo.NewHTTPError(http.StatusConflict, cErr.Error())
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidInterval):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, errs.ErrUnavailable.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
