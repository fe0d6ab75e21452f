package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gota/business/cafe"
	"gota/business/ranking"
	"gota/domain"
	"gota/pkg/logger"
	"gota/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const HeaderSessionID = "X-Session-ID"

type (
	CafeHandler struct {
		cafeService CafeService
		validator   *validator.Validate
		timeout     time.Duration
	}

	CafeService interface {
		ListCafes(ctx context.Context, q cafe.ListQuery) ([]domain.RankedCafe, error)
		ExplainCafe(ctx context.Context, cafeID uint64, q cafe.ListQuery) (domain.ScoreBreakdown, error)
		RecordView(ctx context.Context, sessionID string, cafeID uint64) error
		RecentlyViewedCafes(ctx context.Context, sessionID string) ([]domain.CafeCandidate, error)
		ListZones(ctx context.Context) ([]string, error)
	}

	// ListCafesQuery mirrors the public listing filters. lat and lon stay
	// strings so a malformed value can be dropped instead of rejected.
	ListCafesQuery struct {
		Zone       string  `query:"zona"`
		Search     string  `query:"q" validate:"max=100"`
		Visibility string  `query:"visibility" validate:"omitempty,oneof=free featured premium 0 1 2"`
		Order      string  `query:"orden" validate:"omitempty,oneof=algoritmo rating reviews_count name"`
		N          int     `query:"n" validate:"gte=0,lte=100"`
		RadiusKm   float64 `query:"radius_km" validate:"gte=0,lte=50"`
		Lat        string  `query:"lat"`
		Lon        string  `query:"lon"`

		Wifi       bool `query:"wifi"`
		Pet        bool `query:"pet"`
		Vegan      bool `query:"vegan"`
		Outdoor    bool `query:"outdoor"`
		Parking    bool `query:"parking"`
		Accessible bool `query:"accessible"`
		Vegetarian bool `query:"vegetarian"`
		Breakfast  bool `query:"breakfast"`
		Alcohol    bool `query:"alcohol"`
		Books      bool `query:"books"`
		AirCon     bool `query:"ac"`
	}
)

func NewCafeHandler(svc CafeService) *CafeHandler {
	return &CafeHandler{
		cafeService: svc,
		validator:   validator.New(),
		timeout:     10 * time.Second,
	}
}

// GET /api/v1/cafes?zona=Palermo&wifi=true&orden=algoritmo&lat=-34.58&lon=-58.42
func (h *CafeHandler) List(c echo.Context) error {
	q, err := h.bindListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	order := q.Order
	if order == "" {
		order = cafe.OrderAlgorithm
	}
	timer := prometheus.NewTimer(metrics.RankingLatency)
	defer timer.ObserveDuration()
	metrics.RankingRequests.WithLabelValues(order).Inc()

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cafes, err := h.cafeService.ListCafes(ctx, q)
	if err != nil {
		logger.Error("Failed to list cafes", "trace_id", ranking.TraceIDFromContext(ctx), "error", err.Error())
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cafes))
}

// GET /api/v1/cafes/:id/score
func (h *CafeHandler) Score(c echo.Context) error {
	cafeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cafe id"})
	}

	q, err := h.bindListQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	breakdown, err := h.cafeService.ExplainCafe(ctx, cafeID, q)
	if err != nil {
		if errors.Is(err, domain.ErrCafeNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(breakdown))
}

// POST /api/v1/cafes/:id/views
func (h *CafeHandler) RecordView(c echo.Context) error {
	cafeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid cafe id"})
	}

	sessionID := c.Request().Header.Get(HeaderSessionID)
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "missing " + HeaderSessionID + " header"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cafeService.RecordView(ctx, sessionID, cafeID); err != nil {
		if errors.Is(err, domain.ErrCafeNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		logger.Error("Failed to record view", "trace_id", ranking.TraceIDFromContext(ctx), "error", err.Error())
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	metrics.ViewsRecorded.Inc()

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("view recorded"))
}

// GET /api/v1/cafes/recent
func (h *CafeHandler) Recent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cafes, err := h.cafeService.RecentlyViewedCafes(ctx, c.Request().Header.Get(HeaderSessionID))
	if err != nil {
		logger.Error("Failed to load recently viewed cafes", "trace_id", ranking.TraceIDFromContext(ctx), "error", err.Error())
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(cafes))
}

// GET /api/v1/zones
func (h *CafeHandler) Zones(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	zones, err := h.cafeService.ListZones(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(zones))
}

func (h *CafeHandler) bindListQuery(c echo.Context) (cafe.ListQuery, error) {
	var req ListCafesQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return cafe.ListQuery{}, err
	}
	if err := h.validator.Struct(&req); err != nil {
		return cafe.ListQuery{}, err
	}

	q := cafe.ListQuery{
		Zone:      req.Zone,
		Search:    strings.TrimSpace(req.Search),
		Order:     req.Order,
		RadiusKm:  req.RadiusKm,
		Limit:     req.N,
		SessionID: c.Request().Header.Get(HeaderSessionID),
		Required: domain.Amenities{
			HasWifi:              req.Wifi,
			IsPetFriendly:        req.Pet,
			IsVeganFriendly:      req.Vegan,
			HasOutdoorSeating:    req.Outdoor,
			HasParking:           req.Parking,
			IsAccessible:         req.Accessible,
			HasVegetarianOptions: req.Vegetarian,
			ServesBreakfast:      req.Breakfast,
			ServesAlcohol:        req.Alcohol,
			HasBooksOrGames:      req.Books,
			HasAirConditioning:   req.AirCon,
		},
	}

	if level, ok := domain.ParseVisibilityLevel(req.Visibility); ok {
		q.Visibility = &level
	}

	lat, latOK := h.coordinate(req.Lat, "latitude")
	lon, lonOK := h.coordinate(req.Lon, "longitude")
	if latOK && lonOK {
		q.Lat, q.Lon = &lat, &lon
	}

	if userID, ok := c.Get("user_id").(uint); ok {
		q.UserID = userID
	}

	return q, nil
}

// coordinate parses a lat or lon query value; anything unparseable or out of
// range is reported as absent.
func (h *CafeHandler) coordinate(raw, tag string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	if err := h.validator.Var(v, tag); err != nil {
		return 0, false
	}
	return v, true
}
