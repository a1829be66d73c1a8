package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	models "Voxmill/internal/domain/models"
	domrepo "Voxmill/internal/domain/repository"
	"Voxmill/internal/intelligence"
	icache "Voxmill/internal/service/cache"
	svcmetrics "Voxmill/internal/service/metrics"
	"Voxmill/internal/service/ratelimit"
	"Voxmill/internal/usecase"
	xhttp "Voxmill/pkg/http"
	xlogger "Voxmill/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CacheTTLs controls per-endpoint result caching. A zero field disables
// caching for that endpoint.
type CacheTTLs struct {
	Profile  time.Duration
	Network  time.Duration
	Velocity time.Duration
	Windows  time.Duration
	Clusters time.Duration
}

// IntelligenceHandler implements Echo-based HTTP handlers for the
// intelligence endpoints.
type IntelligenceHandler struct {
	logger       *xlogger.Logger
	agg          *usecase.IntelligenceAggregator
	overview     *usecase.OverviewUseCase
	availability *usecase.AvailabilityUseCase
	alerts       *usecase.AlertService
	cache        icache.BytesCache
	ttl          CacheTTLs
	rl           *ratelimit.Limiter
	metrics      domrepo.Metrics
}

func NewIntelligenceHandler(
	logger *xlogger.Logger,
	agg *usecase.IntelligenceAggregator,
	overview *usecase.OverviewUseCase,
	availability *usecase.AvailabilityUseCase,
	alerts *usecase.AlertService,
) *IntelligenceHandler {
	svcmetrics.Register()
	return &IntelligenceHandler{
		logger:       logger,
		agg:          agg,
		overview:     overview,
		availability: availability,
		alerts:       alerts,
		rl:           ratelimit.New(),
	}
}

// SetCache enables result caching with the given TTLs.
func (h *IntelligenceHandler) SetCache(c icache.BytesCache, ttl CacheTTLs) {
	h.cache = c
	h.ttl = ttl
}

// SetMetrics injects an operational metrics recorder.
func (h *IntelligenceHandler) SetMetrics(m domrepo.Metrics) { h.metrics = m }

func (h *IntelligenceHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/profile", h.Profile)
	g.POST("/profile", h.Profile)
	g.GET("/forecast", h.Forecast)
	g.GET("/network", h.Network)
	g.GET("/cascade", h.Cascade)
	g.GET("/velocity", h.Velocity)
	g.GET("/windows", h.Windows)
	g.GET("/clusters", h.Clusters)
	g.GET("/overview", h.Overview)
	g.GET("/availability", h.Availability)
}

func (h *IntelligenceHandler) observe(endpoint string, start time.Time) {
	svcmetrics.IntelligenceLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if h.metrics != nil {
		h.metrics.RecordLatency(endpoint, time.Since(start).Seconds())
	}
}

func (h *IntelligenceHandler) allow(c echo.Context, endpoint string, capacity, refill float64) bool {
	if h.rl.Allow(c.RealIP()+":"+endpoint, capacity, refill) {
		return true
	}
	h.logger.Warn(endpoint+" rate_limited", xlogger.String("remote", c.RealIP()))
	return false
}

func rateLimited(c echo.Context) error {
	return xhttp.AppErrorResponse(c,
		xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", http.StatusTooManyRequests))
}

// cached returns the cached payload for key, if caching is enabled and the
// entry is live.
func (h *IntelligenceHandler) cached(endpoint, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn(endpoint+" cache_get_error", xlogger.Error(err))
		return nil, false
	}
	if h.metrics != nil {
		h.metrics.RecordCacheHit(endpoint, ok)
	}
	return b, ok
}

func (h *IntelligenceHandler) store(endpoint, key string, v interface{}, ttl time.Duration) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Error(endpoint+" marshal_error", xlogger.Error(err))
		return nil
	}
	if h.cache != nil && ttl > 0 {
		if err := h.cache.SetBytes(key, b, ttl); err != nil {
			h.logger.Warn(endpoint+" cache_set_error", xlogger.Error(err))
		}
	}
	return b
}

// respondError maps domain errors onto HTTP statuses. Thin-history
// conditions are client-addressable, not server faults.
func (h *IntelligenceHandler) respondError(c echo.Context, endpoint string, err error) error {
	svcmetrics.IntelligenceErrors.WithLabelValues(endpoint).Inc()
	if h.metrics != nil {
		h.metrics.RecordError(endpoint)
	}
	h.logger.Error(endpoint+" usecase error", xlogger.Error(err))
	switch {
	case errors.Is(err, intelligence.ErrAgentNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, intelligence.ErrInsufficientHistory):
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("ERR_INSUFFICIENT_HISTORY", err.Error()))
	case errors.Is(err, intelligence.ErrInsufficientData):
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("ERR_INSUFFICIENT_DATA", err.Error()))
	case errors.Is(err, intelligence.ErrInsufficientAgents):
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("ERR_INSUFFICIENT_AGENTS", err.Error()))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}

func (h *IntelligenceHandler) Profile(c echo.Context) error {
	start := time.Now()
	endpoint := "profile"
	defer func() { h.observe(endpoint, start) }()

	req := &models.ProfileRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}
	key := fmt.Sprintf("profile:%s:%s:%d", req.Area, req.AgentID, req.Days)
	if b, ok := h.cached(endpoint, key); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
	res, err := h.agg.Profile(c.Request().Context(), req.Area, req.AgentID, req.Days)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	h.store(endpoint, key, res, h.ttl.Profile)
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Forecast(c echo.Context) error {
	start := time.Now()
	endpoint := "forecast"
	defer func() { h.observe(endpoint, start) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}
	scenario := models.MarketScenario{
		Magnitude:      req.Magnitude,
		AgentsInvolved: req.AgentsMoved,
		MarketStress:   req.MarketStress,
	}
	res, err := h.agg.Forecast(c.Request().Context(), req.Area, req.AgentID, req.Days, scenario)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Network(c echo.Context) error {
	start := time.Now()
	endpoint := "network"
	defer func() { h.observe(endpoint, start) }()

	req := &models.NetworkRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}
	key := fmt.Sprintf("network:%s:%d", req.Area, req.Days)
	if b, ok := h.cached(endpoint, key); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
	res, err := h.agg.Network(c.Request().Context(), req.Area, req.Days)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	h.store(endpoint, key, res, h.ttl.Network)
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Cascade(c echo.Context) error {
	start := time.Now()
	endpoint := "cascade"
	defer func() { h.observe(endpoint, start) }()

	req := &models.CascadeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 3, 1) {
		return rateLimited(c)
	}
	res, err := h.agg.Cascade(c.Request().Context(), req.Area, req.Agent, req.Magnitude, req.Days, req.MarketStress)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Velocity(c echo.Context) error {
	start := time.Now()
	endpoint := "velocity"
	defer func() { h.observe(endpoint, start) }()

	req := &models.VelocityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}
	key := fmt.Sprintf("velocity:%s:%d", req.Area, req.Snapshots)
	if b, ok := h.cached(endpoint, key); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
	v, err := h.agg.Velocity(c.Request().Context(), req.Area, req.Snapshots)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	report := models.VelocityReport{Area: req.Area, Velocity: v}
	if h.alerts != nil {
		report.Alerts = h.alerts.DetectAndPublish(c.Request().Context(), req.Area, v)
	}
	h.store(endpoint, key, report, h.ttl.Velocity)
	return xhttp.SuccessResponse(c, report)
}

func (h *IntelligenceHandler) Windows(c echo.Context) error {
	start := time.Now()
	endpoint := "windows"
	defer func() { h.observe(endpoint, start) }()

	req := &models.WindowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 5, 2) {
		return rateLimited(c)
	}
	key := fmt.Sprintf("windows:%s:%d", req.Area, req.Snapshots)
	if b, ok := h.cached(endpoint, key); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
	res, err := h.agg.Windows(c.Request().Context(), req.Area, req.Snapshots)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	h.store(endpoint, key, res, h.ttl.Windows)
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Clusters(c echo.Context) error {
	start := time.Now()
	endpoint := "clusters"
	defer func() { h.observe(endpoint, start) }()

	req := &models.ClustersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 3, 1) {
		return rateLimited(c)
	}
	key := fmt.Sprintf("clusters:%s:%d", req.Area, req.Days)
	if b, ok := h.cached(endpoint, key); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}
	res, err := h.agg.Clusters(c.Request().Context(), req.Area, req.Days)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	h.store(endpoint, key, res, h.ttl.Clusters)
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Overview(c echo.Context) error {
	start := time.Now()
	endpoint := "overview"
	defer func() { h.observe(endpoint, start) }()

	req := &models.OverviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint, 2, 0.5) {
		return rateLimited(c)
	}
	res, err := h.overview.GetOverview(c.Request().Context(), usecase.GetOverviewParams{
		Area:      req.Area,
		Days:      req.Days,
		Snapshots: req.Snapshots,
	})
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *IntelligenceHandler) Availability(c echo.Context) error {
	start := time.Now()
	endpoint := "availability"
	defer func() { h.observe(endpoint, start) }()

	req := &models.AvailabilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.availability.Check(c.Request().Context(), req.Area)
	if err != nil {
		return h.respondError(c, endpoint, err)
	}
	return xhttp.SuccessResponse(c, res)
}
