// Package api serves Mach-O UUID lookups over HTTP.
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/machouuid/internal/imagefile"
	"github.com/samcharles93/machouuid/internal/logger"
	"github.com/samcharles93/machouuid/internal/report"
	"github.com/samcharles93/machouuid/internal/version"
	"github.com/samcharles93/machouuid/pkg/macho"
)

const (
	defaultMaxUpload  = 256 << 20
	defaultMaxMembers = 64
)

type Config struct {
	// FailSafe is the default for requests that omit ?fail_safe.
	FailSafe bool
	// MaxUploadBytes bounds request bodies. Zero selects 256 MiB.
	MaxUploadBytes int64
	// RateLimit is the sustained lookups per second. Zero disables limiting.
	RateLimit float64
	RateBurst int
	// StoreCapacity is the number of results kept for GET /v1/uuid/:id.
	StoreCapacity int
	// MaxMembers caps the fat members listed per response. Zero selects 64.
	MaxMembers int
	Log           logger.Logger
}

type Server struct {
	cfg     Config
	log     logger.Logger
	limiter *rate.Limiter
	store   *ResultStore
}

type LookupResponse struct {
	ID string `json:"id"`
	report.Result
}

type HealthResponse struct {
	Status  string       `json:"status"`
	Version version.Info `json:"version"`
}

func NewServer(cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	if cfg.MaxMembers <= 0 {
		cfg.MaxMembers = defaultMaxMembers
	}
	log := cfg.Log
	if log == nil {
		log = logger.Discard()
	}
	s := &Server{
		cfg:   cfg,
		log:   log,
		store: NewResultStore(cfg.StoreCapacity),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = max(1, int(cfg.RateLimit))
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return s
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/uuid", s.handleLookup)
	e.GET("/v1/uuid/:id", s.handleGetLookup)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version.Resolve()})
}

func (s *Server) handleLookup(c *echo.Context) error {
	if s.limiter != nil && !s.limiter.Allow() {
		return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "too many lookups, retry later", "")
	}

	failSafe := s.cfg.FailSafe
	if q := c.QueryParam("fail_safe"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return writeBadRequest(c, "fail_safe must be a boolean", "fail_safe")
		}
		failSafe = v
	}
	withFingerprint := c.QueryParam("fingerprint") == "1" || c.QueryParam("fingerprint") == "true"

	data, err := imagefile.ReadLimited(c.Request().Body, s.cfg.MaxUploadBytes)
	if err != nil {
		if errors.Is(err, imagefile.ErrTooLarge) {
			return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", err.Error(), "")
		}
		return writeBadRequest(c, "failed to read request body", "")
	}

	log := s.log.With("size", len(data))
	rep, err := macho.Locator{Log: log, FailSafe: failSafe, MaxMembers: s.cfg.MaxMembers}.Inspect(data)
	if err != nil {
		res := report.Failed(len(data), err)
		id := s.store.Put(res)
		log.Warn("lookup aborted", "id", id, "err", err)
		return c.JSON(http.StatusUnprocessableEntity, LookupResponse{ID: id, Result: res})
	}

	res := report.Build(rep, len(data), failSafe)
	if withFingerprint {
		res.Fingerprint = imagefile.Fingerprint(data)
	}
	id := s.store.Put(res)
	log.Info("lookup complete", "id", id, "status", res.Status, "uuid", res.UUID)
	return c.JSON(http.StatusOK, LookupResponse{ID: id, Result: res})
}

func (s *Server) handleGetLookup(c *echo.Context) error {
	id := c.Param("id")
	res, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "lookup not found")
	}
	return c.JSON(http.StatusOK, LookupResponse{ID: id, Result: res})
}
