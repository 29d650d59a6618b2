package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/locus/auth"
	apperrors "github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/resolver"
	"github.com/kbukum/locus/server/endpoint"
	"github.com/kbukum/locus/server/middleware"
	"github.com/kbukum/locus/validation"
)

// CacheEntry is the body of GET /v1/cache/:service.
type CacheEntry struct {
	Service   string   `json:"service"`
	Addresses []string `json:"addresses"`
}

// CacheWriteRequest is the body of PUT /v1/cache/:service.
type CacheWriteRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,dive,url"`
}

// StaticEntry is the body of GET /v1/static/:service.
type StaticEntry struct {
	Service string `json:"service"`
	URL     string `json:"url"`
}

type handlers struct {
	resolver *resolver.Resolver
}

type routeOptions struct {
	verifier middleware.TokenVerifier
}

// RouteOption configures RegisterRoutes.
type RouteOption func(*routeOptions)

// WithAuth guards /v1 with bearer tokens. Reads need auth.ScopeResolve and
// cache writes need auth.ScopeCacheWrite. Health endpoints stay open.
func WithAuth(v middleware.TokenVerifier) RouteOption {
	return func(o *routeOptions) { o.verifier = v }
}

// RegisterRoutes mounts the locus API and the health endpoints on engine.
func RegisterRoutes(engine *gin.Engine, res *resolver.Resolver, serviceName string, checker endpoint.HealthChecker, opts ...RouteOption) {
	var o routeOptions
	for _, opt := range opts {
		opt(&o)
	}
	h := &handlers{resolver: res}

	v1 := engine.Group("/v1")
	read, write := []gin.HandlerFunc{}, []gin.HandlerFunc{}
	if o.verifier != nil {
		v1.Use(middleware.Auth(o.verifier))
		read = append(read, middleware.RequireScope(auth.ScopeResolve))
		write = append(write, middleware.RequireScope(auth.ScopeCacheWrite))
	}
	v1.GET("/resolve/:namespace/:service", append(read, h.resolve)...)
	v1.GET("/cache/:service", append(read, h.readCache)...)
	v1.PUT("/cache/:service", append(write, h.writeCache)...)
	v1.DELETE("/cache/:service", append(write, h.clearCache)...)
	v1.GET("/static/:service", append(read, h.staticOverride)...)

	engine.GET("/health", endpoint.Health(serviceName, checker))
	engine.GET("/alive", endpoint.Liveness())
}

func (h *handlers) resolve(c *gin.Context) {
	service := c.Param("service")
	res, err := h.resolver.Resolve(c.Request.Context(), c.Param("namespace"), service)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if !res.Found() {
		RespondWithError(c, apperrors.NotFound(service))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) readCache(c *gin.Context) {
	service := c.Param("service")
	addrs, ok, err := h.resolver.ReadCache(c.Request.Context(), service)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if !ok {
		RespondWithError(c, apperrors.NotFound(service))
		return
	}
	c.JSON(http.StatusOK, CacheEntry{Service: service, Addresses: addrs})
}

func (h *handlers) writeCache(c *gin.Context) {
	var req CacheWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.InvalidInput("body", err.Error()))
		return
	}
	if err := validation.Validate(req); err != nil {
		RespondWithError(c, err)
		return
	}
	if err := h.resolver.WriteCache(c.Request.Context(), c.Param("service"), req.Addresses); err != nil {
		RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) clearCache(c *gin.Context) {
	if err := h.resolver.ClearCache(c.Request.Context(), c.Param("service")); err != nil {
		RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) staticOverride(c *gin.Context) {
	service := c.Param("service")
	url, ok := h.resolver.GetStaticOverride(service)
	if !ok {
		RespondWithError(c, apperrors.NotFound(service))
		return
	}
	c.JSON(http.StatusOK, StaticEntry{Service: service, URL: url})
}
