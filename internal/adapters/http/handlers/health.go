// Package handlers provides the HTTP handlers for the board API and the
// operational endpoints.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/pictoboard/internal/ports"
)

// BuildInfo identifies the running binary. Version, Commit and BuildTime are
// injected with ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo fills GoVersion from the runtime.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// SessionCounter reports how many board sessions are open.
type SessionCounter interface {
	Len() int
}

// HealthHandler serves the probes and build, metrics endpoints under /-/.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
	sessions  SessionCounter
	metrics   http.Handler
	started   time.Time
}

// NewHealthHandler serves the default Prometheus registry until WithMetrics
// replaces it.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		buildInfo: buildInfo,
		metrics:   promhttp.Handler(),
		started:   time.Now(),
	}
}

// WithSessions makes readiness report the number of open board sessions.
func (h *HealthHandler) WithSessions(counter SessionCounter) *HealthHandler {
	h.sessions = counter
	return h
}

// WithMetrics serves handler at /-/metrics.
func (h *HealthHandler) WithMetrics(handler http.Handler) *HealthHandler {
	h.metrics = handler
	return h
}

type livenessResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Liveness answers 200 while the process runs. It checks no dependency.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Truncate(time.Second).String(),
	})
}

type readinessResponse struct {
	Status   string                        `json:"status"`
	Checks   map[string]*ports.CheckResult `json:"checks,omitempty"`
	Sessions *int                          `json:"sessions,omitempty"`
}

// Readiness answers 503 when a required check fails. A failing optional
// check, such as the symbol service, reports "degraded" with 200: boards
// still work and lookups come back empty.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	resp := readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	}

	if h.sessions != nil {
		n := h.sessions.Len()
		resp.Sessions = &n
	}

	status := http.StatusOK
	if !result.Ready() {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, resp)
}

// BuildInfoHandler serves the build identity.
func (h *HealthHandler) BuildInfoHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

// RegisterRoutes mounts GET /-/live, /-/ready, /-/build and /-/metrics.
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	rg := engine.Group("/-")

	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.BuildInfoHandler)
	rg.GET("/metrics", gin.WrapH(h.metrics))
}
