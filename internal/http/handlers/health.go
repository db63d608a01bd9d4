package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the durable store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SubscriberCounter is satisfied by the change-feed hub.
type SubscriberCounter interface {
	Len() int
}

const storePingTimeout = 3 * time.Second

// StatusHandler serves the process and store status endpoints.
type StatusHandler struct {
	store   Pinger
	feed    SubscriberCounter
	limiter string
	version string
	started time.Time
}

// NewStatusHandler builds the status endpoints. feed may be nil; limiter
// names the rate-limit backend in use.
func NewStatusHandler(store Pinger, feed SubscriberCounter, limiter, version string) *StatusHandler {
	return &StatusHandler{
		store:   store,
		feed:    feed,
		limiter: limiter,
		version: version,
		started: time.Now(),
	}
}

type storeStatus struct {
	OK        bool    `json:"ok"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

type feedStatus struct {
	Subscribers int `json:"subscribers"`
}

// ReadinessResponse is the /readyz body. Only the store decides readiness;
// the rest is informational.
type ReadinessResponse struct {
	Ready         bool        `json:"ready"`
	Version       string      `json:"version"`
	UptimeSeconds int64       `json:"uptime_seconds"`
	Store         storeStatus `json:"store"`
	ChangeFeed    *feedStatus `json:"change_feed,omitempty"`
	RateLimiter   string      `json:"rate_limiter,omitempty"`
}

// Liveness never touches the store.
func (h *StatusHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *StatusHandler) Readiness(c *gin.Context) {
	resp := ReadinessResponse{
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.started) / time.Second),
		Store:         h.pingStore(c.Request.Context()),
		RateLimiter:   h.limiter,
	}
	resp.Ready = resp.Store.OK
	if h.feed != nil {
		resp.ChangeFeed = &feedStatus{Subscribers: h.feed.Len()}
	}

	code := http.StatusOK
	if !resp.Ready {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

// Health is the short form for simple uptime monitors.
func (h *StatusHandler) Health(c *gin.Context) {
	if st := h.pingStore(c.Request.Context()); !st.OK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "todo store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *StatusHandler) pingStore(ctx context.Context) storeStatus {
	ctx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	st := storeStatus{
		OK:        err == nil,
		LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}
