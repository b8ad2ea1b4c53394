// Package health reports the state of the backing services on /health.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc probes one dependency
type CheckFunc func(ctx context.Context) error

// ComponentHealth is the result of one probe
type ComponentHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	LatencyMS int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the overall service health
type Report struct {
	Service       string                     `json:"service"`
	Status        string                     `json:"status"`
	Components    map[string]ComponentHealth `json:"components"`
	UptimeSeconds float64                    `json:"uptime_seconds"`
}

type component struct {
	check    CheckFunc
	critical bool
}

// Checker runs the registered probes concurrently
type Checker struct {
	service    string
	timeout    time.Duration
	startTime  time.Time
	mu         sync.RWMutex
	components map[string]component
}

// NewChecker creates a checker; each probe gets timeout
func NewChecker(service string, timeout time.Duration) *Checker {
	return &Checker{
		service:    service,
		timeout:    timeout,
		startTime:  time.Now(),
		components: make(map[string]component),
	}
}

// Register adds a probe. A failing critical probe makes the service unhealthy,
// any other failure only degrades it.
func (c *Checker) Register(name string, check CheckFunc, critical bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[name] = component{check: check, critical: critical}
}

func (c *Checker) probe(ctx context.Context, name string, check CheckFunc) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	result := ComponentHealth{
		Name:      name,
		Status:    StatusHealthy,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: start,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
		logger.Warn(ctx).
			Str("component", name).
			Err(err).
			Msg("Health check failed")
	}
	return result
}

// Check runs every probe and folds the results
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.RLock()
	components := make(map[string]component, len(c.components))
	for name, comp := range c.components {
		components[name] = comp
	}
	c.mu.RUnlock()

	results := make(map[string]ComponentHealth, len(components))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for name, comp := range components {
		wg.Add(1)
		go func(name string, comp component) {
			defer wg.Done()
			result := c.probe(ctx, name, comp.check)
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, comp)
	}
	wg.Wait()

	return Report{
		Service:       c.service,
		Status:        overallStatus(components, results),
		Components:    results,
		UptimeSeconds: time.Since(c.startTime).Seconds(),
	}
}

func overallStatus(components map[string]component, results map[string]ComponentHealth) string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	status := StatusHealthy
	for _, name := range names {
		if results[name].Status == StatusHealthy {
			continue
		}
		if components[name].critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// Handler serves the report; 503 when unhealthy
func (c *Checker) Handler(w http.ResponseWriter, r *http.Request) {
	report := c.Check(r.Context())
	code := http.StatusOK
	if report.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	httpx.RespondJSON(w, code, report)
}

// Live answers without probing anything
func (c *Checker) Live(w http.ResponseWriter, r *http.Request) {
	httpx.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    StatusHealthy,
		"service":   c.service,
		"uptime":    time.Since(c.startTime).Seconds(),
		"timestamp": time.Now(),
	})
}
