package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"seopress/internal/options"
)

// Pinger is implemented by stores that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	store     options.Store
	steps     func() int
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// NewHealthService creates a health service. store is pinged on readiness when
// it implements Pinger; steps reports the registered wizard step count.
func NewHealthService(version, buildTime string, store options.Store, steps func() int, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		store:     store,
		steps:     steps,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck reports whether the option store and the wizard are usable
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"storage": hs.checkStorage(ctx),
			"wizard":  hs.checkWizard(),
		},
	}

	for _, sh := range status.Services {
		if sh.Status != StatusReady {
			status.Status = StatusNotReady
			break
		}
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}

	return result
}

func (hs *HealthService) checkStorage(ctx context.Context) ServiceHealth {
	if hs.store == nil {
		return ServiceHealth{Status: StatusNotReady, Message: ErrStoreNotReady.Error()}
	}

	if p, ok := hs.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return ServiceHealth{
				Status:  StatusNotReady,
				Message: fmt.Sprintf("%v: %v", ErrStoreNotReady, err),
			}
		}
	}

	return ServiceHealth{
		Status:  StatusReady,
		Message: "option store is healthy",
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkWizard() ServiceHealth {
	if hs.steps == nil {
		return ServiceHealth{Status: StatusReady, Message: "wizard disabled"}
	}
	n := hs.steps()
	if n == 0 {
		return ServiceHealth{Status: StatusNotReady, Message: "no wizard steps registered"}
	}
	return ServiceHealth{Status: StatusReady, Message: fmt.Sprintf("%d steps registered", n)}
}
