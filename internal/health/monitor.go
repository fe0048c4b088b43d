package health

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/amityadav/newsexplorer/internal/summarizer"
)

// SummarizerService is the health service name reporting model readiness
const SummarizerService = "summarizer"

// StateSource reports the summarizer lifecycle state
type StateSource interface {
	State() summarizer.State
}

// Monitor periodically publishes summarizer readiness to a gRPC health server
type Monitor struct {
	source   StateSource
	health   *health.Server
	cron     *cron.Cron
	schedule string

	mu   sync.Mutex
	last summarizer.State
	seen bool
}

// NewMonitor creates a monitor that runs on a cron schedule such as "@every 30s"
func NewMonitor(source StateSource, hs *health.Server, schedule string) *Monitor {
	return &Monitor{
		source:   source,
		health:   hs,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start publishes the current status and schedules periodic refreshes
func (m *Monitor) Start() error {
	m.Check()
	if _, err := m.cron.AddFunc(m.schedule, m.Check); err != nil {
		return fmt.Errorf("invalid health check schedule %q: %w", m.schedule, err)
	}
	m.cron.Start()
	log.Printf("[Health] Monitor started (%s)", m.schedule)
	return nil
}

// Stop stops the scheduler and marks everything as not serving
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	m.health.Shutdown()
	log.Println("[Health] Monitor stopped")
}

// Check publishes the summarizer status once
func (m *Monitor) Check() {
	state := m.source.State()
	m.health.SetServingStatus(SummarizerService, StatusFor(state))
	m.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	m.mu.Lock()
	changed := !m.seen || m.last != state
	m.last, m.seen = state, true
	m.mu.Unlock()
	if changed {
		log.Printf("[Health] Summarizer is %s", state)
	}
}

// StatusFor maps the model state to a health status. An unloaded model is
// loaded on demand, so it is reported as unknown rather than failing.
func StatusFor(state summarizer.State) healthpb.HealthCheckResponse_ServingStatus {
	switch state {
	case summarizer.Ready:
		return healthpb.HealthCheckResponse_SERVING
	case summarizer.Loading:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}
