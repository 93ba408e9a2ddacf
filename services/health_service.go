package services

import (
	"context"
	"time"

	"github.com/tsgfeedback/feedback-api/logger"
	"github.com/tsgfeedback/feedback-api/types"
	"go.uber.org/zap"
)

const defaultCheckTimeout = 2 * time.Second

// Pinger is anything whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	store        Pinger
	broker       Pinger
	version      string
	startTime    time.Time
	checkTimeout time.Duration
	log          *zap.SugaredLogger
}

func NewHealthService(store Pinger, broker Pinger, version string) *HealthService {
	return &HealthService{
		store:        store,
		broker:       broker,
		version:      version,
		startTime:    time.Now(),
		checkTimeout: defaultCheckTimeout,
		log:          logger.GetLogger().Named("health"),
	}
}

// CheckHealth probes the record store and the broker. A store outage makes the
// service DOWN; a broker outage only DEGRADED, since lookups keep working.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	storeStatus := h.check(ctx, h.store, types.HealthComponentStore, "Record store unreachable")
	components[types.HealthComponentStore] = storeStatus
	if storeStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	}

	brokerStatus := h.check(ctx, h.broker, types.HealthComponentBroker, "Event broker unreachable")
	if brokerStatus.Status == types.HealthStatusDown {
		brokerStatus.Status = types.HealthStatusDegraded
		if overallStatus != types.HealthStatusDown {
			overallStatus = types.HealthStatusDegraded
		}
	}
	components[types.HealthComponentBroker] = brokerStatus

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) check(ctx context.Context, p Pinger, name, details string) types.HealthComponent {
	if p == nil {
		return types.HealthComponent{Status: types.HealthStatusUp}
	}

	ctx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		h.log.Errorw("Health check failed", "component", name, "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: details,
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
