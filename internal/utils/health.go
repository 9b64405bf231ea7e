package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthChecker struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Timeout time.Duration
}

type probe struct {
	name string
	ping func(ctx context.Context) error
}

func (h *HealthChecker) probes() []probe {
	var probes []probe
	if h.DB != nil {
		probes = append(probes, probe{name: "PostgreSQL", ping: func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if h.Redis != nil {
		probes = append(probes, probe{name: "Redis", ping: func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		}})
	}
	return probes
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	services := []Service{}
	overallStatus := StatusHealthy

	for _, p := range h.probes() {
		service := Service{Name: p.name, Status: "up"}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := p.ping(pingCtx); err != nil {
			service.Status = "down"
			service.Message = err.Error()
			overallStatus = StatusDegraded
		}
		cancel()
		services = append(services, service)
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
