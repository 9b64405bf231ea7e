package health

import (
	"context"

	"todos/internal/utils"

	"go.uber.org/zap"
)

type HealthService struct {
	checker *utils.HealthChecker
	logger  *zap.SugaredLogger
}

func NewHealthService(checker *utils.HealthChecker) *HealthService {
	return &HealthService{checker: checker, logger: zap.NewNop().Sugar()}
}

func (s *HealthService) WithLogger(logger *zap.Logger) *HealthService {
	s.logger = logger.Sugar()
	return s
}

func (s *HealthService) Check(ctx context.Context) utils.HealthStatus {
	status := s.checker.Check(ctx)
	if status.Status != utils.StatusHealthy {
		for _, svc := range status.Services {
			if svc.Status != "up" {
				s.logger.Warnw("Dependency unhealthy", "service", svc.Name, "error", svc.Message)
			}
		}
	}
	return status
}
