package joborders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/ports"
)

type Service struct {
	jobs            ports.JobOrderRepository
	corrections     ports.CorrectionRepository
	uow             ports.UnitOfWork
	metrics         ports.Metrics
	restrictedRoles []string

	presetsMu sync.RWMutex
	presets   Presets
}

// NewService wires job-order usecases. restrictedRoles names the roles whose
// holders only ever see their own job orders and corrections.
func NewService(jobs ports.JobOrderRepository, corrections ports.CorrectionRepository, uow ports.UnitOfWork, metrics ports.Metrics, restrictedRoles []string) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{
		jobs:            jobs,
		corrections:     corrections,
		uow:             uow,
		metrics:         metrics,
		restrictedRoles: append([]string(nil), restrictedRoles...),
	}
}

// WithPresets installs named list presets; later calls replace earlier ones.
func (s *Service) WithPresets(presets Presets) *Service {
	s.presetsMu.Lock()
	s.presets = presets
	s.presetsMu.Unlock()
	return s
}

func (s *Service) scope(ctx context.Context) context.Context {
	return logging.WithAttrs(ctx, slog.String("component", "joborders"))
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
