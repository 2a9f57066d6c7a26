package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"jobdesk/internal/bootstrap/config"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	"jobdesk/internal/infrastructure/metrics"
	"jobdesk/internal/infrastructure/persistence/model"
	"jobdesk/internal/infrastructure/scheduler"
	"jobdesk/internal/usecase/hauling"
	"jobdesk/internal/usecase/joborders"
	"jobdesk/internal/usecase/seed"
	"jobdesk/internal/usecase/workforce"
)

// App is what commands get once the fx graph is started.
type App struct {
	Config    config.Config
	DB        *gorm.DB
	Metrics   *metrics.Registry
	JobOrders *joborders.Service
	Workforce *workforce.Service
	Hauling   *hauling.Service
	Seed      *seed.Service
	Scheduler *scheduler.Scheduler
	Handler   http.Handler
}

func (a *App) InitSchema(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.app"))
	logging.Info(logCtx, "start schema migration")

	if err := a.DB.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return errs.Wrap(err, "auto migrate schema")
	}

	logging.Info(logCtx, "schema migration completed", slog.Int("tables", len(model.All())))
	return nil
}

func (a *App) Close(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	sqlDB, err := a.DB.DB()
	if err != nil {
		return errs.Wrap(err, "get sql db")
	}

	if err := sqlDB.Close(); err != nil {
		return errs.Wrap(err, "close sql db")
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.app")), "database connection closed")
	return nil
}
