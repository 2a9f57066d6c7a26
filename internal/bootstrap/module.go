package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"jobdesk/internal/bootstrap/config"
	"jobdesk/internal/bootstrap/database"
	"jobdesk/internal/bootstrap/logging"
	"jobdesk/internal/errs"
	cacheinfra "jobdesk/internal/infrastructure/cache"
	"jobdesk/internal/infrastructure/metrics"
	"jobdesk/internal/infrastructure/persistence/repository"
	"jobdesk/internal/infrastructure/persistence/uow"
	"jobdesk/internal/infrastructure/scheduler"
	"jobdesk/internal/ports"
	"jobdesk/internal/transport/httpapi"
	"jobdesk/internal/usecase/hauling"
	"jobdesk/internal/usecase/joborders"
	"jobdesk/internal/usecase/seed"
	"jobdesk/internal/usecase/workforce"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(metrics.New),
	fx.Provide(func(r *metrics.Registry) ports.Metrics { return r }),
	fx.Provide(
		fx.Annotate(inAppZone(repository.NewJobOrderRepository), fx.As(new(ports.JobOrderRepository))),
		fx.Annotate(inAppZone(repository.NewCorrectionRepository), fx.As(new(ports.CorrectionRepository))),
		fx.Annotate(inAppZone(repository.NewEmployeeRepository), fx.As(new(ports.EmployeeRepository))),
		fx.Annotate(inAppZone(repository.NewUserRepository), fx.As(new(ports.UserRepository))),
		fx.Annotate(inAppZone(repository.NewTruckRepository), fx.As(new(ports.TruckRepository))),
		fx.Annotate(inAppZone(repository.NewHaulingRepository), fx.As(new(ports.HaulingRepository))),
		fx.Annotate(inAppZone(repository.NewIncidentRepository), fx.As(new(ports.IncidentRepository))),
		fx.Annotate(inAppZone(repository.NewSeedRepository), fx.As(new(ports.SeedRepository))),
	),
	fx.Provide(
		fx.Annotate(
			uow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewKVCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideJobOrders),
	fx.Provide(provideWorkforce),
	fx.Provide(provideHauling),
	fx.Provide(seed.NewService),
	fx.Provide(provideScheduler),
	fx.Provide(provideHTTPHandler),
	fx.Provide(provideApp),
)

// inAppZone builds a repository that reads calendar-day criteria in app.timezone.
func inAppZone[R any](newRepo func(*gorm.DB, ...repository.Option) R) func(*gorm.DB, config.Config) R {
	return func(db *gorm.DB, cfg config.Config) R {
		return newRepo(db, repository.WithLocation(cfg.App.Location()))
	}
}

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideJobOrders(
	ctx context.Context,
	cfg config.Config,
	jobs ports.JobOrderRepository,
	corrections ports.CorrectionRepository,
	unit ports.UnitOfWork,
	m ports.Metrics,
) (*joborders.Service, error) {
	presets, err := joborders.LoadPresets(cfg.Filters.PresetsFile)
	if err != nil {
		return nil, errs.Wrap(err, "load job order presets")
	}
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"job order presets loaded",
		slog.String("path", cfg.Filters.PresetsFile),
		slog.Int("count", len(presets)),
	)
	return joborders.NewService(jobs, corrections, unit, m, cfg.Auth.RestrictedRoles).WithPresets(presets), nil
}

func provideWorkforce(employees ports.EmployeeRepository, users ports.UserRepository, trucks ports.TruckRepository, m ports.Metrics) *workforce.Service {
	return workforce.NewService(employees, users, trucks, m)
}

func provideHauling(
	cfg config.Config,
	records ports.HaulingRepository,
	incidents ports.IncidentRepository,
	unit ports.UnitOfWork,
	cache ports.Cache,
	m ports.Metrics,
) *hauling.Service {
	return hauling.NewService(records, incidents, unit, cache, m, cfg.App.Location())
}

// provideScheduler registers jobs but never starts the clock; the commands
// that run long-lived processes start it.
func provideScheduler(ctx context.Context, cfg config.Config, svc *hauling.Service, m *metrics.Registry) (*scheduler.Scheduler, error) {
	s := scheduler.New(ctx, cfg.App.Location(), m)
	if !cfg.Scheduler.Enabled {
		return s, nil
	}
	err := s.Register(scheduler.HaulingAutocompleteJob, cfg.Scheduler.HaulingAutocomplete, func(ctx context.Context) error {
		_, err := svc.CompleteOverdue(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func provideHTTPHandler(ctx context.Context, jobs *joborders.Service, wf *workforce.Service, h *hauling.Service, m *metrics.Registry) http.Handler {
	return httpapi.NewRouter(ctx, httpapi.Options{
		Services: httpapi.Services{JobOrders: jobs, Workforce: wf, Hauling: h},
		Recorder: m,
		Metrics:  m.Handler(),
	})
}

type appParams struct {
	fx.In

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

func provideApp(p appParams) *App {
	return &App{
		Config:    p.Config,
		DB:        p.DB,
		Metrics:   p.Metrics,
		JobOrders: p.JobOrders,
		Workforce: p.Workforce,
		Hauling:   p.Hauling,
		Seed:      p.Seed,
		Scheduler: p.Scheduler,
		Handler:   p.Handler,
	}
}
