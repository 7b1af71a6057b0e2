package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alimikegami/point-of-sales/product-catalog-service/config"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/controller"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/filestore"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/infrastructure/tracing"
	internalmiddleware "github.com/alimikegami/point-of-sales/product-catalog-service/internal/middleware"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/migration"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/repository"
	"github.com/alimikegami/point-of-sales/product-catalog-service/internal/service"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/errs"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/response"
	"github.com/alimikegami/point-of-sales/product-catalog-service/pkg/validator"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const (
	shutdownTimeout  = 10 * time.Second
	migrationTimeout = 30 * time.Second
)

// App wires the catalog HTTP service. Products and Migrations default to the
// MongoDB repositories on DB; Publisher defaults to a no-op publisher.
type App struct {
	DB         *mongodb.Database
	Config     *config.Config
	Server     *echo.Echo
	Products   repository.ProductRepository
	Migrations repository.MigrationRepository
	Images     filestore.ImageStore
	Publisher  service.EventPublisher
	Registry   *prometheus.Registry

	metrics        *echo.Echo
	scheduler      gocron.Scheduler
	tracerProvider *trace.TracerProvider
}

func SetupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(lvl)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
}

// Setup builds the router and background jobs without listening.
func (app *App) Setup() error {
	if app.Products == nil || app.Migrations == nil {
		if app.DB == nil {
			return errors.New("app: a database or both repositories are required")
		}
		if app.Products == nil {
			app.Products = repository.CreateNewMongoDBRepository(app.DB.DB)
		}
		if app.Migrations == nil {
			app.Migrations = repository.CreateNewMongoDBMigrationRepository(app.DB.DB)
		}
	}

	if app.Images == nil {
		app.Images = filestore.NewLocalImageStore(app.Config.StorageConfig.UploadDir)
	}

	if app.Publisher == nil {
		app.Publisher = kafka.NoopProducer{}
	}

	if app.Registry == nil {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	if app.Config.RunMigrations {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		defer cancel()

		applied, err := migration.NewCatalogRunner(app.Migrations, app.Products).Up(ctx)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info().Strs("applied", applied).Msg("Migrations completed")
	}

	traceProvider, err := tracing.InitTracing(app.Config.ServiceName, app.Config.TracingConfig.CollectorHost)
	if err != nil {
		return fmt.Errorf("initialize tracing: %w", err)
	}
	app.tracerProvider = traceProvider

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = response.HTTPErrorHandler
	e.Validator = validator.NewCustomValidator()

	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(app.Config.ServiceName,
		otelhttp.WithTracerProvider(traceProvider),
	)))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// the route template is only known after routing
			oteltrace.SpanFromContext(c.Request().Context()).SetName(fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))

			return next(c)
		}
	})

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Registerer: app.Registry,
	}))
	e.Use(internalmiddleware.Logger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: app.Config.CORSAllowOrigins,
	}))
	e.Use(middleware.BodyLimit(app.Config.StorageConfig.MaxUploadSize))

	e.Static("/images", app.Images.Dir())

	e.GET("/ping", app.ping)

	svc := service.CreateProductService(app.Products, app.Images, app.Publisher)
	controller.CreateProductController(e.Group(""), svc)

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: app.Registry,
	}))

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	if interval := app.Config.StorageConfig.SweepInterval; interval > 0 {
		sweeper := service.NewImageSweeper(app.Products, app.Images, app.Config.StorageConfig.SweepGrace, app.Registry)
		_, err = scheduler.NewJob(
			gocron.DurationJob(interval),
			gocron.NewTask(sweeper.Run),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("schedule image sweep: %w", err)
		}
	}

	app.Server = e
	app.metrics = metrics
	app.scheduler = scheduler

	return nil
}

// Start runs Setup if needed and serves until StopServer is called.
func (app *App) Start() error {
	if app.Server == nil {
		if err := app.Setup(); err != nil {
			return err
		}
	}

	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to start metrics server")
		}
	}()

	app.scheduler.Start()

	log.Info().Str("port", app.Config.ServicePort).Msg("Starting product catalog service")
	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errList []error
	if app.Server != nil {
		errList = append(errList, app.Server.Shutdown(ctx))
	}
	if app.metrics != nil {
		errList = append(errList, app.metrics.Shutdown(ctx))
	}
	if app.scheduler != nil {
		errList = append(errList, app.scheduler.Shutdown())
	}
	if app.Publisher != nil {
		errList = append(errList, app.Publisher.Close())
	}
	if app.tracerProvider != nil {
		errList = append(errList, app.tracerProvider.Shutdown(ctx))
	}

	return errors.Join(errList...)
}

func (app *App) ping(c echo.Context) error {
	if app.DB != nil {
		if err := app.DB.Ping(c.Request().Context()); err != nil {
			log.Ctx(c.Request().Context()).Error().Err(err).Str("component", "ping").Msg("")
			return c.JSON(http.StatusServiceUnavailable, response.ErrorResponse{
				Status:  "error",
				Message: errs.ErrInternalServer.Error(),
			})
		}
	}

	return response.WriteMessageResponse(c, "pong")
}
