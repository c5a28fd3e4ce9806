package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/filiperochalopes/esus-pec-mcp/internal/config"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/admin"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/analytics"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/caregap"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/clinical"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/encounter"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/identity"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/obstetrics"
	"github.com/filiperochalopes/esus-pec-mcp/internal/domain/terminology"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/db"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/middleware"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/telemetry"
	"github.com/filiperochalopes/esus-pec-mcp/internal/platform/tools"
)

const version = "0.1.0"

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// loadCatalog returns the operator catalog when PRESET_CATALOG_FILE is set,
// otherwise the embedded one.
func loadCatalog(cfg *config.Config) (*terminology.Catalog, error) {
	if cfg.PresetCatalogFile == "" {
		return terminology.DefaultCatalog(), nil
	}
	return terminology.LoadCatalogFile(cfg.PresetCatalogFile)
}

// buildRegistry wires every domain against q and registers its tools.
func buildRegistry(q db.Querier, resolver *terminology.Resolver, metrics *telemetry.Metrics) *tools.Registry {
	reg := tools.NewRegistry()

	// Identity
	identity.NewHandler(identity.NewService(identity.NewPatientRepoPG(q))).RegisterTools(reg)

	// Terminology
	terminology.NewHandler(resolver, metrics).RegisterTools(reg)

	// Clinical
	clinical.NewHandler(clinical.NewService(clinical.NewConditionRepoPG(q))).RegisterTools(reg)

	// Facilities
	admin.NewHandler(admin.NewService(admin.NewUnitRepoPG(q))).RegisterTools(reg)

	// Encounters
	encounter.NewHandler(encounter.NewService(encounter.NewEncounterRepoPG(q))).RegisterTools(reg)

	// Care gaps
	caregap.NewHandler(caregap.NewService(caregap.NewGapRepoPG(q))).RegisterTools(reg)

	// Pregnancy
	obstetrics.NewHandler(obstetrics.NewService(obstetrics.NewPregnancyRepoPG(q))).RegisterTools(reg)

	// Aggregate and personal analytics
	analytics.NewHandler(analytics.NewService(analytics.NewRepoPG(q))).RegisterTools(reg)

	return reg
}

// newEcho builds the HTTP server around reg. dbHealth serves /health/db and
// metrics may be nil when disabled.
func newEcho(cfg *config.Config, logger zerolog.Logger, reg *tools.Registry, metrics *telemetry.Metrics, dbHealth echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if dbHealth != nil {
		e.GET("/health/db", dbHealth)
	}
	if metrics != nil && cfg.MetricsEnabled {
		metrics.RegisterRoutes(e)
	}

	api := e.Group("",
		middleware.BodyLimit(cfg.BodyLimit),
		middleware.RateLimit(rateLimitCfg),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)
	tools.NewHandler(reg, metrics).RegisterRoutes(api)

	return e
}
