package app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bruintracks/bruintracks-go/internal/repository"
	"github.com/bruintracks/bruintracks-go/internal/service"
	"github.com/bruintracks/bruintracks-go/pkg/config"
	"github.com/bruintracks/bruintracks-go/pkg/database"
	"github.com/bruintracks/bruintracks-go/pkg/logger"
)

// Core owns the wired services plus the resources they borrow. The server
// and each CLI binary bootstrap the same graph.
type Core struct {
	Config *config.Config
	Log    *zap.Logger

	DB    *sqlx.DB
	Redis *redis.Client

	Catalog  *service.CatalogService
	Planner  *service.PlannerService
	Editor   *service.EditorService
	Breadth  *service.BreadthService
	Exporter *service.ExportService
}

// Bootstrap loads configuration and wires the full service graph.
func Bootstrap() (*Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	db, err := database.NewCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Catalog.CacheEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	retry := repository.NewRetrier(cfg.Catalog.RetryAttempts, cfg.Catalog.RetryBackoff)
	catalog := service.NewCatalogService(
		repository.NewSubjectRepository(db, retry),
		repository.NewCourseRepository(db, retry),
		repository.NewTermRepository(db, retry),
		repository.NewSectionRepository(db, retry),
		repository.NewBreadthRepository(db, retry),
		repository.NewCacheRepository(redisClient, cfg.Catalog.CacheTTL),
		log,
	)

	validate := validator.New()
	engine := service.NewRequisiteEngine(log)
	selector := service.NewSectionSelector(log)

	return &Core{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Redis:    redisClient,
		Catalog:  catalog,
		Planner:  service.NewPlannerService(catalog, engine, selector, cfg.Planner.MaxAvailable, validate, log),
		Editor:   service.NewEditorService(catalog, engine, validate, log),
		Breadth:  service.NewBreadthService(catalog, engine, validate, log),
		Exporter: service.NewExportService(),
	}, nil
}

// Close releases the borrowed resources.
func (c *Core) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Log != nil {
		_ = c.Log.Sync()
	}
}
