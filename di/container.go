package di

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"occupancy-server/api"
	"occupancy-server/api/ticos"
	"occupancy-server/config"
	"occupancy-server/dao"
	"occupancy-server/dao/postgres"
	"occupancy-server/dao/redis"
	"occupancy-server/db"
	"occupancy-server/metrics"
	"occupancy-server/server"
	"occupancy-server/server/handlers"
	services "occupancy-server/service"
)

// Container holds all application dependencies.
type Container struct {
	Config                    config.Config
	RedisClient               db.RedisClient
	PostgresPool              *pgxpool.Pool
	ReadingDao                dao.ReadingDAO
	BundleCache               dao.BundleCache
	Metrics                   *metrics.Metrics
	CounterAPI                ticos.CounterAPI
	ChartService              *services.ChartService
	OccupancyCollectorService *services.OccupancyCollectorService
	ChartHandler              *handlers.ChartHandler
	MuxRouter                 *mux.Router
	Router                    *server.Router
	OccupancyHttpServer       *server.OccupancyHttpServer

	redisInternalClient *goredis.Client
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg config.Config) (*Container, error) {
	log.Printf("[Container] Initializing container - env: %s, store: %s", cfg.AppEnv, cfg.ReadingStore)
	ctx := context.Background()

	// Redis backs the bundle cache, and the readings unless postgres is selected
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       config.REDIS_DB,
	})
	redisClient := db.NewOccupancyRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		redisInternalClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := &Container{
		Config:              cfg,
		RedisClient:         redisClient,
		redisInternalClient: redisInternalClient,
		BundleCache:         redis.NewRedisBundleCache(redisClient),
		Metrics:             metrics.NewMetrics(),
	}

	switch cfg.ReadingStore {
	case config.READING_STORE_POSTGRES:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to create postgres pool: %w", err)
		}
		c.PostgresPool = pool
		postgresDao := postgres.NewPostgresReadingDAO(pool)
		if err := postgresDao.EnsureSchema(ctx); err != nil {
			c.Close()
			return nil, err
		}
		c.ReadingDao = postgresDao
	case config.READING_STORE_REDIS:
		c.ReadingDao = redis.NewRedisReadingDAO(redisClient)
	default:
		c.Close()
		return nil, fmt.Errorf("unknown reading store %q", cfg.ReadingStore)
	}

	// Only prod talks to the real counter API
	if cfg.IsProd() {
		log.Printf("[Container] Using counter api at %s", cfg.CounterAPIEndpointBaseURL)
		httpClient := api.NewHTTPClientWithTimeout(cfg.CounterAPIEndpointBaseURL, config.COUNTER_API_TIMEOUT_SECONDS*time.Second)
		c.CounterAPI = ticos.NewCounterApiClient(httpClient)
	} else {
		fixture := config.GetResourcePath(config.GATE_COUNTER_RESPONSE_RESOURCE)
		if _, err := os.Stat(fixture); err != nil {
			fixture = ""
		}
		log.Printf("[Container] Using mock counter api (fixture: %q)", fixture)
		c.CounterAPI = ticos.NewCounterApiClientMock(fixture)
	}

	c.ChartService = services.NewChartService(
		c.ReadingDao,
		c.BundleCache,
		c.Metrics,
		time.Duration(cfg.BundleCacheTTLMinutes)*time.Minute,
		cfg.Location())

	c.OccupancyCollectorService = services.NewOccupancyCollectorService(
		c.ReadingDao,
		c.BundleCache,
		c.CounterAPI,
		config.FACILITIES,
		c.Metrics)

	c.ChartHandler = handlers.NewChartHandler(c.ChartService)
	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.ChartHandler, c.Metrics, c.MuxRouter)
	c.OccupancyHttpServer = server.NewOccupancyHttpServer(c.Router, c.MuxRouter, cfg.HTTPPort)

	return c, nil
}

// Close releases the store connections.
func (c *Container) Close() {
	if c.PostgresPool != nil {
		c.PostgresPool.Close()
	}
	if c.redisInternalClient != nil {
		if err := c.redisInternalClient.Close(); err != nil {
			log.Printf("[Container] Failed to close redis client: %v", err)
		}
	}
}
