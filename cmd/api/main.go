package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wearedood/base-gaming-sdk-unity/common/cache"
	"github.com/wearedood/base-gaming-sdk-unity/common/data"
	"github.com/wearedood/base-gaming-sdk-unity/common/mq"
	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/internal/api"
	"github.com/wearedood/base-gaming-sdk-unity/internal/api/websocket"
	cfg "github.com/wearedood/base-gaming-sdk-unity/internal/config"
	"github.com/wearedood/base-gaming-sdk-unity/internal/consumers"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/catalog"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/chain"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/event"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/ledger"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/market"
	"github.com/wearedood/base-gaming-sdk-unity/internal/services/metadata"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const (
	priceCacheTTL    = time.Minute
	metadataCacheTTL = 10 * time.Minute
)

func main() {
	config, err := cfg.LoadEnvironment()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	if config.ElasticUrl != "" {
		if err := utils.InitElasticLogger(config.ElasticUrl, config.ServiceName); err != nil {
			log.Fatalf("Failed to init elastic logger: %v\n", err)
		}
	} else {
		utils.InitLogger(config.ServiceName)
	}
	defer utils.Logger.Sync()

	utils.SetJWTSecret(config.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := services.EngineDeps{
		Ledger: ledger.New(),
		Logger: utils.Named("economy"),
	}

	if config.DatabaseURL != "" {
		db := connectDatabase(ctx, config)
		defer db.Close()

		deps.Loader = catalog.NewPgCatalogStore(db)
		deps.Store = ledger.NewPgSnapshotStore(db)
	} else {
		utils.Logger.Warn("DATABASE_URL not set, serving the built-in catalog without persistence")
	}

	redisClient := connectCache(config)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var priceCache cache.Cache[float64] = cache.NewMemoryCache[float64]()
	var metadataCache cache.Cache[[]byte] = cache.NewMemoryCache[[]byte]()
	if redisClient != nil {
		priceCache = cache.NewRedisCache[float64](redisClient, "economy:")
		metadataCache = cache.NewRedisCache[[]byte](redisClient, "economy:metadata:")
	}
	deps.Market = market.NewCachedProvider(
		market.NewStaticProvider(config.Economy.TokenPriceUSD, nil),
		priceCache,
		priceCacheTTL,
	)

	if config.Economy.NFTEnabled {
		deps.Caller = chain.NewSimulatedCaller(50*time.Millisecond, 250*time.Millisecond, uint64(time.Now().UnixNano()))
	}

	deps.Bus = event.NewBus(utils.Named("events"))
	engine := services.NewEconomyEngine(config.Economy, deps)

	if err := engine.Start(ctx); err != nil {
		utils.Logger.Fatal("Failed to start economy engine", zap.Error(err))
	}
	if deps.Store != nil {
		if err := engine.Load(ctx); err != nil {
			utils.Logger.Fatal("Failed to load economy state", zap.Error(err))
		}
	}

	var consumerManager *consumers.ConsumerManager
	if config.MqURL != "" {
		consumerManager = startMessaging(config, engine)
	}

	hub := websocket.NewHub(utils.Named("ws"))
	hub.Attach(engine.Events())
	go hub.Run(ctx)

	metadataStore := metadata.NewHTTPStore(&http.Client{Timeout: 10 * time.Second}, config.IPFSGateway, metadataCache, metadataCacheTTL, utils.Named("metadata"), config.MetadataHosts...)

	server := api.NewServer(engine, config, metadataStore, hub)
	go func() {
		addr := fmt.Sprintf(":%s", config.ServerPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			utils.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	utils.Logger.Info("Server started successfully", zap.String("port", config.ServerPort), zap.String("version", utils.GetVersionString()))

	<-ctx.Done()
	utils.Logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if consumerManager != nil {
		consumerManager.Shutdown()
	}
	if deps.Store != nil {
		if err := engine.Save(shutdownCtx); err != nil {
			utils.Logger.Error("Failed to save economy state", zap.Error(err))
		}
	}

	utils.Logger.Info("Server exited gracefully")
}

func connectDatabase(ctx context.Context, config *models.Config) *data.PgDbContext {
	connectionString, err := data.ConnectionString(config.DatabaseURL, config.DatabaseName)
	if err != nil {
		utils.Logger.Fatal("Invalid database url", zap.Error(err))
	}

	if err := data.Migrate(connectionString, "migrations"); err != nil {
		utils.Logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	db, err := data.NewPgDbContext(ctx, connectionString)
	if err != nil {
		utils.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	return db
}

func connectCache(config *models.Config) *redis.Client {
	if config.CacheURL == "" {
		return nil
	}

	client, err := cache.NewRedisClient(config.CacheURL, 0)
	if err != nil {
		utils.Logger.Warn("Failed to connect to redis, using in-memory caches", zap.Error(err))
		return nil
	}
	return client
}

// startMessaging publishes economy events to the broker and consumes the
// award and level commands game servers send.
func startMessaging(config *models.Config, engine *services.EconomyEngine) *consumers.ConsumerManager {
	provider, err := mq.NewRabbitmqMqProvider(mq.RabbitMqConfig{URL: config.MqURL})
	if err != nil {
		utils.Logger.Fatal("Failed to initialize MQ", zap.Error(err))
	}

	publisher, err := event.NewMQPublisher(provider, event.EconomyExchange, utils.Named("mq"))
	if err != nil {
		utils.Logger.Fatal("Failed to declare event exchange", zap.Error(err))
	}
	publisher.Attach(engine.Events())

	manager, err := consumers.NewConsumerManager(provider, map[string]consumers.IConsumer{
		"token-award":  consumers.NewTokenAwardConsumer("token-award", provider, engine, utils.Named("consumer")),
		"level-update": consumers.NewLevelUpdateConsumer("level-update", provider, engine, utils.Named("consumer")),
	}, utils.Named("consumer"))
	if err != nil {
		utils.Logger.Fatal("Failed to create consumer manager", zap.Error(err))
	}

	manager.Start()
	return manager
}
