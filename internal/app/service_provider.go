package app

import (
	"context"
	wheelAPI "fortune_wheel/internal/api/wheel"
	"fortune_wheel/internal/config"
	"fortune_wheel/internal/config/env"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/middleware"
	"fortune_wheel/internal/notifier"
	"fortune_wheel/internal/repository"
	"fortune_wheel/internal/repository/kv_repo"
	"fortune_wheel/internal/repository/state_repo"
	"fortune_wheel/internal/repository/stats_repo"
	"fortune_wheel/internal/repository/user_repo"
	"fortune_wheel/internal/service"
	"fortune_wheel/internal/service/wheel"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const wheelConfigPath = "config.yaml"

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Storage
	storeCfg   config.StoreConfig
	pgConfig   config.PGConfig
	dbClient   *pgxpool.Pool
	sqliteRepo *kv_repo.SQLiteRepo
	kvRepo     repository.KVRepository

	// Device and user bits
	jwtCfg      config.JWTConfig
	telegramCfg config.TelegramConfig
	userRepo    repository.UserRepository

	// Wheel bits
	wheelCfg    config.WheelConfig
	stateRepo   repository.StateRepository
	statsRepo   repository.StatsRepository
	notifierCfg config.NotifierConfig
	notifier    service.Notifier
	permission  wheel.PermissionStrategy
	wheelServ   service.WheelService
	wheelHand   *wheelAPI.Handler

	// Router, HTTP and admin config
	adminCfg config.AdminConfig
	logCfg   config.LogConfig
	httpCfg  config.HTTPConfig
	router   chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) LogCfg() config.LogConfig {
	if sp.logCfg == nil {
		sp.logCfg = env.NewLogConfig()
	}
	return sp.logCfg
}

func (sp *ServiceProvider) StoreCfg() config.StoreConfig {
	if sp.storeCfg == nil {
		cfg, err := env.NewStoreConfig()
		if err != nil {
			panic("failed to get store config: " + err.Error())
		}
		sp.storeCfg = cfg
	}
	return sp.storeCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		if err := kv_repo.EnsurePostgresSchema(ctx, dbc); err != nil {
			panic("failed to prepare db schema: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

// KVRepo - хранилище состояния устройств, выбирается STORE_DRIVER
func (sp *ServiceProvider) KVRepo(ctx context.Context) repository.KVRepository {
	if sp.kvRepo == nil {
		switch sp.StoreCfg().Driver() {
		case env.DriverPostgres:
			sp.kvRepo = kv_repo.NewPostgresRepository(sp.DBClient(ctx))
		case env.DriverSQLite:
			r, err := kv_repo.NewSQLiteRepository(sp.StoreCfg().SQLitePath())
			if err != nil {
				panic("failed to open sqlite store: " + err.Error())
			}
			sp.sqliteRepo = r
			sp.kvRepo = r
		default:
			logger.Warn("Using in-memory store, state is lost on restart")
			sp.kvRepo = kv_repo.NewMemoryRepository()
		}
		logger.Info("Store ready", zap.String("driver", sp.StoreCfg().Driver()))
	}
	return sp.kvRepo
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		var (
			m   trm.Manager
			err error
		)
		switch sp.StoreCfg().Driver() {
		case env.DriverPostgres:
			m, err = manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		case env.DriverSQLite:
			// KVRepo открывает базу, менеджер работает с ней же
			sp.KVRepo(ctx)
			m, err = sp.sqliteRepo.TxManager()
		default:
			m = kv_repo.NewLockManager()
		}
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}
		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) TelegramCfg() config.TelegramConfig {
	if sp.telegramCfg == nil {
		cfg, err := env.NewTelegramConfig()
		if err != nil {
			panic("failed to get telegram config: " + err.Error())
		}
		sp.telegramCfg = cfg
	}
	return sp.telegramCfg
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.KVRepo(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) WheelCfg() config.WheelConfig {
	if sp.wheelCfg == nil {
		cfg, err := env.NewWheelConfigFromYAML(wheelConfigPath)
		if err != nil {
			panic("failed to get wheel config: " + err.Error())
		}
		sp.wheelCfg = cfg
	}
	return sp.wheelCfg
}

func (sp *ServiceProvider) StateRepo(ctx context.Context) repository.StateRepository {
	if sp.stateRepo == nil {
		sp.stateRepo = state_repo.NewStateRepository(sp.KVRepo(ctx), nil)
	}
	return sp.stateRepo
}

func (sp *ServiceProvider) StatsRepo() repository.StatsRepository {
	if sp.statsRepo == nil {
		sp.statsRepo = stats_repo.NewStatsRepository(sp.WheelCfg().RedoPrizeID())
	}
	return sp.statsRepo
}

func (sp *ServiceProvider) NotifierCfg() config.NotifierConfig {
	if sp.notifierCfg == nil {
		cfg, err := env.NewNotifierConfig()
		if err != nil {
			panic("failed to get notifier config: " + err.Error())
		}
		sp.notifierCfg = cfg
	}
	return sp.notifierCfg
}

func (sp *ServiceProvider) Notifier() service.Notifier {
	if sp.notifier == nil {
		sp.notifier = notifier.NewBotNotifier(sp.NotifierCfg())
		if sp.notifier == nil {
			logger.Warn("BOT_SERVER_URL is empty, prize notifications are disabled")
		}
	}
	return sp.notifier
}

func (sp *ServiceProvider) Permission(ctx context.Context) wheel.PermissionStrategy {
	if sp.permission == nil {
		switch sp.TelegramCfg().PermissionFlow() {
		case env.PermissionFlowInteractive:
			sp.permission = wheel.NewInteractiveModal(sp.UserRepo(ctx))
		default:
			sp.permission = wheel.NewSilentCheck(sp.UserRepo(ctx))
		}
	}
	return sp.permission
}

func (sp *ServiceProvider) WheelService(ctx context.Context) service.WheelService {
	if sp.wheelServ == nil {
		sp.wheelServ = wheel.NewWheelService(wheel.ServiceDeps{
			WheelCfg:      sp.WheelCfg(),
			StateRepo:     sp.StateRepo(ctx),
			UserRepo:      sp.UserRepo(ctx),
			StatsRepo:     sp.StatsRepo(),
			TxManager:     sp.TXManager(ctx),
			Notifier:      sp.Notifier(),
			Permission:    sp.Permission(ctx),
			NotifyTimeout: sp.NotifierCfg().Timeout(),
		})
	}
	return sp.wheelServ
}

func (sp *ServiceProvider) WheelHandler(ctx context.Context) *wheelAPI.Handler {
	if sp.wheelHand == nil {
		sp.wheelHand = wheelAPI.NewHandler(wheelAPI.HandlerDeps{
			Serv: sp.WheelService(ctx),
		})
	}
	return sp.wheelHand
}

func (sp *ServiceProvider) AdminCfg() config.AdminConfig {
	if sp.adminCfg == nil {
		sp.adminCfg = env.NewAdminConfig()
		if sp.adminCfg.TokenHash() == "" {
			logger.Warn("ADMIN_TOKEN_HASH is empty, admin endpoints are disabled")
		}
	}
	return sp.adminCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		r.Use(chimw.RealIP)
		r.Use(chimw.Recoverer)

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept", "Content-Type",
				middleware.InitDataHeader, middleware.AdminTokenHeader,
			},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		wheelHandler := sp.WheelHandler(ctx)

		// Wheel endpoints
		r.Route("/wheel", func(rr chi.Router) {
			rr.Use(middleware.Device(sp.JWTCfg().DeviceTokenSecretKey(), sp.JWTCfg().DeviceTokenDuration()))
			rr.Use(middleware.InitData(sp.TelegramCfg().BotToken(), sp.TelegramCfg().InitDataMaxAge()))

			rr.Get("/prizes", wheelHandler.Prizes)
			rr.Get("/state", wheelHandler.State)
			rr.Get("/days-until-reset", wheelHandler.DaysUntilReset)
			rr.Get("/ws", wheelHandler.Stream)
			rr.Get("/result/qr", wheelHandler.ResultQR)
		})

		// Operator endpoints
		r.Route("/admin/wheel", func(rr chi.Router) {
			rr.Use(middleware.AdminOnly(sp.AdminCfg().TokenHash()))

			rr.Post("/reset", wheelHandler.AdminReset)
			rr.Get("/stats", wheelHandler.AdminStats)
		})

		sp.router = r
	}

	return sp.router
}

// Close дожидается начатых спинов и уведомлений, затем освобождает соединения с хранилищем
func (sp *ServiceProvider) Close(ctx context.Context) {
	if sp.wheelServ != nil {
		if err := sp.wheelServ.Close(ctx); err != nil {
			logger.Warn("Wheel service did not stop in time", zap.Error(err))
		}
	}
	if sp.dbClient != nil {
		sp.dbClient.Close()
	}
	if sp.sqliteRepo != nil {
		if err := sp.sqliteRepo.Close(); err != nil {
			logger.Warn("Failed to close sqlite store", zap.Error(err))
		}
	}
}
