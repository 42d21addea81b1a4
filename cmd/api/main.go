package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/crmdesk/ticketd/internal/api/http"
	"github.com/crmdesk/ticketd/internal/api/http/handlers"
	"github.com/crmdesk/ticketd/internal/auth"
	"github.com/crmdesk/ticketd/internal/config"
	"github.com/crmdesk/ticketd/internal/events"
	"github.com/crmdesk/ticketd/internal/observability"
	"github.com/crmdesk/ticketd/internal/persistence"
	"github.com/crmdesk/ticketd/internal/repository"
	"github.com/crmdesk/ticketd/internal/service"
	"github.com/crmdesk/ticketd/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	integrationRepo := repository.NewIntegrationRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	statsCache := persistence.NewStatsCache(redis, cfg.Cache.StatsTTL(), logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		Dispatcher:  dispatcher,
		StatsCache:  statsCache,
	})
	authService := service.NewAuthService(cfg.Auth, agentRepo)
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		ClientRepo:     clientRepo,
		CompanyRepo:    companyRepo,
		DepartmentRepo: departmentRepo,
	})
	integrationService := service.NewIntegrationService(integrationRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Integrations:   handlers.NewIntegrationsHandler(integrationService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
