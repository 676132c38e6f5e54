package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tech-help/helpdesk-service/internal/api/http"
	"github.com/tech-help/helpdesk-service/internal/api/http/handlers"
	"github.com/tech-help/helpdesk-service/internal/auth"
	"github.com/tech-help/helpdesk-service/internal/config"
	"github.com/tech-help/helpdesk-service/internal/events"
	"github.com/tech-help/helpdesk-service/internal/observability"
	"github.com/tech-help/helpdesk-service/internal/persistence"
	"github.com/tech-help/helpdesk-service/internal/repository"
	"github.com/tech-help/helpdesk-service/internal/service"
	"github.com/tech-help/helpdesk-service/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	technicianRepo := repository.NewTechnicianRepository(pool)
	categoryRepo := repository.NewCachedCategoryRepository(
		repository.NewCategoryRepository(pool), redis.Client, cfg.Ticket.CategoryCacheTTL())
	ticketRepo := repository.NewTicketRepository(pool)

	var locks *persistence.AdvisoryLocks
	if cfg.Ticket.SerializeAdmission {
		locks = persistence.NewAdvisoryLocks(pool)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	policies := service.NewPolicySet(clientRepo, technicianRepo)
	workload := service.NewWorkloadController(ticketRepo, cfg.Ticket.WorkloadLimit, locks)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ClientRepo:     clientRepo,
		TechnicianRepo: technicianRepo,
		CategoryRepo:   categoryRepo,
		AccountRepo:    accountRepo,
		Policies:       policies,
		Workload:       workload,
		Dispatcher:     dispatcher,
	})
	authService := service.NewAuthService(*cfg, accountRepo)
	accountService := service.NewAccountService(accountRepo, cfg.Auth.BcryptCost)
	clientService := service.NewClientService(clientRepo, accountRepo)
	technicianService := service.NewTechnicianService(technicianRepo, accountRepo)
	categoryService := service.NewCategoryService(categoryRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(authService, accountService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Clients:        handlers.NewClientsHandler(clientService),
		Technicians:    handlers.NewTechniciansHandler(technicianService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
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
