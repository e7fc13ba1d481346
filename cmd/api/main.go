package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/opsdesk/helpdesk-service/internal/api/http"
	"github.com/opsdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/config"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/observability"
	"github.com/opsdesk/helpdesk-service/internal/persistence"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/service"
	"github.com/opsdesk/helpdesk-service/internal/worker"
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

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	pool := pg.PoolHandle()
	organizationRepo := repository.NewOrganizationRepository(pool)
	branchRepo := repository.NewBranchRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	stateRepo := repository.NewTicketStateRepository(pool)
	categoryRepo := repository.NewTicketCategoryRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	cannedRepo := repository.NewCannedResponseRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	limitService := service.NewSubscriptionLimitService(service.SubscriptionLimitDependencies{
		SubscriptionRepo: subscriptionRepo,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CustomerRepo: customerRepo,
		TeamRepo:     teamRepo,
		BranchRepo:   branchRepo,
		CategoryRepo: categoryRepo,
		StateRepo:    stateRepo,
		AgentRepo:    agentRepo,
		NoteRepo:     noteRepo,
		Limits:       limitService,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	organizationService := service.NewOrganizationService(service.OrganizationDependencies{
		OrganizationRepo: organizationRepo,
		BranchRepo:       branchRepo,
		TeamRepo:         teamRepo,
		CustomerRepo:     customerRepo,
		PlanRepo:         planRepo,
		SubscriptionRepo: subscriptionRepo,
	})
	planService := service.NewPlanService(planRepo, redisConn.Client, logger)
	knowledgeService := service.NewKnowledgeService(service.KnowledgeDependencies{
		ArticleRepo: articleRepo,
		CannedRepo:  cannedRepo,
		Cache:       redisConn.Client,
		Logger:      logger,
	})
	authService := service.NewAuthService(*cfg, agentRepo, teamRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)
	worker.StartMetricsWorker(dispatcher, metrics)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Organizations:  handlers.NewOrganizationsHandler(organizationService, limitService),
		Plans:          handlers.NewPlansHandler(planService),
		Knowledge:      handlers.NewKnowledgeHandler(knowledgeService),
		Agents:         handlers.NewAgentsHandler(authService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
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
