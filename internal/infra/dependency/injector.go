// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/installment-tracker/backend/config"
	"github.com/installment-tracker/backend/internal/application/adapter"
	"github.com/installment-tracker/backend/internal/application/usecase/auth"
	"github.com/installment-tracker/backend/internal/application/usecase/budget"
	"github.com/installment-tracker/backend/internal/application/usecase/calendar"
	"github.com/installment-tracker/backend/internal/application/usecase/payment"
	"github.com/installment-tracker/backend/internal/application/usecase/purchase"
	"github.com/installment-tracker/backend/internal/application/usecase/reminder"
	"github.com/installment-tracker/backend/internal/application/usecase/summary"
	"github.com/installment-tracker/backend/internal/infra/scheduler"
	"github.com/installment-tracker/backend/internal/infra/server/router"
	"github.com/installment-tracker/backend/internal/integration/adapters"
	"github.com/installment-tracker/backend/internal/integration/email"
	"github.com/installment-tracker/backend/internal/integration/email/templates"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/installment-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/installment-tracker/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Router      *router.Router
	EmailWorker *email.Worker
	Scheduler   *scheduler.Scheduler
	// Reminders is nil when the reminder job is disabled.
	Reminders *reminder.SendRemindersUseCase
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	purchaseRepo := persistence.NewPurchaseRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(adapters.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  cfg.JWT.AccessTokenExpiry,
		RefreshTTL: cfg.JWT.RefreshTokenExpiry,
	}, tokenRepo)
	resetTokenService := adapters.NewPasswordResetTokenService(tokenRepo, cfg.JWT.ResetTokenExpiry)
	emailService := email.NewService(emailQueueRepo)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	forgotPasswordUseCase := auth.NewForgotPasswordUseCase(userRepo, resetTokenService, emailService, cfg.Email.AppBaseURL, cfg.JWT.ResetTokenExpiry)
	resetPasswordUseCase := auth.NewResetPasswordUseCase(userRepo, passwordService, resetTokenService, tokenService)
	currentUserUseCase := auth.NewGetCurrentUserUseCase(userRepo)
	updateProfileUseCase := auth.NewUpdateProfileUseCase(userRepo)

	// Create purchase use cases
	listPurchasesUseCase := purchase.NewListPurchasesUseCase(purchaseRepo)
	createPurchaseUseCase := purchase.NewCreatePurchaseUseCase(purchaseRepo)
	getPurchaseUseCase := purchase.NewGetPurchaseUseCase(purchaseRepo)
	updatePurchaseUseCase := purchase.NewUpdatePurchaseUseCase(purchaseRepo)
	deletePurchaseUseCase := purchase.NewDeletePurchaseUseCase(purchaseRepo)
	historyUseCase := purchase.NewListPaymentHistoryUseCase(purchaseRepo)

	// Create payment use cases; both share one lock set so a bulk item and a
	// single payment on the same purchase never interleave
	locks := payment.NewKeyedMutex()
	recordPaymentUseCase := payment.NewRecordPaymentUseCase(purchaseRepo, locks)
	bulkPaymentUseCase := payment.NewBulkPaymentUseCase(purchaseRepo, locks)

	// Create reporting use cases
	calendarUseCase := calendar.NewGetCalendarUseCase(purchaseRepo)
	getBudgetUseCase := budget.NewGetBudgetUseCase(budgetRepo)
	updateBudgetUseCase := budget.NewUpdateBudgetUseCase(budgetRepo)
	summaryUseCase := summary.NewGetSummaryUseCase(purchaseRepo, budgetRepo)

	// Create controllers
	checks := map[string]controller.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	healthController := controller.NewHealthController(checks)

	authController := controller.NewAuthController(controller.AuthUseCases{
		Register:       registerUseCase,
		Login:          loginUseCase,
		Refresh:        refreshTokenUseCase,
		Logout:         logoutUseCase,
		ForgotPassword: forgotPasswordUseCase,
		ResetPassword:  resetPasswordUseCase,
		CurrentUser:    currentUserUseCase,
		UpdateProfile:  updateProfileUseCase,
	})

	purchaseController := controller.NewPurchaseController(
		listPurchasesUseCase,
		createPurchaseUseCase,
		getPurchaseUseCase,
		updatePurchaseUseCase,
		deletePurchaseUseCase,
		historyUseCase,
	)
	paymentController := controller.NewPaymentController(recordPaymentUseCase, bulkPaymentUseCase)
	calendarController := controller.NewCalendarController(calendarUseCase)
	budgetController := controller.NewBudgetController(getBudgetUseCase, updateBudgetUseCase, summaryUseCase)

	// Create middleware
	var loginRateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		var store middleware.RateLimitStore = middleware.NewMemoryStore()
		if redisClient != nil {
			store = middleware.NewRedisStore(redisClient, "ratelimit:login:")
		}
		loginRateLimiter = middleware.NewRateLimiterWithStore(store, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		purchaseController,
		paymentController,
		calendarController,
		budgetController,
		loginRateLimiter,
		authMiddleware,
	)

	// Create background workers
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var sender adapter.EmailSender = email.LogSender{}
	if cfg.Email.ResendAPIKey != "" {
		resendClient, err := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail, cfg.Email.ResendBaseURL)
		if err != nil {
			return nil, err
		}
		sender = resendClient
	}
	worker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	sched := scheduler.New()
	var reminders *reminder.SendRemindersUseCase
	if cfg.Reminder.Enabled {
		reminders = reminder.NewSendRemindersUseCase(
			userRepo,
			purchaseRepo,
			emailQueueRepo,
			emailService,
			cfg.Reminder.DaysAhead,
			cfg.Email.AppBaseURL,
		)
		if err := sched.Register(scheduler.Job{
			Name:     "installment-reminders",
			Schedule: cfg.Reminder.Cron,
			Timeout:  cfg.Reminder.Timeout,
			Run: func(ctx context.Context) error {
				_, err := reminders.Execute(ctx)
				return err
			},
		}); err != nil {
			return nil, err
		}
	}

	retainDays := int(cfg.Email.RetainSent.Hours() / 24)
	if err := sched.Register(scheduler.Job{
		Name:     "email-queue-cleanup",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			_, err := emailQueueRepo.DeleteOldSentJobs(ctx, retainDays)
			return err
		},
	}); err != nil {
		return nil, err
	}
	if err := sched.Register(scheduler.Job{
		Name:     "expired-token-cleanup",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			_, err := tokenRepo.DeleteExpiredTokens(ctx)
			return err
		},
	}); err != nil {
		return nil, err
	}

	return &Injector{
		Config:      cfg,
		DB:          db,
		Redis:       redisClient,
		Router:      r,
		EmailWorker: worker,
		Scheduler:   sched,
		Reminders:   reminders,
	}, nil
}
