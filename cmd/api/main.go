// @title           SplitLedger API
// @version         1.0
// @description     Shared-expense ledger with split strategies, settlements, and debt simplification
// @BasePath        /api/v1
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fkhayef/splitledger/docs"
	"github.com/fkhayef/splitledger/internal/audit"
	"github.com/fkhayef/splitledger/internal/config"
	"github.com/fkhayef/splitledger/internal/database"
	"github.com/fkhayef/splitledger/internal/expense"
	expensesplit "github.com/fkhayef/splitledger/internal/expense/split"
	"github.com/fkhayef/splitledger/internal/group"
	"github.com/fkhayef/splitledger/internal/history"
	"github.com/fkhayef/splitledger/internal/ledger"
	"github.com/fkhayef/splitledger/internal/settlement"
	"github.com/fkhayef/splitledger/internal/user"
	"github.com/fkhayef/splitledger/pkg/logger"
	mw "github.com/fkhayef/splitledger/pkg/middleware"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Get().Info("No .env file found, using environment variables")
	}
	defer logger.Close()

	log := logger.Get()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer db.Close()

	log.Info("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalw("Failed to run migrations", "error", err)
	}

	// Split Strategy Factory (Factory Pattern)
	splitFactory := expensesplit.NewFactory()

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.QueryTimeout)
	userHandler := user.NewHandler(userService)

	// Audit feature (best-effort trail, consumed by other services)
	auditRepo := audit.NewRepository(db)
	auditService := audit.NewService(auditRepo, cfg.QueryTimeout)
	auditHandler := audit.NewHandler(auditService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, auditService, db, cfg.QueryTimeout)
	groupHandler := group.NewHandler(groupService)

	// Ledger feature
	ledgerRepo := ledger.NewRepository(db)
	ledgerService := ledger.NewService(ledgerRepo, cfg.QueryTimeout)
	ledgerHandler := ledger.NewHandler(ledgerService)

	// Expense feature (with split factory injected)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupRepo, ledgerRepo, auditService, splitFactory, db, cfg.QueryTimeout)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, groupRepo, ledgerRepo, auditService, db, cfg.QueryTimeout)
	settlementHandler := settlement.NewHandler(settlementService)

	// History feature
	historyRepo := history.NewRepository(db)
	historyService := history.NewService(historyRepo, cfg.QueryTimeout)
	historyHandler := history.NewHandler(historyService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Identity)

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/ledger", ledgerHandler.Routes())
		r.Mount("/history", historyHandler.Routes())
		r.Mount("/audit", auditHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Infow("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalw("Server failed to start", "error", err)
	}
}
