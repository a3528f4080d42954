package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/creditaid/loan-ledger/internal/config"
	"github.com/creditaid/loan-ledger/internal/handler"
	"github.com/creditaid/loan-ledger/internal/ledger"
	"github.com/creditaid/loan-ledger/internal/repository"
	"github.com/creditaid/loan-ledger/internal/service"
	"github.com/creditaid/loan-ledger/pkg/response"
)

func main() {
	// .env is optional in development
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize journal database when configured
	var db *sqlx.DB
	var customerRepo repository.CustomerRepository
	var loanRepo repository.LoanRepository
	var paymentRepo repository.PaymentRepository

	if cfg.PersistenceEnabled() {
		db, err = initDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		customerRepo = repository.NewCustomerRepository(db)
		loanRepo = repository.NewLoanRepository(db)
		paymentRepo = repository.NewPaymentRepository(db)
	} else {
		log.Println("No DATABASE_URL configured, running memory-only")
	}

	// Initialize Redis when configured
	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient = initRedis(cfg)
		defer redisClient.Close()
	}

	// Initialize the ledger engine and service
	ledgerService := service.NewLedgerService(ledger.New(), customerRepo, loanRepo, paymentRepo, redisClient, cfg)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if err := ledgerService.Restore(startupCtx); err != nil {
		log.Fatalf("Failed to restore ledger from journal: %v", err)
	}
	ledgerService.SeedDemoCustomers(startupCtx)

	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	// Setup routes
	router := setupRoutes(ledgerHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      response.LoggingMiddleware(response.CORSMiddleware(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(ledgerHandler *handler.LedgerHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/customers", ledgerHandler.AddCustomer).Methods("POST")
	api.HandleFunc("/customers", ledgerHandler.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{customerId}", ledgerHandler.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{customerId}/loans", ledgerHandler.CustomerLoans).Methods("GET")

	api.HandleFunc("/loans", ledgerHandler.CreateLoan).Methods("POST")
	api.HandleFunc("/loans", ledgerHandler.ListLoans).Methods("GET")
	api.HandleFunc("/loans/{loanId}", ledgerHandler.GetLoan).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", ledgerHandler.RecordPayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/payments", ledgerHandler.LoanPayments).Methods("GET")
	api.HandleFunc("/loans/{loanId}/balance", ledgerHandler.Balance).Methods("GET")

	api.HandleFunc("/payments", ledgerHandler.ListPayments).Methods("GET")

	return router
}
