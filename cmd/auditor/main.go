// The auditor periodically verifies the journal against the ledger's status
// invariant: a loan's remaining balance is at or below zero exactly when it
// is PAID_OFF. Drift between the payment rows and the stored status, or a
// stale cached balance, is logged for the operator.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"github.com/creditaid/loan-ledger/internal/config"
	"github.com/creditaid/loan-ledger/internal/domain"
	"github.com/creditaid/loan-ledger/internal/repository"
)

func main() {
	log.Println("Starting ledger auditor...")

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.PersistenceEnabled() {
		log.Fatal("DATABASE_URL is required: the auditor reads the journal")
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.CacheEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	auditor := &auditor{db: db, redis: redisClient}

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds())

	if _, err := c.AddFunc(cfg.Auditor.Schedule, auditor.run); err != nil {
		log.Fatalf("Error scheduling audit job: %v", err)
	}

	// Run once at startup, then on schedule
	auditor.run()

	c.Start()
	log.Println("Auditor started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down auditor...")
	c.Stop()
	log.Println("Auditor stopped")
}

type auditor struct {
	db    *sqlx.DB
	redis *redis.Client
}

func (a *auditor) run() {
	log.Println("Running ledger audit...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	loanRepo := repository.NewLoanRepository(a.db)
	paymentRepo := repository.NewPaymentRepository(a.db)

	loans, err := loanRepo.GetAll(ctx)
	if err != nil {
		log.Printf("Audit aborted, failed to read loans: %v", err)
		return
	}
	payments, err := paymentRepo.GetAll(ctx)
	if err != nil {
		log.Printf("Audit aborted, failed to read payments: %v", err)
		return
	}

	paidByLoan := make(map[string]decimal.Decimal, len(loans))
	for _, p := range payments {
		paidByLoan[p.LoanID] = paidByLoan[p.LoanID].Add(p.Amount)
	}

	var drift int
	for _, loan := range loans {
		balance := loan.TotalAmount.Sub(paidByLoan[loan.LoanID])
		settled := balance.LessThanOrEqual(decimal.Zero)

		if settled && loan.Status != domain.LoanStatusPaidOff {
			drift++
			log.Printf("Drift: loan %s has balance %s but status %s", loan.LoanID, balance, loan.Status)
		}
		if !settled && loan.Status == domain.LoanStatusPaidOff {
			drift++
			log.Printf("Drift: loan %s is PAID_OFF with balance %s outstanding", loan.LoanID, balance)
		}

		a.checkCachedBalance(ctx, loan.LoanID, balance)
	}

	log.Printf("Audit complete: %d loans, %d payments, %d discrepancies", len(loans), len(payments), drift)
}

// checkCachedBalance deletes a cached balance that no longer matches the
// journal, forcing the next reader back onto the derived value.
func (a *auditor) checkCachedBalance(ctx context.Context, loanID string, balance decimal.Decimal) {
	if a.redis == nil {
		return
	}

	key := "loan:balance:" + loanID
	cached, err := a.redis.Get(ctx, key).Result()
	if err != nil {
		return
	}

	cachedBalance, err := decimal.NewFromString(cached)
	if err != nil || !cachedBalance.Equal(balance) {
		log.Printf("Stale cached balance for loan %s: cached=%s journal=%s", loanID, cached, balance)
		if err := a.redis.Del(ctx, key).Err(); err != nil {
			log.Printf("Failed to drop stale cache key %s: %v", key, err)
		}
	}
}
