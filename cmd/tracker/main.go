package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"PortfolioTracker/internal/config"
	"PortfolioTracker/internal/pricing"
	"PortfolioTracker/internal/quote"
	"PortfolioTracker/internal/recorder"
	"PortfolioTracker/internal/scheduler"
	"PortfolioTracker/internal/server"
	"PortfolioTracker/internal/store"
	"PortfolioTracker/internal/tracker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] portfolio tracker starting...")

	// Load .env file if it exists (local dev)
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] no .env file found, using environment variables")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init quote sources and joiner
	krx := quote.NewKRXSource(cfg.Quotes.KRXBaseURL, cfg.Proxy)
	yahoo := quote.NewYahooSource(cfg.Quotes.YahooBaseURL, cfg.Proxy)
	provider := quote.NewProvider(krx, yahoo, quote.ProviderConfig{
		Timeout:         time.Duration(cfg.Quotes.TimeoutSeconds) * time.Second,
		DomesticDays:    cfg.Quotes.DomesticLookback,
		ForeignSessions: cfg.Quotes.ForeignLookback,
	})
	joiner := pricing.NewJoiner(provider, cfg.Quotes.Workers)
	log.Printf("[INFO] quote sources: %s (KR), %s (US)", krx.Name(), yahoo.Name())

	// Init holdings store
	st, err := store.NewCSVStore(cfg.Data.HoldingsCSV)
	if err != nil {
		log.Fatalf("[FATAL] init holdings store: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init tracker
	trk, err := tracker.New(st, joiner, rec)
	if err != nil {
		log.Fatalf("[FATAL] load holdings: %v", err)
	}
	log.Printf("[INFO] %d holdings loaded from %s", len(trk.Holdings()), cfg.Data.HoldingsCSV)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, trk)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: refresh immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	// Start HTTP server
	srv := server.New(trk)
	go func() {
		if err := srv.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()
	log.Printf("[INFO] listening on %s", cfg.ListenAddr)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] portfolio tracker stopped")
}
