package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoDashboard/internal/collector"
	"CryptoDashboard/internal/config"
	"CryptoDashboard/internal/dashboard"
	"CryptoDashboard/internal/listing"
	"CryptoDashboard/internal/recorder"
	"CryptoDashboard/internal/scheduler"
	"CryptoDashboard/internal/web"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CryptoDashboard starting...")

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

	// Init listing source
	src := listing.NewScraper(cfg.Listings.URL, cfg.Listings.ContainerSelector, cfg.Listings.Timeout, cfg.Listings.MaxRetries, cfg.Proxy)

	// Init fetcher
	var fetcher collector.Fetcher
	md := cfg.MarketData
	switch md.Provider {
	case "binance":
		fetcher = collector.NewBinanceFetcher(md.BaseURL, md.Timeout, cfg.Proxy, md.QuoteMap)
	default:
		fetcher = collector.NewYahooFetcher(md.BaseURL, md.Timeout, cfg.Proxy)
	}
	log.Printf("[INFO] market data source: %s", fetcher.Name())

	// Init collector
	col := collector.NewCollector(fetcher, md.RatePerSec, md.Burst, md.MaxRetries)

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

	svc := dashboard.NewService(src, col, rec, cfg.Listings.QuoteSuffix, cfg.Fiats, cfg.Windows)
	svc.ViewTimeout = md.ViewTimeout
	srv := web.NewServer(cfg.Server.Addr, svc)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	refreshTimeout := cfg.Listings.Timeout*time.Duration(cfg.Listings.MaxRetries+1) + 30*time.Second
	sched := scheduler.NewScheduler(ctx, svc, refreshTimeout)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}

	// Without listings there is nothing to select.
	if err := sched.RefreshNow(); err != nil {
		log.Fatalf("[FATAL] initial listings refresh: %v", err)
	}

	sched.Start()
	defer sched.Stop()

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] CryptoDashboard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] CryptoDashboard stopped")
}
