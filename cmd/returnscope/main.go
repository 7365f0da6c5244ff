package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ReturnScope/internal/analyzer"
	"ReturnScope/internal/collector"
	"ReturnScope/internal/config"
	"ReturnScope/internal/model"
	"ReturnScope/internal/notifier"
	"ReturnScope/internal/pipeline"
	"ReturnScope/internal/recorder"
	"ReturnScope/internal/render"
	"ReturnScope/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ReturnScope starting...")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] load .env: %v", err)
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

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderCSV:
		fetcher = collector.NewCSVFetcher(cfg.DataSource.URLTemplate, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{}
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy)
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		fetcher = yf
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init pipeline
	an := analyzer.New(analyzer.Params{
		Month:   cfg.Windows.Month,
		Quarter: cfg.Windows.Quarter,
		Year:    cfg.Windows.Year,
		Bins:    cfg.Windows.Bins,
	})
	p := pipeline.New(collector.NewCollector(fetcher, cfg.FromYear), an)
	p.Workers = cfg.Workers

	if cfg.Output.Dir != "" {
		r, err := render.NewCSVRenderer(cfg.Output.Dir)
		if err != nil {
			log.Printf("[WARN] init csv renderer failed, rendering disabled: %v", err)
		} else {
			p.Renderer = r
			log.Printf("[INFO] writing series to %s", cfg.Output.Dir)
		}
	}

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			rec = sr
			defer sr.Close()
		}
	}
	p.Recorder = rec

	// Init notifiers
	notifiers := notifier.Multi{notifier.NewConsoleNotifier(os.Stdout)}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		notifiers = append(notifiers, tn)
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(ctx, p, notifiers, rec, cfg.Tickers)

	if cfg.Schedule.Cron == "" {
		outcomes := sched.RunNow()
		if len(outcomes) > 0 && len(model.Failed(outcomes)) == len(outcomes) {
			log.Println("[ERROR] every ticker failed")
			return 1
		}
		log.Println("[INFO] ReturnScope finished")
		return 0
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing batch now")
		go sched.RunNow()
	}

	log.Printf("[INFO] ReturnScope is running on %q. Press Ctrl+C to stop.", cfg.Schedule.Cron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return 0
}
