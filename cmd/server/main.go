package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/HamptonNorth/portfolio-60-sub003/internal/api"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/config"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/cron"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/events"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/notifications"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/scrape"
	"github.com/HamptonNorth/portfolio-60-sub003/internal/store"
	"github.com/HamptonNorth/portfolio-60-sub003/pkg/types"
	"github.com/dimiro1/banner"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

const bannerText = `
{{ .Title "Portfolio 60" "" 0 }}
{{ .AnsiBackground.BrightBlue }}{{ .AnsiColor.White }}
{{ .AnsiReset }}
`

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
		}
	}

	banner.Init(colorable.NewColorableStdout(), true, true, strings.NewReader(bannerText))

	configPath := flag.String("config", "config/config.json", "path to config file")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       false,
		TimestampFormat:        "2006-01-02T15:04:05-07:00",
		DisableLevelTruncation: false,
		PadLevelText:           false,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	scrapeTimeout, err := time.ParseDuration(cfg.Scrape.Timeout)
	if err != nil {
		logger.Fatalf("Invalid scrape timeout: %v", err)
	}
	cacheTTL, err := time.ParseDuration(cfg.Scrape.CacheTTL)
	if err != nil {
		logger.Fatalf("Invalid scrape cache TTL: %v", err)
	}
	readTimeout, err := time.ParseDuration(cfg.Server.ReadTimeout)
	if err != nil {
		logger.Fatalf("Invalid server read timeout: %v", err)
	}
	writeTimeout, err := time.ParseDuration(cfg.Server.WriteTimeout)
	if err != nil {
		logger.Fatalf("Invalid server write timeout: %v", err)
	}

	st, err := store.Open(filepath.Join(cfg.Data.Dir, "portfolio60.db"), logger)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	seedDatabase(st, cfg, logger)

	bus := events.New()
	client := scrape.NewClient(scrapeTimeout, cacheTTL, cfg.Scrape.RequestsPerSecond, logger)

	slack, err := notifications.NewSlackService(logger)
	if err != nil {
		logger.Warnf("Failed to initialize Slack service: %v", err)
	}
	notifier := notifications.NewNotificationService(slack, logger, cfg.Slack.NotifyOnSuccess)

	runner := scrape.NewRunner(st, bus, logger, notifier)

	sources := []scrape.Source{
		scrape.NewRatesSource(client, st, cfg.Scrape),
		scrape.NewPricesSource(client, st, cfg.Scrape),
		scrape.NewBenchmarksSource(client, st, cfg.Scrape, logger),
	}

	sched := cron.NewScheduler(logger, cfg.Jobs)
	for _, src := range sources {
		sched.RegisterTask(src.Name(), func(ctx context.Context) error {
			_, err := runner.Run(ctx, src)
			return err
		})
	}
	if err := sched.LoadJobs(cfg.Jobs.Predefined); err != nil {
		logger.Fatalf("Failed to load jobs: %v", err)
	}

	handler := api.NewHandler(st, logger, cfg, sched, bus)

	router := mux.NewRouter()
	api.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	watcher, err := config.Watch(*configPath, logger, func(newCfg *config.Config) {
		if err := sched.LoadJobs(newCfg.Jobs.Predefined); err != nil {
			logger.Errorf("Failed to reload jobs: %v", err)
		}
	})
	if err != nil {
		logger.Warnf("Config watching disabled: %v", err)
	}

	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}

	go sched.CheckMissed(context.Background(), st, time.Now())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	logger.Infof("Server started on port %s - Press Ctrl+C to stop.", cfg.Server.Port)

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if watcher != nil {
		watcher.Stop()
	}
	sched.Stop()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}

	logger.Info("Server stopped")
}

// seedDatabase loads the portfolio seed file and inserts any benchmarks or
// investments not already present. Missing seed files are fine once the
// database has been populated.
func seedDatabase(st *store.Store, cfg *config.Config, logger *logrus.Logger) {
	seed, err := config.LoadSeed(cfg.Data.SeedFile)
	if err != nil {
		logger.Warnf("Skipping portfolio seed: %v", err)
		return
	}

	ctx := context.Background()

	benchmarks := make([]types.Benchmark, 0, len(seed.Benchmarks))
	for _, b := range seed.Benchmarks {
		benchmarks = append(benchmarks, types.Benchmark{Symbol: b.Symbol, Name: b.Name, Currency: b.Currency})
	}
	addedBenchmarks, err := st.SeedBenchmarks(ctx, benchmarks)
	if err != nil {
		logger.Errorf("Failed to seed benchmarks: %v", err)
	}

	investments := make([]types.Investment, 0, len(seed.Investments))
	for _, inv := range seed.Investments {
		investments = append(investments, types.Investment{Symbol: inv.Symbol, Name: inv.Name, Currency: inv.Currency})
	}
	addedInvestments, err := st.SeedInvestments(ctx, investments)
	if err != nil {
		logger.Errorf("Failed to seed investments: %v", err)
	}

	if addedBenchmarks > 0 || addedInvestments > 0 {
		logger.Infof("Seeded %d benchmarks and %d investments", addedBenchmarks, addedInvestments)
	}
}
