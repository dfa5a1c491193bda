package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/reyesayala/wa-network-request-compare/internal/adapter/csvstore"
	"github.com/reyesayala/wa-network-request-compare/internal/adapter/postgres"
	redis_adapter "github.com/reyesayala/wa-network-request-compare/internal/adapter/redis"
	"github.com/reyesayala/wa-network-request-compare/internal/adapter/sqlite"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
	"github.com/reyesayala/wa-network-request-compare/internal/usecase"
	"github.com/reyesayala/wa-network-request-compare/pkg/config"
	"github.com/reyesayala/wa-network-request-compare/pkg/logger"
	"github.com/reyesayala/wa-network-request-compare/pkg/metrics"
)

func main() {
	var (
		indexPath   = flag.String("index", "", "pairing index CSV mapping current captures to archived captures")
		currDir     = flag.String("curr", "", "directory with current-side request CSV files")
		archDir     = flag.String("arch", "", "directory with archived-side request CSV files")
		outPath     = flag.String("out", "", "report CSV to write (CSV mode)")
		dbPath      = flag.String("db", "", "index database file (sqlite mode; replaces -index/-curr/-arch/-out)")
		usePG       = flag.Bool("pg", false, "read captures from and write results to PostgreSQL at POSTGRES_HOST")
		optsPath    = flag.String("config", "", "YAML file with comparison options")
		workers     = flag.Int("workers", 0, "number of comparison workers (default COMPARE_WORKERS)")
		force       = flag.Bool("force", false, "re-compare pairs even when a cached result exists")
		useCache    = flag.Bool("cache", false, "skip pairs compared recently, tracked in Redis at REDIS_ADDR")
		printScores = flag.Bool("print", false, "print per-page scores to stdout")
	)
	flag.Parse()

	cfg := config.Load()
	logger.Init(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	metrics.Init()

	useDB := *dbPath != ""
	if !useDB && !*usePG && (*indexPath == "" || *currDir == "" || *archDir == "" || *outPath == "") {
		fmt.Fprintln(os.Stderr, "must provide -db, -pg, or all of -index, -curr, -arch and -out")
		flag.Usage()
		os.Exit(2)
	}
	if useDB && *usePG {
		fmt.Fprintln(os.Stderr, "-db and -pg are mutually exclusive")
		os.Exit(2)
	}

	opts, err := config.LoadCompareOptions(*optsPath)
	if err != nil {
		slog.Error("Invalid comparison options", "error", err)
		os.Exit(1)
	}

	var (
		pairIndex   repository.PairIndexRepository
		requestSets repository.RequestSetRepository
		reports     repository.ReportRepository
		closeSink   func() error
	)
	switch {
	case useDB:
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			slog.Error("Failed to open index database", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pairIndex = sqlite.NewPairIndexRepo(db)
		requestSets = sqlite.NewRequestSetRepo(db)
		reports = sqlite.NewReportRepo(db)
	case *usePG:
		pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
		dbpool, err := pgxpool.New(context.Background(), pgConnString)
		if err != nil {
			slog.Error("Unable to connect to database", "error", err)
			os.Exit(1)
		}
		defer dbpool.Close()
		pairIndex = postgres.NewPairIndexRepo(dbpool)
		requestSets = postgres.NewRequestSetRepo(dbpool)
		reports = postgres.NewReportRepo(dbpool)
	default:
		pairIndex = csvstore.NewPairIndexRepo(*indexPath)
		requestSets = csvstore.NewRequestSetRepo(*currDir, *archDir)
		reportRepo, err := csvstore.NewReportRepo(*outPath)
		if err != nil {
			slog.Error("Failed to create report file", "path", *outPath, "error", err)
			os.Exit(1)
		}
		reports = reportRepo
		closeSink = reportRepo.Close
	}

	var cache repository.ResultCacheRepository
	if *useCache {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			slog.Error("Unable to connect to Redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		cache = redis_adapter.NewResultCacheRepo(rdb)
	}

	comparer, err := usecase.NewPageComparer(requestSets, reports, cache, opts, cfg.ResultCacheTTL)
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	poolSize := cfg.CompareWorkers
	if *workers > 0 {
		poolSize = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entries, err := pairIndex.ListPairs(ctx)
	if err != nil {
		slog.Error("Failed to read pairing index", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting batch comparison", "pairs", len(entries), "workers", poolSize)

	acc := usecase.NewRunner(comparer, poolSize).Run(ctx, entries, *force)

	if closeSink != nil {
		if err := closeSink(); err != nil {
			slog.Error("Failed to finalize report", "error", err)
			os.Exit(1)
		}
	}

	if *printScores {
		for _, s := range acc.Scores() {
			fmt.Printf("%s: interactional quality %.4f (same=%d changed=%d unmatched=%d extra=%d)\n",
				s.Key.String(), s.Score, s.MatchedSame, s.MatchedChanged, s.Unmatched, s.Extra)
		}
	}

	slog.Info("Batch comparison finished",
		"completed", acc.Completed(),
		"skipped", acc.Skipped(),
		"failed", acc.Failed(),
	)
	if acc.Failed() > 0 {
		os.Exit(1)
	}
}
