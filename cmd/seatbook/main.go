package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"seatbook/internal/availability"
	"seatbook/internal/cache"
	"seatbook/internal/cache/rediscache"
	"seatbook/internal/cache/sqlitecache"
	"seatbook/internal/config"
	"seatbook/internal/coordinator"
	"seatbook/internal/remote"
)

const usage = `usage: seatbook <command> [flags]

commands:
  list                          show this week's bookings
  book --name N --day D --slot S
                                book a seat
  cancel <id>                   remove a booking
  availability <day> <slot>     show remaining seats for a slot
  grid                          show the weekly calendar
  export [--format json|xlsx] [--out FILE]
                                download the bookings
  reset --yes                   clear every booking
  watch [--interval D]          keep the cache fresh and run the weekly reset
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: .env:", err)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)})).With(
		slog.String("service", "seatbook"),
	)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeCache, err := openCache(ctx, cfg.Cache, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cache:", err)
		os.Exit(1)
	}
	defer closeCache()

	a := &app{
		coord: coordinator.New(
			availability.NewEngine(cfg.Matrix, cfg.Capacity),
			remote.NewClient(cfg.Client.APIURL, cfg.Client.Timeout),
			kv,
			coordinator.Options{OfflineWrites: cfg.Client.OfflineWrites, Logger: log},
		),
		cache: kv,
		out:   os.Stdout,
		log:   log,
		now:   time.Now,
		sweep: coordinator.SweeperOptions{
			Interval: cfg.Client.SweepInterval,
			Location: cfg.Client.Location,
			Logger:   log,
		},
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		var uErr usageError
		if errors.As(err, &uErr) {
			fmt.Fprintln(os.Stderr, uErr)
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", describe(err))
		os.Exit(1)
	}
}

func openCache(ctx context.Context, cfg config.CacheConfig, log *slog.Logger) (cache.Store, func(), error) {
	switch cfg.Driver {
	case "redis":
		rc := rediscache.New(rediscache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.TTL,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn("redis cache unreachable", slog.Any("err", err), slog.String("addr", cfg.RedisAddr))
		}
		return rc, func() { closeQuietly(log, rc) }, nil
	default:
		sc, err := sqlitecache.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sc, func() { closeQuietly(log, sc) }, nil
	}
}

func closeQuietly(log *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		log.Warn("cache close failed", slog.Any("err", err))
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
