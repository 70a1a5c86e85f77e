// StringStore HTTP Server
// Stores text strings with computed properties and filtered retrieval
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/nainya/stringstore/internal/config"
	"github.com/nainya/stringstore/internal/logger"
	"github.com/nainya/stringstore/internal/metrics"
	"github.com/nainya/stringstore/internal/server"
	"github.com/nainya/stringstore/pkg/persist"
	"github.com/nainya/stringstore/pkg/store"
)

var (
	addr    = flag.String("addr", "", "API listen address (overrides STRINGSTORE_ADDR)")
	backend = flag.String("persist", "", "Persistence backend: file, sqlite, journal, none")
	data    = flag.String("data", "", "Data file path (overrides STRINGSTORE_DATA)")
)

func main() {
	flag.Parse()

	// .env is optional; environment wins over defaults
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *backend != "" {
		cfg.Persist = *backend
	}
	if *data != "" {
		cfg.DataPath = *data
	}

	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.GetGlobalLogger()
	log.LogServerStart(cfg.Addr, cfg.Persist, cfg.DataPath)

	m := metrics.NewMetrics()

	persister, err := openPersister(cfg, log)
	if err != nil {
		log.Fatal("Failed to open persistence backend").Err(err).Send()
	}

	st, err := store.Open(persister, store.WithPersistErrorHandler(func(err error) {
		log.Error("Persist commit failed").Err(err).Send()
		m.PersistCommitsTotal.WithLabelValues("error").Inc()
	}))
	if err != nil {
		log.Fatal("Failed to load store").Err(err).Send()
	}
	defer st.Close()

	m.RecordsTotal.Set(float64(st.Count()))
	log.Info("Store loaded").Int("records", st.Count()).Send()

	apiServer := server.NewServer(st, log,
		server.WithMetrics(m),
		server.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	obsServer := server.NewObservabilityServer(cfg.ObsAddr, log)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return apiServer.Start(cfg.Addr) })
	g.Go(obsServer.Start)
	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
			log.LogServerShutdown()
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Error("API shutdown failed").Err(err).Send()
		}
		return obsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server exited").Err(err).Send()
	}
}

func openPersister(cfg *config.Config, log *logger.Logger) (store.Persister, error) {
	zlog := *log.GetZerolog()
	switch cfg.Persist {
	case config.BackendSQLite:
		return persist.NewSQLite(cfg.DataPath, zlog)
	case config.BackendJournal:
		return persist.NewJournal(cfg.DataPath, zlog)
	case config.BackendNone:
		return persist.NewMemory(), nil
	default:
		return persist.NewSnapshot(cfg.DataPath, cfg.Compress, zlog), nil
	}
}
