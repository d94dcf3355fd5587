package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polystoreio/polystore/internal/database"
	"github.com/polystoreio/polystore/internal/engine"
	"github.com/polystoreio/polystore/internal/gateway"
	"github.com/polystoreio/polystore/internal/monitoring"
	"github.com/polystoreio/polystore/pkg/config"
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/logger"
	"github.com/polystoreio/polystore/pkg/paradigm"

	// Register paradigm adapters
	_ "github.com/polystoreio/polystore/internal/database/columnarstore"
	_ "github.com/polystoreio/polystore/internal/database/graphstore"
	_ "github.com/polystoreio/polystore/internal/database/objectstore"
	_ "github.com/polystoreio/polystore/internal/database/vectorstore"
)

var version = "dev"

func main() {
	var (
		addr  = flag.String("addr", "0.0.0.0", "listen address")
		port  = flag.Int("port", 8090, "listen port")
		debug = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	log := logger.New("polystore", version)
	if *debug {
		log.EnableDebug()
	}

	cfg := config.FromEnv()

	supervisor := database.NewSupervisor(adapter.GlobalRegistry(), log)
	configureBackends(cfg, supervisor, log)

	tracker := monitoring.NewTracker()
	router := gateway.NewRouter(supervisor, log,
		gateway.WithRecorder(tracker),
		gateway.WithOperationTimeout(cfg.GetDuration("operation.timeout", 30*time.Second)),
	)

	server := engine.NewServer(router, supervisor, tracker, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(*addr, *port)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error("http server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("http shutdown failed: %v", err)
	}
	if err := supervisor.ShutdownAll(shutdownCtx); err != nil {
		log.Error("backend shutdown failed: %v", err)
	}
	log.Info("polystore stopped")
}

// configureBackends loads per-paradigm connection settings from the
// environment. A paradigm without a configured host stays unconfigured and
// its operations fail with a backend-unavailable envelope instead of a crash.
func configureBackends(cfg *config.Config, supervisor *database.Supervisor, log *logger.Logger) {
	for _, p := range paradigm.All() {
		prefix := string(p) + "."
		if !cfg.Has(prefix + "host") {
			log.Warn("no configuration for %s backend; its operations will be unavailable", p)
			continue
		}

		cap := paradigm.MustGet(p)
		cc := adapter.ConnectionConfig{
			ConnectionID: fmt.Sprintf("%s-primary", p),
			Host:         cfg.Get(prefix + "host"),
			Port:         cfg.GetInt(prefix+"port", cap.DefaultPort),
			Username:     cfg.Get(prefix + "username"),
			Password:     cfg.Get(prefix + "password"),
			SSL:          cfg.GetBool(prefix + "ssl"),
		}

		switch p {
		case paradigm.Object:
			cc.AccessKeyID = cfg.Get(prefix + "access.key")
			cc.SecretAccessKey = cfg.Get(prefix + "secret.key")
			cc.Bucket = cfg.GetOr(prefix+"bucket", "polystore")
			cc.Region = cfg.Get(prefix + "region")
		case paradigm.Vector:
			cc.Collection = cfg.GetOr(prefix+"collection", "documents")
			cc.VectorDimension = cfg.GetInt(prefix+"dimension", 0)
			cc.DistanceMetric = cfg.GetOr(prefix+"metric", "cosine")
			cc.TopKCeiling = cfg.GetInt(prefix+"topk.ceiling", 100)
			cc.EmbeddingHost = cfg.Get(prefix + "embedding.host")
			cc.EmbeddingModel = cfg.GetOr(prefix+"embedding.model", "all-MiniLM-L6-v2")
		case paradigm.Columnar:
			cc.DatabaseName = cfg.GetOr(prefix+"database", "default")
		}

		supervisor.SetConfig(p, cc)
		log.Info("configured %s backend at %s:%d", p, cc.Host, cc.Port)
	}
}
