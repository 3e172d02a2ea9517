package arpshieldd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"go.arpshield.dev/arpshield/internal/config"
	"go.arpshield.dev/arpshield/internal/engine"
	"go.arpshield.dev/arpshield/internal/ioadapter"
	"go.arpshield.dev/arpshield/internal/logging"
	"go.arpshield.dev/arpshield/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ARP/RARP/ACD engine against the configured interfaces",
	Long: `Serve loads the configuration, opens a raw socket on every configured
interface, and drives the engine's frame-processing and periodic-tick logic
until interrupted.

Examples:
  arpshieldd serve -c /etc/arpshieldd/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(configFile)
	},
}

func runServe(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.Init(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	engCfg, err := cfg.ToEngineConfig()
	if err != nil {
		return fmt.Errorf("converting config: %w", err)
	}
	state := engine.Init(engCfg)

	m := metrics.New()

	tickInterval, err := time.ParseDuration(cfg.Tunables.TickInterval)
	if err != nil {
		return fmt.Errorf("tunables.tick_interval: %w", err)
	}

	adapter := ioadapter.New(logger, m, state, tickInterval, nil)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var srv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		srv = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux}
		go func() {
			level.Info(logger).Log("msg", "serving metrics", "addr", cfg.Metrics.Listen, "path", cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				level.Error(logger).Log("msg", "metrics server exited", "err", err)
			}
		}()
	}

	go watchReload(ctx, path, logger, adapter)

	level.Info(logger).Log("msg", "starting", "interfaces", len(engCfg.Interfaces))
	runErr := adapter.Run(ctx)

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}

	if runErr != nil {
		return fmt.Errorf("running adapter: %w", runErr)
	}
	return nil
}

// watchReload re-reads the RARP reverse map on SIGHUP without restarting
// listeners, grounded on the reference fleet's reconcile-on-change config
// controllers.
func watchReload(ctx context.Context, path string, logger log.Logger, adapter *ioadapter.Adapter) {
	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sighup:
			cfg, err := config.Load(path)
			if err != nil {
				level.Error(logger).Log("msg", "reload failed", "err", err)
				continue
			}
			engCfg, err := cfg.ToEngineConfig()
			if err != nil {
				level.Error(logger).Log("msg", "reload failed", "err", err)
				continue
			}
			adapter.SetReverseMap(engCfg.ReverseMap)
			level.Info(logger).Log("msg", "reloaded reverse map", "entries", len(engCfg.ReverseMap))
		}
	}
}
