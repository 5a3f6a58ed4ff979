package commands

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"limsmock/internal/adapters/web"
	"limsmock/internal/core"
	"limsmock/internal/fixture"
	"limsmock/internal/infra/persistence/memory"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Seed the mock store and serve the HTTP view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			handler, lims, err := a.buildServer(ctx)
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", a.cfg.Server.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", a.cfg.Server.Addr)
			}
			a.log.Info("serving",
				zap.String("app", a.cfg.App.Name),
				zap.String("addr", ln.Addr().String()),
				zap.Int("samples", len(lims.GetSamples(core.SampleQuery{}))),
			)
			return serve(ctx, &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}, ln, a.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

// buildServer seeds a fresh store from the configured fixtures and wires
// the query client, session and routes.
func (a *app) buildServer(ctx context.Context) (http.Handler, *core.Lims, error) {
	store := memory.NewStore()
	src, err := fixture.Open(ctx, a.cfg)
	switch {
	case errors.Is(err, fixture.ErrNoSource):
		a.log.Info("no fixture source configured, starting empty")
	case err != nil:
		return nil, nil, err
	default:
		defer func() { _ = src.Close() }()
		if _, err := fixture.Seed(ctx, src, store, a.log); err != nil {
			return nil, nil, err
		}
	}

	var (
		opts     = []core.Option{core.WithLogger(a.log.Named("lims"))}
		gatherer prometheus.Gatherer
	)
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := core.NewMetrics(reg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, core.WithMetrics(metrics))
		gatherer = reg
	}
	lims := core.NewLims(store, opts...)

	session := web.NewSession()
	session.Set(web.SessionSamplesKey, lims.GetSamples(core.SampleQuery{}))
	handler, err := web.NewHandler(a.cfg.App.Name, session, a.log.Named("web"))
	if err != nil {
		return nil, nil, err
	}
	return web.Routes(handler, gatherer, a.log.Named("http")), lims, nil
}

// serve runs srv on ln until ctx is cancelled, then shuts down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
