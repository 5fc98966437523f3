package cmd

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/capital/events"
	"github.com/etnz/capital/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// --- Serve Command ---

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the books over HTTP" }
func (*serveCmd) Usage() string {
	return `serve [-addr <host:port>]

  Serves every owner's book as a JSON API until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (defaults to CAPITAL_HTTP_ADDR)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		addr := c.addr
		if addr == "" {
			addr = a.cfg.HTTPAddr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           server.New(a.book, a.log).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a.log.Info("http server starting", zap.String("addr", addr), zap.String("backend", a.cfg.Backend))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			a.log.Info("shutdown requested")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	})
}

// --- Watch Command ---

type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "print the events published by the books" }
func (*watchCmd) Usage() string {
	return `watch

  Consumes the events queue (CAPITAL_AMQP_URL must be set) and prints one
  line per event until interrupted.
`
}
func (*watchCmd) SetFlags(f *flag.FlagSet) {}

func (*watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withApp(ctx, func(ctx context.Context, a *app) error {
		client, ok := a.notifier.(*events.Client)
		if !ok {
			return errors.New("watch needs a broker, set CAPITAL_AMQP_URL")
		}
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err := client.Consume(ctx, func(m *events.Message) error {
			_, err := printEvent(m)
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}
