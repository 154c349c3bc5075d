// Load test client generating and editing sites concurrently against a running sitegen server.
package main

import (
	"context"
	"time"

	"github.com/foomo/keel/log"
	"github.com/foomo/sitegen/client"
	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/requests"
	"github.com/foomo/sitegen/testing/fixtures"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	flagAddr   = pflag.String("addr", "http://127.0.0.1:8080", "set addr")
	flagStream = pflag.Bool("stream", true, "generate over the websocket")
	flagNum    = pflag.Int("num", 10, "num repetitions")
	flagEdits  = pflag.Int("edits", 5, "field edits per site")
)

func main() {
	pflag.Parse()
	l := log.Logger()

	c, err := client.NewHTTPClient(*flagAddr)
	if err != nil {
		l.Fatal("invalid address", zap.Error(err))
	}
	defer c.Shutdown()

	start := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for i := 1; i <= *flagNum; i++ {
		g.Go(func() error {
			return run(ctx, l.With(zap.Int("num", i)), c)
		})
	}
	if err := g.Wait(); err != nil {
		l.Fatal("run failed", zap.Error(err))
	}
	l.Info("done!", zap.Duration("duration", time.Since(start)))
}

func run(ctx context.Context, l *zap.Logger, c *client.Client) error {
	generate := c.Generate
	if *flagStream {
		generate = func(ctx context.Context, inputs requests.Generate) (*content.SiteInstance, error) {
			return c.GenerateStream(ctx, inputs, func(message string) {
				l.Debug(message)
			})
		}
	}
	site, err := generate(ctx, fixtures.Inputs())
	if err != nil {
		return err
	}
	l.Info("site generated", zap.String("id", site.ID))

	for i := 0; i < *flagEdits; i++ {
		if _, err := c.UpdateField(ctx, site.ID, "hero.headline", "Edit "+time.Now().Format(time.RFC3339Nano)); err != nil {
			return err
		}
	}
	revisions, err := c.Revisions(ctx, site.ID)
	if err != nil {
		return err
	}
	l.Info("site edited", zap.String("id", site.ID), zap.Int("revisions", len(revisions)))
	return nil
}
