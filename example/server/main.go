package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/charsim/authority"
	"github.com/oomph-ac/charsim/example/arena"
	"github.com/oomph-ac/charsim/settings"
	"github.com/oomph-ac/charsim/transport"
	"github.com/oomph-ac/charsim/world"
)

// The following program runs an authority server simulating every connected character in the arena.
func main() {
	log := slog.Default()
	conf := readConfig("config.toml", log)

	if conf.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: conf.Sentry.DSN}); err != nil {
			log.Error("failed to initialize sentry", "err", err)
		}
		defer sentry.Flush(2 * time.Second)
	}
	if conf.Server.StatsAddress != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(conf.Server.StatsAddress))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	w := world.New(log)
	arena.Build(w)

	srv, err := authority.NewServer(conf, w, log)
	if err != nil {
		panic(err)
	}
	defer srv.Close()

	l, err := transport.Listen(conf.Server.Address, log)
	if err != nil {
		panic(err)
	}
	log.Info("charsim server listening", "addr", l.Addr(), "tickRate", conf.Server.TickRate)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	go func() {
		_ = srv.Run(ctx)
		_ = l.Close()
	}()

	if err := srv.Serve(l, arena.Spawn); err != nil && ctx.Err() == nil {
		log.Error("listener closed", "err", err)
	}
}

func readConfig(path string, log *slog.Logger) settings.Settings {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			log.Error("error creating config", "err", err)
			os.Exit(1)
		}
	}
	conf, err := settings.Load(path)
	if err != nil {
		log.Error("error reading config", "err", err)
		os.Exit(1)
	}
	return conf
}
