package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type cli struct {
	Config    string `type:"path" help:"Config file (yaml, json or toml)."`
	Addr      string `help:"Listen address (overrides config)."`
	Transport string `help:"Transport to serve on: router (go-router on fiber) or http (net/http)."`
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("tablesrv"),
		kong.Description("Serve go-datatable tables over HTTP and WebSocket."),
		kong.UsageOnError(),
	)

	v := viper.New()
	if args.Addr != "" {
		v.Set("addr", args.Addr)
	}
	if args.Transport != "" {
		v.Set("transport", args.Transport)
	}
	cfg, err := LoadConfig(v, args.Config)
	kctx.FatalIfErrorf(err)

	logger, err := newLogger(cfg)
	kctx.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("tablesrv: build app")
	}
	if err := app.serve(ctx); err != nil {
		logger.WithError(err).Fatal("tablesrv: server stopped")
	}
}

func newLogger(cfg Config) (*log.Logger, error) {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
