// Command filemanager serves uploaded files over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rise-and-shine/filemanager/cfgloader"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/meta"
)

const serviceName = "filemanager"

// version is set at build time with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // build information
var version = "dev"

func main() {
	cfg := cfgloader.MustLoad[Config]()

	logger.SetGlobal(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	meta.SetLanguageMap(messages, defaultLanguage)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		logger.Fatalx(err)
	}

	if err = app.run(ctx); err != nil {
		logger.Errorx(err)
		app.close()
		os.Exit(1)
	}
	app.close()
}
