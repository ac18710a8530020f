package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/msp-tools/autotask-search-mcp/internal/autotask"
	"github.com/msp-tools/autotask-search-mcp/internal/conf"
	"github.com/msp-tools/autotask-search-mcp/internal/mcpserver"
	"github.com/msp-tools/autotask-search-mcp/internal/pkg/logger"
)

const version = "1.0.0"

var (
	configFile = flag.String("config", "", "config file path (optional; env vars apply either way)")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger with config. Stdout belongs to the MCP stdio
	// transport, so all logging goes to stderr or a file.
	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded",
		zap.String("base_url", config.Autotask.BaseURL),
		zap.String("version", version),
	)

	client, err := autotask.New(config.AutotaskClientConfig(), log.Named("autotask"))
	if err != nil {
		log.Fatal("failed to initialize autotask client", zap.Error(err))
	}
	defer client.Close()

	srv := mcpserver.New(client, log, version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server stopped")
}
