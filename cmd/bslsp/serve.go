package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/0x15BA88FF/brain-surgeon/debug"
	"github.com/0x15BA88FF/brain-surgeon/invoker"
	"github.com/0x15BA88FF/brain-surgeon/logger"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/rpc"
	"github.com/0x15BA88FF/brain-surgeon/server"
	"github.com/0x15BA88FF/brain-surgeon/telemetry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the language server over stdio",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path, err := logPath(cfg)
	if err != nil {
		return err
	}
	fileLogger, logfile := getLogger(path)
	defer logfile.Close()
	logger.ProgramLevel.Set(cfg.SlogLevel())

	stream := rpc.NewHeaderStream(os.Stdin, os.Stdout)
	conn := rpc.NewConn(stream, fileLogger)
	client := lsp.ClientDispatcher(conn)

	fileHandler := slog.NewJSONHandler(logfile, &slog.HandlerOptions{Level: logger.ProgramLevel})
	slogger := slog.New(logger.NewHandler(logger.ProgramLevel, fileHandler))

	ctx := debug.WithLogger(context.Background(), slogger)
	ctx = lsp.WithClient(ctx, client)

	providers, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "bslsp",
		ServiceVersion: version,
		Exporter:       cfg.Telemetry,
		Writer:         logfile,
	})
	if err != nil {
		return err
	}
	flushTelemetry := func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			fileLogger.Println("Error shutting down telemetry:", err)
		}
	}
	defer flushTelemetry()

	runner := invoker.New(
		invoker.WithExecutable(cfg.Executable),
		invoker.WithLogger(fileLogger),
	)
	srv := server.New(fileLogger, client,
		server.WithInvoker(runner),
		server.WithVersion(version),
		server.WithExit(func(code int) {
			// os.Exit skips the deferred flush
			flushTelemetry()
			os.Exit(code)
		}),
	)

	defer func() {
		if err := srv.Shutdown(ctx); err != nil {
			fileLogger.Println("Error shutting down server:", err)
		}
	}()
	fileLogger.Printf("bslsp %s serving, brain-surgeon at %q", version, cfg.Executable)
	return conn.Run(ctx, lsp.ServerHandler(srv, rpc.MethodNotFound))
}
