package main

import (
	"context"
	"log/slog"

	"github.com/revelaction/interlin/pipeline"
	"github.com/revelaction/interlin/server"
)

func serveCommand(ctx context.Context, runner *pipeline.Runner, addr string, origins []string, logger *slog.Logger) error {
	return server.New(runner, origins, logger).ListenAndServe(ctx, addr)
}
