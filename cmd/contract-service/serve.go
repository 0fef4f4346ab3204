package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nurpe/contract-planner/internal/auth"
	httphandler "github.com/nurpe/contract-planner/internal/http"
	"github.com/nurpe/contract-planner/internal/http/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var authMiddleware gin.HandlerFunc
	if a.cfg.AuthEnabled() {
		authMiddleware = middleware.Auth(auth.NewParser(a.cfg.Auth.AccessSecret))
	} else {
		a.log.Warn().Msg("JWT_ACCESS_SECRET not set, API is unauthenticated")
	}

	metrics := middleware.NewMetrics()
	handler := httphandler.NewHandler(a.contracts, metrics, a.log)
	router := httphandler.NewRouter(handler, authMiddleware, metrics, a.cfg.HTTP.AllowedOrigins, a.cfg.Environment, a.log)

	addr := fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port)
	a.log.Info().Str("addr", addr).Msg("starting contract service")

	if err := router.Run(addr); err != nil {
		a.log.Error().Err(err).Msg("server stopped")
		return err
	}
	return nil
}
