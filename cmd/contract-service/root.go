package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nurpe/contract-planner/internal/config"
	"github.com/nurpe/contract-planner/internal/excel"
	"github.com/nurpe/contract-planner/internal/logger"
	"github.com/nurpe/contract-planner/internal/pdf"
	"github.com/nurpe/contract-planner/internal/service"
	"github.com/nurpe/contract-planner/internal/store"
)

type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     store.Store
	contracts *service.ContractService
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "contract-service",
		Short:         "Manage a service contract: cities, quantities, prices and reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(
		newServeCmd(),
		newExportCmd(),
		newImportCitiesCmd(),
		newCostsCmd(),
		newTokenCmd(),
	)
	return root
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Environment)

	st, err := store.Open(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	contracts, err := service.NewContractService(ctx, st, excel.NewGenerator(), pdf.NewGenerator(), log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: st, contracts: contracts}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
	}
}
