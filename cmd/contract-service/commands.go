package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurpe/contract-planner/internal/auth"
	"github.com/nurpe/contract-planner/internal/config"
	"github.com/nurpe/contract-planner/internal/money"
	"github.com/nurpe/contract-planner/internal/service"
)

func newExportCmd() *cobra.Command {
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the document as json, xlsx, pdf or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.contracts.Export(format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o750); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			path := filepath.Join(outDir, result.FileName)
			if err := os.WriteFile(path, result.Content, 0o640); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.log.Info().Str("file", path).Int("bytes", len(result.Content)).Msg("export written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", strings.Join(service.ExportFormats, ", "))
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func newImportCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-cities FILE",
		Short: "Import name,regional,center lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			count, err := a.contracts.ImportCities(cmd.Context(), string(text))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d cidades importadas com sucesso!\n", count)
			a.log.Info().Msg("a running server picks up the import after POST /document/reload")
			return nil
		},
	}
}

func newCostsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "costs",
		Short: "Print balance and OPEX/CAPEX totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			balance := a.contracts.Balance()
			totals := a.contracts.AggregateCosts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Valor Total do Contrato: %s\n", money.FormatCurrency(balance.Total))
			fmt.Fprintf(out, "Saldo Disponível: %s\n", money.FormatCurrency(balance.Available))
			fmt.Fprintf(out, "Total OPEX: %s\n", money.FormatCurrency(totals.OPEX))
			fmt.Fprintf(out, "Total CAPEX: %s\n", money.FormatCurrency(totals.CAPEX))
			fmt.Fprintf(out, "Total Geral: %s\n", money.FormatCurrency(totals.Sum()))
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token signed with JWT_ACCESS_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return fmt.Errorf("JWT_ACCESS_SECRET is not set")
			}
			token, err := auth.NewParser(cfg.Auth.AccessSecret).Issue(subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
