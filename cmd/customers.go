package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lsmithpanw/pcs-where-is/internal/common"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List the tenants of every stack",
	Long:  `List all tenants across the configured stacks with their IDs, serial number and license flags.`,
	Args:  cobra.NoArgs,
	RunE:  runCustomers,
}

var (
	customersFormat string
	customersFilter string
	customersCache  bool
)

func init() {
	rootCmd.AddCommand(customersCmd)

	customersCmd.Flags().StringVarP(&customersFormat, "format", "f", "", "Output format (table, json, csv)")
	customersCmd.Flags().StringVar(&customersFilter, "filter", "", "Only list tenants whose name, prisma ID, tenant ID or serial number contains this value")
	customersCmd.Flags().BoolVarP(&customersCache, "cache", "c", false, "Cache the tenant list of each stack for subsequent runs")
}

func runCustomers(cmd *cobra.Command, args []string) error {
	opts := runOptions()
	opts.Cache = customersCache
	opts.Format = customersFormat

	setup, err := common.NewCommonSetup(opts)
	if err != nil {
		return err
	}

	stacks, err := setup.Manager.ListCustomers(cmd.Context(), customersFilter)
	if err != nil {
		return err
	}

	// テーブル表示の場合のみキャッシュ状況を表示
	if setup.RunConfig.Format == "table" {
		cacheUsage := setup.Manager.GetCacheUsage()
		fmt.Fprintf(setup.Output, "%s: %s\n", utils.Info("Cache Directory"), utils.Highlight(setup.FileCache.GetCacheDir()))
		fmt.Fprintf(setup.Output, "%s: Cache=%s, API=%s\n",
			utils.Info("Cache Status"),
			strings.Join(cacheUsage.Hits, ","),
			strings.Join(cacheUsage.Misses, ","))
		fmt.Fprintln(setup.Output)
	}

	// 出力
	formatter := utils.NewFormatter(setup.RunConfig.Format)
	if err := formatter.FormatTenants(stacks, setup.Output); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}
