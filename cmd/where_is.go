package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lsmithpanw/pcs-where-is/internal/common"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
	"github.com/lsmithpanw/pcs-where-is/internal/validation"
	"github.com/lsmithpanw/pcs-where-is/pkg/pcs"
)

var whereIsCmd = &cobra.Command{
	Use:   "where-is <customer|file>",
	Short: "Find which stack a customer is on",
	Long: `Search every configured stack for a customer by name, prisma ID, marketplace
tenant ID or serial number (case-insensitive substring match). The argument may
also name a file holding a JSON array of customers to look up in turn.`,
	Args: cobra.ExactArgs(1),
	RunE: runWhereIs,
}

var (
	whereIsCache  bool
	whereIsUsers  bool
	whereIsSort   string
	whereIsFormat string
)

func init() {
	rootCmd.AddCommand(whereIsCmd)

	whereIsCmd.Flags().BoolVarP(&whereIsCache, "cache", "c", false, "Cache the tenant list of each stack for subsequent runs")
	whereIsCmd.Flags().BoolVarP(&whereIsUsers, "users", "u", false, "Include the user list of each customer found")
	whereIsCmd.Flags().StringVar(&whereIsSort, "sort", validation.SortByName, "Sort users by name or login")
	whereIsCmd.Flags().StringVarP(&whereIsFormat, "format", "f", "", "Output format (table, json)")
}

func runWhereIs(cmd *cobra.Command, args []string) error {
	// 入力検証
	if err := validation.NewValidator().ValidateQuery(args[0]); err != nil {
		return err
	}

	queries, err := pcs.LoadQueries(args[0])
	if err != nil {
		return err
	}

	opts := runOptions()
	opts.Cache = whereIsCache
	opts.Users = whereIsUsers
	opts.Sort = whereIsSort
	opts.Format = whereIsFormat

	// 共通セットアップ
	setup, err := common.NewCommonSetup(opts)
	if err != nil {
		return err
	}

	formatter := utils.NewFormatterWithOptions(setup.RunConfig.Format, setup.RunConfig.Debug)
	search := pcs.SearchOptions{
		Match:        pcs.MatchSubstring,
		UsageUnits:   []string{models.UsageUnitDay, models.UsageUnitMonth, models.UsageUnitYear},
		IncludeUsers: setup.RunConfig.Users,
	}

	// JSON はバッチ全体を一つの配列として出力
	if setup.RunConfig.Format == "json" {
		var results []models.QueryResult
		err := setup.Manager.Search(cmd.Context(), queries, search, func(result models.QueryResult) error {
			results = append(results, result)
			return nil
		})
		if err != nil {
			return err
		}
		return formatter.FormatQueryResults(results, utils.WhereIsLabels, setup.Output)
	}

	return setup.Manager.Search(cmd.Context(), queries, search, func(result models.QueryResult) error {
		return formatter.FormatQueryResult(result, utils.WhereIsLabels, setup.Output)
	})
}
