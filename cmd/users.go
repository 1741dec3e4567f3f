package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lsmithpanw/pcs-where-is/internal/common"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
	"github.com/lsmithpanw/pcs-where-is/internal/validation"
	"github.com/lsmithpanw/pcs-where-is/pkg/pcs"
)

var usersCmd = &cobra.Command{
	Use:   "users <tenant-id>",
	Short: "List the users of a tenant",
	Long: `Look up a tenant by its exact prisma ID and print its details, credit usage
for the last month and its users with their last login.`,
	Args: cobra.ExactArgs(1),
	RunE: runUsers,
}

var (
	usersCache  bool
	usersSort   string
	usersFormat string
)

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().BoolVarP(&usersCache, "cache", "c", false, "Cache the tenant list of each stack for subsequent runs")
	usersCmd.Flags().StringVar(&usersSort, "sort", validation.SortByName, "Sort users by name or login")
	usersCmd.Flags().StringVarP(&usersFormat, "format", "f", "", "Output format (table, json)")
}

func runUsers(cmd *cobra.Command, args []string) error {
	// 入力検証
	if err := validation.NewValidator().ValidateTenantID(args[0]); err != nil {
		return err
	}

	opts := runOptions()
	opts.Cache = usersCache
	opts.Users = true
	opts.Sort = usersSort
	opts.Format = usersFormat

	// 共通セットアップ
	setup, err := common.NewCommonSetup(opts)
	if err != nil {
		return err
	}

	labels := utils.UsersLabels
	if setup.RunConfig.StackFilter != "" {
		labels = utils.UsersLabelsInStack(setup.RunConfig.StackFilter)
	}

	formatter := utils.NewFormatterWithOptions(setup.RunConfig.Format, setup.RunConfig.Debug)
	search := pcs.SearchOptions{
		Match:        pcs.MatchPrismaID,
		UsageUnits:   []string{models.UsageUnitMonth},
		IncludeUsers: true,
	}

	return setup.Manager.Search(cmd.Context(), []string{args[0]}, search, func(result models.QueryResult) error {
		return formatter.FormatQueryResult(result, labels, setup.Output)
	})
}
