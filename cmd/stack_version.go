package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lsmithpanw/pcs-where-is/internal/common"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

var stackVersionCmd = &cobra.Command{
	Use:   "stack-version",
	Short: "Print the platform version of every stack",
	Long:  `Print the platform version reported by every configured stack. The newest version is highlighted.`,
	Args:  cobra.NoArgs,
	RunE:  runStackVersion,
}

var stackVersionFormat string

func init() {
	rootCmd.AddCommand(stackVersionCmd)

	stackVersionCmd.Flags().StringVarP(&stackVersionFormat, "format", "f", "", "Output format (table, json)")
}

func runStackVersion(cmd *cobra.Command, args []string) error {
	opts := runOptions()
	opts.Format = stackVersionFormat

	setup, err := common.NewCommonSetup(opts)
	if err != nil {
		return err
	}

	versions, err := setup.Manager.StackVersions(cmd.Context())
	if err != nil {
		return err
	}

	formatter := utils.NewFormatter(setup.RunConfig.Format)
	if err := formatter.FormatStackVersions(versions, setup.Output); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}
