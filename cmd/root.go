package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/logger"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

var (
	cfgFile     string
	configErr   error
	debug       bool
	noColor     bool
	caBundle    string
	stackFilter string
	rootCmd     = &cobra.Command{
		Use:   "pcs-where-is",
		Short: "Locate platform tenants across multiple stacks",
		Long: `A CLI tool for reporting on tenants across multiple deployments ("stacks")
of the platform: stack versions, tenant lists, where a customer lives and who
its users are.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Set color output based on flag
			utils.SetColorOutput(!noColor && viper.GetBool("output.color"))
			if err := logger.InitLogger(debug); err != nil {
				return err
			}
			return configErr
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the running report.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Interrupted")
		} else {
			utils.ErrorFprintf(os.Stderr, "%v", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pcs-where-is.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&caBundle, "ca_bundle", "", "CA bundle file used to verify stack certificates (default $CA_BUNDLE)")
	rootCmd.PersistentFlags().StringVarP(&stackFilter, "stack", "s", "", "Only query the named stack")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// .env is optional
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pcs-where-is" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".pcs-where-is")
	}

	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("PCS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	if err := viper.BindEnv("ca_bundle", "PCS_CA_BUNDLE", "CA_BUNDLE"); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding CA bundle variable: %v\n", err)
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !stderrors.As(err, &notFound) {
			configErr = errors.NewConfigError("Error reading configuration file", err)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", utils.Info("Using config file:"), viper.ConfigFileUsed())
}

// runOptions collects the global flags into run options
func runOptions() config.Options {
	return config.Options{
		Debug:    debug,
		CABundle: caBundle,
		Stack:    stackFilter,
	}
}
