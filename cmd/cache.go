package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/lsmithpanw/pcs-where-is/internal/cache"
	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/utils"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache management commands",
	Long:  `Manage the cached tenant lists shared by every report.`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached tenant lists",
	Long:  `Remove every cached tenant list from the cache directory.`,
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache status",
	Long:  `Show every cached tenant list with its age, size and whether it has expired.`,
	Args:  cobra.NoArgs,
	RunE:  runCacheStatus,
}

var cacheStatusFormat string

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	cacheStatusCmd.Flags().StringVarP(&cacheStatusFormat, "format", "f", "table", "Output format (table, json)")
}

func openCache() (*config.Config, *cache.FileCache, error) {
	// 設定読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cache.NewFileCache(cfg.Cache.Directory, cfg.Cache.TTL, true), nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	_, fileCache, err := openCache()
	if err != nil {
		return err
	}

	// キャッシュクリア実行
	if err := fileCache.ClearCache(); err != nil {
		return errors.NewCacheError("failed to clear cache", err)
	}

	fmt.Printf("Cache cleared successfully from directory: %s\n", fileCache.GetCacheDir())
	return nil
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	cfg, fileCache, err := openCache()
	if err != nil {
		return err
	}

	entries, err := fileCache.Status()
	if err != nil {
		return errors.NewCacheError("failed to read cache status", err)
	}

	formatter := utils.NewFormatter(cacheStatusFormat)
	if cacheStatusFormat == "json" {
		return formatter.FormatCacheEntries(entries, os.Stdout)
	}

	fmt.Printf("=== Cache Status ===\n\n")
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Directory: %s\n", utils.Highlight(fileCache.GetCacheDir()))
	fmt.Printf("  TTL: %s\n", cfg.Cache.TTL)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No cached tenant lists")
		return nil
	}

	if err := formatter.FormatCacheEntries(entries, os.Stdout); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
	}
	fmt.Printf("\nTotal Size: %s\n", humanize.Bytes(uint64(total)))
	return nil
}
