package common

import (
	"io"
	"os"

	"github.com/lsmithpanw/pcs-where-is/internal/cache"
	"github.com/lsmithpanw/pcs-where-is/internal/config"
	"github.com/lsmithpanw/pcs-where-is/internal/platform"
	"github.com/lsmithpanw/pcs-where-is/pkg/pcs"
)

// CommonSetup contains all the common components needed by report commands
type CommonSetup struct {
	Config    *config.Config
	RunConfig config.RunConfig
	Client    *platform.Client
	FileCache *cache.FileCache
	Manager   *pcs.Manager
	// Output receives the report itself
	Output io.Writer
	// Progress receives progress lines and failure reports from both the
	// manager and the client
	Progress io.Writer
}

// NewCommonSetup loads the configuration, validates it against the command
// line and wires the report components. Every configuration error surfaces
// here, before any network activity.
func NewCommonSetup(opts config.Options) (*CommonSetup, error) {
	// 設定読み込み
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	return newCommonSetup(cfg, opts, os.Stdout, os.Stderr)
}

func newCommonSetup(cfg *config.Config, opts config.Options, stdout, stderr io.Writer) (*CommonSetup, error) {
	rc, err := config.BuildRunConfig(cfg, opts)
	if err != nil {
		return nil, err
	}

	// json/csv の出力を壊さないよう、進捗とエラーは stderr へ
	progress := stdout
	if rc.Format != "table" {
		progress = stderr
	}

	client := platform.NewClient(rc, platform.WithOutput(progress))
	fileCache := cache.NewFileCache(rc.CacheDir, rc.CacheTTL, rc.CacheEnabled)
	manager := pcs.NewManager(client, fileCache, rc)
	manager.SetOutput(progress)

	return &CommonSetup{
		Config:    cfg,
		RunConfig: rc,
		Client:    client,
		FileCache: fileCache,
		Manager:   manager,
		Output:    stdout,
		Progress:  progress,
	}, nil
}
