// cmd/plan/archives.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/supplyplan/internal/config"
	"github.com/andresuchdata/supplyplan/internal/storage"
	"github.com/andresuchdata/supplyplan/pkg/logger"
)

const archiveRootPrefix = "plans/"

// runArchives lists archived plan runs, and with --pull downloads every
// object under the given run prefix into --out.
func runArchives(c *cli.Context) error {
	ctx := c.Context
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	if !cfg.Storage.Enabled {
		return fmt.Errorf("object storage is not configured")
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}

	prefix := archiveRootPrefix + c.String("prefix")
	objects, err := client.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}
	if len(objects) == 0 {
		logger.Log.Info().Str("prefix", prefix).Msg("no archived plan outputs found")
		return nil
	}

	if !c.Bool("pull") {
		for _, obj := range objects {
			fmt.Printf("%s\t%d\n", obj.Key, obj.Size)
		}
		return nil
	}

	outDir := c.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	for _, obj := range objects {
		dest := filepath.Join(outDir, filepath.Base(obj.Key))
		if err := client.DownloadObject(ctx, obj.Key, dest); err != nil {
			return err
		}
		logger.Log.Info().Str("key", obj.Key).Str("dest", dest).Msg("downloaded plan output")
	}
	return nil
}
