package cmd

import (
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid"
	"github.com/spf13/cobra"

	"github.com/yeisme/mediavault/pkg/internal/engine"
	"github.com/yeisme/mediavault/pkg/internal/library"
	"github.com/yeisme/mediavault/pkg/internal/types"
)

var (
	scanShowAll bool

	// 离线扫描本地目录并输出重复聚类结果，不依赖服务端.
	scanCmd = &cobra.Command{
		Use:   "scan <dir>",
		Short: "scan a local directory and report duplicate clusters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocalScan(cmd, args[0])
		},
	}
)

type localScanReport struct {
	Scanned     int               `json:"scanned"`
	Duplicates  int               `json:"duplicates"`
	WastedBytes int64             `json:"wasted_bytes"`
	Files       []types.MediaFile `json:"files,omitempty"`
}

func runLocalScan(cmd *cobra.Command, dir string) error {
	lib := library.New(engine.Options{})
	entropy := ulid.Monotonic(crand.Reader, 0)

	var files []types.MediaFile

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		mtime := info.ModTime().UnixMilli()

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		files = append(files, types.MediaFile{
			ID:           ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
			Name:         d.Name(),
			Size:         info.Size(),
			Type:         mime.TypeByExtension(filepath.Ext(path)),
			LastModified: mtime,
			Status:       types.StatusHealthy,
			Hash:         engine.Fingerprint(f, info.Size(), mtime, d.Name()),
			RelativePath: filepath.ToSlash(rel),
		})

		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", dir, err)
	}

	lib.Upsert(files)

	report := localScanReport{Scanned: len(files)}

	for _, f := range lib.Snapshot() {
		if f.Status == types.StatusDuplicate {
			report.Duplicates++
			report.WastedBytes += f.Size
		}
	}

	if scanShowAll {
		report.Files = lib.Snapshot()
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(b))

	return nil
}

// registerScanCommands 注册本地扫描命令.
func registerScanCommands() {
	scanCmd.Flags().BoolVar(&scanShowAll, "all", false, "include every record in the output")

	rootCmd.AddCommand(scanCmd)
}
