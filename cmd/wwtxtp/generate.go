package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"wwtxtp/internal/config"
	"wwtxtp/internal/generator"
	"wwtxtp/internal/logging"
	"wwtxtp/internal/report"
)

func newGenerateCommand(configFlag *string) *cobra.Command {
	var outDir string
	var dryRun bool
	var unused bool
	var noUnused bool

	cmd := &cobra.Command{
		Use:   "generate [bank dump paths...]",
		Short: "Render artifacts from parsed bank dumps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			if outDir != "" {
				expanded, err := config.ExpandPath(outDir)
				if err != nil {
					return err
				}
				cfg.Paths.OutDir = expanded
			}
			if dryRun {
				cfg.Generate.DryRun = true
			}
			if unused {
				cfg.Generate.GenerateUnused = true
			}
			if noUnused {
				cfg.Generate.GenerateUnused = false
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, closeLog, err := newRunLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			gen := generator.New(cfg, logger)
			summary, err := gen.Run(cmd.Context(), args)
			if err != nil {
				logger.Error("generation failed", logging.Error(err))
				return err
			}
			return report.Write(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Artifact output directory (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without writing artifact files")
	cmd.Flags().BoolVar(&unused, "unused", false, "Force the unused-object pass on")
	cmd.Flags().BoolVar(&noUnused, "no-unused", false, "Force the unused-object pass off")

	return cmd
}

// newRunLogger logs to stderr and to a timestamped file in the log
// directory. Console format falls back to JSON when stderr is not a
// terminal.
func newRunLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	format := cfg.Logging.Format
	if format == "console" && !isatty.IsTerminal(os.Stderr.Fd()) {
		format = "json"
	}

	logPath := filepath.Join(cfg.Paths.LogDir,
		fmt.Sprintf("wwtxtp-%s.log", time.Now().UTC().Format("20060102-150405")))
	file, err := logging.FileWriter(logPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: format,
		Writer: io.MultiWriter(os.Stderr, file),
	})
	if err != nil {
		return nil, nil, err
	}

	closeLog := func() {
		if closer, ok := file.(io.Closer); ok {
			_ = closer.Close()
		}
	}
	return logger, closeLog, nil
}
