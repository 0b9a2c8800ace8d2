package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"SheetClean/src/config"
	"SheetClean/src/pipeline"
	"SheetClean/src/storage"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetclean",
		Short: "Clean a CSV or XLSX spreadsheet",
		Long: `sheetclean loads a .csv or .xlsx file, removes duplicate rows, fills
missing values (median for numeric columns, most frequent value for text
columns, a fallback label otherwise), prints a descriptive summary and
writes the cleaned table to a new file.

Load, clean and save failures are logged and do not change the exit code.`,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.String("config", "", "JSON run configuration file")
	flags.StringP("input", "i", "", "input spreadsheet (.csv or .xlsx)")
	flags.StringP("output", "o", "", "output file")
	flags.StringP("format", "f", "", "output format: csv or xlsx")
	flags.String("log-file", "", "also write the log to this file")
	flags.String("log-level", "", "debug, info, warning or error")
	flags.Bool("watch", false, "re-run whenever the input file changes")
	flags.Duration("every", 0, "re-run on a fixed interval, e.g. 10m")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// 初始化日志系统
	logger, err := storage.NewLogger(cfg.LogName, os.Stdout, storage.ParseLevel(cfg.LogLevel))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Close()

	runner := pipeline.NewRunner(pipeline.New(cfg, logger, os.Stdout))
	runner.RunOnce()

	interval := time.Duration(cfg.CheckInterval)
	if !cfg.Watch && interval == 0 {
		return nil
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	go reopenOnHangup(ctx, logger)

	errs := make(chan error, 2)
	modes := 0
	if cfg.Watch {
		modes++
		go func() { errs <- runner.Watch(ctx) }()
	}
	if interval > 0 {
		modes++
		go func() { errs <- runner.Schedule(ctx, interval) }()
	}

	for ; modes > 0; modes-- {
		if err := <-errs; err != nil {
			logger.Error("stopped", "error", err)
			cancel()
		}
	}
	logger.Info("shutting down")
	return nil
}

// buildConfig 配置优先级: 命令行参数 > 环境变量 > 配置文件 > 默认值
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	for name, dst := range map[string]*string{
		"input":     &cfg.Input,
		"output":    &cfg.Output,
		"format":    &cfg.Format,
		"log-file":  &cfg.LogName,
		"log-level": &cfg.LogLevel,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("watch") {
		cfg.Watch, _ = flags.GetBool("watch")
	}
	if flags.Changed("every") {
		every, _ := flags.GetDuration("every")
		cfg.CheckInterval = config.Duration(every)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reopenOnHangup 收到 SIGHUP 时重新打开日志文件, 配合外部日志轮转
func reopenOnHangup(ctx context.Context, logger *storage.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			if err := logger.Reopen(); err != nil {
				logger.Error("failed to reopen log file", "error", err)
				continue
			}
			logger.Info("received SIGHUP, log file reopened")
		}
	}
}
