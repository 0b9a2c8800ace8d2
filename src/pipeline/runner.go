package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron"

	"SheetClean/src/datasource/file"
	"SheetClean/src/storage"
)

// Runner 串行执行来自命令行、文件监控和定时任务的处理请求
type Runner struct {
	p          *Pipeline
	logger     *storage.Logger
	logMaxSize int64
	mu         sync.Mutex
}

// NewRunner 创建执行器
func NewRunner(p *Pipeline) *Runner {
	return &Runner{p: p, logger: p.logger, logMaxSize: p.cfg.LogMaxSize}
}

// RunOnce 执行一次处理, 日志文件过大时轮转
func (r *Runner) RunOnce() Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := r.p.Run()
	if rotated, err := r.logger.RotateIfLarger(r.logMaxSize); err != nil {
		r.logger.Error("log rotation failed", "error", err)
	} else if rotated {
		r.logger.Info("log file rotated")
	}
	return res
}

// Watch 输入文件变化时重新处理, 直到ctx结束
func (r *Runner) Watch(ctx context.Context) error {
	monitor, err := file.NewFileMonitor(r.p.cfg.Input)
	if err != nil {
		return fmt.Errorf("watch %s: %w", r.p.cfg.Input, err)
	}

	r.logger.Info("watching input file for changes, press Ctrl+C to exit", "path", r.p.cfg.Input)
	return monitor.Watch(ctx, func(path string) {
		r.logger.Info("input file changed", "path", path)
		r.RunOnce()
	})
}

// Schedule 按固定间隔重新处理, 直到ctx结束
func (r *Runner) Schedule(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %s", interval)
	}

	c := cron.New()
	cronSpec := fmt.Sprintf("@every %s", interval)
	if err := c.AddFunc(cronSpec, func() {
		r.logger.Info("scheduled run", "spec", cronSpec)
		r.RunOnce()
	}); err != nil {
		return fmt.Errorf("创建定时任务失败: %w", err)
	}

	c.Start()
	defer c.Stop()

	r.logger.Info("scheduler started, press Ctrl+C to exit", "interval", interval.String())
	<-ctx.Done()
	return nil
}
