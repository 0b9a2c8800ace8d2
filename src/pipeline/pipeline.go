// Package pipeline 依次执行加载、清洗、统计和保存
//
// 各阶段的错误在阶段边界记录日志, 不会中断调用方:
// 加载失败时跳过后续阶段, 保存失败记录在 Result 中
package pipeline

import (
	"fmt"
	"io"

	"SheetClean/src/config"
	"SheetClean/src/datasource/file"
	"SheetClean/src/processor"
	"SheetClean/src/storage"
	"SheetClean/src/table"
)

// Result 一次运行的结果
type Result struct {
	Loaded  *table.Table // 原始表格, 清洗不会修改它
	Cleaned *table.Table
	Report  processor.Report
	Summary *processor.Summary
	LoadErr error
	SaveErr error
}

// Saved 输出文件是否已写入
func (r Result) Saved() bool {
	return r.Cleaned != nil && r.SaveErr == nil
}

// Pipeline 一次处理流程的配置、日志和统计输出
type Pipeline struct {
	cfg    *config.Config
	logger *storage.Logger
	out    io.Writer
}

// New 创建处理流程, out 接收统计结果
func New(cfg *config.Config, logger *storage.Logger, out io.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger, out: out}
}

// Run 执行一次完整的处理流程
func (p *Pipeline) Run() Result {
	var res Result
	defer p.logger.Info("processing complete")

	// 1. 加载
	p.logger.Info("loading spreadsheet", "path", p.cfg.Input)
	res.Loaded, res.LoadErr = file.Load(p.cfg.Input)
	if res.LoadErr != nil {
		p.logger.Error("failed to load spreadsheet", "path", p.cfg.Input, "error", res.LoadErr)
		p.logger.Warning("no data processed due to load error")
		return res
	}
	p.logger.Info("spreadsheet loaded", "rows", res.Loaded.Nrow(), "columns", res.Loaded.Ncol())

	// 2. 清洗, 使用副本以保留原始数据
	p.logger.Info("starting data cleaning")
	res.Cleaned, res.Report = processor.Clean(res.Loaded.Clone())
	p.logReport(res.Report)
	p.logger.Info("data cleaning complete")

	// 3. 分析
	res.Summary = processor.Describe(res.Cleaned)
	if res.Summary != nil && p.out != nil {
		fmt.Fprintln(p.out, res.Summary.Render())
	}

	// 4. 保存
	res.SaveErr = p.save(res.Cleaned)
	return res
}

func (p *Pipeline) save(t *table.Table) error {
	if t == nil {
		p.logger.Warning("no table to save")
		return file.ErrNoTable
	}
	if err := file.Save(t, p.cfg.Output, p.cfg.Format); err != nil {
		p.logger.Error("failed to save spreadsheet", "path", p.cfg.Output, "error", err)
		return err
	}
	p.logger.Info("processed spreadsheet saved", "path", p.cfg.Output, "format", p.cfg.Format)
	return nil
}

func (p *Pipeline) logReport(rep processor.Report) {
	if rep.Duplicates > 0 {
		p.logger.Info(fmt.Sprintf("removed %d duplicate rows", rep.Duplicates),
			"rows_before", rep.RowsBefore, "rows_after", rep.RowsBefore-rep.Duplicates)
	} else {
		p.logger.Info("no duplicate rows found")
	}

	p.logger.Info("checking and filling missing values")
	for _, c := range rep.Columns {
		switch c.Method {
		case processor.MethodNone:
			p.logger.Info("no missing values", "column", c.Name)
		case processor.MethodMedian:
			p.logger.Info("missing values filled with the median", "column", c.Name, "missing", c.Missing, "fill", c.Fill)
		case processor.MethodMode:
			p.logger.Info("missing values filled with the mode", "column", c.Name, "missing", c.Missing, "fill", c.Fill)
		default:
			p.logger.Info("missing values filled with a fallback label", "column", c.Name, "missing", c.Missing, "fill", c.Fill, "kind", c.Kind.String())
		}
	}
}
