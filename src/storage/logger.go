package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体
//
// 日志以slog文本格式写入控制台、日志文件(如已配置)和所有订阅者
type Logger struct {
	file        *os.File      // 日志文件句柄, 可为空
	filename    string        // 日志文件路径
	console     io.Writer     // 控制台输出
	mu          sync.Mutex    // 互斥锁，保证并发安全
	subscribers []chan string // 订阅者通道列表
	logger      *slog.Logger
}

// NewLogger 创建新的日志记录器
// 参数:
//
//	filename: 日志文件路径, 为空时只输出到控制台
//	console: 控制台输出, 为空时不输出
//	level: 最低输出级别
func NewLogger(filename string, console io.Writer, level LogLevel) (*Logger, error) {
	l := &Logger{filename: filename, console: console}

	if filename != "" {
		// 打开或创建日志文件，权限设置为0644
		file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", filename, err)
		}
		l.file = file
	}

	l.logger = slog.New(slog.NewTextHandler(l, &slog.HandlerOptions{
		Level:       level.slogLevel(),
		ReplaceAttr: replaceLevel,
	}))
	return l, nil
}

// Write 将一条格式化后的日志分发到控制台、文件和订阅者
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.console != nil {
		if _, err := l.console.Write(p); err != nil {
			return 0, err
		}
	}
	if l.file != nil {
		if _, err := l.file.Write(p); err != nil {
			return 0, err
		}
	}

	// 通知所有订阅者
	entry := string(p)
	for _, ch := range l.subscribers {
		select {
		case ch <- entry: // 尝试发送日志条目
		default: // 如果通道已满则跳过
		}
	}
	return len(p), nil
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Reopen 重新打开日志文件, 用于外部轮转后(SIGHUP)
func (l *Logger) Reopen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reopen()
}

func (l *Logger) reopen() error {
	if l.filename == "" {
		return nil
	}

	// 关闭旧文件
	if l.file != nil {
		_ = l.file.Close()
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		return fmt.Errorf("reopen log file %s: %w", l.filename, err)
	}
	l.file = file
	return nil
}

// RotateIfLarger 日志文件超过maxBytes时加时间戳重命名并新建文件
// maxBytes <= 0 时不轮转
func (l *Logger) RotateIfLarger(maxBytes int64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if maxBytes <= 0 || l.file == nil {
		return false, nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() <= maxBytes {
		return false, nil
	}

	_ = l.file.Close()
	l.file = nil
	ext := ""
	base := l.filename
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, string(os.PathSeparator)) {
		base, ext = l.filename[:i], l.filename[i:]
	}
	rotated := fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)
	if err := os.Rename(l.filename, rotated); err != nil {
		return false, err
	}
	return true, l.reopen()
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan string, 100)
	// 将新通道加入订阅者列表
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// Log 记录日志方法, args 为 slog 键值对
func (l *Logger) Log(level LogLevel, message string, args ...any) {
	l.logger.Log(context.Background(), level.slogLevel(), message, args...)
}

// String 实现LogLevel的String方法
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

const levelFatal = slog.Level(12)

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARNING:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	case FATAL:
		return levelFatal
	default:
		return slog.LevelInfo
	}
}

// ParseLevel 将级别名称转换为LogLevel, 无法识别时为INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARNING
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	switch lvl, _ := a.Value.Any().(slog.Level); {
	case lvl >= levelFatal:
		a.Value = slog.StringValue(FATAL.String())
	case lvl >= slog.LevelError:
		a.Value = slog.StringValue(ERROR.String())
	case lvl >= slog.LevelWarn:
		a.Value = slog.StringValue(WARNING.String())
	}
	return a
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string, args ...any)   { l.Log(DEBUG, msg, args...) }   // 记录调试信息
func (l *Logger) Info(msg string, args ...any)    { l.Log(INFO, msg, args...) }    // 记录普通信息
func (l *Logger) Warning(msg string, args ...any) { l.Log(WARNING, msg, args...) } // 记录警告信息
func (l *Logger) Error(msg string, args ...any)   { l.Log(ERROR, msg, args...) }   // 记录错误信息
func (l *Logger) Fatal(msg string, args ...any)   { l.Log(FATAL, msg, args...) }   // 记录致命错误
