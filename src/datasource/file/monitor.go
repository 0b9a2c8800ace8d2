// monitor.go
package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor 文件监控器
// 监听文件所在目录而不是文件本身, 编辑器保存时替换文件也能被发现
type FileMonitor struct {
	path    string
	watcher *fsnotify.Watcher
	lastMod time.Time
	mu      sync.Mutex
}

// NewFileMonitor 创建文件监控器, 文件所在目录必须存在
func NewFileMonitor(path string) (*FileMonitor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	m := &FileMonitor{path: abs, watcher: watcher}
	if info, err := os.Stat(abs); err == nil {
		m.lastMod = info.ModTime()
	}
	return m, nil
}

// Watch 监听文件变化, 文件被写入或创建且修改时间更新时调用handler
// handler在当前goroutine中执行; ctx结束时返回nil, 否则返回监听器的错误
func (m *FileMonitor) Watch(ctx context.Context, handler func(string)) error {
	defer m.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if m.changed() {
				handler(m.path)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (m *FileMonitor) changed() bool {
	info, err := os.Stat(m.path)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !info.ModTime().After(m.lastMod) {
		return false
	}
	m.lastMod = info.ModTime()
	return true
}
