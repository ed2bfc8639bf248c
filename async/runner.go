// Package async 提供 panic 安全的并发原语，供模拟器扇出路径任务使用。
package async

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// ErrPanicRecovered 表示异步任务中恢复的 panic。
var ErrPanicRecovered = errors.New("async task panic recovered")

// SafeGo 安全地启动一个 goroutine，自动恢复 panic 并记录堆栈。
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				logPanic(rec)
			}
		}()
		fn()
	}()
}

func logPanic(rec any) {
	err := fmt.Errorf("%w: %v", ErrPanicRecovered, rec)
	slog.Error("async task panic recovered", "error", err, "stack", string(debug.Stack()))
}

// RunGroup 类似于 errgroup，但增加了 panic 恢复。
// 记录首个错误，Wait 返回它。
type RunGroup struct {
	err     error
	wg      sync.WaitGroup
	errOnce sync.Once
}

// Go 在组中启动一个任务。任务 panic 会被恢复并转为错误。
func (g *RunGroup) Go(fn func() error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				logPanic(rec)
				g.record(fmt.Errorf("%w: %v", ErrPanicRecovered, rec))
			}
		}()
		if err := fn(); err != nil {
			g.record(err)
		}
	}()
}

func (g *RunGroup) record(err error) {
	g.errOnce.Do(func() {
		g.err = err
	})
}

// Wait 等待所有任务完成，并返回第一个错误（如果有）。
func (g *RunGroup) Wait() error {
	g.wg.Wait()
	return g.err
}
