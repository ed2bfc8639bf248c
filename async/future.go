package async

import (
	"context"
	"sync"
)

// Future 代表一个异步计算的结果。
type Future[T any] struct {
	result T
	err    error
	done   chan struct{}
	once   sync.Once
}

// NewFuture 异步执行 fn 并返回承载其结果的 Future。
// 传入的 context 控制计算本身，Get 的 context 只控制等待。
func NewFuture[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := &Future[T]{
		done: make(chan struct{}),
	}
	SafeGo(func() {
		defer f.once.Do(func() { close(f.done) })
		res, err := fn(ctx)
		f.result = res
		f.err = err
	})
	return f
}

// Get 阻塞等待计算完成并返回结果。
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.done:
		return f.result, f.err
	}
}
