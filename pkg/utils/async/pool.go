package async

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/m-mizutani/ctxlog"
)

// ForEach runs fn for every item with at most limit concurrent workers.
//
// Behavior:
//   - Panics in fn are recovered and logged so one bad item cannot take
//     down the run
//   - Context cancellation stops submitting new items; in-flight workers
//     are waited for
//   - Completion order is unspecified; callers must not rely on it
func ForEach[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T)) {
	if limit < 1 {
		limit = 1
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for _, item := range items {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(item T) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					ctxlog.From(ctx).Error("panic in async worker",
						"recover", r,
						"stack", string(debug.Stack()))
				}
			}()

			fn(ctx, item)
		}(item)
	}

	wg.Wait()
}
