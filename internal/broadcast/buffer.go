package broadcast

import "sync"

// recentBuffer keeps the newest items first, bounded at cap.
type recentBuffer[T any] struct {
	mu    sync.Mutex
	items []T
	cap   int
}

func newRecentBuffer[T any](capacity int) *recentBuffer[T] {
	return &recentBuffer[T]{cap: capacity}
}

func (b *recentBuffer[T]) Push(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]T{item}, b.items...)
	if len(b.items) > b.cap {
		b.items = b.items[:b.cap]
	}
}

func (b *recentBuffer[T]) Items() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, len(b.items))
	copy(out, b.items)
	return out
}
