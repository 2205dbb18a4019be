package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultTimeout 单次拉取的默认超时
const DefaultTimeout = 15 * time.Second

// DefaultErrorMessage 无法提取更具体信息时的兜底错误文案
const DefaultErrorMessage = "数据加载失败"

// Fetcher 一次远端拉取
type Fetcher[T any] func(ctx context.Context) (T, error)

// Snapshot 某一时刻的存储状态
type Snapshot[T any] struct {
	Data    T
	Loading bool
	Error   string
}

// Store 远端资源存储
// 持有一份服务端集合的本地副本及其 loading / error 标记。
// 每次 Load 发起且仅发起一次网络调用；新的 Load 会取消并作废
// 尚未完成的旧调用（后发优先），拉取失败只落为 error 文案，
// 绝不向调用方抛出
type Store[T any] struct {
	mu      sync.Mutex
	data    T
	loading bool
	err     string
	gen     uint64
	cancel  context.CancelFunc
	timeout time.Duration
}

// New 创建 Store，使用默认 15 秒超时
func New[T any]() *Store[T] {
	return &Store[T]{timeout: DefaultTimeout}
}

// NewWithTimeout 创建指定超时的 Store
func NewWithTimeout[T any](timeout time.Duration) *Store[T] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Store[T]{timeout: timeout}
}

// Load 执行一次拉取并阻塞到完成
// 若执行期间有更新的 Load 发起，本次结果被丢弃（不覆盖状态）。
// 返回值仅表示本次调用是否生效写入；错误一律收敛到 Error 字段
func (s *Store[T]) Load(ctx context.Context, fetch Fetcher[T]) bool {
	s.mu.Lock()
	s.gen++
	myGen := s.gen
	if s.cancel != nil {
		// 取消被取代的旧拉取
		s.cancel()
	}
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	s.cancel = cancel
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	data, err := fetch(fetchCtx)
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	// 已被更新的拉取取代，丢弃本次结果
	if myGen != s.gen {
		return false
	}

	s.loading = false
	if err != nil {
		var zero T
		s.data = zero
		s.err = errorMessage(err)
		return true
	}
	s.data = data
	s.err = ""
	return true
}

// Snapshot 返回当前状态的一致快照
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{Data: s.data, Loading: s.loading, Error: s.err}
}

// Data 当前数据
func (s *Store[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Loading 是否有拉取在途
func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error 最近一次拉取的错误文案；空串表示成功
func (s *Store[T]) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// errorMessage 提取人类可读的错误文案
// 优先级：带 UserMessage() 的结构化错误 → error 文本 → 兜底文案
func errorMessage(err error) string {
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}
