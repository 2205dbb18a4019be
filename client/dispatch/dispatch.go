package dispatch

import (
	"context"
	"sync"
)

// Mode 对话框模式
type Mode string

const (
	ModeNone     Mode = ""
	ModeView     Mode = "view"
	ModeCreate   Mode = "create"
	ModeEdit     Mode = "edit"
	ModeApprove  Mode = "approve"
	ModeReject   Mode = "reject"
	ModeTransfer Mode = "transfer"
	ModeDelete   Mode = "delete"
	ModeComment  Mode = "comment"
)

// Selection 对话框/选中实体上下文
// 同一页面同一时刻至多打开一个对话框、选中一个实体；
// 为新实体打开对话框会覆盖旧的选中态，关闭时连同表单草稿一并清空，
// 避免旧草稿泄漏到下一次打开
type Selection struct {
	mu       sync.Mutex
	entityID string
	mode     Mode
	draft    map[string]string
}

// NewSelection 创建 Selection
func NewSelection() *Selection {
	return &Selection{draft: make(map[string]string)}
}

// Open 为某实体打开对话框，覆盖旧选中态并重置草稿
func (s *Selection) Open(entityID string, mode Mode) {
	s.mu.Lock()
	s.entityID = entityID
	s.mode = mode
	s.draft = make(map[string]string)
	s.mu.Unlock()
}

// Close 关闭对话框：清空选中实体与全部草稿
func (s *Selection) Close() {
	s.mu.Lock()
	s.entityID = ""
	s.mode = ModeNone
	s.draft = make(map[string]string)
	s.mu.Unlock()
}

// Current 当前选中实体与模式
func (s *Selection) Current() (entityID string, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entityID, s.mode
}

// SetDraft 写入表单草稿字段
func (s *Selection) SetDraft(field, value string) {
	s.mu.Lock()
	s.draft[field] = value
	s.mu.Unlock()
}

// Draft 读取表单草稿字段
func (s *Selection) Draft(field string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft[field]
}

// Operation 一次 REST 写操作
type Operation func(ctx context.Context) error

// Refetch 一次受影响存储的重新拉取
type Refetch func(ctx context.Context)

// Dispatcher 变更派发器
// 每次 Dispatch 恰好执行一次 REST 写：
//   - 成功：关闭对话框、清空草稿，并重新拉取所有可能失效的存储
//     （整表重拉而非就地打补丁，以一致性换网络开销）
//   - 失败：对话框与草稿原样保留，存储不动，错误返回给调用方展示
//   - 无论成败，submitting 标记最终都会复位
type Dispatcher struct {
	mu         sync.Mutex
	submitting bool
	selection  *Selection
}

// NewDispatcher 创建 Dispatcher；selection 可为 nil（无对话框场景）
func NewDispatcher(selection *Selection) *Dispatcher {
	return &Dispatcher{selection: selection}
}

// Submitting 是否有变更在途
func (d *Dispatcher) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// Dispatch 执行一次变更
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation, refetches ...Refetch) error {
	d.mu.Lock()
	d.submitting = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.submitting = false
		d.mu.Unlock()
	}()

	if err := op(ctx); err != nil {
		return err
	}

	if d.selection != nil {
		d.selection.Close()
	}
	for _, refetch := range refetches {
		refetch(ctx)
	}
	return nil
}
