package dispatch

import (
	"context"
	"errors"
	"testing"
)

// ── Selection ──

func TestSelection_OpenOverwritesAndResetsDraft(t *testing.T) {
	sel := NewSelection()

	sel.Open("idea-001", ModeReject)
	sel.SetDraft("reason", "方向偏离")

	sel.Open("idea-002", ModeApprove)

	id, mode := sel.Current()
	if id != "idea-002" || mode != ModeApprove {
		t.Errorf("Open 应覆盖旧选中态，实际: %s/%s", id, mode)
	}
	if sel.Draft("reason") != "" {
		t.Error("为新实体打开对话框时旧草稿应被清空")
	}
}

func TestSelection_CloseClearsEverything(t *testing.T) {
	sel := NewSelection()
	sel.Open("group-001", ModeEdit)
	sel.SetDraft("name", "新名字")

	sel.Close()

	id, mode := sel.Current()
	if id != "" || mode != ModeNone {
		t.Error("Close 后应无选中实体")
	}
	if sel.Draft("name") != "" {
		t.Error("Close 应连同草稿一并清空")
	}
}

// ── Dispatcher ──

func TestDispatcher_SuccessClosesDialogAndRefetches(t *testing.T) {
	sel := NewSelection()
	sel.Open("proposal-001", ModeApprove)
	d := NewDispatcher(sel)

	refetched := 0
	err := d.Dispatch(context.Background(),
		func(_ context.Context) error { return nil },
		func(_ context.Context) { refetched++ },
		func(_ context.Context) { refetched++ },
	)

	if err != nil {
		t.Fatalf("Dispatch 应成功: %v", err)
	}
	if id, _ := sel.Current(); id != "" {
		t.Error("成功后对话框应关闭")
	}
	if refetched != 2 {
		t.Errorf("成功后应执行全部重拉，实际 %d 次", refetched)
	}
}

func TestDispatcher_FailurePreservesDialogSkipsRefetch(t *testing.T) {
	sel := NewSelection()
	sel.Open("schedule-001", ModeEdit)
	sel.SetDraft("room", "A301")
	d := NewDispatcher(sel)

	opErr := errors.New("排期已被他人修改")
	refetched := false
	err := d.Dispatch(context.Background(),
		func(_ context.Context) error { return opErr },
		func(_ context.Context) { refetched = true },
	)

	if !errors.Is(err, opErr) {
		t.Fatalf("失败应原样返回错误，实际: %v", err)
	}
	if id, mode := sel.Current(); id != "schedule-001" || mode != ModeEdit {
		t.Error("失败时对话框与选中态应原样保留")
	}
	if sel.Draft("room") != "A301" {
		t.Error("失败时草稿应保留，便于用户修正后重试")
	}
	if refetched {
		t.Error("失败时不应触发重拉")
	}
}

func TestDispatcher_SubmittingAlwaysReset(t *testing.T) {
	d := NewDispatcher(nil)

	var during bool
	d.Dispatch(context.Background(), func(_ context.Context) error {
		during = d.Submitting()
		return errors.New("任意失败")
	})

	if !during {
		t.Error("操作执行期间 Submitting 应为 true")
	}
	if d.Submitting() {
		t.Error("无论成败，Dispatch 返回后 Submitting 都应复位")
	}

	d.Dispatch(context.Background(), func(_ context.Context) error { return nil })
	if d.Submitting() {
		t.Error("成功路径同样应复位 Submitting")
	}
}

func TestDispatcher_NilSelection(t *testing.T) {
	d := NewDispatcher(nil)

	err := d.Dispatch(context.Background(), func(_ context.Context) error { return nil })
	if err != nil {
		t.Fatalf("无对话框场景下 Dispatch 应可用: %v", err)
	}
}
