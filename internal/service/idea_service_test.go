package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 测试辅助 ──

func setupTestIdeaService() (IdeaService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewIdeaService(repo, zap.NewNop())
	return svc, repo
}

func seedSupervisor(repo *repository.Repository, id string) {
	repo.User.Create(context.Background(), &model.User{
		UserID: id, Name: "导师" + id, Email: id + "@uni.edu", Role: model.RoleSupervisor,
	})
}

func seedGroupWithLeader(repo *repository.Repository, groupID, leaderID string) *model.Group {
	seedStudents(repo, leaderID)
	group := &model.Group{
		GroupID:  groupID,
		Name:     "组-" + groupID,
		LeaderID: leaderID,
		Status:   model.GroupStatusPending,
	}
	repo.Group.CreateWithMembers(context.Background(), group, nil)
	return group
}

// ── 发布与选用 ──

func TestIdeaService_CreateIdea_BornApproved(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")

	result, err := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{
		Title: "基于图的排课优化",
	})
	if err != nil {
		t.Fatalf("CreateIdea 应成功: %v", err)
	}
	if result.IdeaStatus != model.IdeaStatusApproved {
		t.Errorf("导师发布的选题无需审核，期望 approved，实际=%s", result.IdeaStatus)
	}
	if result.Source != model.IdeaSourceSupervisor {
		t.Errorf("期望来源 supervisor，实际=%s", result.Source)
	}

	// 发布即进入可选列表
	available, _ := svc.ListAvailable(context.Background())
	if len(available) != 1 {
		t.Errorf("新发布选题应可被选用，实际可选 %d 条", len(available))
	}
}

func TestIdeaService_SelectIdea_Success(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "课题甲甲甲"})

	result, err := svc.SelectIdea(context.Background(), "stu-1", &dto.SelectIdeaRequest{IdeaID: idea.ID})
	if err != nil {
		t.Fatalf("SelectIdea 应成功: %v", err)
	}
	if result.ID != idea.ID {
		t.Errorf("应返回选中的选题，实际=%s", result.ID)
	}

	// 小组被激活并挂上选题导师
	group, _ := repo.Group.GetByID(context.Background(), "group-a")
	if group.Status != model.GroupStatusActive {
		t.Errorf("选题确定后小组应转入 active，实际=%s", group.Status)
	}
	if group.SupervisorID == nil || *group.SupervisorID != "sup-1" {
		t.Error("小组应挂上选题所属导师")
	}

	// 被选中的选题从可选列表下架
	available, _ := svc.ListAvailable(context.Background())
	if len(available) != 0 {
		t.Errorf("被选中选题不应再出现在可选列表，实际 %d 条", len(available))
	}
}

func TestIdeaService_SelectIdea_Taken(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")
	seedGroupWithLeader(repo, "group-b", "stu-2")

	idea, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "热门课题一"})
	svc.SelectIdea(context.Background(), "stu-1", &dto.SelectIdeaRequest{IdeaID: idea.ID})

	_, err := svc.SelectIdea(context.Background(), "stu-2", &dto.SelectIdeaRequest{IdeaID: idea.ID})
	if !errors.Is(err, ErrIdeaTaken) {
		t.Errorf("期望 ErrIdeaTaken，实际: %v", err)
	}
}

func TestIdeaService_SelectIdea_GroupAlreadyHasIdea(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	first, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "课题一号"})
	second, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "课题二号"})

	svc.SelectIdea(context.Background(), "stu-1", &dto.SelectIdeaRequest{IdeaID: first.ID})

	_, err := svc.SelectIdea(context.Background(), "stu-1", &dto.SelectIdeaRequest{IdeaID: second.ID})
	if !errors.Is(err, ErrGroupHasIdea) {
		t.Errorf("期望 ErrGroupHasIdea，实际: %v", err)
	}
}

func TestIdeaService_SelectIdea_NoGroup(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedStudents(repo, "stu-loner")

	idea, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "无人问津课题"})

	_, err := svc.SelectIdea(context.Background(), "stu-loner", &dto.SelectIdeaRequest{IdeaID: idea.ID})
	if !errors.Is(err, ErrNoGroup) {
		t.Errorf("期望 ErrNoGroup，实际: %v", err)
	}
}

// ── 自拟选题审核 ──

func TestIdeaService_RequestCustomIdea_Pending(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	result, err := svc.RequestCustomIdea(context.Background(), "stu-1", &dto.RequestCustomIdeaRequest{
		Title:        "自拟课题方向",
		Description:  "想做一个校园导航应用",
		SupervisorID: "sup-1",
	})
	if err != nil {
		t.Fatalf("RequestCustomIdea 应成功: %v", err)
	}
	if result.IdeaStatus != model.IdeaStatusPending {
		t.Errorf("自拟选题应为 pending 等待审核，实际=%s", result.IdeaStatus)
	}
	if result.Source != model.IdeaSourceCustom {
		t.Errorf("期望来源 custom，实际=%s", result.Source)
	}

	// 审核前小组不应被激活
	group, _ := repo.Group.GetByID(context.Background(), "group-a")
	if group.Status != model.GroupStatusPending {
		t.Errorf("待审期间小组不应激活，实际=%s", group.Status)
	}

	pending, _ := svc.ListPendingCustom(context.Background(), "sup-1")
	if len(pending) != 1 {
		t.Errorf("目标导师应看到 1 条待审选题，实际 %d", len(pending))
	}
}

func TestIdeaService_Approve_ActivatesGroup(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.RequestCustomIdea(context.Background(), "stu-1", &dto.RequestCustomIdeaRequest{
		Title: "自拟课题方向", Description: "desc", SupervisorID: "sup-1",
	})

	result, err := svc.Approve(context.Background(), "sup-1", idea.ID, "方向可行")
	if err != nil {
		t.Fatalf("Approve 应成功: %v", err)
	}
	if result.IdeaStatus != model.IdeaStatusApproved {
		t.Errorf("期望 approved，实际=%s", result.IdeaStatus)
	}
	if result.Feedback != "方向可行" {
		t.Errorf("评语应落库，实际=%s", result.Feedback)
	}

	group, _ := repo.Group.GetByID(context.Background(), "group-a")
	if group.Status != model.GroupStatusActive {
		t.Errorf("审核通过后小组应激活，实际=%s", group.Status)
	}
	if group.SupervisorID == nil || *group.SupervisorID != "sup-1" {
		t.Error("审核通过后小组应挂上审核导师")
	}
}

func TestIdeaService_Reject_RequiresReason(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.RequestCustomIdea(context.Background(), "stu-1", &dto.RequestCustomIdeaRequest{
		Title: "自拟课题方向", Description: "desc", SupervisorID: "sup-1",
	})

	for _, reason := range []string{"", "   ", "\t"} {
		if _, err := svc.Reject(context.Background(), "sup-1", idea.ID, reason); !errors.Is(err, ErrRejectReasonMissing) {
			t.Errorf("原因 %q 应触发 ErrRejectReasonMissing，实际: %v", reason, err)
		}
	}

	result, err := svc.Reject(context.Background(), "sup-1", idea.ID, "范围过大，建议收窄")
	if err != nil {
		t.Fatalf("带原因的 Reject 应成功: %v", err)
	}
	if result.IdeaStatus != model.IdeaStatusRejected {
		t.Errorf("期望 rejected，实际=%s", result.IdeaStatus)
	}
	if result.RejectReason != "范围过大，建议收窄" {
		t.Errorf("拒绝原因应落库，实际=%s", result.RejectReason)
	}
}

func TestIdeaService_Review_TerminalStateLocked(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.RequestCustomIdea(context.Background(), "stu-1", &dto.RequestCustomIdeaRequest{
		Title: "自拟课题方向", Description: "desc", SupervisorID: "sup-1",
	})
	svc.Reject(context.Background(), "sup-1", idea.ID, "不可行")

	// rejected 为终态，不可再审
	if _, err := svc.Approve(context.Background(), "sup-1", idea.ID, ""); !errors.Is(err, ErrIdeaTerminal) {
		t.Errorf("终态选题不可再通过，实际: %v", err)
	}
	if _, err := svc.Reject(context.Background(), "sup-1", idea.ID, "再拒一次"); !errors.Is(err, ErrIdeaTerminal) {
		t.Errorf("终态选题不可再拒绝，实际: %v", err)
	}
}

func TestIdeaService_Review_OnlyOwner(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedSupervisor(repo, "sup-2")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.RequestCustomIdea(context.Background(), "stu-1", &dto.RequestCustomIdeaRequest{
		Title: "自拟课题方向", Description: "desc", SupervisorID: "sup-1",
	})

	if _, err := svc.Approve(context.Background(), "sup-2", idea.ID, ""); !errors.Is(err, ErrNotIdeaOwner) {
		t.Errorf("他人名下选题不可审核，实际: %v", err)
	}
}

// ── 删除 ──

func TestIdeaService_DeleteIdea_TakenBlocked(t *testing.T) {
	svc, repo := setupTestIdeaService()
	seedSupervisor(repo, "sup-1")
	seedGroupWithLeader(repo, "group-a", "stu-1")

	idea, _ := svc.CreateIdea(context.Background(), "sup-1", &dto.CreateIdeaRequest{Title: "课题甲甲甲"})
	svc.SelectIdea(context.Background(), "stu-1", &dto.SelectIdeaRequest{IdeaID: idea.ID})

	if err := svc.DeleteIdea(context.Background(), "sup-1", idea.ID); !errors.Is(err, ErrIdeaTaken) {
		t.Errorf("已被选用的选题不可删除，实际: %v", err)
	}
}
