package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"fyp-portal/config"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/pkg/storage"
)

// ── 测试辅助 ──

func setupTestSubmissionService(t *testing.T) (SubmissionService, *repository.Repository) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.BaseURL = "http://localhost:8080"
	cfg.Storage.UploadDir = t.TempDir()

	store, err := storage.NewStore(&cfg.Storage)
	if err != nil {
		t.Fatalf("创建附件存储失败: %v", err)
	}

	repo := newMockRepository()
	svc := NewSubmissionService(cfg, repo, store, zap.NewNop())
	return svc, repo
}

func seedSupervisedGroup(repo *repository.Repository, groupID, leaderID, supervisorID string) {
	seedStudents(repo, leaderID)
	repo.Group.CreateWithMembers(context.Background(), &model.Group{
		GroupID:      groupID,
		Name:         "组-" + groupID,
		LeaderID:     leaderID,
		SupervisorID: &supervisorID,
		Status:       model.GroupStatusActive,
	}, nil)
}

func pdf() *strings.Reader { return strings.NewReader("%PDF-1.4 test") }

// ── 提案版本序列 ──

func TestSubmissionService_UploadProposal_VersionsIncrement(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	v1, err := svc.UploadProposal(context.Background(), "stu-1", "proposal_v1.pdf", pdf())
	if err != nil {
		t.Fatalf("首次上传应成功: %v", err)
	}
	if v1.Version != 1 || v1.Status != model.ProposalStatusDraft {
		t.Errorf("首版应为 v1 草稿，实际: v%d/%s", v1.Version, v1.Status)
	}

	v2, err := svc.UploadProposal(context.Background(), "stu-1", "proposal_v2.pdf", pdf())
	if err != nil {
		t.Fatalf("再次上传应成功: %v", err)
	}
	if v2.Version != 2 {
		t.Errorf("版本号应自增到 2，实际=%d", v2.Version)
	}
	if v2.FileURL == "" || !strings.HasPrefix(v2.FileURL, "http://localhost:8080/uploads/") {
		t.Errorf("应返回完整下载 URL，实际: %s", v2.FileURL)
	}
}

func TestSubmissionService_UploadProposal_ApprovedBlocks(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	p, _ := svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")
	if _, err := svc.ApproveProposal(context.Background(), "sup-1", p.ID, "通过"); err != nil {
		t.Fatalf("审核通过应成功: %v", err)
	}

	_, err := svc.UploadProposal(context.Background(), "stu-1", "proposal_v2.pdf", pdf())
	if !errors.Is(err, ErrProposalTerminal) {
		t.Errorf("提案通过后不可再传新版本，实际: %v", err)
	}
}

func TestSubmissionService_SubmitProposal_RequiresDraft(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	// 尚无任何提案
	if _, err := svc.SubmitProposal(context.Background(), "stu-1"); !errors.Is(err, ErrNoDraftProposal) {
		t.Errorf("无草稿时提交应失败，实际: %v", err)
	}

	svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	result, err := svc.SubmitProposal(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("提交应成功: %v", err)
	}
	if result.Status != model.ProposalStatusSubmitted {
		t.Errorf("期望 submitted，实际=%s", result.Status)
	}

	// 已提交不可重复提交
	if _, err := svc.SubmitProposal(context.Background(), "stu-1"); !errors.Is(err, ErrNoDraftProposal) {
		t.Errorf("重复提交应失败，实际: %v", err)
	}
}

func TestSubmissionService_RejectedProposal_AllowsNewVersion(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	p, _ := svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")
	if _, err := svc.RejectProposal(context.Background(), "sup-1", p.ID, "结构不完整"); err != nil {
		t.Fatalf("驳回应成功: %v", err)
	}

	v2, err := svc.UploadProposal(context.Background(), "stu-1", "proposal_v2.pdf", pdf())
	if err != nil {
		t.Fatalf("被驳回后应可上传修订版: %v", err)
	}
	if v2.Version != 2 || v2.Status != model.ProposalStatusDraft {
		t.Errorf("修订版应为 v2 草稿，实际: v%d/%s", v2.Version, v2.Status)
	}
}

// ── 导师可见性与审核 ──

func TestSubmissionService_ListProposals_DraftsHidden(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")
	seedSupervisedGroup(repo, "group-b", "stu-2", "sup-1")

	svc.UploadProposal(context.Background(), "stu-1", "draft.pdf", pdf()) // 仅草稿
	svc.UploadProposal(context.Background(), "stu-2", "submitted.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-2")

	result, err := svc.ListProposals(context.Background(), "sup-1")
	if err != nil {
		t.Fatalf("ListProposals 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("导师不应看到草稿，期望 1 条，实际 %d", len(result))
	}
	if result[0].Status != model.ProposalStatusSubmitted {
		t.Errorf("可见提案应为 submitted，实际=%s", result[0].Status)
	}
}

func TestSubmissionService_RejectProposal_RequiresReason(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	p, _ := svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")

	if _, err := svc.RejectProposal(context.Background(), "sup-1", p.ID, "   "); !errors.Is(err, ErrRejectReasonMissing) {
		t.Errorf("空白原因应被拒绝，实际: %v", err)
	}
}

func TestSubmissionService_ReviewProposal_OnlyGroupSupervisor(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	p, _ := svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")

	if _, err := svc.ApproveProposal(context.Background(), "sup-2", p.ID, ""); !errors.Is(err, ErrNotGroupSupervisor) {
		t.Errorf("非指导导师不可审核，实际: %v", err)
	}
}

func TestSubmissionService_ReviewProposal_DraftNotReviewable(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	p, _ := svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())

	if _, err := svc.ApproveProposal(context.Background(), "sup-1", p.ID, ""); !errors.Is(err, ErrProposalNotSubmitted) {
		t.Errorf("草稿不可审核，实际: %v", err)
	}
}

// ── 文档上传门槛 ──

func TestSubmissionService_Documents_GatedOnProposal(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")

	// 无提案：门槛关闭
	docs, err := svc.GetMyDocuments(context.Background(), "stu-1")
	if err != nil {
		t.Fatalf("GetMyDocuments 应成功: %v", err)
	}
	if docs.CanUploadDocuments {
		t.Error("未提交提案时上传应未解锁")
	}
	if _, err := svc.UploadDocument(context.Background(), "stu-1", "report", "", "r.pdf", pdf()); !errors.Is(err, ErrDocumentsLocked) {
		t.Errorf("门槛未解锁时上传应失败，实际: %v", err)
	}

	// 仅草稿：仍然关闭
	svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	docs, _ = svc.GetMyDocuments(context.Background(), "stu-1")
	if docs.CanUploadDocuments {
		t.Error("草稿提案不应解锁文档上传")
	}

	// 提交后解锁
	svc.SubmitProposal(context.Background(), "stu-1")
	docs, _ = svc.GetMyDocuments(context.Background(), "stu-1")
	if !docs.CanUploadDocuments {
		t.Error("提案提交后应解锁文档上传")
	}

	result, err := svc.UploadDocument(context.Background(), "stu-1", "report", "第一章", "r.pdf", pdf())
	if err != nil {
		t.Fatalf("解锁后上传应成功: %v", err)
	}
	if result.Version != 1 || result.Status != model.DocumentStatusPending {
		t.Errorf("新文档应为 v1 待审，实际: v%d/%s", result.Version, result.Status)
	}
}

func TestSubmissionService_UploadDocument_VersionPerType(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")
	svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")

	svc.UploadDocument(context.Background(), "stu-1", "report", "", "r1.pdf", pdf())
	second, _ := svc.UploadDocument(context.Background(), "stu-1", "report", "", "r2.pdf", pdf())
	other, _ := svc.UploadDocument(context.Background(), "stu-1", "slides", "", "s1.pdf", pdf())

	if second.Version != 2 {
		t.Errorf("同类型文档版本应自增，实际=%d", second.Version)
	}
	if other.Version != 1 {
		t.Errorf("不同类型文档版本独立计数，实际=%d", other.Version)
	}
}

func TestSubmissionService_RejectDocument_RequiresReason(t *testing.T) {
	svc, repo := setupTestSubmissionService(t)
	seedSupervisedGroup(repo, "group-a", "stu-1", "sup-1")
	svc.UploadProposal(context.Background(), "stu-1", "proposal.pdf", pdf())
	svc.SubmitProposal(context.Background(), "stu-1")
	doc, _ := svc.UploadDocument(context.Background(), "stu-1", "report", "", "r.pdf", pdf())

	if _, err := svc.RejectDocument(context.Background(), "sup-1", doc.ID, ""); !errors.Is(err, ErrRejectReasonMissing) {
		t.Errorf("空原因应被拒绝，实际: %v", err)
	}

	result, err := svc.RejectDocument(context.Background(), "sup-1", doc.ID, "图表缺失")
	if err != nil {
		t.Fatalf("带原因驳回应成功: %v", err)
	}
	if result.Status != model.DocumentStatusRejected || result.Feedback != "图表缺失" {
		t.Errorf("驳回应落状态与原因，实际: %s/%s", result.Status, result.Feedback)
	}
}
