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

func setupTestPanelService() (PanelService, *repository.Repository) {
	repo := newMockRepository()
	return NewPanelService(repo, zap.NewNop()), repo
}

func TestPanelService_Create_Success(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")
	seedSupervisor(repo, "sup-2")

	result, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"sup-1", "sup-2"},
	})

	if err != nil {
		t.Fatalf("创建评审小组应成功: %v", err)
	}
	if !result.IsActive {
		t.Error("新建评审小组默认应为启用状态")
	}
	if result.Name != "Panel A" {
		t.Errorf("期望名称 Panel A，实际: %s", result.Name)
	}
}

func TestPanelService_Create_DuplicateName(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")

	req := &dto.CreatePanelRequest{Name: "Panel A", MemberIDs: []string{"sup-1"}}
	if _, err := svc.Create(context.Background(), "coord-1", req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}

	_, err := svc.Create(context.Background(), "coord-1", req)
	if !errors.Is(err, ErrPanelNameExists) {
		t.Errorf("期望 ErrPanelNameExists，实际: %v", err)
	}
}

func TestPanelService_Create_MemberNotExists(t *testing.T) {
	svc, _ := setupTestPanelService()

	_, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"ghost-1"},
	})
	if !errors.Is(err, ErrPanelMemberNotExists) {
		t.Errorf("期望 ErrPanelMemberNotExists，实际: %v", err)
	}
}

func TestPanelService_Create_MemberNotSupervisor(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedStudents(repo, "stu-1")

	_, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"stu-1"},
	})
	if !errors.Is(err, ErrPanelMemberNotStaff) {
		t.Errorf("期望 ErrPanelMemberNotStaff，实际: %v", err)
	}
}

func TestPanelService_Update_RenameAndDeactivate(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")

	created, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"sup-1"},
	})
	if err != nil {
		t.Fatalf("创建评审小组应成功: %v", err)
	}

	newName := "Panel B"
	inactive := false
	result, err := svc.Update(context.Background(), "coord-1", created.ID, &dto.UpdatePanelRequest{
		Name:     &newName,
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("更新评审小组应成功: %v", err)
	}
	if result.Name != "Panel B" {
		t.Errorf("期望名称 Panel B，实际: %s", result.Name)
	}
	if result.IsActive {
		t.Error("停用后 IsActive 应为 false")
	}
}

func TestPanelService_Update_ReplaceMembers(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")
	seedSupervisor(repo, "sup-2")

	created, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"sup-1"},
	})
	if err != nil {
		t.Fatalf("创建评审小组应成功: %v", err)
	}

	if _, err := svc.Update(context.Background(), "coord-1", created.ID, &dto.UpdatePanelRequest{
		MemberIDs: []string{"sup-2"},
	}); err != nil {
		t.Fatalf("更换评审成员应成功: %v", err)
	}

	panelRepo := repo.Panel.(*mockPanelRepo)
	members := panelRepo.members[created.ID]
	if len(members) != 1 || members[0] != "sup-2" {
		t.Errorf("期望成员为 [sup-2]，实际: %v", members)
	}
}

func TestPanelService_Update_NotFound(t *testing.T) {
	svc, _ := setupTestPanelService()

	name := "Panel X"
	_, err := svc.Update(context.Background(), "coord-1", "ghost-panel", &dto.UpdatePanelRequest{Name: &name})
	if !errors.Is(err, ErrPanelNotFound) {
		t.Errorf("期望 ErrPanelNotFound，实际: %v", err)
	}
}

func TestPanelService_Delete(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")

	created, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"sup-1"},
	})
	if err != nil {
		t.Fatalf("创建评审小组应成功: %v", err)
	}

	if err := svc.Delete(context.Background(), "coord-1", created.ID); err != nil {
		t.Fatalf("删除评审小组应成功: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrPanelNotFound) {
		t.Errorf("删除后查询应返回 ErrPanelNotFound，实际: %v", err)
	}
}

func TestPanelService_List(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")

	for _, name := range []string{"Panel A", "Panel B"} {
		if _, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
			Name:      name,
			MemberIDs: []string{"sup-1"},
		}); err != nil {
			t.Fatalf("创建 %s 应成功: %v", name, err)
		}
	}

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("列出评审小组应成功: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("期望 2 个评审小组，实际: %d", len(result))
	}
}

// 仅导师角色可进入评审小组
func TestPanelService_MemberRoleGuard(t *testing.T) {
	svc, repo := setupTestPanelService()
	seedSupervisor(repo, "sup-1")
	userRepo := repo.User.(*mockUserRepo)
	_ = userRepo.Create(context.Background(), &model.User{
		UserID: "coord-2",
		Name:   "协调员",
		Email:  "coord2@uni.edu",
		Role:   model.RoleCoordinator,
	})

	_, err := svc.Create(context.Background(), "coord-1", &dto.CreatePanelRequest{
		Name:      "Panel A",
		MemberIDs: []string{"sup-1", "coord-2"},
	})
	if !errors.Is(err, ErrPanelMemberNotStaff) {
		t.Errorf("期望 ErrPanelMemberNotStaff，实际: %v", err)
	}
}
