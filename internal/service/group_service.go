package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 小组模块业务错误 ──

var (
	ErrGroupNotFound      = errors.New("小组不存在")
	ErrGroupTooLarge      = errors.New("小组成员（含组长）不能超过 3 人")
	ErrAlreadyInGroup     = errors.New("存在已加入其他小组的成员")
	ErrNotGroupLeader     = errors.New("只有组长可以执行此操作")
	ErrMemberNotStudent   = errors.New("成员必须是学生账号")
	ErrLeaderNotInMembers = errors.New("组长必须是小组成员")
	ErrNoGroup            = errors.New("当前用户未加入任何小组")
	ErrGroupCompleted     = errors.New("小组已结题，不可修改")
	ErrDuplicateMember    = errors.New("成员列表存在重复或包含组长自身")
)

// validateMemberList 组长隐式在组，member_ids 里不能再出现组长或重复 ID
func validateMemberList(leaderID string, memberIDs []string) error {
	seen := make(map[string]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if id == leaderID {
			return ErrDuplicateMember
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateMember
		}
		seen[id] = struct{}{}
	}
	return nil
}

// GroupService 小组业务接口
type GroupService interface {
	// Create 由组长发起建组；member_ids 为组长之外的成员（最多 2 人）
	Create(ctx context.Context, leaderID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GroupResponse, error)
	// GetMyGroup 查询学生所在小组
	GetMyGroup(ctx context.Context, userID string) (*dto.GroupResponse, error)
	List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error)
	ListBySupervisor(ctx context.Context, supervisorID string) ([]dto.GroupResponse, error)
	// UpdateMembers 组长全量替换组员
	UpdateMembers(ctx context.Context, groupID, callerID string, req *dto.UpdateGroupMembersRequest) (*dto.GroupResponse, error)
	UpdateStatus(ctx context.Context, groupID string, req *dto.UpdateGroupStatusRequest, callerID string) (*dto.GroupResponse, error)
	AssignSupervisor(ctx context.Context, groupID string, req *dto.AssignSupervisorRequest, callerID string) (*dto.GroupResponse, error)
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, leaderID string, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	// 1. 成员数（含组长）不可超过上限
	if len(req.MemberIDs)+1 > model.MaxGroupMembers {
		return nil, ErrGroupTooLarge
	}
	if err := validateMemberList(leaderID, req.MemberIDs); err != nil {
		return nil, err
	}

	// 2. 组长与成员都必须是未建组的学生
	allIDs := append([]string{leaderID}, req.MemberIDs...)
	users, err := s.repo.User.ListByIDs(ctx, allIDs)
	if err != nil {
		s.logger.Error("批量查询成员失败", zap.Error(err))
		return nil, err
	}
	if len(users) != len(allIDs) {
		return nil, ErrUserNotFound
	}
	for i := range users {
		if users[i].Role != model.RoleStudent {
			return nil, ErrMemberNotStudent
		}
	}
	for _, uid := range allIDs {
		if _, err := s.repo.Group.GetByMember(ctx, uid); err == nil {
			return nil, ErrAlreadyInGroup
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	group := &model.Group{
		Name:     req.Name,
		LeaderID: leaderID,
		Status:   model.GroupStatusPending,
	}
	group.CreatedBy = &leaderID
	group.UpdatedBy = &leaderID

	if err := s.repo.Group.CreateWithMembers(ctx, group, req.MemberIDs); err != nil {
		s.logger.Error("创建小组失败", zap.Error(err))
		return nil, err
	}

	return s.getGroupResponse(ctx, group.GroupID)
}

// ────────────────────── 查询 ──────────────────────

func (s *groupService) GetByID(ctx context.Context, id string) (*dto.GroupResponse, error) {
	return s.getGroupResponse(ctx, id)
}

func (s *groupService) GetMyGroup(ctx context.Context, userID string) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		s.logger.Error("查询我的小组失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := s.toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) List(ctx context.Context, req *dto.GroupListRequest) ([]dto.GroupResponse, int64, error) {
	filters := &repository.GroupListFilters{
		Status:       req.Status,
		SupervisorID: req.SupervisorID,
	}
	groups, total, err := s.repo.Group.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出小组失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, s.toGroupResponse(&groups[i]))
	}
	return result, total, nil
}

func (s *groupService) ListBySupervisor(ctx context.Context, supervisorID string) ([]dto.GroupResponse, error) {
	filters := &repository.GroupListFilters{SupervisorID: supervisorID}
	groups, _, err := s.repo.Group.List(ctx, filters, 0, 1000)
	if err != nil {
		s.logger.Error("列出指导小组失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, s.toGroupResponse(&groups[i]))
	}
	return result, nil
}

// ────────────────────── UpdateMembers ──────────────────────

func (s *groupService) UpdateMembers(ctx context.Context, groupID, callerID string, req *dto.UpdateGroupMembersRequest) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if group.LeaderID != callerID {
		return nil, ErrNotGroupLeader
	}
	if group.Status == model.GroupStatusCompleted {
		return nil, ErrGroupCompleted
	}
	if len(req.MemberIDs)+1 > model.MaxGroupMembers {
		return nil, ErrGroupTooLarge
	}
	if err := validateMemberList(group.LeaderID, req.MemberIDs); err != nil {
		return nil, err
	}

	// 新成员必须是未建组的学生（原有成员在本组不算冲突）
	if len(req.MemberIDs) > 0 {
		users, err := s.repo.User.ListByIDs(ctx, req.MemberIDs)
		if err != nil {
			return nil, err
		}
		if len(users) != len(req.MemberIDs) {
			return nil, ErrUserNotFound
		}
		for i := range users {
			if users[i].Role != model.RoleStudent {
				return nil, ErrMemberNotStudent
			}
		}
		for _, uid := range req.MemberIDs {
			other, err := s.repo.Group.GetByMember(ctx, uid)
			if err == nil && other.GroupID != groupID {
				return nil, ErrAlreadyInGroup
			}
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	if err := s.repo.Group.ReplaceMembers(ctx, groupID, group.LeaderID, req.MemberIDs); err != nil {
		s.logger.Error("调整小组成员失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}

	return s.getGroupResponse(ctx, groupID)
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *groupService) UpdateStatus(ctx context.Context, groupID string, req *dto.UpdateGroupStatusRequest, callerID string) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	group.Status = req.Status
	group.UpdatedBy = &callerID
	if err := s.repo.Group.Update(ctx, group); err != nil {
		s.logger.Error("更新小组状态失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}

	return s.getGroupResponse(ctx, groupID)
}

// ────────────────────── AssignSupervisor ──────────────────────

func (s *groupService) AssignSupervisor(ctx context.Context, groupID string, req *dto.AssignSupervisorRequest, callerID string) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	supervisor, err := s.repo.User.GetByID(ctx, req.SupervisorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	if supervisor.Role != model.RoleSupervisor {
		return nil, ErrFacultyNotFound
	}

	group.SupervisorID = &supervisor.UserID
	group.UpdatedBy = &callerID
	if err := s.repo.Group.Update(ctx, group); err != nil {
		s.logger.Error("指派导师失败", zap.String("group_id", groupID), zap.Error(err))
		return nil, err
	}

	return s.getGroupResponse(ctx, groupID)
}

// ── 内部辅助方法 ──

func (s *groupService) getGroupResponse(ctx context.Context, id string) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	resp := s.toGroupResponse(group)
	return &resp, nil
}

func (s *groupService) toGroupResponse(group *model.Group) dto.GroupResponse {
	resp := dto.GroupResponse{
		ID:        group.GroupID,
		Name:      group.Name,
		Status:    group.Status,
		CreatedAt: group.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}

	if group.Leader != nil {
		resp.Leader = dto.GroupMemberResponse{
			UserID: group.Leader.UserID,
			Name:   group.Leader.Name,
			RollNo: group.Leader.RollNo,
			Email:  group.Leader.Email,
		}
	}

	resp.Members = make([]dto.GroupMemberResponse, 0, len(group.Members))
	for _, m := range group.Members {
		if m.User == nil {
			continue
		}
		resp.Members = append(resp.Members, dto.GroupMemberResponse{
			UserID: m.User.UserID,
			Name:   m.User.Name,
			RollNo: m.User.RollNo,
			Email:  m.User.Email,
		})
	}

	if group.Supervisor != nil {
		deptID := ""
		if group.Supervisor.DepartmentID != nil {
			deptID = *group.Supervisor.DepartmentID
		}
		resp.Supervisor = &dto.FacultyResponse{
			UserID:       group.Supervisor.UserID,
			Name:         group.Supervisor.Name,
			Email:        group.Supervisor.Email,
			DepartmentID: deptID,
		}
	}

	if group.Idea != nil {
		resp.Idea = &dto.IdeaResponse{
			ID:           group.Idea.IdeaID,
			Title:        group.Idea.Title,
			Description:  group.Idea.Description,
			Source:       group.Idea.Source,
			IdeaStatus:   group.Idea.IdeaStatus,
			Feedback:     group.Idea.Feedback,
			RejectReason: group.Idea.RejectReason,
			CreatedAt:    group.Idea.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	return resp
}
