package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 选题模块业务错误 ──

var (
	ErrIdeaNotFound        = errors.New("选题不存在")
	ErrIdeaTaken           = errors.New("该选题已被其他小组选用")
	ErrIdeaTerminal        = errors.New("选题已审核完毕，不可再变更")
	ErrGroupHasIdea        = errors.New("小组已有选题")
	ErrRejectReasonMissing = errors.New("拒绝必须填写原因")
	ErrNotIdeaOwner        = errors.New("只能审核自己名下的选题")
)

// IdeaService 选题业务接口
type IdeaService interface {
	// ── 导师侧 ──
	CreateIdea(ctx context.Context, supervisorID string, req *dto.CreateIdeaRequest) (*dto.IdeaResponse, error)
	ListMyIdeas(ctx context.Context, supervisorID string) ([]dto.IdeaResponse, error)
	ListPendingCustom(ctx context.Context, supervisorID string) ([]dto.IdeaResponse, error)
	DeleteIdea(ctx context.Context, supervisorID, ideaID string) error
	// Approve 通过自拟选题；comment 可选
	Approve(ctx context.Context, supervisorID, ideaID, comment string) (*dto.IdeaResponse, error)
	// Reject 驳回自拟选题；reason 必填（空白视为缺失）
	Reject(ctx context.Context, supervisorID, ideaID, reason string) (*dto.IdeaResponse, error)

	// ── 学生侧 ──
	ListAvailable(ctx context.Context) ([]dto.IdeaResponse, error)
	// SelectIdea 小组选用导师发布的选题（选中即绑定，导师选题随之下架）
	SelectIdea(ctx context.Context, studentID string, req *dto.SelectIdeaRequest) (*dto.IdeaResponse, error)
	// RequestCustomIdea 小组自拟选题，进入目标导师的待审队列
	RequestCustomIdea(ctx context.Context, studentID string, req *dto.RequestCustomIdeaRequest) (*dto.IdeaResponse, error)
	GetMyProject(ctx context.Context, studentID string) (*dto.IdeaResponse, error)
}

type ideaService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIdeaService 创建 IdeaService 实例
func NewIdeaService(repo *repository.Repository, logger *zap.Logger) IdeaService {
	return &ideaService{repo: repo, logger: logger}
}

// ────────────────────── 导师侧 ──────────────────────

func (s *ideaService) CreateIdea(ctx context.Context, supervisorID string, req *dto.CreateIdeaRequest) (*dto.IdeaResponse, error) {
	idea := &model.ProjectIdea{
		Title:        req.Title,
		Description:  req.Description,
		Source:       model.IdeaSourceSupervisor,
		SupervisorID: &supervisorID,
		// 导师发布的选题无需审核，等待小组选用
		IdeaStatus: model.IdeaStatusApproved,
	}
	idea.CreatedBy = &supervisorID
	idea.UpdatedBy = &supervisorID

	if err := s.repo.Idea.Create(ctx, idea); err != nil {
		s.logger.Error("发布选题失败", zap.Error(err))
		return nil, err
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

func (s *ideaService) ListMyIdeas(ctx context.Context, supervisorID string) ([]dto.IdeaResponse, error) {
	ideas, err := s.repo.Idea.ListBySupervisor(ctx, supervisorID)
	if err != nil {
		s.logger.Error("查询我的选题失败", zap.Error(err))
		return nil, err
	}
	return toIdeaResponses(ideas), nil
}

func (s *ideaService) ListPendingCustom(ctx context.Context, supervisorID string) ([]dto.IdeaResponse, error) {
	ideas, err := s.repo.Idea.ListPendingBySupervisor(ctx, supervisorID)
	if err != nil {
		s.logger.Error("查询待审自拟选题失败", zap.Error(err))
		return nil, err
	}
	return toIdeaResponses(ideas), nil
}

func (s *ideaService) DeleteIdea(ctx context.Context, supervisorID, ideaID string) error {
	idea, err := s.repo.Idea.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrIdeaNotFound
		}
		return err
	}
	if idea.SupervisorID == nil || *idea.SupervisorID != supervisorID {
		return ErrNotIdeaOwner
	}
	if idea.GroupID != nil {
		return ErrIdeaTaken
	}
	return s.repo.Idea.Delete(ctx, ideaID, supervisorID)
}

func (s *ideaService) Approve(ctx context.Context, supervisorID, ideaID, comment string) (*dto.IdeaResponse, error) {
	idea, err := s.loadReviewable(ctx, supervisorID, ideaID)
	if err != nil {
		return nil, err
	}

	idea.IdeaStatus = model.IdeaStatusApproved
	idea.Feedback = comment
	idea.UpdatedBy = &supervisorID
	if err := s.repo.Idea.Update(ctx, idea); err != nil {
		s.logger.Error("通过选题失败", zap.String("idea_id", ideaID), zap.Error(err))
		return nil, err
	}

	// 自拟选题通过后，归属小组转入活跃状态并挂上该导师
	if idea.GroupID != nil {
		if err := s.activateGroup(ctx, *idea.GroupID, idea.IdeaID, supervisorID); err != nil {
			s.logger.Error("激活小组失败", zap.String("group_id", *idea.GroupID), zap.Error(err))
			return nil, err
		}
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

func (s *ideaService) Reject(ctx context.Context, supervisorID, ideaID, reason string) (*dto.IdeaResponse, error) {
	// 拒绝原因必填（纯空白视为缺失）
	if strings.TrimSpace(reason) == "" {
		return nil, ErrRejectReasonMissing
	}

	idea, err := s.loadReviewable(ctx, supervisorID, ideaID)
	if err != nil {
		return nil, err
	}

	idea.IdeaStatus = model.IdeaStatusRejected
	idea.RejectReason = reason
	idea.UpdatedBy = &supervisorID
	if err := s.repo.Idea.Update(ctx, idea); err != nil {
		s.logger.Error("驳回选题失败", zap.String("idea_id", ideaID), zap.Error(err))
		return nil, err
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

// ────────────────────── 学生侧 ──────────────────────

func (s *ideaService) ListAvailable(ctx context.Context) ([]dto.IdeaResponse, error) {
	ideas, err := s.repo.Idea.ListAvailable(ctx)
	if err != nil {
		s.logger.Error("查询可选选题失败", zap.Error(err))
		return nil, err
	}
	return toIdeaResponses(ideas), nil
}

func (s *ideaService) SelectIdea(ctx context.Context, studentID string, req *dto.SelectIdeaRequest) (*dto.IdeaResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}
	if group.IdeaID != nil {
		return nil, ErrGroupHasIdea
	}

	idea, err := s.repo.Idea.GetByID(ctx, req.IdeaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.GroupID != nil {
		return nil, ErrIdeaTaken
	}

	// 选中即绑定小组，导师选题随之从可选列表下架
	idea.GroupID = &group.GroupID
	idea.UpdatedBy = &studentID
	if err := s.repo.Idea.Update(ctx, idea); err != nil {
		s.logger.Error("选用选题失败", zap.String("idea_id", req.IdeaID), zap.Error(err))
		return nil, err
	}

	var supervisorID string
	if idea.SupervisorID != nil {
		supervisorID = *idea.SupervisorID
	}
	if err := s.activateGroup(ctx, group.GroupID, idea.IdeaID, supervisorID); err != nil {
		s.logger.Error("激活小组失败", zap.String("group_id", group.GroupID), zap.Error(err))
		return nil, err
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

func (s *ideaService) RequestCustomIdea(ctx context.Context, studentID string, req *dto.RequestCustomIdeaRequest) (*dto.IdeaResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}
	if group.IdeaID != nil {
		return nil, ErrGroupHasIdea
	}

	supervisor, err := s.repo.User.GetByID(ctx, req.SupervisorID)
	if err != nil || supervisor.Role != model.RoleSupervisor {
		return nil, ErrFacultyNotFound
	}

	idea := &model.ProjectIdea{
		Title:        req.Title,
		Description:  req.Description,
		Source:       model.IdeaSourceCustom,
		SupervisorID: &supervisor.UserID,
		GroupID:      &group.GroupID,
		IdeaStatus:   model.IdeaStatusPending,
	}
	idea.CreatedBy = &studentID
	idea.UpdatedBy = &studentID

	if err := s.repo.Idea.Create(ctx, idea); err != nil {
		s.logger.Error("提交自拟选题失败", zap.Error(err))
		return nil, err
	}

	// 小组先挂上待审选题，审核通过后再激活
	group.IdeaID = &idea.IdeaID
	group.UpdatedBy = &studentID
	if err := s.repo.Group.Update(ctx, group); err != nil {
		s.logger.Error("关联小组选题失败", zap.Error(err))
		return nil, err
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

func (s *ideaService) GetMyProject(ctx context.Context, studentID string) (*dto.IdeaResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	idea, err := s.repo.Idea.GetByGroup(ctx, group.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}

	resp := toIdeaResponse(idea)
	return &resp, nil
}

// ── 内部辅助方法 ──

// loadReviewable 加载一条待本导师审核的自拟选题
func (s *ideaService) loadReviewable(ctx context.Context, supervisorID, ideaID string) (*model.ProjectIdea, error) {
	idea, err := s.repo.Idea.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, err
	}
	if idea.SupervisorID == nil || *idea.SupervisorID != supervisorID {
		return nil, ErrNotIdeaOwner
	}
	// approved / rejected 为终态
	if idea.IdeaStatus != model.IdeaStatusPending {
		return nil, ErrIdeaTerminal
	}
	return idea, nil
}

// activateGroup 选题确定后激活小组并挂上导师
func (s *ideaService) activateGroup(ctx context.Context, groupID, ideaID, supervisorID string) error {
	group, err := s.repo.Group.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	group.IdeaID = &ideaID
	if supervisorID != "" {
		group.SupervisorID = &supervisorID
	}
	group.Status = model.GroupStatusActive
	return s.repo.Group.Update(ctx, group)
}

func toIdeaResponse(idea *model.ProjectIdea) dto.IdeaResponse {
	resp := dto.IdeaResponse{
		ID:           idea.IdeaID,
		Title:        idea.Title,
		Description:  idea.Description,
		Source:       idea.Source,
		IdeaStatus:   idea.IdeaStatus,
		Feedback:     idea.Feedback,
		RejectReason: idea.RejectReason,
		CreatedAt:    idea.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if idea.SupervisorID != nil {
		resp.SupervisorID = *idea.SupervisorID
	}
	if idea.Supervisor != nil {
		resp.Supervisor = idea.Supervisor.Name
	}
	if idea.GroupID != nil {
		resp.GroupID = *idea.GroupID
	}
	return resp
}

func toIdeaResponses(ideas []model.ProjectIdea) []dto.IdeaResponse {
	result := make([]dto.IdeaResponse, 0, len(ideas))
	for i := range ideas {
		result = append(result, toIdeaResponse(&ideas[i]))
	}
	return result
}
