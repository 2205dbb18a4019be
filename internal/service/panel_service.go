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

// ── 评审小组模块业务错误 ──

var (
	ErrPanelNotFound        = errors.New("评审小组不存在")
	ErrPanelNameExists      = errors.New("评审小组名称已存在")
	ErrPanelMemberNotExists = errors.New("评审成员不存在")
	ErrPanelMemberNotStaff  = errors.New("评审成员必须是导师")
)

// PanelService 评审小组业务接口
type PanelService interface {
	Create(ctx context.Context, operatorID string, req *dto.CreatePanelRequest) (*dto.PanelResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PanelResponse, error)
	List(ctx context.Context) ([]dto.PanelResponse, error)
	Update(ctx context.Context, operatorID, id string, req *dto.UpdatePanelRequest) (*dto.PanelResponse, error)
	Delete(ctx context.Context, operatorID, id string) error
}

type panelService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPanelService 创建 PanelService 实例
func NewPanelService(repo *repository.Repository, logger *zap.Logger) PanelService {
	return &panelService{repo: repo, logger: logger}
}

func (s *panelService) Create(ctx context.Context, operatorID string, req *dto.CreatePanelRequest) (*dto.PanelResponse, error) {
	if _, err := s.repo.Panel.GetByName(ctx, req.Name); err == nil {
		return nil, ErrPanelNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkMembers(ctx, req.MemberIDs); err != nil {
		return nil, err
	}

	panel := &model.EvaluationPanel{
		Name:     req.Name,
		IsActive: true,
	}
	panel.CreatedBy = &operatorID
	panel.UpdatedBy = &operatorID

	if err := s.repo.Panel.CreateWithMembers(ctx, panel, req.MemberIDs); err != nil {
		s.logger.Error("创建评审小组失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, panel.PanelID)
}

func (s *panelService) GetByID(ctx context.Context, id string) (*dto.PanelResponse, error) {
	panel, err := s.repo.Panel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPanelNotFound
		}
		return nil, err
	}
	resp := toPanelResponse(panel)
	return &resp, nil
}

func (s *panelService) List(ctx context.Context) ([]dto.PanelResponse, error) {
	panels, err := s.repo.Panel.List(ctx)
	if err != nil {
		s.logger.Error("查询评审小组列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PanelResponse, 0, len(panels))
	for i := range panels {
		result = append(result, toPanelResponse(&panels[i]))
	}
	return result, nil
}

func (s *panelService) Update(ctx context.Context, operatorID, id string, req *dto.UpdatePanelRequest) (*dto.PanelResponse, error) {
	panel, err := s.repo.Panel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPanelNotFound
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != panel.Name {
		if _, err := s.repo.Panel.GetByName(ctx, *req.Name); err == nil {
			return nil, ErrPanelNameExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		panel.Name = *req.Name
	}
	if req.IsActive != nil {
		panel.IsActive = *req.IsActive
	}
	panel.UpdatedBy = &operatorID

	if err := s.repo.Panel.Update(ctx, panel); err != nil {
		s.logger.Error("更新评审小组失败", zap.String("panel_id", id), zap.Error(err))
		return nil, err
	}

	if len(req.MemberIDs) > 0 {
		if err := s.checkMembers(ctx, req.MemberIDs); err != nil {
			return nil, err
		}
		if err := s.repo.Panel.ReplaceMembers(ctx, id, req.MemberIDs); err != nil {
			s.logger.Error("更新评审成员失败", zap.String("panel_id", id), zap.Error(err))
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

func (s *panelService) Delete(ctx context.Context, operatorID, id string) error {
	if _, err := s.repo.Panel.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPanelNotFound
		}
		return err
	}
	return s.repo.Panel.Delete(ctx, id, operatorID)
}

// checkMembers 校验评审成员存在且均为导师角色
func (s *panelService) checkMembers(ctx context.Context, memberIDs []string) error {
	users, err := s.repo.User.ListByIDs(ctx, memberIDs)
	if err != nil {
		return err
	}
	if len(users) != len(memberIDs) {
		return ErrPanelMemberNotExists
	}
	for _, u := range users {
		if u.Role != model.RoleSupervisor {
			return ErrPanelMemberNotStaff
		}
	}
	return nil
}

func toPanelResponse(panel *model.EvaluationPanel) dto.PanelResponse {
	members := make([]dto.PanelMemberResponse, 0, len(panel.Members))
	for _, m := range panel.Members {
		pm := dto.PanelMemberResponse{UserID: m.UserID}
		if m.User != nil {
			pm.Name = m.User.Name
			pm.Email = m.User.Email
		}
		members = append(members, pm)
	}
	return dto.PanelResponse{
		ID:        panel.PanelID,
		Name:      panel.Name,
		IsActive:  panel.IsActive,
		Members:   members,
		CreatedAt: panel.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
