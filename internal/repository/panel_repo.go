package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
)

// PanelRepository 评审小组数据访问接口
type PanelRepository interface {
	// CreateWithMembers 在同一事务内创建评审小组并写入成员关系
	CreateWithMembers(ctx context.Context, panel *model.EvaluationPanel, memberIDs []string) error
	GetByID(ctx context.Context, id string) (*model.EvaluationPanel, error)
	GetByName(ctx context.Context, name string) (*model.EvaluationPanel, error)
	List(ctx context.Context) ([]model.EvaluationPanel, error)
	ListActive(ctx context.Context) ([]model.EvaluationPanel, error)
	Update(ctx context.Context, panel *model.EvaluationPanel) error
	ReplaceMembers(ctx context.Context, panelID string, memberIDs []string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// panelRepo PanelRepository 的 GORM 实现
type panelRepo struct {
	db *gorm.DB
}

// NewPanelRepo 创建 PanelRepository 实例
func NewPanelRepo(db *gorm.DB) PanelRepository {
	return &panelRepo{db: db}
}

func (r *panelRepo) CreateWithMembers(ctx context.Context, panel *model.EvaluationPanel, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(panel).Error; err != nil {
			return err
		}
		members := make([]model.PanelMember, 0, len(memberIDs))
		for _, uid := range memberIDs {
			members = append(members, model.PanelMember{PanelID: panel.PanelID, UserID: uid})
		}
		return tx.Create(&members).Error
	})
}

func (r *panelRepo) GetByID(ctx context.Context, id string) (*model.EvaluationPanel, error) {
	var panel model.EvaluationPanel
	err := r.db.WithContext(ctx).
		Preload("Members.User").
		Where("panel_id = ?", id).
		First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) GetByName(ctx context.Context, name string) (*model.EvaluationPanel, error) {
	var panel model.EvaluationPanel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&panel).Error
	if err != nil {
		return nil, err
	}
	return &panel, nil
}

func (r *panelRepo) List(ctx context.Context) ([]model.EvaluationPanel, error) {
	var panels []model.EvaluationPanel
	err := r.db.WithContext(ctx).
		Preload("Members.User").
		Order("name ASC").
		Find(&panels).Error
	return panels, err
}

func (r *panelRepo) ListActive(ctx context.Context) ([]model.EvaluationPanel, error) {
	var panels []model.EvaluationPanel
	err := r.db.WithContext(ctx).
		Preload("Members.User").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&panels).Error
	return panels, err
}

func (r *panelRepo) Update(ctx context.Context, panel *model.EvaluationPanel) error {
	return r.db.WithContext(ctx).Save(panel).Error
}

func (r *panelRepo) ReplaceMembers(ctx context.Context, panelID string, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("panel_id = ?", panelID).Delete(&model.PanelMember{}).Error; err != nil {
			return err
		}
		members := make([]model.PanelMember, 0, len(memberIDs))
		for _, uid := range memberIDs {
			members = append(members, model.PanelMember{PanelID: panelID, UserID: uid})
		}
		return tx.Create(&members).Error
	})
}

func (r *panelRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.EvaluationPanel{}).
		Where("panel_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
