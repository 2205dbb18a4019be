package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
)

// IdeaRepository 选题数据访问接口
type IdeaRepository interface {
	Create(ctx context.Context, idea *model.ProjectIdea) error
	GetByID(ctx context.Context, id string) (*model.ProjectIdea, error)
	// ListAvailable 列出可供小组选用的导师选题（未被任何小组选中）
	ListAvailable(ctx context.Context) ([]model.ProjectIdea, error)
	ListBySupervisor(ctx context.Context, supervisorID string) ([]model.ProjectIdea, error)
	ListPendingBySupervisor(ctx context.Context, supervisorID string) ([]model.ProjectIdea, error)
	GetByGroup(ctx context.Context, groupID string) (*model.ProjectIdea, error)
	Update(ctx context.Context, idea *model.ProjectIdea) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// ideaRepo IdeaRepository 的 GORM 实现
type ideaRepo struct {
	db *gorm.DB
}

// NewIdeaRepo 创建 IdeaRepository 实例
func NewIdeaRepo(db *gorm.DB) IdeaRepository {
	return &ideaRepo{db: db}
}

func (r *ideaRepo) Create(ctx context.Context, idea *model.ProjectIdea) error {
	return r.db.WithContext(ctx).Create(idea).Error
}

func (r *ideaRepo) GetByID(ctx context.Context, id string) (*model.ProjectIdea, error) {
	var idea model.ProjectIdea
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("idea_id = ?", id).
		First(&idea).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepo) ListAvailable(ctx context.Context) ([]model.ProjectIdea, error) {
	var ideas []model.ProjectIdea
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("source = ? AND group_id IS NULL", model.IdeaSourceSupervisor).
		Order("created_at DESC").
		Find(&ideas).Error
	return ideas, err
}

func (r *ideaRepo) ListBySupervisor(ctx context.Context, supervisorID string) ([]model.ProjectIdea, error) {
	var ideas []model.ProjectIdea
	err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", supervisorID).
		Order("created_at DESC").
		Find(&ideas).Error
	return ideas, err
}

func (r *ideaRepo) ListPendingBySupervisor(ctx context.Context, supervisorID string) ([]model.ProjectIdea, error) {
	var ideas []model.ProjectIdea
	err := r.db.WithContext(ctx).
		Where("supervisor_id = ? AND source = ? AND idea_status = ?",
			supervisorID, model.IdeaSourceCustom, model.IdeaStatusPending).
		Order("created_at ASC").
		Find(&ideas).Error
	return ideas, err
}

func (r *ideaRepo) GetByGroup(ctx context.Context, groupID string) (*model.ProjectIdea, error) {
	var idea model.ProjectIdea
	err := r.db.WithContext(ctx).
		Preload("Supervisor").
		Where("group_id = ?", groupID).
		First(&idea).Error
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (r *ideaRepo) Update(ctx context.Context, idea *model.ProjectIdea) error {
	return r.db.WithContext(ctx).Save(idea).Error
}

func (r *ideaRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ProjectIdea{}).
		Where("idea_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
