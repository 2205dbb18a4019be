package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
)

// EvaluationRepository 期末评分数据访问接口
type EvaluationRepository interface {
	Create(ctx context.Context, e *model.FinalEvaluation) error
	GetByID(ctx context.Context, id string) (*model.FinalEvaluation, error)
	GetByGroup(ctx context.Context, groupID string) (*model.FinalEvaluation, error)
	ListByGroups(ctx context.Context, groupIDs []string) ([]model.FinalEvaluation, error)
	List(ctx context.Context) ([]model.FinalEvaluation, error)
	Update(ctx context.Context, e *model.FinalEvaluation) error
}

// evaluationRepo EvaluationRepository 的 GORM 实现
type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, e *model.FinalEvaluation) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.FinalEvaluation, error) {
	var e model.FinalEvaluation
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("evaluation_id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *evaluationRepo) GetByGroup(ctx context.Context, groupID string) (*model.FinalEvaluation, error) {
	var e model.FinalEvaluation
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *evaluationRepo) ListByGroups(ctx context.Context, groupIDs []string) ([]model.FinalEvaluation, error) {
	var es []model.FinalEvaluation
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("group_id IN ?", groupIDs).
		Find(&es).Error
	return es, err
}

func (r *evaluationRepo) List(ctx context.Context) ([]model.FinalEvaluation, error) {
	var es []model.FinalEvaluation
	err := r.db.WithContext(ctx).
		Preload("Group").
		Find(&es).Error
	return es, err
}

func (r *evaluationRepo) Update(ctx context.Context, e *model.FinalEvaluation) error {
	return r.db.WithContext(ctx).Save(e).Error
}
