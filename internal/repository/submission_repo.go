package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
)

// SubmissionRepository 提案与文档数据访问接口
type SubmissionRepository interface {
	CreateProposal(ctx context.Context, p *model.Proposal) error
	GetProposalByID(ctx context.Context, id string) (*model.Proposal, error)
	// GetLatestProposalByGroup 取小组最新版本的提案
	GetLatestProposalByGroup(ctx context.Context, groupID string) (*model.Proposal, error)
	ListProposalsByGroup(ctx context.Context, groupID string) ([]model.Proposal, error)
	ListProposalsByGroups(ctx context.Context, groupIDs []string) ([]model.Proposal, error)
	UpdateProposal(ctx context.Context, p *model.Proposal) error

	CreateDocument(ctx context.Context, d *model.Document) error
	GetDocumentByID(ctx context.Context, id string) (*model.Document, error)
	ListDocumentsByGroup(ctx context.Context, groupID string) ([]model.Document, error)
	ListDocumentsByGroups(ctx context.Context, groupIDs []string) ([]model.Document, error)
	// CountDocumentVersions 统计小组同类型文档的已有版本数
	CountDocumentVersions(ctx context.Context, groupID, documentType string) (int64, error)
	UpdateDocument(ctx context.Context, d *model.Document) error
}

// submissionRepo SubmissionRepository 的 GORM 实现
type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

// ── 提案 ──

func (r *submissionRepo) CreateProposal(ctx context.Context, p *model.Proposal) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *submissionRepo) GetProposalByID(ctx context.Context, id string) (*model.Proposal, error) {
	var p model.Proposal
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("proposal_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *submissionRepo) GetLatestProposalByGroup(ctx context.Context, groupID string) (*model.Proposal, error) {
	var p model.Proposal
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("version DESC").
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *submissionRepo) ListProposalsByGroup(ctx context.Context, groupID string) ([]model.Proposal, error) {
	var ps []model.Proposal
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("version DESC").
		Find(&ps).Error
	return ps, err
}

func (r *submissionRepo) ListProposalsByGroups(ctx context.Context, groupIDs []string) ([]model.Proposal, error) {
	var ps []model.Proposal
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("group_id IN ?", groupIDs).
		Order("created_at DESC").
		Find(&ps).Error
	return ps, err
}

func (r *submissionRepo) UpdateProposal(ctx context.Context, p *model.Proposal) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// ── 文档 ──

func (r *submissionRepo) CreateDocument(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *submissionRepo) GetDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("document_id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *submissionRepo) ListDocumentsByGroup(ctx context.Context, groupID string) ([]model.Document, error) {
	var ds []model.Document
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at DESC").
		Find(&ds).Error
	return ds, err
}

func (r *submissionRepo) ListDocumentsByGroups(ctx context.Context, groupIDs []string) ([]model.Document, error) {
	var ds []model.Document
	err := r.db.WithContext(ctx).
		Preload("Group").
		Where("group_id IN ?", groupIDs).
		Order("created_at DESC").
		Find(&ds).Error
	return ds, err
}

func (r *submissionRepo) CountDocumentVersions(ctx context.Context, groupID, documentType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("group_id = ? AND document_type = ?", groupID, documentType).
		Count(&count).Error
	return count, err
}

func (r *submissionRepo) UpdateDocument(ctx context.Context, d *model.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}
