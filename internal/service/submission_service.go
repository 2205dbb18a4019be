package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/config"
	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	"fyp-portal/pkg/storage"
)

// ── 提案/文档模块业务错误 ──

var (
	ErrProposalNotFound     = errors.New("提案不存在")
	ErrProposalTerminal     = errors.New("提案已审核完毕，不可再变更")
	ErrProposalNotSubmitted = errors.New("提案尚未提交，不可审核")
	ErrNoDraftProposal      = errors.New("没有可提交的提案草稿")
	ErrDocumentNotFound     = errors.New("文档不存在")
	ErrDocumentTerminal     = errors.New("文档已审核完毕，不可再变更")
	ErrDocumentsLocked      = errors.New("提案提交前不可上传文档")
	ErrNotGroupSupervisor   = errors.New("只能审核自己指导小组的材料")
)

// SubmissionService 提案与文档业务接口
type SubmissionService interface {
	// ── 学生侧：提案 ──
	// UploadProposal 上传一版提案草稿（版本号自增）
	UploadProposal(ctx context.Context, studentID, fileName string, file io.Reader) (*dto.ProposalResponse, error)
	// SubmitProposal 将最新草稿正式提交导师审核
	SubmitProposal(ctx context.Context, studentID string) (*dto.ProposalResponse, error)
	ListMyProposals(ctx context.Context, studentID string) ([]dto.ProposalResponse, error)

	// ── 学生侧：文档 ──
	GetMyDocuments(ctx context.Context, studentID string) (*dto.MyDocumentsResponse, error)
	UploadDocument(ctx context.Context, studentID, documentType, description, fileName string, file io.Reader) (*dto.DocumentResponse, error)

	// ── 导师侧：提案 ──
	ListProposals(ctx context.Context, supervisorID string) ([]dto.ProposalResponse, error)
	ApproveProposal(ctx context.Context, supervisorID, proposalID, comment string) (*dto.ProposalResponse, error)
	// RejectProposal 驳回提案；reason 必填
	RejectProposal(ctx context.Context, supervisorID, proposalID, reason string) (*dto.ProposalResponse, error)
	// CommentProposal 仅追加评语，不改变状态
	CommentProposal(ctx context.Context, supervisorID, proposalID, comment string) (*dto.ProposalResponse, error)

	// ── 导师侧：文档 ──
	ListDocuments(ctx context.Context, supervisorID string) ([]dto.DocumentResponse, error)
	ApproveDocument(ctx context.Context, supervisorID, documentID string) (*dto.DocumentResponse, error)
	RejectDocument(ctx context.Context, supervisorID, documentID, reason string) (*dto.DocumentResponse, error)
	DocumentFeedback(ctx context.Context, supervisorID, documentID, feedback string) (*dto.DocumentResponse, error)
}

type submissionService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  *storage.Store
	logger *zap.Logger
}

// NewSubmissionService 创建 SubmissionService 实例
func NewSubmissionService(cfg *config.Config, repo *repository.Repository, store *storage.Store, logger *zap.Logger) SubmissionService {
	return &submissionService{cfg: cfg, repo: repo, store: store, logger: logger}
}

// ────────────────────── 学生侧：提案 ──────────────────────

func (s *submissionService) UploadProposal(ctx context.Context, studentID, fileName string, file io.Reader) (*dto.ProposalResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	version := 1
	latest, err := s.repo.Submission.GetLatestProposalByGroup(ctx, group.GroupID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if latest != nil {
		// 已通过的提案是终态，不再接受新版本
		if latest.Status == model.ProposalStatusApproved {
			return nil, ErrProposalTerminal
		}
		version = latest.Version + 1
	}

	relPath, err := s.store.Save(file, "proposals/"+group.GroupID, fileName)
	if err != nil {
		s.logger.Error("保存提案文件失败", zap.Error(err))
		return nil, err
	}

	proposal := &model.Proposal{
		GroupID:  group.GroupID,
		Version:  version,
		FilePath: relPath,
		FileName: fileName,
		Status:   model.ProposalStatusDraft,
	}
	proposal.CreatedBy = &studentID
	proposal.UpdatedBy = &studentID

	if err := s.repo.Submission.CreateProposal(ctx, proposal); err != nil {
		s.logger.Error("创建提案记录失败", zap.Error(err))
		return nil, err
	}

	resp := s.toProposalResponse(proposal)
	return &resp, nil
}

func (s *submissionService) SubmitProposal(ctx context.Context, studentID string) (*dto.ProposalResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	latest, err := s.repo.Submission.GetLatestProposalByGroup(ctx, group.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDraftProposal
		}
		return nil, err
	}
	if latest.Status != model.ProposalStatusDraft {
		return nil, ErrNoDraftProposal
	}

	latest.Status = model.ProposalStatusSubmitted
	latest.UpdatedBy = &studentID
	if err := s.repo.Submission.UpdateProposal(ctx, latest); err != nil {
		s.logger.Error("提交提案失败", zap.String("proposal_id", latest.ProposalID), zap.Error(err))
		return nil, err
	}

	resp := s.toProposalResponse(latest)
	return &resp, nil
}

func (s *submissionService) ListMyProposals(ctx context.Context, studentID string) ([]dto.ProposalResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	proposals, err := s.repo.Submission.ListProposalsByGroup(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}
	return s.toProposalResponses(proposals), nil
}

// ────────────────────── 学生侧：文档 ──────────────────────

func (s *submissionService) GetMyDocuments(ctx context.Context, studentID string) (*dto.MyDocumentsResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	canUpload, err := s.canUploadDocuments(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}

	docs, err := s.repo.Submission.ListDocumentsByGroup(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}

	return &dto.MyDocumentsResponse{
		CanUploadDocuments: canUpload,
		Documents:          s.toDocumentResponses(docs),
	}, nil
}

func (s *submissionService) UploadDocument(ctx context.Context, studentID, documentType, description, fileName string, file io.Reader) (*dto.DocumentResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	canUpload, err := s.canUploadDocuments(ctx, group.GroupID)
	if err != nil {
		return nil, err
	}
	if !canUpload {
		return nil, ErrDocumentsLocked
	}

	count, err := s.repo.Submission.CountDocumentVersions(ctx, group.GroupID, documentType)
	if err != nil {
		return nil, err
	}

	relPath, err := s.store.Save(file, "documents/"+group.GroupID, fileName)
	if err != nil {
		s.logger.Error("保存文档文件失败", zap.Error(err))
		return nil, err
	}

	doc := &model.Document{
		GroupID:      group.GroupID,
		DocumentType: documentType,
		Description:  description,
		Version:      int(count) + 1,
		FilePath:     relPath,
		FileName:     fileName,
		Status:       model.DocumentStatusPending,
	}
	doc.CreatedBy = &studentID
	doc.UpdatedBy = &studentID

	if err := s.repo.Submission.CreateDocument(ctx, doc); err != nil {
		s.logger.Error("创建文档记录失败", zap.Error(err))
		return nil, err
	}

	resp := s.toDocumentResponse(doc)
	return &resp, nil
}

// ────────────────────── 导师侧：提案 ──────────────────────

func (s *submissionService) ListProposals(ctx context.Context, supervisorID string) ([]dto.ProposalResponse, error) {
	groupIDs, err := s.supervisedGroupIDs(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []dto.ProposalResponse{}, nil
	}

	proposals, err := s.repo.Submission.ListProposalsByGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}

	// 草稿对导师不可见
	visible := make([]model.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.Status != model.ProposalStatusDraft {
			visible = append(visible, p)
		}
	}
	return s.toProposalResponses(visible), nil
}

func (s *submissionService) ApproveProposal(ctx context.Context, supervisorID, proposalID, comment string) (*dto.ProposalResponse, error) {
	proposal, err := s.loadReviewableProposal(ctx, supervisorID, proposalID)
	if err != nil {
		return nil, err
	}

	proposal.Status = model.ProposalStatusApproved
	if comment != "" {
		proposal.Feedback = comment
	}
	proposal.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateProposal(ctx, proposal); err != nil {
		s.logger.Error("通过提案失败", zap.String("proposal_id", proposalID), zap.Error(err))
		return nil, err
	}

	resp := s.toProposalResponse(proposal)
	return &resp, nil
}

func (s *submissionService) RejectProposal(ctx context.Context, supervisorID, proposalID, reason string) (*dto.ProposalResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrRejectReasonMissing
	}

	proposal, err := s.loadReviewableProposal(ctx, supervisorID, proposalID)
	if err != nil {
		return nil, err
	}

	proposal.Status = model.ProposalStatusRejected
	proposal.Feedback = reason
	proposal.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateProposal(ctx, proposal); err != nil {
		s.logger.Error("驳回提案失败", zap.String("proposal_id", proposalID), zap.Error(err))
		return nil, err
	}

	resp := s.toProposalResponse(proposal)
	return &resp, nil
}

func (s *submissionService) CommentProposal(ctx context.Context, supervisorID, proposalID, comment string) (*dto.ProposalResponse, error) {
	proposal, err := s.repo.Submission.GetProposalByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	if err := s.checkSupervisor(proposal.Group, supervisorID); err != nil {
		return nil, err
	}

	proposal.Feedback = comment
	proposal.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateProposal(ctx, proposal); err != nil {
		s.logger.Error("提案评语失败", zap.String("proposal_id", proposalID), zap.Error(err))
		return nil, err
	}

	resp := s.toProposalResponse(proposal)
	return &resp, nil
}

// ────────────────────── 导师侧：文档 ──────────────────────

func (s *submissionService) ListDocuments(ctx context.Context, supervisorID string) ([]dto.DocumentResponse, error) {
	groupIDs, err := s.supervisedGroupIDs(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []dto.DocumentResponse{}, nil
	}

	docs, err := s.repo.Submission.ListDocumentsByGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	return s.toDocumentResponses(docs), nil
}

func (s *submissionService) ApproveDocument(ctx context.Context, supervisorID, documentID string) (*dto.DocumentResponse, error) {
	doc, err := s.loadReviewableDocument(ctx, supervisorID, documentID)
	if err != nil {
		return nil, err
	}

	doc.Status = model.DocumentStatusApproved
	doc.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateDocument(ctx, doc); err != nil {
		s.logger.Error("通过文档失败", zap.String("document_id", documentID), zap.Error(err))
		return nil, err
	}

	resp := s.toDocumentResponse(doc)
	return &resp, nil
}

func (s *submissionService) RejectDocument(ctx context.Context, supervisorID, documentID, reason string) (*dto.DocumentResponse, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrRejectReasonMissing
	}

	doc, err := s.loadReviewableDocument(ctx, supervisorID, documentID)
	if err != nil {
		return nil, err
	}

	doc.Status = model.DocumentStatusRejected
	doc.Feedback = reason
	doc.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateDocument(ctx, doc); err != nil {
		s.logger.Error("驳回文档失败", zap.String("document_id", documentID), zap.Error(err))
		return nil, err
	}

	resp := s.toDocumentResponse(doc)
	return &resp, nil
}

func (s *submissionService) DocumentFeedback(ctx context.Context, supervisorID, documentID, feedback string) (*dto.DocumentResponse, error) {
	doc, err := s.repo.Submission.GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if err := s.checkSupervisor(doc.Group, supervisorID); err != nil {
		return nil, err
	}

	doc.Feedback = feedback
	doc.UpdatedBy = &supervisorID
	if err := s.repo.Submission.UpdateDocument(ctx, doc); err != nil {
		s.logger.Error("文档评语失败", zap.String("document_id", documentID), zap.Error(err))
		return nil, err
	}

	resp := s.toDocumentResponse(doc)
	return &resp, nil
}

// ── 内部辅助方法 ──

// canUploadDocuments 提案达到 submitted / approved 后才允许上传文档
func (s *submissionService) canUploadDocuments(ctx context.Context, groupID string) (bool, error) {
	latest, err := s.repo.Submission.GetLatestProposalByGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return latest.Status == model.ProposalStatusSubmitted ||
		latest.Status == model.ProposalStatusApproved, nil
}

func (s *submissionService) supervisedGroupIDs(ctx context.Context, supervisorID string) ([]string, error) {
	groups, _, err := s.repo.Group.List(ctx, &repository.GroupListFilters{SupervisorID: supervisorID}, 0, -1)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.GroupID)
	}
	return ids, nil
}

func (s *submissionService) checkSupervisor(group *model.Group, supervisorID string) error {
	if group == nil || group.SupervisorID == nil || *group.SupervisorID != supervisorID {
		return ErrNotGroupSupervisor
	}
	return nil
}

func (s *submissionService) loadReviewableProposal(ctx context.Context, supervisorID, proposalID string) (*model.Proposal, error) {
	proposal, err := s.repo.Submission.GetProposalByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	if err := s.checkSupervisor(proposal.Group, supervisorID); err != nil {
		return nil, err
	}
	switch proposal.Status {
	case model.ProposalStatusSubmitted:
		return proposal, nil
	case model.ProposalStatusApproved, model.ProposalStatusRejected:
		return nil, ErrProposalTerminal
	default:
		return nil, ErrProposalNotSubmitted
	}
}

func (s *submissionService) loadReviewableDocument(ctx context.Context, supervisorID, documentID string) (*model.Document, error) {
	doc, err := s.repo.Submission.GetDocumentByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	if err := s.checkSupervisor(doc.Group, supervisorID); err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentStatusPending {
		return nil, ErrDocumentTerminal
	}
	return doc, nil
}

func (s *submissionService) fileURL(relPath string) string {
	return s.cfg.Server.BaseURL + "/uploads/" + storage.NormalizePath(relPath)
}

func (s *submissionService) toProposalResponse(p *model.Proposal) dto.ProposalResponse {
	resp := dto.ProposalResponse{
		ID:        p.ProposalID,
		GroupID:   p.GroupID,
		Version:   p.Version,
		FileName:  p.FileName,
		FileURL:   s.fileURL(p.FilePath),
		Status:    p.Status,
		Feedback:  p.Feedback,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.Group != nil {
		resp.GroupName = p.Group.Name
	}
	return resp
}

func (s *submissionService) toProposalResponses(ps []model.Proposal) []dto.ProposalResponse {
	result := make([]dto.ProposalResponse, 0, len(ps))
	for i := range ps {
		result = append(result, s.toProposalResponse(&ps[i]))
	}
	return result
}

func (s *submissionService) toDocumentResponse(d *model.Document) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:           d.DocumentID,
		GroupID:      d.GroupID,
		DocumentType: d.DocumentType,
		Description:  d.Description,
		Version:      d.Version,
		FileName:     d.FileName,
		FileURL:      s.fileURL(d.FilePath),
		Status:       d.Status,
		Feedback:     d.Feedback,
		CreatedAt:    d.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if d.Group != nil {
		resp.GroupName = d.Group.Name
	}
	return resp
}

func (s *submissionService) toDocumentResponses(ds []model.Document) []dto.DocumentResponse {
	result := make([]dto.DocumentResponse, 0, len(ds))
	for i := range ds {
		result = append(result, s.toDocumentResponse(&ds[i]))
	}
	return result
}
