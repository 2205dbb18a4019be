package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyp-portal/internal/dto"
)

// ErrReasonRequired 拒绝操作缺少原因，命中时不产生网络调用
var ErrReasonRequired = errors.New("拒绝必须填写原因")

// SupervisorAPI 导师端接口
type SupervisorAPI struct {
	c *Client
}

// Supervisor 导师端接口入口
func (c *Client) Supervisor() *SupervisorAPI { return &SupervisorAPI{c: c} }

// requireReason 拒绝原因的本地校验：去除首尾空白后不得为空
func requireReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	return nil
}

// ── 名下小组 ──

// MyGroups 列出指导中的小组
func (s *SupervisorAPI) MyGroups(ctx context.Context) ([]dto.GroupResponse, error) {
	var resp []dto.GroupResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/groups", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ── 选题 ──

// CreateIdea 发布一个可供选用的选题
func (s *SupervisorAPI) CreateIdea(ctx context.Context, title, description string) (*dto.IdeaResponse, error) {
	req := dto.CreateIdeaRequest{Title: title, Description: description}
	var resp dto.IdeaResponse
	if err := s.c.Post(ctx, "/api/v1/supervisor/ideas", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyIdeas 列出本人发布的选题
func (s *SupervisorAPI) MyIdeas(ctx context.Context) ([]dto.IdeaResponse, error) {
	var resp []dto.IdeaResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/ideas", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PendingIdeas 列出待本人审核的自拟选题
func (s *SupervisorAPI) PendingIdeas(ctx context.Context) ([]dto.IdeaResponse, error) {
	var resp []dto.IdeaResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/ideas/pending", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ApproveIdea 通过自拟选题；comment 可选
func (s *SupervisorAPI) ApproveIdea(ctx context.Context, ideaID, comment string) (*dto.IdeaResponse, error) {
	req := dto.ReviewIdeaRequest{Comment: comment}
	var resp dto.IdeaResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/ideas/%s/approve", ideaID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectIdea 拒绝自拟选题；原因必填
func (s *SupervisorAPI) RejectIdea(ctx context.Context, ideaID, reason string) (*dto.IdeaResponse, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	req := dto.ReviewIdeaRequest{Reason: reason}
	var resp dto.IdeaResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/ideas/%s/reject", ideaID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteIdea 删除尚未被选用的选题
func (s *SupervisorAPI) DeleteIdea(ctx context.Context, ideaID string) error {
	return s.c.Delete(ctx, fmt.Sprintf("/api/v1/supervisor/ideas/%s", ideaID), nil)
}

// ── 提案审核 ──

// Proposals 列出名下小组的已提交提案（草稿不可见）
func (s *SupervisorAPI) Proposals(ctx context.Context) ([]dto.ProposalResponse, error) {
	var resp []dto.ProposalResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/proposals", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ApproveProposal 通过提案
func (s *SupervisorAPI) ApproveProposal(ctx context.Context, proposalID, comment string) (*dto.ProposalResponse, error) {
	req := dto.ReviewSubmissionRequest{Comment: comment}
	var resp dto.ProposalResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/proposals/%s/approve", proposalID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectProposal 拒绝提案；原因必填
func (s *SupervisorAPI) RejectProposal(ctx context.Context, proposalID, reason string) (*dto.ProposalResponse, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	req := dto.ReviewSubmissionRequest{Reason: reason}
	var resp dto.ProposalResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/proposals/%s/reject", proposalID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CommentProposal 对提案追加评语（不改变状态）
func (s *SupervisorAPI) CommentProposal(ctx context.Context, proposalID, feedback string) (*dto.ProposalResponse, error) {
	req := dto.FeedbackRequest{Feedback: feedback}
	var resp dto.ProposalResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/proposals/%s/comment", proposalID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 文档审核 ──

// Documents 列出名下小组的项目文档
func (s *SupervisorAPI) Documents(ctx context.Context) ([]dto.DocumentResponse, error) {
	var resp []dto.DocumentResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/documents", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ApproveDocument 通过文档
func (s *SupervisorAPI) ApproveDocument(ctx context.Context, documentID, comment string) (*dto.DocumentResponse, error) {
	req := dto.ReviewSubmissionRequest{Comment: comment}
	var resp dto.DocumentResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/documents/%s/approve", documentID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RejectDocument 拒绝文档；原因必填
func (s *SupervisorAPI) RejectDocument(ctx context.Context, documentID, reason string) (*dto.DocumentResponse, error) {
	if err := requireReason(reason); err != nil {
		return nil, err
	}

	req := dto.ReviewSubmissionRequest{Reason: reason}
	var resp dto.DocumentResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/documents/%s/reject", documentID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DocumentFeedback 对文档追加评语
func (s *SupervisorAPI) DocumentFeedback(ctx context.Context, documentID, feedback string) (*dto.DocumentResponse, error) {
	req := dto.FeedbackRequest{Feedback: feedback}
	var resp dto.DocumentResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/documents/%s/feedback", documentID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 期末评分 ──

// Evaluations 列出名下小组的期末评分表
func (s *SupervisorAPI) Evaluations(ctx context.Context) ([]dto.EvaluationResponse, error) {
	var resp []dto.EvaluationResponse
	if err := s.c.Get(ctx, "/api/v1/supervisor/final-evaluations", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateMarks 录入分项成绩
func (s *SupervisorAPI) UpdateMarks(ctx context.Context, evaluationID string, req dto.UpdateMarksRequest) (*dto.EvaluationResponse, error) {
	var resp dto.EvaluationResponse
	if err := s.c.Put(ctx, fmt.Sprintf("/api/v1/supervisor/final-evaluations/%s/marks", evaluationID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateEvaluationFeedback 更新总评语
func (s *SupervisorAPI) UpdateEvaluationFeedback(ctx context.Context, evaluationID, feedback string) (*dto.EvaluationResponse, error) {
	req := dto.FeedbackRequest{Feedback: feedback}
	var resp dto.EvaluationResponse
	if err := s.c.Put(ctx, fmt.Sprintf("/api/v1/supervisor/final-evaluations/%s/feedback", evaluationID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CompleteEvaluation 定稿评分，此后不可再修改
func (s *SupervisorAPI) CompleteEvaluation(ctx context.Context, evaluationID string) (*dto.EvaluationResponse, error) {
	var resp dto.EvaluationResponse
	if err := s.c.Post(ctx, fmt.Sprintf("/api/v1/supervisor/final-evaluations/%s/complete", evaluationID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
