package client

import (
	"context"
	"errors"
	"io"
	"strings"

	"fyp-portal/internal/dto"
)

// ── 学生端本地校验错误 ──
// 这些校验在发起请求前完成，命中时不产生网络调用

var (
	// ErrTooManyMembers 组长之外的成员超过 2 人
	ErrTooManyMembers = errors.New("除组长外最多添加 2 名成员")
	// ErrDocumentsLocked 提案未达到已提交状态，文档上传未解锁
	ErrDocumentsLocked = errors.New("请先提交开题提案，再上传项目文档")
)

// maxAdditionalMembers 组长之外可添加的成员上限（全组含组长 3 人）
const maxAdditionalMembers = 2

// StudentAPI 学生端接口
type StudentAPI struct {
	c *Client
}

// Student 学生端接口入口
func (c *Client) Student() *StudentAPI { return &StudentAPI{c: c} }

// ── 小组 ──

// CreateGroup 创建小组
// memberIDs 为组长之外的成员；超过 2 人直接在本地拒绝
func (s *StudentAPI) CreateGroup(ctx context.Context, name string, memberIDs []string) (*dto.GroupResponse, error) {
	if len(memberIDs) > maxAdditionalMembers {
		return nil, ErrTooManyMembers
	}

	req := dto.CreateGroupRequest{Name: name, MemberIDs: memberIDs}
	var resp dto.GroupResponse
	if err := s.c.Post(ctx, "/api/v1/group/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyGroup 获取当前学生的小组
func (s *StudentAPI) MyGroup(ctx context.Context) (*dto.GroupResponse, error) {
	var resp dto.GroupResponse
	if err := s.c.Get(ctx, "/api/v1/group/my", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateMembers 调整小组成员
func (s *StudentAPI) UpdateMembers(ctx context.Context, memberIDs []string) (*dto.GroupResponse, error) {
	if len(memberIDs) > maxAdditionalMembers {
		return nil, ErrTooManyMembers
	}

	req := dto.UpdateGroupMembersRequest{MemberIDs: memberIDs}
	var resp dto.GroupResponse
	if err := s.c.Put(ctx, "/api/v1/group/members", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 选题 ──

// AvailableIdeas 列出可选用的导师选题
func (s *StudentAPI) AvailableIdeas(ctx context.Context) ([]dto.IdeaResponse, error) {
	var resp []dto.IdeaResponse
	if err := s.c.Get(ctx, "/api/v1/project/ideas", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// SelectIdea 选用一个导师发布的选题
func (s *StudentAPI) SelectIdea(ctx context.Context, ideaID string) (*dto.IdeaResponse, error) {
	req := dto.SelectIdeaRequest{IdeaID: ideaID}
	var resp dto.IdeaResponse
	if err := s.c.Post(ctx, "/api/v1/project/select-idea", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestCustomIdea 提交自拟选题，等待目标导师审核
func (s *StudentAPI) RequestCustomIdea(ctx context.Context, req dto.RequestCustomIdeaRequest) (*dto.IdeaResponse, error) {
	var resp dto.IdeaResponse
	if err := s.c.Post(ctx, "/api/v1/project/request-custom-idea", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyProject 获取本组当前选题
func (s *StudentAPI) MyProject(ctx context.Context) (*dto.IdeaResponse, error) {
	var resp dto.IdeaResponse
	if err := s.c.Get(ctx, "/api/v1/project/my", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 提案 ──

// MyProposals 列出本组提案的全部版本
func (s *StudentAPI) MyProposals(ctx context.Context) ([]dto.ProposalResponse, error) {
	var resp []dto.ProposalResponse
	if err := s.c.Get(ctx, "/api/v1/project/proposals", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// UploadProposal 上传新版本提案（初始为草稿）
func (s *StudentAPI) UploadProposal(ctx context.Context, filename string, file io.Reader) (*dto.ProposalResponse, error) {
	var resp dto.ProposalResponse
	if err := s.c.Upload(ctx, "/api/v1/project/proposals", "file", filename, file, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitProposal 将最新草稿提交导师审核
func (s *StudentAPI) SubmitProposal(ctx context.Context) (*dto.ProposalResponse, error) {
	var resp dto.ProposalResponse
	if err := s.c.Post(ctx, "/api/v1/project/proposals/submit", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 文档 ──

// MyDocuments 获取本组文档列表及上传解锁状态
func (s *StudentAPI) MyDocuments(ctx context.Context) (*dto.MyDocumentsResponse, error) {
	var resp dto.MyDocumentsResponse
	if err := s.c.Get(ctx, "/api/v1/project/documents", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadDocument 上传项目文档
// 先查询解锁状态，未解锁时本地拒绝，不发起上传
func (s *StudentAPI) UploadDocument(ctx context.Context, documentType, description, filename string, file io.Reader) (*dto.DocumentResponse, error) {
	docs, err := s.MyDocuments(ctx)
	if err != nil {
		return nil, err
	}
	if !docs.CanUploadDocuments {
		return nil, ErrDocumentsLocked
	}

	fields := []UploadField{{Name: "document_type", Value: documentType}}
	if strings.TrimSpace(description) != "" {
		fields = append(fields, UploadField{Name: "description", Value: description})
	}

	var resp dto.DocumentResponse
	if err := s.c.Upload(ctx, "/api/v1/project/documents", "file", filename, file, fields, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 排期与成绩 ──

// MySchedule 获取本组答辩排期
func (s *StudentAPI) MySchedule(ctx context.Context) (*dto.ScheduleResponse, error) {
	var resp dto.ScheduleResponse
	if err := s.c.Get(ctx, "/api/v1/project/schedule", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyEvaluation 获取本组期末成绩（导师定稿后可见）
func (s *StudentAPI) MyEvaluation(ctx context.Context) (*dto.EvaluationResponse, error) {
	var resp dto.EvaluationResponse
	if err := s.c.Get(ctx, "/api/v1/project/evaluation", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
