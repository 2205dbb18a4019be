package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 期末评分模块业务错误 ──

var (
	ErrEvaluationNotFound  = errors.New("评分记录不存在")
	ErrEvaluationCompleted = errors.New("评分已锁定，不可再修改")
)

// MarksOutOfRangeError 分项成绩超出满分上限
type MarksOutOfRangeError struct {
	Component string
	Max       float64
}

func (e *MarksOutOfRangeError) Error() string {
	return fmt.Sprintf("%s 成绩不能超过 %.0f 分", e.Component, e.Max)
}

// EvaluationService 期末评分业务接口
type EvaluationService interface {
	// ── 导师侧 ──
	ListBySupervisor(ctx context.Context, supervisorID string) ([]dto.EvaluationResponse, error)
	// UpdateMarks 按分项录入成绩；缺席的分项保持原值
	UpdateMarks(ctx context.Context, supervisorID, evaluationID string, req *dto.UpdateMarksRequest) (*dto.EvaluationResponse, error)
	UpdateFeedback(ctx context.Context, supervisorID, evaluationID, feedback string) (*dto.EvaluationResponse, error)
	// Complete 锁定评分，之后不再接受修改
	Complete(ctx context.Context, supervisorID, evaluationID string) (*dto.EvaluationResponse, error)

	// ── 学生侧 ──
	GetMyEvaluation(ctx context.Context, studentID string) (*dto.EvaluationResponse, error)

	// ── 协调员侧 ──
	List(ctx context.Context) ([]dto.EvaluationResponse, error)
}

type evaluationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, logger: logger}
}

// ────────────────────── 导师侧 ──────────────────────

func (s *evaluationService) ListBySupervisor(ctx context.Context, supervisorID string) ([]dto.EvaluationResponse, error) {
	groups, _, err := s.repo.Group.List(ctx, &repository.GroupListFilters{SupervisorID: supervisorID}, 0, -1)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []dto.EvaluationResponse{}, nil
	}

	// 指导的小组若还没有评分记录，这里补建一条空白记录
	existing := make(map[string]bool)
	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.GroupID)
	}
	evals, err := s.repo.Evaluation.ListByGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range evals {
		existing[e.GroupID] = true
	}
	for i := range groups {
		if existing[groups[i].GroupID] {
			continue
		}
		blank := &model.FinalEvaluation{GroupID: groups[i].GroupID}
		blank.CreatedBy = &supervisorID
		blank.UpdatedBy = &supervisorID
		if err := s.repo.Evaluation.Create(ctx, blank); err != nil {
			s.logger.Error("创建评分记录失败", zap.String("group_id", groups[i].GroupID), zap.Error(err))
			return nil, err
		}
	}

	evals, err = s.repo.Evaluation.ListByGroups(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toEvaluationResponses(evals), nil
}

func (s *evaluationService) UpdateMarks(ctx context.Context, supervisorID, evaluationID string, req *dto.UpdateMarksRequest) (*dto.EvaluationResponse, error) {
	eval, err := s.loadEditable(ctx, supervisorID, evaluationID)
	if err != nil {
		return nil, err
	}

	if err := applyMarks(eval, req); err != nil {
		return nil, err
	}

	eval.UpdatedBy = &supervisorID
	if err := s.repo.Evaluation.Update(ctx, eval); err != nil {
		s.logger.Error("录入成绩失败", zap.String("evaluation_id", evaluationID), zap.Error(err))
		return nil, err
	}

	resp := toEvaluationResponse(eval)
	return &resp, nil
}

func (s *evaluationService) UpdateFeedback(ctx context.Context, supervisorID, evaluationID, feedback string) (*dto.EvaluationResponse, error) {
	eval, err := s.loadEditable(ctx, supervisorID, evaluationID)
	if err != nil {
		return nil, err
	}

	eval.Feedback = feedback
	eval.UpdatedBy = &supervisorID
	if err := s.repo.Evaluation.Update(ctx, eval); err != nil {
		s.logger.Error("录入评语失败", zap.String("evaluation_id", evaluationID), zap.Error(err))
		return nil, err
	}

	resp := toEvaluationResponse(eval)
	return &resp, nil
}

func (s *evaluationService) Complete(ctx context.Context, supervisorID, evaluationID string) (*dto.EvaluationResponse, error) {
	eval, err := s.loadEditable(ctx, supervisorID, evaluationID)
	if err != nil {
		return nil, err
	}

	eval.Completed = true
	eval.UpdatedBy = &supervisorID
	if err := s.repo.Evaluation.Update(ctx, eval); err != nil {
		s.logger.Error("锁定评分失败", zap.String("evaluation_id", evaluationID), zap.Error(err))
		return nil, err
	}

	resp := toEvaluationResponse(eval)
	return &resp, nil
}

// ────────────────────── 学生 / 协调员侧 ──────────────────────

func (s *evaluationService) GetMyEvaluation(ctx context.Context, studentID string) (*dto.EvaluationResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	eval, err := s.repo.Evaluation.GetByGroup(ctx, group.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	eval.Group = group

	resp := toEvaluationResponse(eval)
	return &resp, nil
}

func (s *evaluationService) List(ctx context.Context) ([]dto.EvaluationResponse, error) {
	evals, err := s.repo.Evaluation.List(ctx)
	if err != nil {
		s.logger.Error("查询评分列表失败", zap.Error(err))
		return nil, err
	}
	return toEvaluationResponses(evals), nil
}

// ── 内部辅助方法 ──

// loadEditable 加载一条本导师可编辑的评分记录
func (s *evaluationService) loadEditable(ctx context.Context, supervisorID, evaluationID string) (*model.FinalEvaluation, error) {
	eval, err := s.repo.Evaluation.GetByID(ctx, evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, err
	}
	if eval.Group == nil || eval.Group.SupervisorID == nil || *eval.Group.SupervisorID != supervisorID {
		return nil, ErrNotGroupSupervisor
	}
	if eval.Completed {
		return nil, ErrEvaluationCompleted
	}
	return eval, nil
}

// applyMarks 写入请求中出现的分项，逐项校验满分上限
func applyMarks(eval *model.FinalEvaluation, req *dto.UpdateMarksRequest) error {
	set := func(dst *float64, v *float64, component string, max float64) error {
		if v == nil {
			return nil
		}
		if *v < 0 || *v > max {
			return &MarksOutOfRangeError{Component: component, Max: max}
		}
		*dst = *v
		return nil
	}

	if err := set(&eval.ProposalMarks, req.ProposalMarks, "开题", model.MaxProposalMarks); err != nil {
		return err
	}
	if err := set(&eval.ImplementationMarks, req.ImplementationMarks, "实现", model.MaxImplementationMarks); err != nil {
		return err
	}
	if err := set(&eval.DocumentationMarks, req.DocumentationMarks, "文档", model.MaxDocumentationMarks); err != nil {
		return err
	}
	if err := set(&eval.PresentationMarks, req.PresentationMarks, "答辩", model.MaxPresentationMarks); err != nil {
		return err
	}
	return set(&eval.GithubMarks, req.GithubMarks, "GitHub", model.MaxGithubMarks)
}

func toEvaluationResponse(eval *model.FinalEvaluation) dto.EvaluationResponse {
	resp := dto.EvaluationResponse{
		ID:                  eval.EvaluationID,
		GroupID:             eval.GroupID,
		ProposalMarks:       eval.ProposalMarks,
		ImplementationMarks: eval.ImplementationMarks,
		DocumentationMarks:  eval.DocumentationMarks,
		PresentationMarks:   eval.PresentationMarks,
		GithubMarks:         eval.GithubMarks,
		TotalMarks:          eval.Total(),
		Feedback:            eval.Feedback,
		Completed:           eval.Completed,
	}
	if eval.Group != nil {
		resp.GroupName = eval.Group.Name
	}
	return resp
}

func toEvaluationResponses(evals []model.FinalEvaluation) []dto.EvaluationResponse {
	result := make([]dto.EvaluationResponse, 0, len(evals))
	for i := range evals {
		result = append(result, toEvaluationResponse(&evals[i]))
	}
	return result
}
