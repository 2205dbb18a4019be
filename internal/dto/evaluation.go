package dto

// ── 期末评分模块 DTO ──

// UpdateMarksRequest 录入分项成绩请求
// 五个分项均可独立录入；满分上限由 Service 层按分项校验
type UpdateMarksRequest struct {
	ProposalMarks       *float64 `json:"proposal_marks"       binding:"omitempty,min=0"`
	ImplementationMarks *float64 `json:"implementation_marks" binding:"omitempty,min=0"`
	DocumentationMarks  *float64 `json:"documentation_marks"  binding:"omitempty,min=0"`
	PresentationMarks   *float64 `json:"presentation_marks"   binding:"omitempty,min=0"`
	GithubMarks         *float64 `json:"github_marks"         binding:"omitempty,min=0"`
}

// EvaluationResponse 期末评分响应
type EvaluationResponse struct {
	ID                  string  `json:"id"`
	GroupID             string  `json:"group_id"`
	GroupName           string  `json:"group_name,omitempty"`
	ProposalMarks       float64 `json:"proposal_marks"`
	ImplementationMarks float64 `json:"implementation_marks"`
	DocumentationMarks  float64 `json:"documentation_marks"`
	PresentationMarks   float64 `json:"presentation_marks"`
	GithubMarks         float64 `json:"github_marks"`
	TotalMarks          float64 `json:"total_marks"`
	Feedback            string  `json:"feedback,omitempty"`
	Completed           bool    `json:"completed"`
}
