package dto

// ── 选题模块 DTO ──

// CreateIdeaRequest 导师发布选题请求
type CreateIdeaRequest struct {
	Title       string `json:"title"       binding:"required,min=4,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// SelectIdeaRequest 小组选用导师选题请求
type SelectIdeaRequest struct {
	IdeaID string `json:"idea_id" binding:"required,uuid"`
}

// RequestCustomIdeaRequest 小组自拟选题请求
type RequestCustomIdeaRequest struct {
	Title        string `json:"title"         binding:"required,min=4,max=200"`
	Description  string `json:"description"   binding:"required,max=2000"`
	SupervisorID string `json:"supervisor_id" binding:"required,uuid"`
}

// ReviewIdeaRequest 选题审核请求
// 拒绝时 reason 必填由 Service 层校验（approve 的 comment 可选）
type ReviewIdeaRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=500"`
	Reason  string `json:"reason"  binding:"omitempty,max=500"`
}

// IdeaResponse 选题信息响应
type IdeaResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Source       string `json:"source"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	Supervisor   string `json:"supervisor,omitempty"`
	GroupID      string `json:"group_id,omitempty"`
	IdeaStatus   string `json:"idea_status"`
	Feedback     string `json:"feedback,omitempty"`
	RejectReason string `json:"reject_reason,omitempty"`
	CreatedAt    string `json:"created_at"`
}
