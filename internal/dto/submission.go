package dto

// ── 提案/文档模块 DTO ──

// ReviewSubmissionRequest 提案/文档审核请求
// 拒绝时 reason 必填由 Service 层校验
type ReviewSubmissionRequest struct {
	Comment string `json:"comment" binding:"omitempty,max=1000"`
	Reason  string `json:"reason"  binding:"omitempty,max=1000"`
}

// FeedbackRequest 导师评语请求
type FeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required,min=1,max=1000"`
}

// ProposalResponse 提案信息响应
type ProposalResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name,omitempty"`
	Version   int    `json:"version"`
	FileName  string `json:"file_name"`
	FileURL   string `json:"file_url"`
	Status    string `json:"status"`
	Feedback  string `json:"feedback,omitempty"`
	CreatedAt string `json:"created_at"`
}

// DocumentResponse 文档信息响应
type DocumentResponse struct {
	ID           string `json:"id"`
	GroupID      string `json:"group_id"`
	GroupName    string `json:"group_name,omitempty"`
	DocumentType string `json:"document_type"`
	Description  string `json:"description,omitempty"`
	Version      int    `json:"version"`
	FileName     string `json:"file_name"`
	FileURL      string `json:"file_url"`
	Status       string `json:"status"`
	Feedback     string `json:"feedback,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// MyDocumentsResponse 学生文档列表响应
// can_upload_documents：提案达到 submitted/approved 后才允许上传文档
type MyDocumentsResponse struct {
	CanUploadDocuments bool               `json:"can_upload_documents"`
	Documents          []DocumentResponse `json:"documents"`
}
