package model

// ── 提案状态（含 draft → submitted 前置流转）──

const (
	ProposalStatusDraft     = "draft"
	ProposalStatusSubmitted = "submitted"
	ProposalStatusApproved  = "approved"
	ProposalStatusRejected  = "rejected"
)

// ── 文档状态 ──

const (
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected"
)

// Proposal 开题提案表 — 对应 proposals
// 同一小组可多次上传形成版本序列；submitted / approved 后才允许上传文档
type Proposal struct {
	ProposalID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"proposal_id"`
	GroupID    string `gorm:"type:uuid;not null"                             json:"group_id"`
	Version    int    `gorm:"not null;default:1"                             json:"version"`
	FilePath   string `gorm:"type:varchar(500);not null"                     json:"file_path"`
	FileName   string `gorm:"type:varchar(255);not null"                     json:"file_name"`
	Status     string `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | submitted | approved | rejected
	Feedback   string `gorm:"type:varchar(1000)"                             json:"feedback,omitempty"`
	SoftDeleteModel

	// 关联
	Group *Group `gorm:"foreignKey:GroupID;references:GroupID" json:"group,omitempty"`
}

// TableName 指定表名
func (Proposal) TableName() string { return "proposals" }

// Document 项目文档表 — 对应 documents
type Document struct {
	DocumentID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	GroupID      string `gorm:"type:uuid;not null"                             json:"group_id"`
	DocumentType string `gorm:"type:varchar(50);not null"                      json:"document_type"`
	Description  string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	Version      int    `gorm:"not null;default:1"                             json:"version"`
	FilePath     string `gorm:"type:varchar(500);not null"                     json:"file_path"`
	FileName     string `gorm:"type:varchar(255);not null"                     json:"file_name"`
	Status       string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | approved | rejected
	Feedback     string `gorm:"type:varchar(1000)"                             json:"feedback,omitempty"`
	SoftDeleteModel

	// 关联
	Group *Group `gorm:"foreignKey:GroupID;references:GroupID" json:"group,omitempty"`
}

// TableName 指定表名
func (Document) TableName() string { return "documents" }

// [自证通过] internal/model/submission.go
