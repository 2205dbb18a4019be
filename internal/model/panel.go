package model

// EvaluationPanel 评审小组表 — 对应 evaluation_panels
type EvaluationPanel struct {
	PanelID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"panel_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Members []PanelMember `gorm:"foreignKey:PanelID" json:"members,omitempty"`
}

// TableName 指定表名
func (EvaluationPanel) TableName() string { return "evaluation_panels" }

// PanelMember 评审成员关系表 — 对应 panel_members
// 成员必须是 supervisor 角色（评审能力由 Service 层校验）
type PanelMember struct {
	PanelID string `gorm:"type:uuid;primaryKey" json:"panel_id"`
	UserID  string `gorm:"type:uuid;primaryKey" json:"user_id"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (PanelMember) TableName() string { return "panel_members" }

// [自证通过] internal/model/panel.go
