package dto

// ── 系部模块 DTO ──

// CreateDepartmentRequest 创建系部请求
type CreateDepartmentRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

// UpdateDepartmentRequest 更新系部请求
type UpdateDepartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// DepartmentDetailResponse 系部详细信息响应
type DepartmentDetailResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"is_active"`
	FacultyCount int64  `json:"faculty_count"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// ── 教职工管理 DTO ──

// AddFacultyRequest 向系部添加导师请求
type AddFacultyRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// FacultyResponse 导师信息响应
type FacultyResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DepartmentID string `json:"department_id"`
	Department   string `json:"department,omitempty"`
	GroupCount   int64  `json:"group_count"` // 指导中的小组数
}

// TransferFacultyRequest 导师调动请求
type TransferFacultyRequest struct {
	FacultyID      string `json:"faculty_id"       binding:"required,uuid"`
	ToDepartmentID string `json:"to_department_id" binding:"required,uuid"`
}
