package dto

// ── 小组模块 DTO ──

// CreateGroupRequest 创建小组请求
// member_ids 为组长之外的成员，最多 2 人（含组长共 3 人）
type CreateGroupRequest struct {
	Name      string   `json:"name"       binding:"required,min=2,max=100"`
	MemberIDs []string `json:"member_ids" binding:"omitempty,max=2,dive,uuid"`
}

// UpdateGroupMembersRequest 调整小组成员请求
type UpdateGroupMembersRequest struct {
	MemberIDs []string `json:"member_ids" binding:"omitempty,max=2,dive,uuid"`
}

// UpdateGroupStatusRequest 更新小组状态请求
type UpdateGroupStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending active completed on_hold"`
}

// AssignSupervisorRequest 指派导师请求
type AssignSupervisorRequest struct {
	SupervisorID string `json:"supervisor_id" binding:"required,uuid"`
}

// GroupMemberResponse 小组成员响应
type GroupMemberResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
	Email  string `json:"email"`
}

// GroupResponse 小组详细信息响应
type GroupResponse struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Status     string                `json:"status"`
	Leader     GroupMemberResponse   `json:"leader"`
	Members    []GroupMemberResponse `json:"members"`
	Supervisor *FacultyResponse      `json:"supervisor,omitempty"`
	Idea       *IdeaResponse         `json:"idea,omitempty"`
	CreatedAt  string                `json:"created_at"`
}

// GroupListRequest 小组列表查询参数
type GroupListRequest struct {
	PaginationRequest
	Status       string `form:"status"        binding:"omitempty,oneof=pending active completed on_hold"`
	SupervisorID string `form:"supervisor_id" binding:"omitempty,uuid"`
}
