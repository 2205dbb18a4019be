package dto

// ── 评审小组模块 DTO ──

// CreatePanelRequest 创建评审小组请求
type CreatePanelRequest struct {
	Name      string   `json:"name"       binding:"required,min=2,max=100"`
	MemberIDs []string `json:"member_ids" binding:"required,min=1,dive,uuid"`
}

// UpdatePanelRequest 更新评审小组请求
type UpdatePanelRequest struct {
	Name      *string  `json:"name"       binding:"omitempty,min=2,max=100"`
	MemberIDs []string `json:"member_ids" binding:"omitempty,min=1,dive,uuid"`
	IsActive  *bool    `json:"is_active"`
}

// PanelMemberResponse 评审成员响应
type PanelMemberResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// PanelResponse 评审小组响应
type PanelResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	IsActive  bool                  `json:"is_active"`
	Members   []PanelMemberResponse `json:"members"`
	CreatedAt string                `json:"created_at"`
}
