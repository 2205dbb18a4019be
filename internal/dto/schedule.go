package dto

// ── 答辩排期模块 DTO ──

// CreateScheduleRequest 创建排期请求
type CreateScheduleRequest struct {
	GroupID  string `json:"group_id"  binding:"required,uuid"`
	PanelID  string `json:"panel_id"  binding:"required,uuid"`
	Date     string `json:"date"      binding:"required,datetime=2006-01-02"`
	TimeSlot string `json:"time_slot" binding:"required,max=20"`
	Room     string `json:"room"      binding:"required,max=50"`
	Notes    string `json:"notes"     binding:"omitempty,max=500"`
}

// UpdateScheduleRequest 更新排期请求
type UpdateScheduleRequest struct {
	PanelID   *string `json:"panel_id"  binding:"omitempty,uuid"`
	Date      *string `json:"date"      binding:"omitempty,datetime=2006-01-02"`
	TimeSlot  *string `json:"time_slot" binding:"omitempty,max=20"`
	Room      *string `json:"room"      binding:"omitempty,max=50"`
	Notes     *string `json:"notes"     binding:"omitempty,max=500"`
	Completed *bool   `json:"completed"`
}

// AutoScheduleRequest 自动排期请求
type AutoScheduleRequest struct {
	StartDate string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date"   binding:"required,datetime=2006-01-02"`
	TimeSlots []string `json:"time_slots" binding:"required,min=1,dive,max=20"`
	Rooms     []string `json:"rooms"      binding:"required,min=1,dive,max=50"`
}

// AutoScheduleResponse 自动排期结果响应
type AutoScheduleResponse struct {
	Message              string `json:"message"`
	TotalGroupsScheduled int    `json:"total_groups_scheduled"`
	RemainingGroups      int    `json:"remaining_groups"`
}

// SwapSchedulesRequest 排期对调请求
type SwapSchedulesRequest struct {
	ScheduleAID string `json:"schedule_a_id" binding:"required,uuid"`
	ScheduleBID string `json:"schedule_b_id" binding:"required,uuid"`
}

// ScheduleResponse 排期信息响应
type ScheduleResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name,omitempty"`
	PanelID   string `json:"panel_id"`
	PanelName string `json:"panel_name,omitempty"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	Room      string `json:"room"`
	Notes     string `json:"notes,omitempty"`
	Completed bool   `json:"completed"`
	Version   int    `json:"version"`
}

// ScheduleListRequest 排期列表查询参数
type ScheduleListRequest struct {
	Date    string `form:"date"     binding:"omitempty,datetime=2006-01-02"`
	PanelID string `form:"panel_id" binding:"omitempty,uuid"`
	Room    string `form:"room"     binding:"omitempty,max=50"`
}
