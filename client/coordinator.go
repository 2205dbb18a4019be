package client

import (
	"context"
	"fmt"
	"net/url"

	"fyp-portal/internal/dto"
)

// CoordinatorAPI 协调员端接口
type CoordinatorAPI struct {
	c *Client
}

// Coordinator 协调员端接口入口
func (c *Client) Coordinator() *CoordinatorAPI { return &CoordinatorAPI{c: c} }

// ── 系部 ──

// CreateDepartment 创建系部
func (a *CoordinatorAPI) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*dto.DepartmentDetailResponse, error) {
	var resp dto.DepartmentDetailResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/departments", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Departments 列出全部系部
func (a *CoordinatorAPI) Departments(ctx context.Context) ([]dto.DepartmentDetailResponse, error) {
	var resp []dto.DepartmentDetailResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/departments", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Department 获取系部详情
func (a *CoordinatorAPI) Department(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error) {
	var resp dto.DepartmentDetailResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/departments/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateDepartment 更新系部信息
func (a *CoordinatorAPI) UpdateDepartment(ctx context.Context, id string, req dto.UpdateDepartmentRequest) (*dto.DepartmentDetailResponse, error) {
	var resp dto.DepartmentDetailResponse
	if err := a.c.Put(ctx, "/api/v1/coordinator/departments/"+id, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteDepartment 删除系部（仍有导师时服务端拒绝）
func (a *CoordinatorAPI) DeleteDepartment(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/coordinator/departments/"+id, nil)
}

// ── 教职工 ──

// Faculty 列出系部导师
func (a *CoordinatorAPI) Faculty(ctx context.Context, departmentID string) ([]dto.FacultyResponse, error) {
	var resp []dto.FacultyResponse
	if err := a.c.Get(ctx, fmt.Sprintf("/api/v1/coordinator/departments/%s/faculty", departmentID), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AddFaculty 向系部添加导师账号
func (a *CoordinatorAPI) AddFaculty(ctx context.Context, departmentID string, req dto.AddFacultyRequest) (*dto.FacultyResponse, error) {
	var resp dto.FacultyResponse
	if err := a.c.Post(ctx, fmt.Sprintf("/api/v1/coordinator/departments/%s/faculty", departmentID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveFaculty 将导师从系部移除
func (a *CoordinatorAPI) RemoveFaculty(ctx context.Context, departmentID, facultyID string) error {
	return a.c.Delete(ctx, fmt.Sprintf("/api/v1/coordinator/departments/%s/faculty/%s", departmentID, facultyID), nil)
}

// TransferFaculty 导师调动到另一系部
func (a *CoordinatorAPI) TransferFaculty(ctx context.Context, facultyID, toDepartmentID string) (*dto.FacultyResponse, error) {
	req := dto.TransferFacultyRequest{FacultyID: facultyID, ToDepartmentID: toDepartmentID}
	var resp dto.FacultyResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/faculty/transfer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 小组管理 ──

// GroupList 分页小组列表响应
type GroupList struct {
	Items []dto.GroupResponse `json:"items"`
	Total int64               `json:"total"`
}

// Groups 分页查询小组，status/supervisorID 为空表示不过滤
func (a *CoordinatorAPI) Groups(ctx context.Context, page, pageSize int, status, supervisorID string) (*GroupList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if pageSize > 0 {
		q.Set("page_size", fmt.Sprintf("%d", pageSize))
	}
	if status != "" {
		q.Set("status", status)
	}
	if supervisorID != "" {
		q.Set("supervisor_id", supervisorID)
	}

	path := "/api/v1/coordinator/groups"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp GroupList
	if err := a.c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Group 获取小组详情
func (a *CoordinatorAPI) Group(ctx context.Context, id string) (*dto.GroupResponse, error) {
	var resp dto.GroupResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/groups/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateGroupStatus 更新小组状态
func (a *CoordinatorAPI) UpdateGroupStatus(ctx context.Context, id, status string) (*dto.GroupResponse, error) {
	req := dto.UpdateGroupStatusRequest{Status: status}
	var resp dto.GroupResponse
	if err := a.c.Put(ctx, fmt.Sprintf("/api/v1/coordinator/groups/%s/status", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AssignSupervisor 为小组指派导师
func (a *CoordinatorAPI) AssignSupervisor(ctx context.Context, groupID, supervisorID string) (*dto.GroupResponse, error) {
	req := dto.AssignSupervisorRequest{SupervisorID: supervisorID}
	var resp dto.GroupResponse
	if err := a.c.Put(ctx, fmt.Sprintf("/api/v1/coordinator/groups/%s/supervisor", groupID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ── 评审小组 ──

// CreatePanel 创建评审小组
func (a *CoordinatorAPI) CreatePanel(ctx context.Context, req dto.CreatePanelRequest) (*dto.PanelResponse, error) {
	var resp dto.PanelResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/panels", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Panels 列出评审小组
func (a *CoordinatorAPI) Panels(ctx context.Context) ([]dto.PanelResponse, error) {
	var resp []dto.PanelResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/panels", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Panel 获取评审小组详情
func (a *CoordinatorAPI) Panel(ctx context.Context, id string) (*dto.PanelResponse, error) {
	var resp dto.PanelResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/panels/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdatePanel 更新评审小组
func (a *CoordinatorAPI) UpdatePanel(ctx context.Context, id string, req dto.UpdatePanelRequest) (*dto.PanelResponse, error) {
	var resp dto.PanelResponse
	if err := a.c.Put(ctx, "/api/v1/coordinator/panels/"+id, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeletePanel 删除评审小组
func (a *CoordinatorAPI) DeletePanel(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/coordinator/panels/"+id, nil)
}

// ── 答辩排期 ──

// CreateSchedule 创建排期
func (a *CoordinatorAPI) CreateSchedule(ctx context.Context, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	var resp dto.ScheduleResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/schedules", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Schedules 按条件查询排期，空条件返回全部
func (a *CoordinatorAPI) Schedules(ctx context.Context, date, panelID, room string) ([]dto.ScheduleResponse, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if panelID != "" {
		q.Set("panel_id", panelID)
	}
	if room != "" {
		q.Set("room", room)
	}

	path := "/api/v1/coordinator/schedules"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp []dto.ScheduleResponse
	if err := a.c.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Schedule 获取排期详情
func (a *CoordinatorAPI) Schedule(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	var resp dto.ScheduleResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/schedules/"+id, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateSchedule 更新排期（乐观锁，冲突时服务端返回 409）
func (a *CoordinatorAPI) UpdateSchedule(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	var resp dto.ScheduleResponse
	if err := a.c.Put(ctx, "/api/v1/coordinator/schedules/"+id, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSchedule 删除排期
func (a *CoordinatorAPI) DeleteSchedule(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/coordinator/schedules/"+id, nil)
}

// AutoSchedule 为全部未排期小组自动分配时段
// 返回的 Message 为服务端生成的结果摘要，直接展示即可
func (a *CoordinatorAPI) AutoSchedule(ctx context.Context, req dto.AutoScheduleRequest) (*dto.AutoScheduleResponse, error) {
	var resp dto.AutoScheduleResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/schedules/auto", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SwapSchedules 对调两个排期的时段安排（小组不变）
func (a *CoordinatorAPI) SwapSchedules(ctx context.Context, scheduleAID, scheduleBID string) ([]dto.ScheduleResponse, error) {
	req := dto.SwapSchedulesRequest{ScheduleAID: scheduleAID, ScheduleBID: scheduleBID}
	var resp []dto.ScheduleResponse
	if err := a.c.Post(ctx, "/api/v1/coordinator/schedules/swap", req, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ── 期末评分与导出 ──

// Evaluations 列出全部期末评分
func (a *CoordinatorAPI) Evaluations(ctx context.Context) ([]dto.EvaluationResponse, error) {
	var resp []dto.EvaluationResponse
	if err := a.c.Get(ctx, "/api/v1/coordinator/final-evaluations", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ExportMarks 下载成绩汇总 Excel
func (a *CoordinatorAPI) ExportMarks(ctx context.Context) ([]byte, error) {
	return a.c.Download(ctx, "/api/v1/coordinator/export/marks")
}

// ExportScheduleICS 下载答辩排期日历（iCalendar）
func (a *CoordinatorAPI) ExportScheduleICS(ctx context.Context) ([]byte, error) {
	return a.c.Download(ctx, "/api/v1/coordinator/export/schedule.ics")
}
