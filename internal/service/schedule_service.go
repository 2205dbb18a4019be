package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 答辩排期模块业务错误 ──

var (
	ErrScheduleNotFound  = errors.New("排期不存在")
	ErrSlotOccupied      = errors.New("该时间段的教室已被占用")
	ErrPanelBusy         = errors.New("评审小组在该时间段已有安排")
	ErrGroupScheduled    = errors.New("该小组已有排期")
	ErrScheduleCompleted = errors.New("答辩已完成，排期不可再变更")
	ErrInvalidDateRange  = errors.New("结束日期不能早于开始日期")
	ErrNoActivePanels    = errors.New("没有可用的评审小组")
	ErrSwapSameSchedule  = errors.New("不能与自身对调")
)

// ScheduleService 答辩排期业务接口
type ScheduleService interface {
	Create(ctx context.Context, operatorID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error)
	GetMySchedule(ctx context.Context, studentID string) (*dto.ScheduleResponse, error)
	List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error)
	Update(ctx context.Context, operatorID, id string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	Delete(ctx context.Context, operatorID, id string) error
	// AutoSchedule 为所有未排期的活跃小组按 日期 × 时间段 × 教室 贪心分配槽位
	AutoSchedule(ctx context.Context, operatorID string, req *dto.AutoScheduleRequest) (*dto.AutoScheduleResponse, error)
	// Swap 对调两条排期的时间/教室/评审小组，小组归属不变
	Swap(ctx context.Context, operatorID string, req *dto.SwapSchedulesRequest) ([]dto.ScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) Create(ctx context.Context, operatorID string, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if _, err := s.repo.Group.GetByID(ctx, req.GroupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Panel.GetByID(ctx, req.PanelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPanelNotFound
		}
		return nil, err
	}

	// 一个小组只排一次
	if _, err := s.repo.Schedule.GetByGroup(ctx, req.GroupID); err == nil {
		return nil, ErrGroupScheduled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.checkSlotFree(ctx, req.PanelID, req.Date, req.TimeSlot, req.Room, ""); err != nil {
		return nil, err
	}

	item := &model.PresentationSchedule{
		GroupID:  req.GroupID,
		PanelID:  req.PanelID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Room:     req.Room,
		Notes:    req.Notes,
	}
	item.Version = 1
	item.CreatedBy = &operatorID
	item.UpdatedBy = &operatorID

	if err := s.repo.Schedule.Create(ctx, item); err != nil {
		s.logger.Error("创建排期失败", zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, item.ScheduleID)
}

func (s *scheduleService) GetByID(ctx context.Context, id string) (*dto.ScheduleResponse, error) {
	item, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	resp := toScheduleResponse(item)
	return &resp, nil
}

func (s *scheduleService) GetMySchedule(ctx context.Context, studentID string) (*dto.ScheduleResponse, error) {
	group, err := s.repo.Group.GetByMember(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoGroup
		}
		return nil, err
	}

	item, err := s.repo.Schedule.GetByGroup(ctx, group.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	resp := toScheduleResponse(item)
	return &resp, nil
}

func (s *scheduleService) List(ctx context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	filters := &repository.ScheduleListFilters{}
	if req != nil {
		filters.Date = req.Date
		filters.PanelID = req.PanelID
		filters.Room = req.Room
	}

	items, err := s.repo.Schedule.List(ctx, filters)
	if err != nil {
		s.logger.Error("查询排期列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleResponse, 0, len(items))
	for i := range items {
		result = append(result, toScheduleResponse(&items[i]))
	}
	return result, nil
}

func (s *scheduleService) Update(ctx context.Context, operatorID, id string, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	item, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	// completed 为终态；本次请求正在标记完成的除外
	if item.Completed && (req.Completed == nil || *req.Completed) {
		return nil, ErrScheduleCompleted
	}

	if req.PanelID != nil {
		if _, err := s.repo.Panel.GetByID(ctx, *req.PanelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPanelNotFound
			}
			return nil, err
		}
		item.PanelID = *req.PanelID
	}
	if req.Date != nil {
		item.Date = *req.Date
	}
	if req.TimeSlot != nil {
		item.TimeSlot = *req.TimeSlot
	}
	if req.Room != nil {
		item.Room = *req.Room
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.Completed != nil {
		item.Completed = *req.Completed
	}

	if err := s.checkSlotFree(ctx, item.PanelID, item.Date, item.TimeSlot, item.Room, item.ScheduleID); err != nil {
		return nil, err
	}

	item.UpdatedBy = &operatorID
	if err := s.repo.Schedule.UpdateVersioned(ctx, item); err != nil {
		s.logger.Error("更新排期失败", zap.String("schedule_id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *scheduleService) Delete(ctx context.Context, operatorID, id string) error {
	item, err := s.repo.Schedule.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}
	if item.Completed {
		return ErrScheduleCompleted
	}
	return s.repo.Schedule.Delete(ctx, id, operatorID)
}

func (s *scheduleService) AutoSchedule(ctx context.Context, operatorID string, req *dto.AutoScheduleRequest) (*dto.AutoScheduleResponse, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	panels, err := s.repo.Panel.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(panels) == 0 {
		return nil, ErrNoActivePanels
	}

	groups, err := s.repo.Group.ListUnscheduled(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return &dto.AutoScheduleResponse{Message: "没有待排期的小组"}, nil
	}

	// 先把已占用的槽位载入内存，避免逐槽查库
	existing, err := s.repo.Schedule.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	usedRoom := make(map[string]bool)  // date|slot|room
	usedPanel := make(map[string]bool) // panel|date|slot
	for _, e := range existing {
		usedRoom[e.Date+"|"+e.TimeSlot+"|"+e.Room] = true
		usedPanel[e.PanelID+"|"+e.Date+"|"+e.TimeSlot] = true
	}

	// 组名排序保证结果可复现
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	var batch []model.PresentationSchedule
	next := 0
	for d := start; !d.After(end) && next < len(groups); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		for _, slot := range req.TimeSlots {
			if next >= len(groups) {
				break
			}
			for _, room := range req.Rooms {
				if next >= len(groups) {
					break
				}
				if usedRoom[date+"|"+slot+"|"+room] {
					continue
				}
				// 轮询找一个该时段空闲的评审小组
				var panelID string
				for k := range panels {
					p := &panels[(next+k)%len(panels)]
					if !usedPanel[p.PanelID+"|"+date+"|"+slot] {
						panelID = p.PanelID
						break
					}
				}
				if panelID == "" {
					continue
				}

				item := model.PresentationSchedule{
					GroupID:  groups[next].GroupID,
					PanelID:  panelID,
					Date:     date,
					TimeSlot: slot,
					Room:     room,
				}
				item.Version = 1
				item.CreatedBy = &operatorID
				item.UpdatedBy = &operatorID
				batch = append(batch, item)

				usedRoom[date+"|"+slot+"|"+room] = true
				usedPanel[panelID+"|"+date+"|"+slot] = true
				next++
			}
		}
	}

	if err := s.repo.Schedule.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("批量创建排期失败", zap.Error(err))
		return nil, err
	}

	remaining := len(groups) - len(batch)
	s.logger.Info("自动排期完成",
		zap.Int("scheduled", len(batch)),
		zap.Int("remaining", remaining))

	return &dto.AutoScheduleResponse{
		Message:              fmt.Sprintf("已为 %d 个小组完成排期，剩余 %d 个", len(batch), remaining),
		TotalGroupsScheduled: len(batch),
		RemainingGroups:      remaining,
	}, nil
}

func (s *scheduleService) Swap(ctx context.Context, operatorID string, req *dto.SwapSchedulesRequest) ([]dto.ScheduleResponse, error) {
	if req.ScheduleAID == req.ScheduleBID {
		return nil, ErrSwapSameSchedule
	}

	a, err := s.repo.Schedule.GetByID(ctx, req.ScheduleAID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	b, err := s.repo.Schedule.GetByID(ctx, req.ScheduleBID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	if a.Completed || b.Completed {
		return nil, ErrScheduleCompleted
	}

	if err := s.repo.Schedule.SwapAssignments(ctx, a, b, operatorID); err != nil {
		s.logger.Error("排期对调失败",
			zap.String("schedule_a", a.ScheduleID),
			zap.String("schedule_b", b.ScheduleID),
			zap.Error(err))
		return nil, err
	}

	ra, err := s.GetByID(ctx, a.ScheduleID)
	if err != nil {
		return nil, err
	}
	rb, err := s.GetByID(ctx, b.ScheduleID)
	if err != nil {
		return nil, err
	}
	return []dto.ScheduleResponse{*ra, *rb}, nil
}

// ── 内部辅助方法 ──

// checkSlotFree 校验教室槽位与评审小组时段均无冲突
func (s *scheduleService) checkSlotFree(ctx context.Context, panelID, date, timeSlot, room, excludeID string) error {
	occupied, err := s.repo.Schedule.ExistsSlot(ctx, date, timeSlot, room, excludeID)
	if err != nil {
		return err
	}
	if occupied {
		return ErrSlotOccupied
	}

	busy, err := s.repo.Schedule.ExistsPanelSlot(ctx, panelID, date, timeSlot, excludeID)
	if err != nil {
		return err
	}
	if busy {
		return ErrPanelBusy
	}
	return nil
}

func toScheduleResponse(item *model.PresentationSchedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{
		ID:        item.ScheduleID,
		GroupID:   item.GroupID,
		PanelID:   item.PanelID,
		Date:      item.Date,
		TimeSlot:  item.TimeSlot,
		Room:      item.Room,
		Notes:     item.Notes,
		Completed: item.Completed,
		Version:   item.Version,
	}
	if item.Group != nil {
		resp.GroupName = item.Group.Name
	}
	if item.Panel != nil {
		resp.PanelName = item.Panel.Name
	}
	return resp
}
