package repository

import (
	"context"

	"gorm.io/gorm"

	pkgerrors "fyp-portal/pkg/errors"

	"fyp-portal/internal/model"
)

// ScheduleListFilters 排期列表过滤条件
type ScheduleListFilters struct {
	Date    string
	PanelID string
	Room    string
}

// ScheduleRepository 答辩排期数据访问接口
type ScheduleRepository interface {
	Create(ctx context.Context, s *model.PresentationSchedule) error
	CreateBatch(ctx context.Context, items []model.PresentationSchedule) error
	GetByID(ctx context.Context, id string) (*model.PresentationSchedule, error)
	GetByGroup(ctx context.Context, groupID string) (*model.PresentationSchedule, error)
	List(ctx context.Context, filters *ScheduleListFilters) ([]model.PresentationSchedule, error)
	// ExistsSlot 检查 (date, time_slot, room) 是否已被占用
	ExistsSlot(ctx context.Context, date, timeSlot, room string, excludeID string) (bool, error)
	// ExistsPanelSlot 检查评审小组在同一时间是否已有安排
	ExistsPanelSlot(ctx context.Context, panelID, date, timeSlot string, excludeID string) (bool, error)
	// UpdateVersioned 带乐观锁的更新，版本不匹配时返回 ErrOptimisticLock
	UpdateVersioned(ctx context.Context, s *model.PresentationSchedule) error
	// SwapAssignments 在同一事务内对调两条排期的时间/地点/评审小组
	SwapAssignments(ctx context.Context, a, b *model.PresentationSchedule, callerID string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// scheduleRepo ScheduleRepository 的 GORM 实现
type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) Create(ctx context.Context, s *model.PresentationSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *scheduleRepo) CreateBatch(ctx context.Context, items []model.PresentationSchedule) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (*model.PresentationSchedule, error) {
	var s model.PresentationSchedule
	err := r.db.WithContext(ctx).
		Preload("Group.Leader").
		Preload("Panel.Members.User").
		Where("schedule_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) GetByGroup(ctx context.Context, groupID string) (*model.PresentationSchedule, error) {
	var s model.PresentationSchedule
	err := r.db.WithContext(ctx).
		Preload("Panel.Members.User").
		Where("group_id = ?", groupID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepo) List(ctx context.Context, filters *ScheduleListFilters) ([]model.PresentationSchedule, error) {
	query := r.db.WithContext(ctx).Model(&model.PresentationSchedule{})
	if filters != nil {
		if filters.Date != "" {
			query = query.Where("date = ?", filters.Date)
		}
		if filters.PanelID != "" {
			query = query.Where("panel_id = ?", filters.PanelID)
		}
		if filters.Room != "" {
			query = query.Where("room = ?", filters.Room)
		}
	}

	var items []model.PresentationSchedule
	err := query.
		Preload("Group.Leader").
		Preload("Panel").
		Order("date ASC, time_slot ASC").
		Find(&items).Error
	return items, err
}

func (r *scheduleRepo) ExistsSlot(ctx context.Context, date, timeSlot, room string, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.PresentationSchedule{}).
		Where("date = ? AND time_slot = ? AND room = ? AND deleted_at IS NULL", date, timeSlot, room)
	if excludeID != "" {
		query = query.Where("schedule_id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *scheduleRepo) ExistsPanelSlot(ctx context.Context, panelID, date, timeSlot string, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.PresentationSchedule{}).
		Where("panel_id = ? AND date = ? AND time_slot = ? AND deleted_at IS NULL", panelID, date, timeSlot)
	if excludeID != "" {
		query = query.Where("schedule_id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *scheduleRepo) UpdateVersioned(ctx context.Context, s *model.PresentationSchedule) error {
	currentVersion := s.Version
	s.Version++
	result := r.db.WithContext(ctx).
		Model(&model.PresentationSchedule{}).
		Where("schedule_id = ? AND version = ?", s.ScheduleID, currentVersion).
		Updates(map[string]interface{}{
			"panel_id":   s.PanelID,
			"date":       s.Date,
			"time_slot":  s.TimeSlot,
			"room":       s.Room,
			"notes":      s.Notes,
			"completed":  s.Completed,
			"version":    s.Version,
			"updated_by": s.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *scheduleRepo) SwapAssignments(ctx context.Context, a, b *model.PresentationSchedule, callerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swap := func(dst, src *model.PresentationSchedule) error {
			result := tx.Model(&model.PresentationSchedule{}).
				Where("schedule_id = ? AND version = ?", dst.ScheduleID, dst.Version).
				Updates(map[string]interface{}{
					"panel_id":   src.PanelID,
					"date":       src.Date,
					"time_slot":  src.TimeSlot,
					"room":       src.Room,
					"version":    dst.Version + 1,
					"updated_by": callerID,
					"updated_at": gorm.Expr("NOW()"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return pkgerrors.ErrOptimisticLock
			}
			return nil
		}

		// 先拷贝原始槽位，再交叉写回
		origA, origB := *a, *b
		if err := swap(a, &origB); err != nil {
			return err
		}
		return swap(b, &origA)
	})
}

func (r *scheduleRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.PresentationSchedule{}).
		Where("schedule_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
