package repository

import (
	"context"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
)

// GroupListFilters 小组列表过滤条件
type GroupListFilters struct {
	Status       string
	SupervisorID string
}

// GroupRepository 小组数据访问接口
type GroupRepository interface {
	// CreateWithMembers 在同一事务内创建小组并写入成员关系
	CreateWithMembers(ctx context.Context, group *model.Group, memberIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	// GetByMember 查询某学生所在的小组
	GetByMember(ctx context.Context, userID string) (*model.Group, error)
	List(ctx context.Context, filters *GroupListFilters, offset, limit int) ([]model.Group, int64, error)
	ListUnscheduled(ctx context.Context) ([]model.Group, error)
	Update(ctx context.Context, group *model.Group) error
	// ReplaceMembers 全量替换组长之外的成员
	ReplaceMembers(ctx context.Context, groupID, leaderID string, memberIDs []string) error
	CountBySupervisor(ctx context.Context, supervisorID string) (int64, error)
}

// groupRepo GroupRepository 的 GORM 实现
type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) CreateWithMembers(ctx context.Context, group *model.Group, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		members := make([]model.GroupMember, 0, len(memberIDs)+1)
		members = append(members, model.GroupMember{GroupID: group.GroupID, UserID: group.LeaderID})
		for _, uid := range memberIDs {
			members = append(members, model.GroupMember{GroupID: group.GroupID, UserID: uid})
		}
		return tx.Create(&members).Error
	})
}

func (r *groupRepo) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Preload("Supervisor").
		Preload("Idea").
		Preload("Members.User").
		Where("group_id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByMember(ctx context.Context, userID string) (*model.Group, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, member.GroupID)
}

func (r *groupRepo) List(ctx context.Context, filters *GroupListFilters, offset, limit int) ([]model.Group, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Group{})
	if filters != nil {
		if filters.Status != "" {
			query = query.Where("status = ?", filters.Status)
		}
		if filters.SupervisorID != "" {
			query = query.Where("supervisor_id = ?", filters.SupervisorID)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []model.Group
	err := query.
		Preload("Leader").
		Preload("Supervisor").
		Preload("Idea").
		Preload("Members.User").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&groups).Error
	return groups, total, err
}

func (r *groupRepo) ListUnscheduled(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Preload("Leader").
		Where("status = ?", model.GroupStatusActive).
		Where("group_id NOT IN (?)",
			r.db.Model(&model.PresentationSchedule{}).
				Select("group_id").
				Where("deleted_at IS NULL"),
		).
		Order("created_at ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

func (r *groupRepo) ReplaceMembers(ctx context.Context, groupID, leaderID string, memberIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ? AND user_id <> ?", groupID, leaderID).
			Delete(&model.GroupMember{}).Error; err != nil {
			return err
		}
		if len(memberIDs) == 0 {
			return nil
		}
		members := make([]model.GroupMember, 0, len(memberIDs))
		for _, uid := range memberIDs {
			members = append(members, model.GroupMember{GroupID: groupID, UserID: uid})
		}
		return tx.Create(&members).Error
	})
}

func (r *groupRepo) CountBySupervisor(ctx context.Context, supervisorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("supervisor_id = ? AND deleted_at IS NULL", supervisorID).
		Count(&count).Error
	return count, err
}
