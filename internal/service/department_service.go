package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fyp-portal/internal/dto"
	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
)

// ── 系部模块业务错误 ──

var (
	ErrDepartmentNotFound    = errors.New("系部不存在")
	ErrDepartmentNameExists  = errors.New("系部名称已存在")
	ErrDepartmentHasFaculty  = errors.New("系部下存在导师，无法删除")
	ErrFacultyNotFound       = errors.New("导师不存在")
	ErrFacultyEmailExists    = errors.New("该邮箱已注册导师账号")
	ErrFacultyNotInDept      = errors.New("导师不属于该系部")
	ErrFacultyHasGroups      = errors.New("导师名下存在指导小组，无法移除")
	ErrTransferSameDept      = errors.New("目标系部与当前系部相同")
)

// DepartmentService 系部与教职工业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error)
	List(ctx context.Context) ([]dto.DepartmentDetailResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error)
	Delete(ctx context.Context, id string, callerID string) error

	// ── 教职工管理 ──
	ListFaculty(ctx context.Context, departmentID string) ([]dto.FacultyResponse, error)
	AddFaculty(ctx context.Context, departmentID string, req *dto.AddFacultyRequest, callerID string) (*dto.FacultyResponse, error)
	RemoveFaculty(ctx context.Context, departmentID, facultyID string, callerID string) error
	// TransferFaculty 将导师调动到另一系部
	TransferFaculty(ctx context.Context, req *dto.TransferFacultyRequest, callerID string) (*dto.FacultyResponse, error)
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error) {
	// 检查名称唯一性
	existing, err := s.repo.Department.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询系部失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建系部失败", zap.Error(err))
		return nil, err
	}

	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询系部失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentDetailResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("列出系部失败", zap.Error(err))
		return nil, err
	}

	// 批量查询导师数，避免 N+1 查询问题
	deptIDs := make([]string, 0, len(depts))
	for _, d := range depts {
		deptIDs = append(deptIDs, d.DepartmentID)
	}
	countMap, err := s.repo.Department.BatchCountFaculty(ctx, deptIDs)
	if err != nil {
		s.logger.Warn("批量查询导师数失败，回退为0", zap.Error(err))
		countMap = make(map[string]int64)
	}

	result := make([]dto.DepartmentDetailResponse, 0, len(depts))
	for i := range depts {
		result = append(result, dto.DepartmentDetailResponse{
			ID:           depts[i].DepartmentID,
			Name:         depts[i].Name,
			Description:  depts[i].Description,
			IsActive:     depts[i].IsActive,
			FacultyCount: countMap[depts[i].DepartmentID],
			CreatedAt:    depts[i].CreatedAt.Format("2006-01-02T15:04:05Z"),
			UpdatedAt:    depts[i].UpdatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentDetailResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询系部失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 如果更新名称，检查唯一性
	if req.Name != nil && *req.Name != dept.Name {
		existing, err := s.repo.Department.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDepartmentNameExists
		}
		dept.Name = *req.Name
	}

	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新系部失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toDepartmentDetailResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string, callerID string) error {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询系部失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 检查系部下是否有导师
	count, err := s.repo.Department.CountFaculty(ctx, dept.DepartmentID)
	if err != nil {
		s.logger.Error("查询系部导师数失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrDepartmentHasFaculty
	}

	if err := s.repo.Department.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除系部失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ════════════════════════════════════════════════════════════
// 教职工管理
// ════════════════════════════════════════════════════════════

func (s *departmentService) ListFaculty(ctx context.Context, departmentID string) ([]dto.FacultyResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	users, err := s.repo.User.ListByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("查询系部导师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FacultyResponse, 0, len(users))
	for i := range users {
		if users[i].Role != model.RoleSupervisor {
			continue
		}
		groupCount, _ := s.repo.Group.CountBySupervisor(ctx, users[i].UserID)
		result = append(result, dto.FacultyResponse{
			UserID:       users[i].UserID,
			Name:         users[i].Name,
			Email:        users[i].Email,
			DepartmentID: departmentID,
			Department:   dept.Name,
			GroupCount:   groupCount,
		})
	}
	return result, nil
}

func (s *departmentService) AddFaculty(ctx context.Context, departmentID string, req *dto.AddFacultyRequest, callerID string) (*dto.FacultyResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	// 同角色内邮箱唯一
	existing, err := s.repo.User.GetByEmailAndRole(ctx, req.Email, model.RoleSupervisor)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrFacultyEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               model.RoleSupervisor,
		DepartmentID:       &departmentID,
		MustChangePassword: true, // 初始密码由协调员设定，首次登录需修改
	}
	user.CreatedBy = &callerID
	user.UpdatedBy = &callerID

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建导师账号失败", zap.Error(err))
		return nil, err
	}

	return &dto.FacultyResponse{
		UserID:       user.UserID,
		Name:         user.Name,
		Email:        user.Email,
		DepartmentID: departmentID,
		Department:   dept.Name,
	}, nil
}

func (s *departmentService) RemoveFaculty(ctx context.Context, departmentID, facultyID string, callerID string) error {
	faculty, err := s.repo.User.GetByID(ctx, facultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFacultyNotFound
		}
		return err
	}
	if faculty.Role != model.RoleSupervisor || faculty.DepartmentID == nil || *faculty.DepartmentID != departmentID {
		return ErrFacultyNotInDept
	}

	// 有指导中的小组不允许移除
	groupCount, err := s.repo.Group.CountBySupervisor(ctx, facultyID)
	if err != nil {
		return err
	}
	if groupCount > 0 {
		return ErrFacultyHasGroups
	}

	if err := s.repo.User.Delete(ctx, facultyID, callerID); err != nil {
		s.logger.Error("移除导师失败", zap.String("id", facultyID), zap.Error(err))
		return err
	}
	return nil
}

func (s *departmentService) TransferFaculty(ctx context.Context, req *dto.TransferFacultyRequest, callerID string) (*dto.FacultyResponse, error) {
	faculty, err := s.repo.User.GetByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		return nil, err
	}
	if faculty.Role != model.RoleSupervisor {
		return nil, ErrFacultyNotFound
	}
	if faculty.DepartmentID != nil && *faculty.DepartmentID == req.ToDepartmentID {
		return nil, ErrTransferSameDept
	}

	dest, err := s.repo.Department.GetByID(ctx, req.ToDepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, err
	}

	faculty.DepartmentID = &dest.DepartmentID
	faculty.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, faculty); err != nil {
		s.logger.Error("调动导师失败", zap.String("id", req.FacultyID), zap.Error(err))
		return nil, err
	}

	groupCount, _ := s.repo.Group.CountBySupervisor(ctx, faculty.UserID)
	return &dto.FacultyResponse{
		UserID:       faculty.UserID,
		Name:         faculty.Name,
		Email:        faculty.Email,
		DepartmentID: dest.DepartmentID,
		Department:   dest.Name,
		GroupCount:   groupCount,
	}, nil
}

// ── 内部辅助方法 ──

func (s *departmentService) toDepartmentDetailResponse(ctx context.Context, dept *model.Department) *dto.DepartmentDetailResponse {
	facultyCount, _ := s.repo.Department.CountFaculty(ctx, dept.DepartmentID)
	return &dto.DepartmentDetailResponse{
		ID:           dept.DepartmentID,
		Name:         dept.Name,
		Description:  dept.Description,
		IsActive:     dept.IsActive,
		FacultyCount: facultyCount,
		CreatedAt:    dept.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:    dept.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
