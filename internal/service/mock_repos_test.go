package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"fyp-portal/internal/model"
	"fyp-portal/internal/repository"
	pkgerrors "fyp-portal/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmailAndRole(_ context.Context, email, role string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListByDepartment(_ context.Context, departmentID string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var result []model.Department
	for _, d := range m.depts {
		result = append(result, *d)
	}
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.depts, id)
	return nil
}

func (m *mockDeptRepo) CountFaculty(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

func (m *mockDeptRepo) BatchCountFaculty(_ context.Context, _ []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups  map[string]*model.Group
	members map[string][]string // groupID -> 组长之外的成员
	nextID  int
}

func newMockGroupRepo() *mockGroupRepo {
	return &mockGroupRepo{
		groups:  make(map[string]*model.Group),
		members: make(map[string][]string),
	}
}

func (m *mockGroupRepo) CreateWithMembers(_ context.Context, group *model.Group, memberIDs []string) error {
	if group.GroupID == "" {
		m.nextID++
		group.GroupID = fmt.Sprintf("group-%03d", m.nextID)
	}
	m.groups[group.GroupID] = group
	m.members[group.GroupID] = memberIDs
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id string) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetByMember(_ context.Context, userID string) (*model.Group, error) {
	for id, g := range m.groups {
		if g.LeaderID == userID {
			return g, nil
		}
		for _, uid := range m.members[id] {
			if uid == userID {
				return g, nil
			}
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context, filters *repository.GroupListFilters, _, _ int) ([]model.Group, int64, error) {
	var result []model.Group
	for _, g := range m.groups {
		if filters != nil && filters.Status != "" && g.Status != filters.Status {
			continue
		}
		if filters != nil && filters.SupervisorID != "" {
			if g.SupervisorID == nil || *g.SupervisorID != filters.SupervisorID {
				continue
			}
		}
		result = append(result, *g)
	}
	return result, int64(len(result)), nil
}

func (m *mockGroupRepo) ListUnscheduled(_ context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if g.Status == model.GroupStatusActive {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) Update(_ context.Context, group *model.Group) error {
	m.groups[group.GroupID] = group
	return nil
}

func (m *mockGroupRepo) ReplaceMembers(_ context.Context, groupID, _ string, memberIDs []string) error {
	m.members[groupID] = memberIDs
	return nil
}

func (m *mockGroupRepo) CountBySupervisor(_ context.Context, supervisorID string) (int64, error) {
	var n int64
	for _, g := range m.groups {
		if g.SupervisorID != nil && *g.SupervisorID == supervisorID {
			n++
		}
	}
	return n, nil
}

// ── Mock IdeaRepository ──

type mockIdeaRepo struct {
	ideas  map[string]*model.ProjectIdea
	nextID int
}

func newMockIdeaRepo() *mockIdeaRepo {
	return &mockIdeaRepo{ideas: make(map[string]*model.ProjectIdea)}
}

func (m *mockIdeaRepo) Create(_ context.Context, idea *model.ProjectIdea) error {
	if idea.IdeaID == "" {
		m.nextID++
		idea.IdeaID = fmt.Sprintf("idea-%03d", m.nextID)
	}
	m.ideas[idea.IdeaID] = idea
	return nil
}

func (m *mockIdeaRepo) GetByID(_ context.Context, id string) (*model.ProjectIdea, error) {
	if i, ok := m.ideas[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIdeaRepo) ListAvailable(_ context.Context) ([]model.ProjectIdea, error) {
	var result []model.ProjectIdea
	for _, i := range m.ideas {
		if i.Source == model.IdeaSourceSupervisor && i.GroupID == nil && i.IdeaStatus == model.IdeaStatusApproved {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (m *mockIdeaRepo) ListBySupervisor(_ context.Context, supervisorID string) ([]model.ProjectIdea, error) {
	var result []model.ProjectIdea
	for _, i := range m.ideas {
		if i.SupervisorID != nil && *i.SupervisorID == supervisorID {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (m *mockIdeaRepo) ListPendingBySupervisor(_ context.Context, supervisorID string) ([]model.ProjectIdea, error) {
	var result []model.ProjectIdea
	for _, i := range m.ideas {
		if i.SupervisorID != nil && *i.SupervisorID == supervisorID && i.IdeaStatus == model.IdeaStatusPending {
			result = append(result, *i)
		}
	}
	return result, nil
}

func (m *mockIdeaRepo) GetByGroup(_ context.Context, groupID string) (*model.ProjectIdea, error) {
	for _, i := range m.ideas {
		if i.GroupID != nil && *i.GroupID == groupID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIdeaRepo) Update(_ context.Context, idea *model.ProjectIdea) error {
	m.ideas[idea.IdeaID] = idea
	return nil
}

func (m *mockIdeaRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.ideas, id)
	return nil
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	proposals map[string]*model.Proposal
	documents map[string]*model.Document
	groups    *mockGroupRepo // 模拟 Preload("Group")
	nextID    int
}

func newMockSubmissionRepo(groups *mockGroupRepo) *mockSubmissionRepo {
	return &mockSubmissionRepo{
		proposals: make(map[string]*model.Proposal),
		documents: make(map[string]*model.Document),
		groups:    groups,
	}
}

func (m *mockSubmissionRepo) CreateProposal(_ context.Context, p *model.Proposal) error {
	if p.ProposalID == "" {
		m.nextID++
		p.ProposalID = fmt.Sprintf("proposal-%03d", m.nextID)
	}
	m.proposals[p.ProposalID] = p
	return nil
}

func (m *mockSubmissionRepo) GetProposalByID(_ context.Context, id string) (*model.Proposal, error) {
	if p, ok := m.proposals[id]; ok {
		if p.Group == nil {
			p.Group = m.groups.groups[p.GroupID]
		}
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) GetLatestProposalByGroup(_ context.Context, groupID string) (*model.Proposal, error) {
	var latest *model.Proposal
	for _, p := range m.proposals {
		if p.GroupID != groupID {
			continue
		}
		if latest == nil || p.Version > latest.Version {
			latest = p
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockSubmissionRepo) ListProposalsByGroup(_ context.Context, groupID string) ([]model.Proposal, error) {
	var result []model.Proposal
	for _, p := range m.proposals {
		if p.GroupID == groupID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListProposalsByGroups(_ context.Context, groupIDs []string) ([]model.Proposal, error) {
	var result []model.Proposal
	for _, gid := range groupIDs {
		for _, p := range m.proposals {
			if p.GroupID == gid {
				result = append(result, *p)
			}
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) UpdateProposal(_ context.Context, p *model.Proposal) error {
	m.proposals[p.ProposalID] = p
	return nil
}

func (m *mockSubmissionRepo) CreateDocument(_ context.Context, d *model.Document) error {
	if d.DocumentID == "" {
		m.nextID++
		d.DocumentID = fmt.Sprintf("document-%03d", m.nextID)
	}
	m.documents[d.DocumentID] = d
	return nil
}

func (m *mockSubmissionRepo) GetDocumentByID(_ context.Context, id string) (*model.Document, error) {
	if d, ok := m.documents[id]; ok {
		if d.Group == nil {
			d.Group = m.groups.groups[d.GroupID]
		}
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListDocumentsByGroup(_ context.Context, groupID string) ([]model.Document, error) {
	var result []model.Document
	for _, d := range m.documents {
		if d.GroupID == groupID {
			result = append(result, *d)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) ListDocumentsByGroups(_ context.Context, groupIDs []string) ([]model.Document, error) {
	var result []model.Document
	for _, gid := range groupIDs {
		for _, d := range m.documents {
			if d.GroupID == gid {
				result = append(result, *d)
			}
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) CountDocumentVersions(_ context.Context, groupID, documentType string) (int64, error) {
	var n int64
	for _, d := range m.documents {
		if d.GroupID == groupID && d.DocumentType == documentType {
			n++
		}
	}
	return n, nil
}

func (m *mockSubmissionRepo) UpdateDocument(_ context.Context, d *model.Document) error {
	m.documents[d.DocumentID] = d
	return nil
}

// ── Mock PanelRepository ──

type mockPanelRepo struct {
	panels  map[string]*model.EvaluationPanel
	members map[string][]string
	nextID  int
}

func newMockPanelRepo() *mockPanelRepo {
	return &mockPanelRepo{
		panels:  make(map[string]*model.EvaluationPanel),
		members: make(map[string][]string),
	}
}

func (m *mockPanelRepo) CreateWithMembers(_ context.Context, panel *model.EvaluationPanel, memberIDs []string) error {
	if panel.PanelID == "" {
		m.nextID++
		panel.PanelID = fmt.Sprintf("panel-%03d", m.nextID)
	}
	m.panels[panel.PanelID] = panel
	m.members[panel.PanelID] = memberIDs
	return nil
}

func (m *mockPanelRepo) GetByID(_ context.Context, id string) (*model.EvaluationPanel, error) {
	if p, ok := m.panels[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPanelRepo) GetByName(_ context.Context, name string) (*model.EvaluationPanel, error) {
	for _, p := range m.panels {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPanelRepo) List(_ context.Context) ([]model.EvaluationPanel, error) {
	var result []model.EvaluationPanel
	for _, p := range m.panels {
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockPanelRepo) ListActive(_ context.Context) ([]model.EvaluationPanel, error) {
	var result []model.EvaluationPanel
	for _, p := range m.panels {
		if p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPanelRepo) Update(_ context.Context, panel *model.EvaluationPanel) error {
	m.panels[panel.PanelID] = panel
	return nil
}

func (m *mockPanelRepo) ReplaceMembers(_ context.Context, panelID string, memberIDs []string) error {
	m.members[panelID] = memberIDs
	return nil
}

func (m *mockPanelRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.panels, id)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.PresentationSchedule
	nextID    int
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[string]*model.PresentationSchedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.PresentationSchedule) error {
	if s.ScheduleID == "" {
		m.nextID++
		s.ScheduleID = fmt.Sprintf("schedule-%03d", m.nextID)
	}
	m.schedules[s.ScheduleID] = s
	return nil
}

func (m *mockScheduleRepo) CreateBatch(ctx context.Context, items []model.PresentationSchedule) error {
	for i := range items {
		if err := m.Create(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.PresentationSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetByGroup(_ context.Context, groupID string) (*model.PresentationSchedule, error) {
	for _, s := range m.schedules {
		if s.GroupID == groupID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, filters *repository.ScheduleListFilters) ([]model.PresentationSchedule, error) {
	var result []model.PresentationSchedule
	for _, s := range m.schedules {
		if filters != nil {
			if filters.Date != "" && s.Date != filters.Date {
				continue
			}
			if filters.PanelID != "" && s.PanelID != filters.PanelID {
				continue
			}
			if filters.Room != "" && s.Room != filters.Room {
				continue
			}
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockScheduleRepo) ExistsSlot(_ context.Context, date, timeSlot, room string, excludeID string) (bool, error) {
	for _, s := range m.schedules {
		if s.ScheduleID == excludeID {
			continue
		}
		if s.Date == date && s.TimeSlot == timeSlot && s.Room == room {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleRepo) ExistsPanelSlot(_ context.Context, panelID, date, timeSlot string, excludeID string) (bool, error) {
	for _, s := range m.schedules {
		if s.ScheduleID == excludeID {
			continue
		}
		if s.PanelID == panelID && s.Date == date && s.TimeSlot == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockScheduleRepo) UpdateVersioned(_ context.Context, s *model.PresentationSchedule) error {
	current, ok := m.schedules[s.ScheduleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if current != s && current.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	m.schedules[s.ScheduleID] = s
	return nil
}

func (m *mockScheduleRepo) SwapAssignments(_ context.Context, a, b *model.PresentationSchedule, _ string) error {
	a.PanelID, b.PanelID = b.PanelID, a.PanelID
	a.Date, b.Date = b.Date, a.Date
	a.TimeSlot, b.TimeSlot = b.TimeSlot, a.TimeSlot
	a.Room, b.Room = b.Room, a.Room
	a.Version++
	b.Version++
	m.schedules[a.ScheduleID] = a
	m.schedules[b.ScheduleID] = b
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evals  map[string]*model.FinalEvaluation
	groups *mockGroupRepo // 模拟 Preload("Group")
	nextID int
}

func newMockEvaluationRepo(groups *mockGroupRepo) *mockEvaluationRepo {
	return &mockEvaluationRepo{
		evals:  make(map[string]*model.FinalEvaluation),
		groups: groups,
	}
}

func (m *mockEvaluationRepo) Create(_ context.Context, e *model.FinalEvaluation) error {
	if e.EvaluationID == "" {
		m.nextID++
		e.EvaluationID = fmt.Sprintf("eval-%03d", m.nextID)
	}
	m.evals[e.EvaluationID] = e
	return nil
}

func (m *mockEvaluationRepo) GetByID(_ context.Context, id string) (*model.FinalEvaluation, error) {
	if e, ok := m.evals[id]; ok {
		if e.Group == nil {
			e.Group = m.groups.groups[e.GroupID]
		}
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) GetByGroup(_ context.Context, groupID string) (*model.FinalEvaluation, error) {
	for _, e := range m.evals {
		if e.GroupID == groupID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) ListByGroups(_ context.Context, groupIDs []string) ([]model.FinalEvaluation, error) {
	var result []model.FinalEvaluation
	for _, gid := range groupIDs {
		for _, e := range m.evals {
			if e.GroupID == gid {
				result = append(result, *e)
			}
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) List(_ context.Context) ([]model.FinalEvaluation, error) {
	var result []model.FinalEvaluation
	for _, e := range m.evals {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEvaluationRepo) Update(_ context.Context, e *model.FinalEvaluation) error {
	m.evals[e.EvaluationID] = e
	return nil
}

// ── 聚合 ──

func newMockRepository() *repository.Repository {
	groups := newMockGroupRepo()
	return &repository.Repository{
		User:       newMockUserRepo(),
		Department: newMockDeptRepo(),
		Group:      groups,
		Idea:       newMockIdeaRepo(),
		Submission: newMockSubmissionRepo(groups),
		Panel:      newMockPanelRepo(),
		Schedule:   newMockScheduleRepo(),
		Evaluation: newMockEvaluationRepo(groups),
	}
}
