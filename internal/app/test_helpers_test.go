package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/plantops/internal/core/calendar"
	"github.com/example/plantops/internal/core/task"
	"github.com/example/plantops/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// date returns a UTC calendar day.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixedClock returns a clock stuck at t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// mockTaskRepository implements secondary.TaskRepository for testing.
type mockTaskRepository struct {
	mu              sync.Mutex
	tasks           map[string]*secondary.TaskRecord
	nextNum         int
	createErr       error
	getErr          error
	listErr         error
	countErr        error
	updateStatusErr error
	assignErr       map[string]error // taskID -> error
	assignCalls     int
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{
		tasks:     make(map[string]*secondary.TaskRecord),
		assignErr: make(map[string]error),
	}
}

func (m *mockTaskRepository) add(r *secondary.TaskRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Status == "" {
		r.Status = task.StatusOpen
	}
	if r.Location == "" {
		r.Location = "Plant Room"
	}
	m.tasks[r.ID] = r
	var n int
	if _, err := fmt.Sscanf(r.ID, "TASK-%d", &n); err == nil && n > m.nextNum {
		m.nextNum = n
	}
}

func (m *mockTaskRepository) get(id string) *secondary.TaskRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		c := *t
		return &c
	}
	return nil
}

func (m *mockTaskRepository) Create(ctx context.Context, t *secondary.TaskRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	c := *t
	m.add(&c)
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if t := m.get(id); t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
}

func (m *mockTaskRepository) sorted(keep func(*secondary.TaskRecord) bool) []*secondary.TaskRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.TaskRecord
	for _, t := range m.tasks {
		if keep(t) {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(t *secondary.TaskRecord) bool {
		if filters.Status != "" && t.Status != filters.Status {
			return false
		}
		if filters.AssigneeID != "" && t.AssigneeID != filters.AssigneeID {
			return false
		}
		if filters.Unassigned && t.AssigneeID != "" {
			return false
		}
		if filters.Type != "" && t.Type != filters.Type {
			return false
		}
		return true
	}), nil
}

func (m *mockTaskRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("TASK-%03d", m.nextNum+1), nil
}

func (m *mockTaskRepository) ListOpenUnassigned(ctx context.Context, from, to time.Time) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(func(t *secondary.TaskRecord) bool {
		return t.Status == task.StatusOpen && t.AssigneeID == "" &&
			!t.DueDate.Before(from) && !t.DueDate.After(to)
	}), nil
}

func (m *mockTaskRepository) CountOpenByAssignee(ctx context.Context, d time.Time) (map[string]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, t := range m.tasks {
		if t.AssigneeID != "" && t.Status != task.StatusCompleted && t.DueDate.Equal(d) {
			counts[t.AssigneeID]++
		}
	}
	return counts, nil
}

func (m *mockTaskRepository) Assign(ctx context.Context, id, assigneeID, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignCalls++
	if err := m.assignErr[id]; err != nil {
		return err
	}
	t, ok := m.tasks[id]
	if !ok || t.Status != task.StatusOpen || t.AssigneeID != "" {
		return fmt.Errorf("task %s is no longer open and unassigned", id)
	}
	t.AssigneeID = assigneeID
	t.Notes = notes
	return nil
}

func (m *mockTaskRepository) SetAssignee(ctx context.Context, id, assigneeID, notes string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	t.AssigneeID = assigneeID
	t.Notes = notes
	return nil
}

func (m *mockTaskRepository) UpdateStatus(ctx context.Context, id, status, notes string, completedOn time.Time) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	t.Status = status
	t.Notes = notes
	if !completedOn.IsZero() {
		t.CompletionDate = completedOn
	}
	return nil
}

// mockEngineerRepository implements secondary.EngineerRepository for testing.
type mockEngineerRepository struct {
	engineers map[string]*secondary.EngineerRecord
	getErr    error
	listErr   error
}

func newMockEngineerRepository(engineers ...*secondary.EngineerRecord) *mockEngineerRepository {
	m := &mockEngineerRepository{engineers: make(map[string]*secondary.EngineerRecord)}
	for _, e := range engineers {
		if e.Role == "" {
			e.Role = "Engineer"
		}
		m.engineers[e.ID] = e
	}
	return m
}

func (m *mockEngineerRepository) Create(ctx context.Context, e *secondary.EngineerRecord) error {
	m.engineers[e.ID] = e
	return nil
}

func (m *mockEngineerRepository) GetByID(ctx context.Context, id string) (*secondary.EngineerRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if e, ok := m.engineers[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("engineer %s %w", id, secondary.ErrNotFound)
}

func (m *mockEngineerRepository) List(ctx context.Context, filters secondary.EngineerFilters) ([]*secondary.EngineerRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.EngineerRecord
	for _, e := range m.engineers {
		if filters.Role != "" && e.Role != filters.Role {
			continue
		}
		if filters.ExcludeRole != "" && e.Role == filters.ExcludeRole {
			continue
		}
		out = append(out, e)
	}
	// deliberately unordered: callers must not rely on repository order
	return out, nil
}

func (m *mockEngineerRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("ENG-%03d", len(m.engineers)+1), nil
}

// mockHolidayRepository implements secondary.HolidayRepository for testing.
type mockHolidayRepository struct {
	holidays []*secondary.HolidayRecord
	listErr  error
}

func (m *mockHolidayRepository) Create(ctx context.Context, h *secondary.HolidayRecord) error {
	for _, existing := range m.holidays {
		if existing.Date.Equal(h.Date) {
			return errors.New("UNIQUE constraint failed: holidays.date")
		}
	}
	m.holidays = append(m.holidays, h)
	return nil
}

func (m *mockHolidayRepository) Delete(ctx context.Context, d time.Time) error {
	for i, h := range m.holidays {
		if h.Date.Equal(d) {
			m.holidays = append(m.holidays[:i], m.holidays[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("holiday %s %w", calendar.Format(d), secondary.ErrNotFound)
}

func (m *mockHolidayRepository) List(ctx context.Context) ([]*secondary.HolidayRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.holidays, nil
}

// mockLeaveRepository implements secondary.LeaveRepository for testing.
type mockLeaveRepository struct {
	leave   map[string]*secondary.LeaveRecord
	listErr error
}

func newMockLeaveRepository(leave ...*secondary.LeaveRecord) *mockLeaveRepository {
	m := &mockLeaveRepository{leave: make(map[string]*secondary.LeaveRecord)}
	for _, l := range leave {
		m.leave[l.ID] = l
	}
	return m
}

func (m *mockLeaveRepository) Create(ctx context.Context, l *secondary.LeaveRecord) error {
	m.leave[l.ID] = l
	return nil
}

func (m *mockLeaveRepository) GetByID(ctx context.Context, id string) (*secondary.LeaveRecord, error) {
	if l, ok := m.leave[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("leave request %s %w", id, secondary.ErrNotFound)
}

func (m *mockLeaveRepository) List(ctx context.Context, filters secondary.LeaveFilters) ([]*secondary.LeaveRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*secondary.LeaveRecord
	for _, l := range m.leave {
		if filters.EngineerID != "" && l.EngineerID != filters.EngineerID {
			continue
		}
		if filters.Status != "" && l.Status != filters.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockLeaveRepository) UpdateStatus(ctx context.Context, id, status string) error {
	l, ok := m.leave[id]
	if !ok {
		return fmt.Errorf("leave request %s %w", id, secondary.ErrNotFound)
	}
	l.Status = status
	return nil
}

func (m *mockLeaveRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("LEAVE-%03d", len(m.leave)+1), nil
}

// mockPartsRequestRepository implements secondary.PartsRequestRepository for testing.
type mockPartsRequestRepository struct {
	requests  map[string]*secondary.PartsRequestRecord
	linkErr   error
	updateErr error
}

func newMockPartsRequestRepository() *mockPartsRequestRepository {
	return &mockPartsRequestRepository{requests: make(map[string]*secondary.PartsRequestRecord)}
}

func (m *mockPartsRequestRepository) Create(ctx context.Context, r *secondary.PartsRequestRecord) error {
	c := *r
	m.requests[r.ID] = &c
	return nil
}

func (m *mockPartsRequestRepository) GetByID(ctx context.Context, id string) (*secondary.PartsRequestRecord, error) {
	if r, ok := m.requests[id]; ok {
		c := *r
		return &c, nil
	}
	return nil, fmt.Errorf("parts request %s %w", id, secondary.ErrNotFound)
}

func (m *mockPartsRequestRepository) List(ctx context.Context, filters secondary.PartsRequestFilters) ([]*secondary.PartsRequestRecord, error) {
	var out []*secondary.PartsRequestRecord
	for _, r := range m.requests {
		if filters.TaskID != "" && r.TaskID != filters.TaskID {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockPartsRequestRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("PART-%03d", len(m.requests)+1), nil
}

func (m *mockPartsRequestRepository) UpdateStatus(ctx context.Context, id, status string, on time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	r, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("parts request %s %w", id, secondary.ErrNotFound)
	}
	r.Status = status
	switch status {
	case "Ordered":
		r.OrderedDate = on
	case "Received":
		r.ReceivedDate = on
	case "Installed":
		r.InstalledDate = on
	}
	return nil
}

func (m *mockPartsRequestRepository) LinkCorrectiveTask(ctx context.Context, id, taskID string) error {
	if m.linkErr != nil {
		return m.linkErr
	}
	r, ok := m.requests[id]
	if !ok || r.CorrectiveTaskID != "" {
		return fmt.Errorf("parts request %s not found or already linked", id)
	}
	r.CorrectiveTaskID = taskID
	return nil
}

// mockNotificationRepository implements secondary.NotificationRepository for testing.
type mockNotificationRepository struct {
	records []*secondary.NotificationRecord
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *secondary.NotificationRecord) error {
	m.records = append(m.records, n)
	return nil
}

func (m *mockNotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	var out []*secondary.NotificationRecord
	for _, r := range m.records {
		if filters.RecipientID != "" && r.RecipientID != filters.RecipientID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// recordingNotifier captures notifications; fail makes every call error.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []secondary.Notification
	fail bool
}

func (r *recordingNotifier) Notify(ctx context.Context, n secondary.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("mail relay unavailable")
	}
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) ofType(t string) []secondary.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []secondary.Notification
	for _, n := range r.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

var (
	_ secondary.TaskRepository         = (*mockTaskRepository)(nil)
	_ secondary.EngineerRepository     = (*mockEngineerRepository)(nil)
	_ secondary.HolidayRepository      = (*mockHolidayRepository)(nil)
	_ secondary.LeaveRepository        = (*mockLeaveRepository)(nil)
	_ secondary.PartsRequestRepository = (*mockPartsRequestRepository)(nil)
	_ secondary.NotificationRepository = (*mockNotificationRepository)(nil)
	_ secondary.Notifier               = (*recordingNotifier)(nil)
)
