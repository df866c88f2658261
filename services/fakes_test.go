package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var fixedNow = time.Date(2026, 5, 4, 2, 0, 0, 0, time.UTC) // 10:00 in Manila

func clock() time.Time { return fixedNow }

// memPayrolls keeps payrolls by value and enforces the version guard the
// Mongo repository does.
type memPayrolls struct {
	mu       sync.Mutex
	byID     map[primitive.ObjectID]models.Payroll
	createFn func(p *models.Payroll) error
	updateFn func(p *models.Payroll) error
	updates  int
}

func newMemPayrolls(ps ...models.Payroll) *memPayrolls {
	m := &memPayrolls{byID: map[primitive.ObjectID]models.Payroll{}}
	for _, p := range ps {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		m.byID[p.ID] = p
	}
	return m
}

func (m *memPayrolls) get(id primitive.ObjectID) models.Payroll {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *memPayrolls) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrPayrollNotFound
	}
	return &p, nil
}

func (m *memPayrolls) FindByUserAndDate(_ context.Context, userID primitive.ObjectID, date string) (*models.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.User == userID && p.Date == date {
			cp := p
			return &cp, nil
		}
	}
	return nil, apperror.ErrPayrollNotFound
}

func (m *memPayrolls) FindLatestOpen(_ context.Context, userID primitive.ObjectID) (*models.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var best *models.Payroll
	for _, p := range m.byID {
		if p.User != userID || p.Locked || p.Withdrawn {
			continue
		}
		if best == nil || p.Date > best.Date {
			cp := p
			best = &cp
		}
	}
	if best == nil {
		return nil, apperror.ErrPayrollNotFound
	}
	return best, nil
}

func (m *memPayrolls) List(_ context.Context, f models.PayrollFilter) ([]models.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Payroll{}
	for _, p := range m.byID {
		if f.UserID != nil && p.User != *f.UserID {
			continue
		}
		if f.From != "" && p.Date < f.From || f.To != "" && p.Date > f.To {
			continue
		}
		if f.Approved != nil && p.Approved != *f.Approved {
			continue
		}
		if f.Withdrawn != nil && p.Withdrawn != *f.Withdrawn {
			continue
		}
		if f.Locked != nil && p.Locked != *f.Locked {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memPayrolls) Create(_ context.Context, p *models.Payroll) error {
	if m.createFn != nil {
		if err := m.createFn(p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.User == p.User && existing.Date == p.Date {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.Version = 1
	m.byID[p.ID] = *p
	return nil
}

func (m *memPayrolls) Update(_ context.Context, p *models.Payroll, expected int64) error {
	if m.updateFn != nil {
		if err := m.updateFn(p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[p.ID]
	if !ok {
		return apperror.ErrPayrollNotFound
	}
	if cur.Version != expected {
		return apperror.ErrVersionConflict
	}
	p.Version = expected + 1
	m.byID[p.ID] = *p
	m.updates++
	return nil
}

func (m *memPayrolls) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return apperror.ErrPayrollNotFound
	}
	delete(m.byID, id)
	return nil
}

type memUsers struct {
	byID         map[primitive.ObjectID]*models.User
	roleUpdates  map[string]float64
	cleared      int64
	clearErr     error
	updateRoleFn func(roles []string, salary float64) (int64, error)
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{byID: map[primitive.ObjectID]*models.User{}, roleUpdates: map[string]float64{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) UpdateBaseSalaryByRole(_ context.Context, roles []string, salary float64) (int64, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(roles, salary)
	}
	var n int64
	for _, r := range roles {
		m.roleUpdates[r] = salary
	}
	for _, u := range m.byID {
		for _, r := range roles {
			if u.Role == r {
				u.BaseSalary = salary
				n++
			}
		}
	}
	return n, nil
}

func (m *memUsers) SetBaseSalary(_ context.Context, id primitive.ObjectID, salary float64) error {
	u, ok := m.byID[id]
	if !ok {
		return apperror.ErrUserNotFound
	}
	u.BaseSalary = salary
	return nil
}

func (m *memUsers) ClearSupervisorAssignments(context.Context) (int64, error) {
	if m.clearErr != nil {
		return 0, m.clearErr
	}
	var n int64
	for _, u := range m.byID {
		if u.SupervisorID != nil && (u.Role == models.RoleTeller || u.Role == models.RoleSupervisorTeller) {
			u.SupervisorID = nil
			n++
		}
	}
	m.cleared += n
	return n, nil
}

type memSettings struct {
	doc      *models.SystemSettings
	replaces int
}

func (m *memSettings) GetOrCreate(_ context.Context, defaults *models.SystemSettings) (*models.SystemSettings, error) {
	if m.doc == nil {
		m.doc = defaults.Clone()
		m.doc.ID = primitive.NewObjectID()
	}
	return m.doc.Clone(), nil
}

func (m *memSettings) Replace(_ context.Context, s *models.SystemSettings, expected int64) error {
	if m.doc == nil {
		return apperror.ErrSettingsNotFound
	}
	if m.doc.Version != expected {
		return apperror.ErrVersionConflict
	}
	s.Version = expected + 1
	m.doc = s.Clone()
	m.replaces++
	return nil
}

// staticSettings hands out a fixed snapshot.
type staticSettings struct{ s *models.SystemSettings }

func (f staticSettings) Get(context.Context) (*models.SystemSettings, error) { return f.s.Clone(), nil }

func defaultSettings() staticSettings {
	return staticSettings{s: models.DefaultSystemSettings(fixedNow)}
}

type memCapitals struct {
	docs      []models.Capital
	activity  map[primitive.ObjectID]models.CapitalActivity
	insertErr error
	updateErr error
}

func newMemCapitals() *memCapitals {
	return &memCapitals{activity: map[primitive.ObjectID]models.CapitalActivity{}}
}

func (m *memCapitals) FindActive(_ context.Context, tellerID primitive.ObjectID) (*models.Capital, error) {
	for _, c := range m.docs {
		if c.TellerID == tellerID && c.Type == models.CapitalTypeCapital && c.Status == models.CapitalStatusActive {
			cp := c
			return &cp, nil
		}
	}
	return nil, apperror.ErrCapitalNotFound
}

func (m *memCapitals) Insert(_ context.Context, c *models.Capital) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Version = 1
	m.docs = append(m.docs, *c)
	return nil
}

func (m *memCapitals) Update(_ context.Context, c *models.Capital, expected int64) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	for i := range m.docs {
		if m.docs[i].ID == c.ID {
			if m.docs[i].Version != expected {
				return apperror.ErrVersionConflict
			}
			c.Version = expected + 1
			m.docs[i] = *c
			return nil
		}
	}
	return apperror.ErrCapitalNotFound
}

func (m *memCapitals) DeleteWithEntries(_ context.Context, id primitive.ObjectID) (int64, error) {
	kept := m.docs[:0]
	var n int64
	for _, c := range m.docs {
		if c.ID == id || (c.ParentID != nil && *c.ParentID == id) {
			n++
			continue
		}
		kept = append(kept, c)
	}
	m.docs = kept
	if n == 0 {
		return 0, apperror.ErrCapitalNotFound
	}
	return n, nil
}

func (m *memCapitals) History(_ context.Context, tellerID primitive.ObjectID, _ int64) ([]models.Capital, error) {
	out := []models.Capital{}
	for _, c := range m.docs {
		if c.TellerID == tellerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCapitals) ActivityForDay(_ context.Context, userID primitive.ObjectID, _ string) (models.CapitalActivity, error) {
	return m.activity[userID], nil
}

type memShifts struct {
	byKey map[string]models.Shift
}

func newMemShifts() *memShifts { return &memShifts{byKey: map[string]models.Shift{}} }

func (m *memShifts) FindByUserAndDate(_ context.Context, userID primitive.ObjectID, date string) (*models.Shift, error) {
	s, ok := m.byKey[userID.Hex()+date]
	if !ok {
		return nil, apperror.ErrShiftNotFound
	}
	return &s, nil
}

func (m *memShifts) Upsert(_ context.Context, s *models.Shift) (*models.Shift, error) {
	key := s.UserID.Hex() + s.Date
	if existing, ok := m.byKey[key]; ok {
		s.ID = existing.ID
	} else {
		s.ID = primitive.NewObjectID()
	}
	m.byKey[key] = *s
	cp := *s
	return &cp, nil
}

func (m *memShifts) History(_ context.Context, userID primitive.ObjectID, _ int64) ([]models.Shift, error) {
	out := []models.Shift{}
	for _, s := range m.byKey {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memReports struct {
	docs      []models.TellerReport
	createErr error
}

func (m *memReports) Create(_ context.Context, r *models.TellerReport) error {
	if m.createErr != nil {
		return m.createErr
	}
	r.ID = primitive.NewObjectID()
	m.docs = append(m.docs, *r)
	return nil
}

func (m *memReports) ListForDay(_ context.Context, tellerID primitive.ObjectID, date string) ([]models.TellerReport, error) {
	out := []models.TellerReport{}
	for _, r := range m.docs {
		if r.TellerID == tellerID && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReports) ListByTeller(_ context.Context, tellerID primitive.ObjectID, _ int64) ([]models.TellerReport, error) {
	out := []models.TellerReport{}
	for _, r := range m.docs {
		if r.TellerID == tellerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memPlans struct {
	byID      map[primitive.ObjectID]models.ShortPayment
	createErr error
}

func newMemPlans() *memPlans { return &memPlans{byID: map[primitive.ObjectID]models.ShortPayment{}} }

func (m *memPlans) Create(_ context.Context, plan *models.ShortPayment) error {
	if m.createErr != nil {
		return m.createErr
	}
	plan.ID = primitive.NewObjectID()
	plan.Version = 1
	m.byID[plan.ID] = *plan
	return nil
}

func (m *memPlans) Update(_ context.Context, plan *models.ShortPayment, expected int64) error {
	cur, ok := m.byID[plan.ID]
	if !ok {
		return apperror.ErrShortPlanNotFound
	}
	if cur.Version != expected {
		return apperror.ErrVersionConflict
	}
	plan.Version = expected + 1
	m.byID[plan.ID] = *plan
	return nil
}

func (m *memPlans) FindDue(_ context.Context, now time.Time) ([]models.ShortPayment, error) {
	out := []models.ShortPayment{}
	for _, p := range m.byID {
		if p.Status == models.ShortPaymentActive && !p.NextDueAt.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPlans) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.ShortPayment, error) {
	out := []models.ShortPayment{}
	for _, p := range m.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memWithdrawals struct{ docs []models.Withdrawal }

func (m *memWithdrawals) Create(_ context.Context, w *models.Withdrawal) error {
	w.ID = primitive.NewObjectID()
	m.docs = append(m.docs, *w)
	return nil
}

type recordedEvent struct {
	name string
	data interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recordingBroadcaster) Broadcast(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{event, data})
}

func (r *recordingBroadcaster) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.name
	}
	return out
}

type recordingNotifier struct {
	types []string
}

func (r *recordingNotifier) NotifyUser(_ context.Context, _ primitive.ObjectID, _, _, notifType string, _ interface{}) {
	r.types = append(r.types, notifType)
}
