package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	settingsChannel  = "settingsUpdated"
	settingsCacheKey = "tellerdesk:settings"
	settingsCacheTTL = 24 * time.Hour
)

// SettingsListener is told about every new settings snapshot, local or
// published by another instance.
type SettingsListener func(prev, next *models.SystemSettings)

// SettingsService owns the in-memory settings snapshot. Readers always get
// a clone; the snapshot itself is swapped atomically.
type SettingsService struct {
	repo   SettingsStore
	users  UserStore
	events EventBroadcaster
	redis  *redis.Client
	logger *logrus.Logger

	current   atomic.Value // *models.SystemSettings
	mu        sync.Mutex
	listeners []SettingsListener
	now       func() time.Time
}

func NewSettingsService(repo SettingsStore, users UserStore, events EventBroadcaster, rdb *redis.Client) *SettingsService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &SettingsService{
		repo:   repo,
		users:  users,
		events: events,
		redis:  rdb,
		logger: config.GetLogger(),
		now:    time.Now,
	}
}

// OnChange registers l to run after each snapshot swap.
func (s *SettingsService) OnChange(l SettingsListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *SettingsService) snapshot() *models.SystemSettings {
	v, _ := s.current.Load().(*models.SystemSettings)
	return v
}

// Load reads the singleton (creating defaults if missing) and installs it.
func (s *SettingsService) Load(ctx context.Context) (*models.SystemSettings, error) {
	settings, err := s.repo.GetOrCreate(ctx, models.DefaultSystemSettings(s.now()))
	if err != nil {
		config.LogError(s.logger, "settings", "Load", "", nil, err)
		return nil, apperror.Internal(err)
	}
	s.install(settings)
	s.cache(ctx, settings)
	return settings.Clone(), nil
}

// Get returns the current snapshot, loading it on first use.
func (s *SettingsService) Get(ctx context.Context) (*models.SystemSettings, error) {
	if cur := s.snapshot(); cur != nil {
		return cur.Clone(), nil
	}
	if cached := s.fromCache(ctx); cached != nil {
		s.install(cached)
		return cached.Clone(), nil
	}
	return s.Load(ctx)
}

// install swaps in next unless it is older than what we already hold.
func (s *SettingsService) install(next *models.SystemSettings) {
	s.mu.Lock()
	prev := s.snapshot()
	if prev != nil && next.Version < prev.Version {
		s.mu.Unlock()
		return
	}
	s.current.Store(next.Clone())
	listeners := append([]SettingsListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev.Clone(), next.Clone())
	}
}

// Update applies a partial change under the version guard, pushes changed
// base salaries down to users and announces the new snapshot.
func (s *SettingsService) Update(ctx context.Context, req models.SettingsUpdateRequest) (*models.SystemSettings, error) {
	cur, err := s.repo.GetOrCreate(ctx, models.DefaultSystemSettings(s.now()))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	next := cur.Clone()
	changed := applySettingsPatch(next, req)

	if err := s.repo.Replace(ctx, next, cur.Version); err != nil {
		return nil, err
	}
	s.install(next)

	for role, salary := range changed {
		roles := []string{role}
		if role == models.RoleTeller {
			roles = append(roles, models.RoleSupervisorTeller)
		}
		n, err := s.users.UpdateBaseSalaryByRole(ctx, roles, salary)
		if err != nil {
			config.LogError(s.logger, "settings", "Update", "cascade base salary", logrus.Fields{"role": role}, err)
			continue
		}
		s.logger.WithFields(logrus.Fields{"role": role, "salary": salary, "users": n}).Info("Base salary cascaded")
	}

	s.publish(ctx, next)
	return next.Clone(), nil
}

// UpdateSupervisorReset changes only the reset schedule.
func (s *SettingsService) UpdateSupervisorReset(ctx context.Context, req models.SupervisorResetRequest) (*models.SystemSettings, error) {
	t := req.SupervisorResetTime
	return s.Update(ctx, models.SettingsUpdateRequest{
		SupervisorResetTime:            &t,
		AutoResetSupervisorAssignments: req.AutoResetSupervisorAssignments,
	})
}

// applySettingsPatch copies the set fields of req onto s and returns the
// base salaries that actually changed.
func applySettingsPatch(s *models.SystemSettings, req models.SettingsUpdateRequest) map[string]float64 {
	changed := map[string]float64{}
	for role, salary := range req.BaseSalary {
		if old, ok := s.BaseSalary[role]; !ok || old != salary {
			changed[role] = salary
		}
		s.BaseSalary[role] = salary
	}
	if req.ShiftStartTime != nil {
		s.ShiftStartTime = *req.ShiftStartTime
	}
	if req.ResetTime != nil {
		s.ResetTime = *req.ResetTime
	}
	if req.SupervisorResetTime != nil {
		s.SupervisorResetTime = *req.SupervisorResetTime
	}
	if req.AutoResetSupervisorAssignments != nil {
		s.AutoResetSupervisorAssignments = *req.AutoResetSupervisorAssignments
	}
	if req.Timezone != nil {
		s.Timezone = *req.Timezone
	}
	if req.CommissionRate != nil {
		s.CommissionRate = *req.CommissionRate
	}
	if req.AllowMultipleReportsPerDay != nil {
		s.AllowMultipleReportsPerDay = *req.AllowMultipleReportsPerDay
	}
	if req.Theme != nil {
		s.Theme = *req.Theme
	}
	return changed
}

func (s *SettingsService) publish(ctx context.Context, settings *models.SystemSettings) {
	s.events.Broadcast(websocket.EventSettingsUpdated, settings)
	if s.redis == nil {
		return
	}
	s.cache(ctx, settings)
	if err := s.redis.Publish(ctx, settingsChannel, settings.Version).Err(); err != nil {
		config.LogError(s.logger, "settings", "publish", "", nil, err)
	}
}

func (s *SettingsService) cache(ctx context.Context, settings *models.SystemSettings) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, settingsCacheKey, raw, settingsCacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to cache settings")
	}
}

func (s *SettingsService) fromCache(ctx context.Context) *models.SystemSettings {
	if s.redis == nil {
		return nil
	}
	raw, err := s.redis.Get(ctx, settingsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var settings models.SystemSettings
	if err := json.Unmarshal(raw, &settings); err != nil || settings.BaseSalary == nil {
		return nil
	}
	return &settings
}

// Subscribe reloads the snapshot whenever another instance publishes an
// update. It returns when ctx is done.
func (s *SettingsService) Subscribe(ctx context.Context) {
	if s.redis == nil {
		return
	}
	sub := s.redis.Subscribe(ctx, settingsChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.logger.WithField("version", msg.Payload).Debug("Settings update received")
			if _, err := s.Load(ctx); err != nil {
				s.logger.WithError(err).Warn("Failed to reload settings")
			}
		}
	}
}
