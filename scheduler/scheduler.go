// Package scheduler runs the daily supervisor assignment reset and the
// weekly short payment collection.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Short payment installments are collected Mondays at 00:05.
const collectClock = "5 0 * * 1"

const jobTimeout = 2 * time.Minute

type AssignmentResetter interface {
	ClearSupervisorAssignments(ctx context.Context) (int64, error)
}

type ShortCollector interface {
	CollectDue(ctx context.Context) (int, error)
}

type Broadcaster interface {
	Broadcast(event string, data interface{})
}

type AdminMailer interface {
	EmailAdmin(subject, body string) error
}

type Scheduler struct {
	cron   *cron.Cron
	users  AssignmentResetter
	shorts ShortCollector
	events Broadcaster
	mailer AdminMailer
	logger *logrus.Logger

	mu          sync.Mutex
	resetID     cron.EntryID
	resetSpec   string
	collectID   cron.EntryID
	collectSpec string
}

func New(users AssignmentResetter, shorts ShortCollector, events Broadcaster, mailer AdminMailer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		users:  users,
		shorts: shorts,
		events: events,
		mailer: mailer,
		logger: config.GetLogger(),
	}
}

// Start schedules both jobs from settings and starts the cron runner.
func (s *Scheduler) Start(settings *models.SystemSettings) error {
	if err := s.Apply(settings); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Cron jobs initialized successfully")
	return nil
}

// Stop halts the runner and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Apply brings the scheduled jobs in line with settings. Unchanged jobs are
// left alone; a changed reset time or timezone replaces the entry, and
// disabling the reset removes it.
func (s *Scheduler) Apply(settings *models.SystemSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resetSpec := ""
	if settings.AutoResetSupervisorAssignments {
		spec, err := ledger.CronSpec(settings.SupervisorResetTime, settings.Timezone)
		if err != nil {
			return err
		}
		resetSpec = spec
	}
	if resetSpec != s.resetSpec {
		if s.resetID != 0 {
			s.cron.Remove(s.resetID)
			s.resetID = 0
		}
		if resetSpec != "" {
			id, err := s.cron.AddFunc(resetSpec, s.runReset)
			if err != nil {
				return err
			}
			s.resetID = id
		}
		s.resetSpec = resetSpec
		s.logger.WithFields(logrus.Fields{
			"spec":    resetSpec,
			"enabled": resetSpec != "",
		}).Info("Supervisor reset scheduled")
	}

	collectSpec := collectClock
	if settings.Timezone != "" {
		collectSpec = fmt.Sprintf("CRON_TZ=%s %s", settings.Timezone, collectClock)
	}
	if collectSpec != s.collectSpec && s.shorts != nil {
		if s.collectID != 0 {
			s.cron.Remove(s.collectID)
		}
		id, err := s.cron.AddFunc(collectSpec, s.runCollect)
		if err != nil {
			return err
		}
		s.collectID = id
		s.collectSpec = collectSpec
	}
	return nil
}

// OnSettingsChange is registered as a settings listener.
func (s *Scheduler) OnSettingsChange(_, next *models.SystemSettings) {
	if next == nil {
		return
	}
	if err := s.Apply(next); err != nil {
		config.LogError(s.logger, "scheduler", "OnSettingsChange", "reschedule", nil, err)
	}
}

// NextReset is when the reset job fires next; zero when it is disabled.
func (s *Scheduler) NextReset() time.Time {
	s.mu.Lock()
	id := s.resetID
	s.mu.Unlock()
	if id == 0 {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// ResetSupervisorAssignments clears every teller's supervisor. There is no
// retry; the next tick runs it again.
func (s *Scheduler) ResetSupervisorAssignments(ctx context.Context) (int64, error) {
	n, err := s.users.ClearSupervisorAssignments(ctx)
	if err != nil {
		return 0, err
	}
	if s.events != nil {
		s.events.Broadcast(websocket.EventSupervisorAssignmentsReset, map[string]interface{}{
			"cleared": n,
			"at":      time.Now(),
		})
	}
	return n, nil
}

func (s *Scheduler) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.ResetSupervisorAssignments(ctx)
	if err != nil {
		config.LogError(s.logger, "scheduler", "runReset", "", nil, err)
		if s.mailer != nil {
			_ = s.mailer.EmailAdmin("Supervisor assignment reset failed", err.Error())
		}
		return
	}
	s.logger.WithField("cleared", n).Info("Supervisor assignments reset")
}

func (s *Scheduler) runCollect() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.shorts.CollectDue(ctx)
	if err != nil {
		config.LogError(s.logger, "scheduler", "runCollect", "", nil, err)
		return
	}
	s.logger.WithField("collected", n).Info("Short payment installments collected")
}
