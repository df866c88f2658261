package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/tellerdesk_backend/apperror"
	"github.com/HSouheill/tellerdesk_backend/config"
	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/HSouheill/tellerdesk_backend/websocket"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CapitalService manages the cash float issued to each teller.
type CapitalService struct {
	capitals CapitalStore
	users    UserStore
	settings SettingsProvider
	events   EventBroadcaster
	logger   *logrus.Logger
	now      func() time.Time
}

func NewCapitalService(capitals CapitalStore, users UserStore, settings SettingsProvider, events EventBroadcaster) *CapitalService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &CapitalService{
		capitals: capitals,
		users:    users,
		settings: settings,
		events:   events,
		logger:   config.GetLogger(),
		now:      time.Now,
	}
}

func (s *CapitalService) today(ctx context.Context) string {
	tz := ""
	if st, err := s.settings.Get(ctx); err == nil {
		tz = st.Timezone
	}
	return ledger.Today(s.now(), tz)
}

// AddCapital opens a float for a teller. Only one float may be active per
// teller at a time.
func (s *CapitalService) AddCapital(ctx context.Context, supervisorID primitive.ObjectID, req models.AddCapitalRequest) (*models.Capital, error) {
	tellerID, err := primitive.ObjectIDFromHex(req.TellerID)
	if err != nil {
		return nil, apperror.Invalid("invalid teller id")
	}
	if req.Amount <= 0 {
		return nil, apperror.Invalid("amount must be positive")
	}
	if _, err := s.users.FindByID(ctx, tellerID); err != nil {
		return nil, appErr(err)
	}

	_, err = s.capitals.FindActive(ctx, tellerID)
	switch {
	case err == nil:
		return nil, apperror.ErrActiveCapitalExist
	case !errors.Is(err, apperror.ErrCapitalNotFound):
		return nil, appErr(err)
	}

	c := &models.Capital{
		TellerID:     tellerID,
		SupervisorID: supervisorID,
		Amount:       ledger.Round2(req.Amount),
		Type:         models.CapitalTypeCapital,
		Status:       models.CapitalStatusActive,
		Date:         s.today(ctx),
		Note:         req.Note,
	}
	if err := s.capitals.Insert(ctx, c); err != nil {
		return nil, appErr(err)
	}
	s.logger.WithFields(logrus.Fields{"tellerId": tellerID.Hex(), "amount": c.Amount}).Info("Capital issued")
	s.events.Broadcast(websocket.EventTellerManagementUpdated, c)
	return c, nil
}

// AddAdditional tops up the teller's active float.
func (s *CapitalService) AddAdditional(ctx context.Context, supervisorID primitive.ObjectID, req models.CapitalEntryRequest) (*models.CapitalSummary, error) {
	return s.entry(ctx, supervisorID, req, models.CapitalTypeAdditional, ledger.TopUp)
}

// Remit records cash coming back from the teller.
func (s *CapitalService) Remit(ctx context.Context, supervisorID primitive.ObjectID, req models.CapitalEntryRequest) (*models.CapitalSummary, error) {
	return s.entry(ctx, supervisorID, req, models.CapitalTypeRemittance, ledger.Remit)
}

func (s *CapitalService) entry(ctx context.Context, supervisorID primitive.ObjectID, req models.CapitalEntryRequest, entryType string, apply func(*models.Capital, float64) error) (*models.CapitalSummary, error) {
	tellerID, err := primitive.ObjectIDFromHex(req.TellerID)
	if err != nil {
		return nil, apperror.Invalid("invalid teller id")
	}
	active, err := s.capitals.FindActive(ctx, tellerID)
	if err != nil {
		return nil, appErr(err)
	}
	expected := active.Version
	if err := apply(active, req.Amount); err != nil {
		return nil, err
	}

	// The entry goes in before the float's totals move; a failed total update
	// takes the entry back out.
	parentID := active.ID
	entry := &models.Capital{
		TellerID:     tellerID,
		SupervisorID: supervisorID,
		ParentID:     &parentID,
		Amount:       ledger.Round2(req.Amount),
		Type:         entryType,
		Status:       models.CapitalStatusCompleted,
		Date:         s.today(ctx),
		Note:         req.Note,
	}
	if err := s.capitals.Insert(ctx, entry); err != nil {
		return nil, appErr(err)
	}
	if err := s.capitals.Update(ctx, active, expected); err != nil {
		if _, rbErr := s.capitals.DeleteWithEntries(ctx, entry.ID); rbErr != nil {
			config.LogError(s.logger, "capital", "entry", "remove "+entryType, logrus.Fields{"entryId": entry.ID.Hex()}, rbErr)
		}
		return nil, appErr(err)
	}

	s.events.Broadcast(websocket.EventTellerManagementUpdated, active)
	return &models.CapitalSummary{Capital: active, Outstanding: ledger.Outstanding(active)}, nil
}

// Delete removes the teller's active float with its entries and clears the
// teller's cached base salary.
func (s *CapitalService) Delete(ctx context.Context, tellerID primitive.ObjectID) (int64, error) {
	active, err := s.capitals.FindActive(ctx, tellerID)
	if err != nil {
		return 0, appErr(err)
	}
	n, err := s.capitals.DeleteWithEntries(ctx, active.ID)
	if err != nil {
		return 0, appErr(err)
	}
	if err := s.users.SetBaseSalary(ctx, tellerID, 0); err != nil {
		config.LogError(s.logger, "capital", "Delete", "reset base salary", logrus.Fields{"tellerId": tellerID.Hex()}, err)
	}
	s.events.Broadcast(websocket.EventTellerManagementUpdated, map[string]string{"tellerId": tellerID.Hex(), "deleted": "true"})
	return n, nil
}

func (s *CapitalService) Active(ctx context.Context, tellerID primitive.ObjectID) (*models.CapitalSummary, error) {
	active, err := s.capitals.FindActive(ctx, tellerID)
	if err != nil {
		return nil, appErr(err)
	}
	return &models.CapitalSummary{Capital: active, Outstanding: ledger.Outstanding(active)}, nil
}

func (s *CapitalService) History(ctx context.Context, tellerID primitive.ObjectID, limit int64) ([]models.Capital, error) {
	list, err := s.capitals.History(ctx, tellerID, limit)
	return list, appErr(err)
}

func (s *CapitalService) ActivityForDay(ctx context.Context, userID primitive.ObjectID, date string) (models.CapitalActivity, error) {
	a, err := s.capitals.ActivityForDay(ctx, userID, date)
	return a, appErr(err)
}
