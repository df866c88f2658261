package services

import (
	"context"
	"time"

	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// workDay is the role a user worked as on a date and what it pays.
type workDay struct {
	Date         string
	AssignedRole string
	RoleWorkedAs string
	BaseSalary   float64
}

// dayResolver works out a user's role for a day from capital activity and
// prices it from the settings snapshot. Shifts and teller reports share it
// so both produce the same payroll.
type dayResolver struct {
	capitals CapitalStore
	settings SettingsProvider
	now      func() time.Time
}

func (r *dayResolver) today(ctx context.Context) (string, error) {
	st, err := r.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	return ledger.Today(r.now(), st.Timezone), nil
}

// resolve fills in date and roles. An explicit worked-as role skips the
// capital lookup.
func (r *dayResolver) resolve(ctx context.Context, userID primitive.ObjectID, date, assigned, workedAs string) (*workDay, error) {
	st, err := r.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if date == "" {
		date = ledger.Today(r.now(), st.Timezone)
	}
	if workedAs == "" {
		activity, err := r.capitals.ActivityForDay(ctx, userID, date)
		if err != nil {
			return nil, appErr(err)
		}
		workedAs = ledger.ResolveRole(assigned, activity)
	}
	if workedAs == models.RoleSupervisorTeller {
		workedAs = models.RoleTeller
	}
	return &workDay{
		Date:         date,
		AssignedRole: assigned,
		RoleWorkedAs: workedAs,
		BaseSalary:   ledger.BaseSalaryFor(st, workedAs),
	}, nil
}
