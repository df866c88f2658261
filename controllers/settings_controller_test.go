package controllers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSettings struct {
	current *models.SystemSettings
	update  models.SettingsUpdateRequest
	reset   models.SupervisorResetRequest
}

func (f *fakeSettings) Get(context.Context) (*models.SystemSettings, error) {
	return f.current, nil
}

func (f *fakeSettings) Update(_ context.Context, req models.SettingsUpdateRequest) (*models.SystemSettings, error) {
	f.update = req
	for role, v := range req.BaseSalary {
		f.current.BaseSalary[role] = v
	}
	return f.current, nil
}

func (f *fakeSettings) UpdateSupervisorReset(_ context.Context, req models.SupervisorResetRequest) (*models.SystemSettings, error) {
	f.reset = req
	f.current.SupervisorResetTime = req.SupervisorResetTime
	f.current.AutoResetSupervisorAssignments = *req.AutoResetSupervisorAssignments
	return f.current, nil
}

type fixedClock time.Time

func (c fixedClock) NextReset() time.Time { return time.Time(c) }

func TestUpdateSettings(t *testing.T) {
	fs := &fakeSettings{current: models.DefaultSystemSettings(time.Now())}
	sc := NewSettingsController(fs, nil)

	c, rec := newContext(request{
		method:   http.MethodPut,
		body:     `{"baseSalary":{"teller":500},"theme":"dark"}`,
		userID:   primitive.NewObjectID(),
		userType: models.RoleAdmin,
	})
	require.NoError(t, sc.UpdateSettings(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500.0, fs.update.BaseSalary[models.RoleTeller])
	require.NotNil(t, fs.update.Theme)
	assert.Equal(t, "dark", *fs.update.Theme)
	assert.Nil(t, fs.update.ResetTime)
}

func TestUpdateSettings_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown role":    `{"baseSalary":{"janitor":100}}`,
		"negative salary": `{"baseSalary":{"teller":-1}}`,
		"bad time":        `{"resetTime":"25:00"}`,
		"bad timezone":    `{"timezone":"Mars/Olympus"}`,
		"bad theme":       `{"theme":"neon"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			sc := NewSettingsController(&fakeSettings{current: models.DefaultSystemSettings(time.Now())}, nil)
			c, rec := newContext(request{method: http.MethodPut, body: body, userType: models.RoleAdmin})
			require.NoError(t, sc.UpdateSettings(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateSupervisorReset(t *testing.T) {
	next := time.Date(2026, 5, 5, 16, 0, 0, 0, time.UTC)
	fs := &fakeSettings{current: models.DefaultSystemSettings(time.Now())}
	sc := NewSettingsController(fs, fixedClock(next))

	c, rec := newContext(request{
		method:   http.MethodPut,
		body:     `{"supervisorResetTime":"00:30","autoResetSupervisorAssignments":false}`,
		userType: models.RoleAdmin,
	})
	require.NoError(t, sc.UpdateSupervisorReset(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "00:30", fs.reset.SupervisorResetTime)
	assert.False(t, fs.current.AutoResetSupervisorAssignments)

	var data map[string]interface{}
	decode(t, rec, &data)
	assert.Equal(t, next.Format(time.RFC3339), data["nextReset"])
}

func TestUpdateSupervisorReset_RequiresFlag(t *testing.T) {
	sc := NewSettingsController(&fakeSettings{current: models.DefaultSystemSettings(time.Now())}, nil)
	c, rec := newContext(request{
		method:   http.MethodPut,
		body:     `{"supervisorResetTime":"00:30"}`,
		userType: models.RoleAdmin,
	})
	require.NoError(t, sc.UpdateSupervisorReset(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
