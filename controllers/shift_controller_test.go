package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeShifts struct {
	ShiftManager
	setFn func(ctx context.Context, req models.SetShiftRequest) (*models.ShiftResult, error)
}

func (f *fakeShifts) Set(ctx context.Context, req models.SetShiftRequest) (*models.ShiftResult, error) {
	return f.setFn(ctx, req)
}

func TestSetShift_AssignedRole(t *testing.T) {
	user := primitive.NewObjectID()
	cases := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"hybrid role", models.RoleSupervisorTeller, http.StatusOK},
		{"teller", models.RoleTeller, http.StatusOK},
		{"unknown role", "janitor", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			sc := NewShiftController(&fakeShifts{
				setFn: func(_ context.Context, req models.SetShiftRequest) (*models.ShiftResult, error) {
					called = true
					return &models.ShiftResult{Shift: &models.Shift{UserID: user, AssignedRole: req.AssignedRole}}, nil
				},
			})

			c, rec := newContext(request{
				method:   http.MethodPost,
				body:     `{"userId":"` + user.Hex() + `","assignedRole":"` + tc.role + `"}`,
				userID:   primitive.NewObjectID(),
				userType: models.RoleSupervisor,
			})
			require.NoError(t, sc.SetShift(c))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantCode == http.StatusOK, called)
		})
	}
}
