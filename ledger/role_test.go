package ledger_test

import (
	"testing"

	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/stretchr/testify/assert"
)

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name     string
		assigned string
		activity models.CapitalActivity
		want     string
	}{
		{"received capital", models.RoleSupervisorTeller, models.CapitalActivity{ReceivedAsTeller: true}, models.RoleTeller},
		{"gave capital", models.RoleSupervisorTeller, models.CapitalActivity{GaveAsSupervisor: true}, models.RoleSupervisor},
		{"both sides, receiving wins", models.RoleSupervisorTeller, models.CapitalActivity{ReceivedAsTeller: true, GaveAsSupervisor: true}, models.RoleTeller},
		{"no activity falls back to assigned", models.RoleWatcher, models.CapitalActivity{}, models.RoleWatcher},
		{"idle supervisor_teller works as teller", models.RoleSupervisorTeller, models.CapitalActivity{}, models.RoleTeller},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				assert.Equal(t, tt.want, ledger.ResolveRole(tt.assigned, tt.activity))
			}
		})
	}
}

func TestBaseSalaryFor(t *testing.T) {
	settings := models.DefaultSystemSettings(timeZero)

	assert.Equal(t, 450.0, ledger.BaseSalaryFor(settings, models.RoleTeller))
	assert.Equal(t, 500.0, ledger.BaseSalaryFor(settings, models.RoleSupervisor))
	assert.Equal(t, 450.0, ledger.BaseSalaryFor(settings, models.RoleSupervisorTeller))
	assert.Zero(t, ledger.BaseSalaryFor(settings, "janitor"))
	assert.Zero(t, ledger.BaseSalaryFor(nil, models.RoleTeller))
}
