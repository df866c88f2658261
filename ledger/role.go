package ledger

import "github.com/HSouheill/tellerdesk_backend/models"

// ResolveRole picks the role a user worked as on a day. Receiving capital as
// a teller wins over giving capital as a supervisor; with no capital activity
// the assigned role applies, and a supervisor_teller defaults to teller.
func ResolveRole(assigned string, activity models.CapitalActivity) string {
	switch {
	case activity.ReceivedAsTeller:
		return models.RoleTeller
	case activity.GaveAsSupervisor:
		return models.RoleSupervisor
	case assigned == models.RoleSupervisorTeller:
		return models.RoleTeller
	default:
		return assigned
	}
}

// BaseSalaryFor looks the role up in settings. Unknown roles earn 0.
func BaseSalaryFor(settings *models.SystemSettings, role string) float64 {
	if settings == nil {
		return 0
	}
	if role == models.RoleSupervisorTeller {
		role = models.RoleTeller
	}
	return settings.BaseSalary[role]
}
