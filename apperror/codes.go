package apperror

import "net/http"

const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeConflict          = "CONFLICT"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodePayrollLocked     = "PAYROLL_LOCKED"
	CodePayrollWithdrawn  = "PAYROLL_WITHDRAWN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeActiveCapital     = "ACTIVE_CAPITAL_EXISTS"
	CodeOverRemittance    = "OVER_REMITTANCE"
	CodeDuplicateShift    = "DUPLICATE_SHIFT"
	CodeDuplicateReport   = "DUPLICATE_REPORT"
	CodeReasonRequired    = "REASON_REQUIRED"
	CodeInternal          = "INTERNAL_ERROR"
)

var (
	ErrPayrollNotFound    = New(CodeNotFound+"_PAYROLL", "Payroll not found", http.StatusNotFound)
	ErrCapitalNotFound    = New(CodeNotFound+"_CAPITAL", "No active capital for teller", http.StatusNotFound)
	ErrUserNotFound       = New(CodeNotFound+"_USER", "User not found", http.StatusNotFound)
	ErrSettingsNotFound   = New(CodeNotFound+"_SETTINGS", "System settings not found", http.StatusNotFound)
	ErrShiftNotFound      = New(CodeNotFound+"_SHIFT", "Shift not found", http.StatusNotFound)
	ErrShortPlanNotFound  = New(CodeNotFound+"_SHORT_PLAN", "Short payment plan not found", http.StatusNotFound)
	ErrInvalidInput       = New(CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	ErrReasonRequired     = New(CodeReasonRequired, "A reason is required for payroll adjustments", http.StatusBadRequest)
	ErrPayrollLocked      = New(CodePayrollLocked, "Payroll is locked", http.StatusConflict)
	ErrPayrollWithdrawn   = New(CodePayrollWithdrawn, "Payroll has already been withdrawn", http.StatusConflict)
	ErrInvalidTransition  = New(CodeInvalidTransition, "Payroll status change not allowed", http.StatusConflict)
	ErrVersionConflict    = New(CodeVersionConflict, "Document was modified concurrently, reload and retry", http.StatusConflict)
	ErrActiveCapitalExist = New(CodeActiveCapital, "Teller already has active capital", http.StatusConflict)
	ErrOverRemittance     = New(CodeOverRemittance, "Remittance exceeds outstanding capital", http.StatusConflict)
	ErrDuplicateShift     = New(CodeDuplicateShift, "Shift already exists for this user and date", http.StatusConflict)
	ErrDuplicateReport    = New(CodeDuplicateReport, "Teller report already submitted for this date", http.StatusConflict)
)

func Internal(err error) *AppError {
	return Wrap(err, CodeInternal, "Internal server error", http.StatusInternalServerError)
}

func Invalid(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}
