package services

import (
	"errors"

	"github.com/HSouheill/tellerdesk_backend/apperror"
)

// appErr passes AppErrors through and hides anything else behind a 500.
func appErr(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperror.AppError
	if errors.As(err, &ae) {
		return err
	}
	return apperror.Internal(err)
}
