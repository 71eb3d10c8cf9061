package api

import (
	"errors"
	"net/http"

	"pollroom/internal/models"
)

// statusFromErr classifies a domain error: missing entities map to 404,
// failed ownership checks to 403, validation and conflict errors to 400 and
// everything else to 500.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, models.ErrPollNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNotPollCreator):
		return http.StatusForbidden
	case errors.Is(err, models.ErrQuestionIsEmpty),
		errors.Is(err, models.ErrNotEnoughOptions),
		errors.Is(err, models.ErrOptionsNotUnique),
		errors.Is(err, models.ErrOptionIsEmpty),
		errors.Is(err, models.ErrOptionNotFound),
		errors.Is(err, models.ErrInvalidOptionIndex),
		errors.Is(err, models.ErrAlreadyVoted),
		errors.Is(err, models.ErrUserAlreadyExists),
		errors.Is(err, models.ErrUsernameIsEmpty),
		errors.Is(err, models.ErrCreatorNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
