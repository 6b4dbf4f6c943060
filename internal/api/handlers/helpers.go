package handlers

import (
	"errors"
	"net/http"

	"splitledger/internal/models"
	"splitledger/internal/split"
)

// StatusForError maps engine errors onto HTTP statuses: validation problems
// are the caller's fault, missing records are 404s, anything else (including
// persistence failures) is a 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNonPositiveAmount),
		errors.Is(err, models.ErrNoParticipants),
		errors.Is(err, models.ErrPayerNotParticipant),
		errors.Is(err, models.ErrSamePartySettlement),
		errors.Is(err, models.ErrDuplicateIdentity),
		errors.Is(err, split.ErrSplitSumMismatch),
		errors.Is(err, split.ErrNonPositiveShare),
		errors.Is(err, split.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrGroupNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUserExists),
		errors.Is(err, models.ErrGroupExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
