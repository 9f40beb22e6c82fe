package handlers

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/bookshare/internal/auth"
	"github.com/BradenHooton/bookshare/internal/models"
	pkgauth "github.com/BradenHooton/bookshare/pkg/auth"
	pkghttp "github.com/BradenHooton/bookshare/pkg/http"
)

// writeServiceError maps service sentinels onto HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	var pwErr *pkgauth.PasswordValidationError

	switch {
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrInvalidTransition):
		pkghttp.WriteInvalidTransition(w, "The card's current status does not allow this action")
	case errors.Is(err, models.ErrReasonRequired):
		pkghttp.WriteBadRequest(w, "A reason is required for this action")
	case errors.Is(err, models.ErrAccountBanned):
		pkghttp.WriteForbidden(w, "Account is banned")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, models.ErrLoginTaken):
		pkghttp.WriteConflict(w, "A user with this login already exists")
	case errors.Is(err, models.ErrEmailTaken):
		pkghttp.WriteConflict(w, "A user with this email already exists")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, "The resource was modified concurrently, reload and try again")
	case errors.As(err, &pwErr):
		pkghttp.WriteValidationError(w, "password: "+pwErr.Reason)
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid request")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication required")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// currentActor returns the authenticated user and its card actor.
// It writes a 401 and returns false when the request is anonymous.
func currentActor(w http.ResponseWriter, r *http.Request) (*models.User, models.CardActor, bool) {
	user := auth.GetUserFromContext(r)
	if user == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return nil, models.CardActor{}, false
	}
	return user, models.ActorFromUser(user), true
}
