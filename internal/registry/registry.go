// Package registry validates and creates user identities on top of the store.
package registry

import (
	"strings"

	"go.uber.org/zap"

	"pollroom/internal/models"
	"pollroom/internal/storage"
)

type Registry struct {
	store *storage.Store
	l     *zap.Logger
}

func New(store *storage.Store, l *zap.Logger) *Registry {
	return &Registry{
		store: store,
		l:     l,
	}
}

// Register creates a new user. The username is trimmed before validation and
// storage; an empty or whitespace-only name is rejected, as is a name already
// taken after trimming.
func (r *Registry) Register(username string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, models.ErrUsernameIsEmpty
	}
	user, err := r.store.CreateUser(username)
	if err != nil {
		return models.User{}, err
	}
	r.l.Info("user registered", zap.String("username", user.Username))
	return user, nil
}

// Lookup finds a user by name. Usernames are trimmed at every entry point,
// so the lookup trims too before the exact match.
func (r *Registry) Lookup(username string) (models.User, error) {
	return r.store.FindUser(strings.TrimSpace(username))
}
