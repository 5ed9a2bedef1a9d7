// Package registry holds the in-memory account map keyed by normalized
// login. It is the only mutation point for that map: registration, login,
// access-code reissue, and batch import all go through it.
package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/logging"
	"github.com/modestry/userkeeper/internal/notify"
	"github.com/modestry/userkeeper/internal/phonex"
	"github.com/modestry/userkeeper/internal/users"
)

// Registry maps normalized logins to accounts. A single mutex guards every
// public operation; none of them compose safely if interleaved.
type Registry struct {
	mu     sync.Mutex
	users  map[string]*users.User
	sender notify.CodeSender
	logger logging.Logger
}

// New returns an empty registry. The sender delivers one-time access codes;
// pass nil to disable delivery entirely.
func New(sender notify.CodeSender, logger logging.Logger) *Registry {
	return &Registry{
		users:  make(map[string]*users.User),
		sender: sender,
		logger: logger,
	}
}

// RegisterUser creates an email+password account. It fails with
// common.ErrAlreadyExists if the normalized email is already registered.
func (r *Registry) RegisterUser(ctx context.Context, fullName, email, password string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, ok := r.users[key]; ok {
		return nil, fmt.Errorf("a user with this email %w", common.ErrAlreadyExists)
	}

	user, err := users.Make(ctx, fullName, email, password, "", r.sender)
	if err != nil {
		return nil, err
	}
	r.users[user.Login()] = user

	r.logger.Info(ctx, "user registered", "login", user.Login(), "auth", "password")
	return user, nil
}

// RegisterUserByPhone creates a phone account and issues its first access
// code. The phone must be a plus followed by exactly 11 digits; the
// canonical form must not already be registered.
func (r *Registry) RegisterUserByPhone(ctx context.Context, fullName, phone string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !phonex.ValidatePhone(phone) {
		return nil, common.ErrInvalidPhone
	}
	if _, ok := r.users[phonex.SimplifyPhone(phone)]; ok {
		return nil, fmt.Errorf("a user with this phone %w", common.ErrAlreadyExists)
	}

	user, err := users.Make(ctx, fullName, "", "", phone, r.sender)
	if err != nil {
		return nil, err
	}
	r.users[user.Login()] = user

	r.logger.Info(ctx, "user registered", "login", user.Login(), "auth", "sms")
	return user, nil
}

// LoginUser authenticates the given login/password pair and returns the
// account's info snapshot. An unknown login and a wrong password are
// indistinguishable: both return common.ErrUnauthorized.
func (r *Registry) LoginUser(ctx context.Context, login, password string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[phonex.SimplifyLogin(login)]
	if !ok || !user.CheckPassword(password) {
		return "", common.ErrUnauthorized
	}
	return user.Info(), nil
}

// RequestAccessCode rotates the access code of the account registered under
// the given phone and triggers delivery. An unknown phone is a silent no-op.
func (r *Registry) RequestAccessCode(ctx context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[phonex.SimplifyPhone(phone)]
	if !ok {
		return nil
	}
	return user.ChangeAccessCode(ctx, phone, r.sender)
}

// ImportUsers parses each serialized record and inserts the resulting user,
// overwriting any earlier entry with the same login, including one from the
// same batch. It stops at the first malformed record and returns the users
// constructed so far together with the error.
func (r *Registry) ImportUsers(ctx context.Context, records []string) ([]*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	imported := make([]*users.User, 0, len(records))
	for i, record := range records {
		user, err := users.Import(ctx, record, r.sender)
		if err != nil {
			return imported, fmt.Errorf("error importing record %d: %w", i, err)
		}
		r.users[user.Login()] = user
		imported = append(imported, user)
	}

	r.logger.Info(ctx, "users imported", "count", len(imported))
	return imported, nil
}

// Count returns the number of registered accounts.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Clear empties the registry. Test-support API.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = make(map[string]*users.User)
}
