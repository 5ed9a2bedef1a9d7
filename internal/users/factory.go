package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/cryptox"
	"github.com/modestry/userkeeper/internal/notify"
)

// NewEmailUser creates an account authenticated by email and password.
func NewEmailUser(firstName, lastName, email, password string) (*User, error) {
	u, err := newUser(firstName, lastName, email, "", map[string]string{"auth": "password"})
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	u.salt = salt
	u.passwordHash = u.encrypt(password)

	return u, nil
}

// NewPhoneUser creates an account authenticated by a one-time access code.
// The freshly issued code is delivered through the sender.
func NewPhoneUser(ctx context.Context, firstName, lastName, phone string, sender notify.CodeSender) (*User, error) {
	u, err := newUser(firstName, lastName, "", phone, map[string]string{"auth": "sms"})
	if err != nil {
		return nil, err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	u.salt = salt

	if err := u.ChangeAccessCode(ctx, phone, sender); err != nil {
		return nil, err
	}

	return u, nil
}

// NewImportedUser creates an account from previously serialized credential
// material. saltHash carries "salt:hash"; no hashing is performed. Imported
// phone accounts immediately rotate to a fresh access code, because the
// secret behind an imported hash is unknown to the owner of the phone.
func NewImportedUser(ctx context.Context, firstName, lastName, email, phone, saltHash string, sender notify.CodeSender) (*User, error) {
	u, err := newUser(firstName, lastName, email, phone, map[string]string{"src": "csv"})
	if err != nil {
		return nil, err
	}

	salt, hash, ok := strings.Cut(saltHash, ":")
	if !ok {
		return nil, fmt.Errorf("%w: want salt:hash, got %q", common.ErrBadRecord, saltHash)
	}
	u.salt = salt
	u.passwordHash = hash

	if strings.TrimSpace(phone) != "" {
		if err := u.ChangeAccessCode(ctx, phone, sender); err != nil {
			return nil, err
		}
	}

	return u, nil
}

// Make splits the full name and dispatches on the supplied fields: a
// non-blank phone wins, otherwise email plus password. Anything else fails.
func Make(ctx context.Context, fullName, email, password, phone string, sender notify.CodeSender) (*User, error) {
	firstName, lastName, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	switch {
	case strings.TrimSpace(phone) != "":
		return NewPhoneUser(ctx, firstName, lastName, phone, sender)
	case strings.TrimSpace(email) != "" && strings.TrimSpace(password) != "":
		return NewEmailUser(firstName, lastName, email, password)
	default:
		return nil, common.ErrNoIdentity
	}
}

// Import parses a serialized record "fullName;email;salt:hash;phone"
// (fields trimmed, exactly one of email/phone non-blank) and constructs
// the user through the import path.
func Import(ctx context.Context, record string, sender notify.CodeSender) (*User, error) {
	fields := strings.Split(record, ";")
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: want 4 fields, got %d in %q", common.ErrBadRecord, len(fields), record)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	fullName, email, saltHash, phone := fields[0], fields[1], fields[2], fields[3]

	firstName, lastName, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	switch {
	case email != "" && phone != "":
		return nil, fmt.Errorf("%w: %q", common.ErrAmbiguousIdentity, record)
	case phone != "":
		return NewImportedUser(ctx, firstName, lastName, "", phone, saltHash, sender)
	case email != "":
		return NewImportedUser(ctx, firstName, lastName, email, "", saltHash, sender)
	default:
		return nil, common.ErrNoIdentity
	}
}

// splitFullName tokenizes on whitespace and drops blank tokens. One token
// is a first name alone, two are first and last; anything longer fails.
func splitFullName(fullName string) (string, string, error) {
	parts := strings.Fields(fullName)
	switch len(parts) {
	case 1:
		return parts[0], "", nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("%w, current split result %v", common.ErrBadFullName, parts)
	}
}
