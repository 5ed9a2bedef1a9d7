// Package users implements the account entity: identity fields, the derived
// display snapshot, and credential state (salt, password hash, one-time
// access codes). Users are created through the factory functions in this
// package; identity is immutable afterwards, only credentials rotate.
package users

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/cryptox"
	"github.com/modestry/userkeeper/internal/notify"
	"github.com/modestry/userkeeper/internal/phonex"
)

// User is a single account. All fields are set through the factory
// functions; the zero value is not a valid user.
type User struct {
	id        string
	firstName string
	lastName  string
	login     string
	phone     string

	salt         string
	passwordHash string
	// accessCode retains the most recently issued one-time code in
	// cleartext. Test-support only; nothing verifies against it directly.
	accessCode string

	meta map[string]string

	// info is rendered once at construction and never recomputed.
	info string
}

// newUser runs the construction-time invariants shared by every factory:
// non-blank first name, at most one of email/phone, login derived exactly
// once. Credential material is established by the caller afterwards.
func newUser(firstName, lastName, email, rawPhone string, meta map[string]string) (*User, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, common.ErrBlankFirstName
	}

	email = strings.TrimSpace(email)
	hasEmail := email != ""
	hasPhone := strings.TrimSpace(rawPhone) != ""
	if hasEmail && hasPhone {
		return nil, common.ErrAmbiguousIdentity
	}

	u := &User{
		id:        uuid.NewString(),
		firstName: firstName,
		lastName:  lastName,
		meta:      make(map[string]string, len(meta)),
	}
	for k, v := range meta {
		u.meta[k] = v
	}

	switch {
	case hasEmail:
		u.login = strings.ToLower(email)
	case hasPhone:
		u.phone = phonex.SimplifyPhone(rawPhone)
		u.login = u.phone
	default:
		return nil, common.ErrNoIdentity
	}

	u.info = fmt.Sprintf(
		"firstName: %s\nlastName: %s\nlogin: %s\nfullName: %s\ninitials: %s\nemail: %s\nphone: %s\nmeta: %v",
		u.firstName, u.lastName, u.login, u.FullName(), u.Initials(), email, u.phone, u.meta,
	)

	return u, nil
}

func (u *User) ID() string        { return u.id }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string  { return u.lastName }
func (u *User) Login() string     { return u.login }
func (u *User) Phone() string     { return u.phone }

// Info returns the display summary snapshotted at construction time.
// Later credential changes do not alter it.
func (u *User) Info() string { return u.info }

// AccessCode returns the most recently issued one-time code, or an empty
// string if none was ever issued. Test-support API.
func (u *User) AccessCode() string { return u.accessCode }

// Meta returns a copy of the provenance tags attached at construction.
func (u *User) Meta() map[string]string {
	m := make(map[string]string, len(u.meta))
	for k, v := range u.meta {
		m[k] = v
	}
	return m
}

// FullName joins the capitalized name parts with a space.
func (u *User) FullName() string {
	return strings.Join(capitalizeAll(u.nameParts()), " ")
}

// Initials returns the capitalized first letter of each name part,
// space-separated.
func (u *User) Initials() string {
	parts := u.nameParts()
	initials := make([]string, 0, len(parts))
	for _, p := range parts {
		initials = append(initials, capitalize(string([]rune(p)[0])))
	}
	return strings.Join(initials, " ")
}

// Record serializes the user into the import format
// "fullName;email;salt:hash;phone" so that Import reconstructs an
// equivalent account.
func (u *User) Record() string {
	email := ""
	if u.phone == "" {
		email = u.login
	}
	name := u.firstName
	if u.lastName != "" {
		name += " " + u.lastName
	}
	return fmt.Sprintf("%s;%s;%s:%s;%s", name, email, u.salt, u.passwordHash, u.phone)
}

// CheckPassword reports whether the candidate secret matches the stored
// credential.
func (u *User) CheckPassword(pass string) bool {
	candidate := u.encrypt(pass)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(u.passwordHash)) == 1
}

// ChangePassword replaces the stored credential if oldPass verifies;
// otherwise it returns common.ErrPasswordMismatch and leaves state intact.
func (u *User) ChangePassword(oldPass, newPass string) error {
	if !u.CheckPassword(oldPass) {
		return common.ErrPasswordMismatch
	}
	u.passwordHash = u.encrypt(newPass)
	return nil
}

// ChangeAccessCode issues a fresh one-time code, makes it the current
// credential, and hands it to the sender for delivery. The previous code
// stops verifying. Delivery errors are not surfaced.
func (u *User) ChangeAccessCode(ctx context.Context, phone string, sender notify.CodeSender) error {
	code, err := cryptox.NewAccessCode()
	if err != nil {
		return fmt.Errorf("error generating access code: %w", err)
	}
	u.passwordHash = u.encrypt(code)
	u.accessCode = code
	if sender != nil {
		_ = sender.SendAccessCode(ctx, phone, code)
	}
	return nil
}

func (u *User) encrypt(secret string) string {
	return cryptox.Digest(u.salt + secret)
}

func (u *User) nameParts() []string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.firstName, u.lastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func capitalizeAll(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, capitalize(p))
	}
	return out
}

func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
