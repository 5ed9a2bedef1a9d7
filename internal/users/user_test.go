package users

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modestry/userkeeper/internal/common"
	"github.com/modestry/userkeeper/internal/cryptox"
)

// recorderSender captures delivered codes instead of sending them.
type recorderSender struct {
	mu    sync.Mutex
	sent  []string
	phone string
}

func (r *recorderSender) SendAccessCode(_ context.Context, phone string, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phone = phone
	r.sent = append(r.sent, code)
	return nil
}

func (r *recorderSender) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

func TestNewEmailUser_Basic(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "JOHN@EX.com", "pass1")
	require.NoError(t, err)

	assert.Equal(t, "john@ex.com", u.Login())
	assert.Equal(t, "John Doe", u.FullName())
	assert.Equal(t, "J D", u.Initials())
	assert.Equal(t, map[string]string{"auth": "password"}, u.Meta())
	assert.NotEmpty(t, u.ID())
	assert.Empty(t, u.Phone())
	assert.Empty(t, u.AccessCode())

	assert.True(t, u.CheckPassword("pass1"))
	assert.False(t, u.CheckPassword("pass2"))
}

func TestNewEmailUser_BlankFirstName(t *testing.T) {
	_, err := NewEmailUser("  ", "Doe", "john@ex.com", "pass1")
	require.ErrorIs(t, err, common.ErrBlankFirstName)
}

func TestNewUser_BothEmailAndPhone(t *testing.T) {
	_, err := newUser("John", "Doe", "john@ex.com", "+79111234567", nil)
	require.ErrorIs(t, err, common.ErrAmbiguousIdentity)
}

func TestNewUser_NeitherEmailNorPhone(t *testing.T) {
	_, err := newUser("John", "Doe", "", "", nil)
	require.ErrorIs(t, err, common.ErrNoIdentity)
}

func TestNewPhoneUser_IssuesAndDeliversCode(t *testing.T) {
	sender := &recorderSender{}
	u, err := NewPhoneUser(context.Background(), "Jane", "Roe", "+7 (900) 123-45-67", sender)
	require.NoError(t, err)

	assert.Equal(t, "+79001234567", u.Login())
	assert.Equal(t, "+79001234567", u.Phone())
	assert.Equal(t, map[string]string{"auth": "sms"}, u.Meta())

	code := u.AccessCode()
	require.Len(t, code, cryptox.AccessCodeLength)
	assert.Equal(t, code, sender.last())
	assert.Equal(t, "+7 (900) 123-45-67", sender.phone)
	assert.True(t, u.CheckPassword(code))
}

func TestChangePassword(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "john@ex.com", "old")
	require.NoError(t, err)

	err = u.ChangePassword("wrong", "new")
	require.ErrorIs(t, err, common.ErrPasswordMismatch)
	assert.True(t, u.CheckPassword("old"), "failed change must not mutate state")

	require.NoError(t, u.ChangePassword("old", "new"))
	assert.True(t, u.CheckPassword("new"))
	assert.False(t, u.CheckPassword("old"))
}

func TestChangeAccessCode_SupersedesPrevious(t *testing.T) {
	sender := &recorderSender{}
	u, err := NewPhoneUser(context.Background(), "Jane", "", "+79001234567", sender)
	require.NoError(t, err)

	old := u.AccessCode()
	require.NoError(t, u.ChangeAccessCode(context.Background(), "+79001234567", sender))

	fresh := u.AccessCode()
	assert.Equal(t, fresh, sender.last())
	assert.True(t, u.CheckPassword(fresh))
	if old != fresh {
		assert.False(t, u.CheckPassword(old), "superseded code must stop verifying")
	}
}

func TestInfo_SnapshotNotRecomputed(t *testing.T) {
	u, err := NewEmailUser("john", "doe", "john@ex.com", "pass1")
	require.NoError(t, err)

	info := u.Info()
	assert.Contains(t, info, "firstName: john")
	assert.Contains(t, info, "lastName: doe")
	assert.Contains(t, info, "login: john@ex.com")
	assert.Contains(t, info, "fullName: John Doe")
	assert.Contains(t, info, "initials: J D")

	require.NoError(t, u.ChangePassword("pass1", "pass2"))
	assert.Equal(t, info, u.Info(), "snapshot must not change after credential rotation")
}

func TestMake_Dispatch(t *testing.T) {
	sender := &recorderSender{}

	u, err := Make(context.Background(), "John Doe", "john@ex.com", "pass1", "", sender)
	require.NoError(t, err)
	assert.Equal(t, "john@ex.com", u.Login())

	u, err = Make(context.Background(), "Jane Roe", "", "", "+79001234567", sender)
	require.NoError(t, err)
	assert.Equal(t, "+79001234567", u.Login())

	_, err = Make(context.Background(), "John Doe", "john@ex.com", "", "", sender)
	require.ErrorIs(t, err, common.ErrNoIdentity)
}

func TestMake_RejectsLongFullName(t *testing.T) {
	_, err := Make(context.Background(), "A B C", "abc@ex.com", "pass1", "", nil)
	require.ErrorIs(t, err, common.ErrBadFullName)
	assert.Contains(t, err.Error(), "[A B C]")
}

func TestSplitFullName(t *testing.T) {
	first, last, err := splitFullName("John Doe")
	require.NoError(t, err)
	assert.Equal(t, "John", first)
	assert.Equal(t, "Doe", last)

	first, last, err = splitFullName("Madonna")
	require.NoError(t, err)
	assert.Equal(t, "Madonna", first)
	assert.Empty(t, last)

	first, last, err = splitFullName("  John   Doe  ")
	require.NoError(t, err)
	assert.Equal(t, "John", first)
	assert.Equal(t, "Doe", last)

	_, _, err = splitFullName("")
	require.ErrorIs(t, err, common.ErrBadFullName)
}

func TestImport_EmailRoundTrip(t *testing.T) {
	src, err := NewEmailUser("John", "Doe", "john@ex.com", "pass1")
	require.NoError(t, err)

	imported, err := Import(context.Background(), src.Record(), nil)
	require.NoError(t, err)

	assert.Equal(t, "john@ex.com", imported.Login())
	assert.Equal(t, map[string]string{"src": "csv"}, imported.Meta())
	assert.True(t, imported.CheckPassword("pass1"), "imported salt:hash must verify the original secret")
}

func TestImport_PhoneRotatesCode(t *testing.T) {
	sender := &recorderSender{}
	u, err := Import(context.Background(), " Jane Roe ; ; c0ffee:deadbeef ; +7 (900) 123-45-67 ", sender)
	require.NoError(t, err)

	assert.Equal(t, "+79001234567", u.Login())
	code := u.AccessCode()
	require.Len(t, code, cryptox.AccessCodeLength)
	assert.Equal(t, code, sender.last())
	assert.True(t, u.CheckPassword(code))
}

func TestImport_Malformed(t *testing.T) {
	_, err := Import(context.Background(), "John Doe;john@ex.com;salt-only", nil)
	require.ErrorIs(t, err, common.ErrBadRecord)

	_, err = Import(context.Background(), "John Doe;john@ex.com;salthash;", nil)
	require.ErrorIs(t, err, common.ErrBadRecord)

	_, err = Import(context.Background(), "John Doe;john@ex.com;s:h;+79001234567", nil)
	require.ErrorIs(t, err, common.ErrAmbiguousIdentity)

	_, err = Import(context.Background(), "John Doe;;s:h;", nil)
	require.ErrorIs(t, err, common.ErrNoIdentity)
}

func TestRecord_Format(t *testing.T) {
	u, err := NewEmailUser("John", "Doe", "JOHN@EX.com", "pass1")
	require.NoError(t, err)

	parts := strings.Split(u.Record(), ";")
	require.Len(t, parts, 4)
	assert.Equal(t, "John Doe", parts[0])
	assert.Equal(t, "john@ex.com", parts[1])
	assert.Contains(t, parts[2], ":")
	assert.Empty(t, parts[3])
}
