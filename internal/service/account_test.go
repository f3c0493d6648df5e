package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tb453/shopadmin/internal/domain"
)

func shopUsers() []domain.User {
	return []domain.User{
		{ID: "1", Name: "Admin Toko", Email: "admin@toko.id", Role: domain.RoleAdmin},
		{ID: "2", Name: "Siti Kasir", Email: "siti@toko.id", Role: domain.RoleKasir},
		{ID: "3", Name: "Joko", Email: "gudang@toko.id", Role: domain.RoleGudang},
	}
}

func TestLoginLogout(t *testing.T) {
	backend := &fakeBackend{users: shopUsers()}
	st := newMemStore(t)
	sessions := NewSessionService(backend, st, nil)

	_, ok := sessions.Current()
	assert.False(t, ok)

	sess, err := sessions.Login(context.Background(), " siti@toko.id ", "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleKasir, sess.Role)

	stored, ok := st.GetSession()
	require.True(t, ok)
	assert.Equal(t, "2", stored.ID)

	id, ok := sessions.Identity()
	require.True(t, ok)
	assert.Equal(t, "siti@toko.id", id.Email)

	require.NoError(t, sessions.Logout(context.Background()))
	assert.Equal(t, []string{"siti@toko.id"}, backend.logouts)
	_, ok = sessions.Current()
	assert.False(t, ok)
	_, ok = st.GetSession()
	assert.False(t, ok)
}

func TestLoginRejected(t *testing.T) {
	sessions := NewSessionService(&fakeBackend{users: shopUsers()}, newMemStore(t), nil)

	_, err := sessions.Login(context.Background(), "nobody@toko.id", "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = sessions.Login(context.Background(), "", "")
	var valErr *domain.ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestLogoutClearsSessionWhenBackendFails(t *testing.T) {
	backend := &fakeBackend{users: shopUsers(), logoutErr: domain.ErrServerOffline}
	st := newMemStore(t)
	sessions := NewSessionService(backend, st, nil)
	_, err := sessions.Login(context.Background(), "admin@toko.id", "x")
	require.NoError(t, err)

	err = sessions.Logout(context.Background())
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	_, ok := sessions.Current()
	assert.False(t, ok)
}

func TestLogoutWithoutSession(t *testing.T) {
	sessions := NewSessionService(&fakeBackend{}, newMemStore(t), nil)
	assert.ErrorIs(t, sessions.Logout(context.Background()), domain.ErrNoSession)
}

func TestSessionReadFromStore(t *testing.T) {
	st := newMemStore(t)
	require.NoError(t, st.SaveSession(domain.Session{ID: "3", Role: domain.RoleGudang, Email: "gudang@toko.id"}))

	sessions := NewSessionService(nil, st, nil)
	sess, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, domain.RoleGudang, sess.Role)
}

func TestUpdateProfileRenamesSession(t *testing.T) {
	backend := &fakeBackend{users: shopUsers()}
	st := newMemStore(t)
	sessions := NewSessionService(backend, st, nil)
	_, err := sessions.Login(context.Background(), "gudang@toko.id", "x")
	require.NoError(t, err)
	accounts := NewAccountService(backend, sessions, nil)

	_, err = accounts.UpdateProfile(context.Background(), "  ", "")
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)

	msg, err := accounts.UpdateProfile(context.Background(), "Joko Susilo", "")
	require.NoError(t, err)
	assert.Equal(t, "Profil diperbarui", msg)
	assert.Equal(t, []string{"gudang@toko.id:Joko Susilo"}, backend.profiles)

	sess, _ := sessions.Current()
	assert.Equal(t, "Joko Susilo", sess.Name)
	stored, _ := st.GetSession()
	assert.Equal(t, "Joko Susilo", stored.Name)
}

func TestRegisterUserValidates(t *testing.T) {
	backend := &fakeBackend{}
	accounts := NewAccountService(backend, nil, nil)

	_, err := accounts.RegisterUser(context.Background(), domain.UserInput{Name: "Rina", Email: "rina@toko.id"})
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Empty(t, backend.registered)

	msg, err := accounts.RegisterUser(context.Background(), domain.UserInput{Name: "Rina", Email: "rina@toko.id", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Account created", msg)
	require.Len(t, backend.registered, 1)
	assert.Equal(t, domain.RoleKasir, backend.registered[0].Role)
}

func TestDeleteOwnAccountRefused(t *testing.T) {
	backend := &fakeBackend{users: shopUsers()}
	sessions := NewSessionService(backend, newMemStore(t), nil)
	_, err := sessions.Login(context.Background(), "admin@toko.id", "x")
	require.NoError(t, err)
	accounts := NewAccountService(backend, sessions, nil)

	_, err = accounts.DeleteUser(context.Background(), "1")
	var valErr *domain.ValidationError
	require.ErrorAs(t, err, &valErr)

	msg, err := accounts.DeleteUser(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "User 2 deleted", msg)
}

func TestSearchUsers(t *testing.T) {
	users := shopUsers()

	assert.Equal(t, users, SearchUsers(users, ""))

	got := SearchUsers(users, "siti")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	got = SearchUsers(users, "GUDANG")
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	got = SearchUsers(users, "toko.id")
	assert.Len(t, got, 3)

	assert.Empty(t, SearchUsers(users, "zzz"))
}

func TestFetchActivityNewestFirst(t *testing.T) {
	backend := &fakeBackend{logs: []domain.ActivityLog{
		{Date: "2026-10-16T08:00:00.000Z", User: "admin", Action: "login"},
		{Date: "2026-10-18T08:00:00.000Z", User: "siti", Action: "create sale"},
		{Date: "2026-10-17T08:00:00.000Z", User: "joko", Action: "update product"},
	}}
	logs, err := NewActivityService(backend, nil).FetchActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "siti", logs[0].User)
	assert.Equal(t, "admin", logs[2].User)
}
