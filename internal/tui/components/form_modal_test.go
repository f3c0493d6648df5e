package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m FormModal, msgs ...tea.Msg) (FormModal, bool) {
	t.Helper()
	var submitted bool
	for _, msg := range msgs {
		m, _, submitted = m.Update(msg)
	}
	return m, submitted
}

func loginFields() []FormField {
	return []FormField{
		{Key: "email", Label: "Email"},
		{Key: "password", Label: "Password", Password: true},
	}
}

func TestFormModal_TypingAndSubmit(t *testing.T) {
	m := NewFormModal()
	m.Show("Sign in", loginFields())
	require.True(t, m.IsVisible())

	m, submitted := press(t, m,
		keyRunes("admin@toko.id"),
		tea.KeyMsg{Type: tea.KeyTab},
		keyRunes("rahasia"),
	)
	assert.False(t, submitted)
	assert.Equal(t, "admin@toko.id", m.Value("email"))
	assert.Equal(t, "rahasia", m.Value("password"))
	assert.NotContains(t, m.View(), "rahasia", "password is masked")

	_, submitted = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, submitted)
}

func TestFormModal_EnterAdvancesBeforeLastField(t *testing.T) {
	m := NewFormModal()
	m.Show("Sign in", loginFields())

	m, submitted := press(t, m, keyRunes("a@b.c"), tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("pw"))
	assert.False(t, submitted)
	assert.Equal(t, "pw", m.Value("password"))
}

func TestFormModal_OptionsCycle(t *testing.T) {
	m := NewFormModal()
	m.Show("Account", []FormField{
		{Key: "role", Label: "Role", Options: []string{"admin", "kasir", "gudang"}},
	})
	assert.Equal(t, "admin", m.Value("role"), "defaults to the first option")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "kasir", m.Value("role"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "gudang", m.Value("role"))

	m, _ = press(t, m, keyRunes("x"))
	assert.Equal(t, "gudang", m.Value("role"), "option fields ignore typing")
}

func TestFormModal_BusyAndErrors(t *testing.T) {
	m := NewFormModal()
	m.Show("Sign in", loginFields())
	m.SetBusy(true)

	m, submitted := press(t, m, keyRunes("ignored"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, submitted)
	assert.Empty(t, m.Value("email"))
	assert.Contains(t, m.View(), "Saving...")

	m.SetError("Email atau password salah")
	assert.Contains(t, m.View(), "Email atau password salah")
	m, _ = press(t, m, keyRunes("x"))
	assert.Equal(t, "x", m.Value("email"), "error re-enables input")
}

func TestFormModal_EscHides(t *testing.T) {
	m := NewFormModal()
	m.Show("Profile", []FormField{{Key: "name", Label: "Name", Value: "Sari"}})
	assert.Equal(t, "Sari", m.Value("name"))

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsVisible())
	assert.Empty(t, m.View())
}
