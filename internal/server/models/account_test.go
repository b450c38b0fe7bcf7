package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_JSONOmitsPasswordHash(t *testing.T) {
	a := Account{ID: 1, Name: "Ann", Email: "ann@x.io", PasswordHash: "$2a$10$secret"}

	b, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}

func TestAccount_View(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a := &Account{ID: 7, Name: "Bob", Email: "bob@x.io", PasswordHash: "h", IsAdmin: true, CreatedAt: now, UpdatedAt: now}

	v := a.View()

	assert.Equal(t, AccountView{ID: 7, Name: "Bob", Email: "bob@x.io", IsAdmin: true, CreatedAt: now, UpdatedAt: now}, v)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.ElementsMatch(t, []string{"id", "name", "email", "is_admin", "created_at", "updated_at"}, keys(m))
}

func TestAccountUpdate_Empty(t *testing.T) {
	name := "x"
	assert.True(t, AccountUpdate{}.Empty())
	assert.False(t, AccountUpdate{Name: &name}.Empty())
	assert.False(t, AccountUpdate{Email: &name}.Empty())
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
