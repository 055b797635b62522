package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFileType(t *testing.T) {
	for _, s := range []string{"image", "csv", "pdf"} {
		ft, err := ParseFileType(s)
		require.NoError(t, err)
		assert.Equal(t, FileType(s), ft)
	}

	_, err := ParseFileType("docx")
	assert.Error(t, err)
	_, err = ParseFileType("PDF")
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("org:admin"))
	assert.Equal(t, RoleAdmin, ParseRole("Admin"))
	assert.Equal(t, RoleMember, ParseRole("org:member"))
	assert.Equal(t, RoleMember, ParseRole(""))
}

func TestUserMembership(t *testing.T) {
	u := &User{Memberships: []OrgMembership{
		{OrgID: "org1", Role: RoleMember},
		{OrgID: "org2", Role: RoleAdmin},
	}}

	m, ok := u.Membership("org1")
	require.True(t, ok)
	assert.Equal(t, RoleMember, m.Role)

	_, ok = u.Membership("org3")
	assert.False(t, ok)

	assert.False(t, u.IsAdminOf("org1"))
	assert.True(t, u.IsAdminOf("org2"))
	assert.False(t, u.IsAdminOf("org3"))
}

func TestCallerAuthenticated(t *testing.T) {
	assert.False(t, Anonymous().Authenticated())
	assert.True(t, Caller{TokenIdentifier: "issuer|u1"}.Authenticated())
}
