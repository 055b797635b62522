package services

import (
	"context"
	"testing"

	"orgdrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuthorizeOrg(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.users.add("issuer|m", member("org1"))
	personal := f.users.add("issuer|user_42")
	outsider := f.users.add("issuer|x", member("org2"))

	tests := []struct {
		name    string
		caller  models.Caller
		orgID   string
		granted bool
	}{
		{"member", callerFor(m), "org1", true},
		{"personal workspace", callerFor(personal), "user_42", true},
		{"non member", callerFor(outsider), "org1", false},
		{"anonymous", models.Anonymous(), "org1", false},
		{"unknown user", models.Caller{TokenIdentifier: "issuer|ghost"}, "org1", false},
		{"empty org", callerFor(m), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, err := f.access.AuthorizeOrg(ctx, tt.caller, tt.orgID)
			require.NoError(t, err)
			if tt.granted {
				require.NotNil(t, access)
				assert.Equal(t, tt.caller.TokenIdentifier, access.User.TokenIdentifier)
			} else {
				assert.Nil(t, access)
			}
		})
	}
}

func TestAuthorizeOrgStoreFailure(t *testing.T) {
	f := newFixture()
	f.users.findErr = errStoreDown
	access, err := f.access.AuthorizeOrg(context.Background(), models.Caller{TokenIdentifier: "u"}, "org1")
	assert.Nil(t, access)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAuthorizeFile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m := f.users.add("m", member("org1"))
	outsider := f.users.add("x", member("org2"))
	file := f.files.add(models.File{Name: "a.pdf", OrgID: "org1", Type: models.FileTypePDF, OwnerID: m.ID})

	access, err := f.access.AuthorizeFile(ctx, callerFor(m), file.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, access)
	assert.Equal(t, file.ID, access.File.ID)

	for _, id := range []string{"garbage", primitive.NewObjectID().Hex()} {
		access, err = f.access.AuthorizeFile(ctx, callerFor(m), id)
		assert.NoError(t, err)
		assert.Nil(t, access)
	}

	access, err = f.access.AuthorizeFile(ctx, callerFor(outsider), file.ID.Hex())
	assert.NoError(t, err)
	assert.Nil(t, access)
}

func TestCanMutateLifecycle(t *testing.T) {
	owner := &models.User{ID: primitive.NewObjectID(), Memberships: []models.OrgMembership{member("org1")}}
	orgAdmin := &models.User{ID: primitive.NewObjectID(), Memberships: []models.OrgMembership{admin("org1")}}
	otherAdmin := &models.User{ID: primitive.NewObjectID(), Memberships: []models.OrgMembership{admin("org2")}}
	plain := &models.User{ID: primitive.NewObjectID(), Memberships: []models.OrgMembership{member("org1")}}
	file := &models.File{ID: primitive.NewObjectID(), OrgID: "org1", OwnerID: owner.ID}

	assert.True(t, CanMutateLifecycle(owner, file))
	assert.True(t, CanMutateLifecycle(orgAdmin, file))
	assert.False(t, CanMutateLifecycle(otherAdmin, file))
	assert.False(t, CanMutateLifecycle(plain, file))
	assert.False(t, CanMutateLifecycle(nil, file))
}
