package services

import (
	"context"
	"testing"

	"orgdrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleIsItsOwnInverse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.users.add("u", member("org1"))
	file := f.files.add(models.File{Name: "F", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})

	favorited, err := f.favSvc.Toggle(ctx, callerFor(u), file.ID.Hex())
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Len(t, f.favorites.favorites, 1)

	favorited, err = f.favSvc.Toggle(ctx, callerFor(u), file.ID.Hex())
	require.NoError(t, err)
	assert.False(t, favorited)
	assert.Empty(t, f.favorites.favorites)

	favorited, err = f.favSvc.Toggle(ctx, callerFor(u), file.ID.Hex())
	require.NoError(t, err)
	assert.True(t, favorited)
	assert.Len(t, f.favorites.favorites, 1)
}

func TestToggleConcurrentInsertResolvesToFavorited(t *testing.T) {
	f := newFixture()
	u := f.users.add("u", member("org1"))
	file := f.files.add(models.File{Name: "F", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})
	f.favorites.raceOnInsert = true

	favorited, err := f.favSvc.Toggle(context.Background(), callerFor(u), file.ID.Hex())
	require.NoError(t, err)
	assert.True(t, favorited)
}

func TestToggleWithoutAccess(t *testing.T) {
	f := newFixture()
	owner := f.users.add("u", member("org1"))
	outsider := f.users.add("x", member("org2"))
	file := f.files.add(models.File{Name: "F", OrgID: "org1", OwnerID: owner.ID, Type: models.FileTypePDF})

	_, err := f.favSvc.Toggle(context.Background(), callerFor(outsider), file.ID.Hex())
	assert.EqualError(t, err, "You don't have permission to favorite this file")
	assert.Empty(t, f.favorites.favorites)

	_, err = f.favSvc.Toggle(context.Background(), models.Anonymous(), file.ID.Hex())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListForOrg(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.users.add("u", member("org1"), member("org2"))
	a := f.files.add(models.File{Name: "A", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})
	b := f.files.add(models.File{Name: "B", OrgID: "org2", OwnerID: u.ID, Type: models.FileTypePDF})

	_, err := f.favSvc.Toggle(ctx, callerFor(u), a.ID.Hex())
	require.NoError(t, err)
	_, err = f.favSvc.Toggle(ctx, callerFor(u), b.ID.Hex())
	require.NoError(t, err)

	favs, err := f.favSvc.ListForOrg(ctx, callerFor(u), "org1")
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, a.ID, favs[0].FileID)

	favs, err = f.favSvc.ListForOrg(ctx, models.Anonymous(), "org1")
	require.NoError(t, err)
	assert.Empty(t, favs)
}
