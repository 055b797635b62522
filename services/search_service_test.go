package services

import (
	"context"
	"testing"

	"orgdrive/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func names(files []models.File) []string {
	out := []string{}
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func listingNames(listings []models.FileListing) []string {
	out := []string{}
	for _, l := range listings {
		out = append(out, l.Name)
	}
	return out
}

func TestApplyFileFilters(t *testing.T) {
	fav := primitive.NewObjectID()
	files := []models.File{
		{ID: fav, Name: "Budget.csv", Type: models.FileTypeCSV},
		{ID: primitive.NewObjectID(), Name: "cat.png", Type: models.FileTypeImage},
		{ID: primitive.NewObjectID(), Name: "old budget.pdf", Type: models.FileTypePDF, ShouldDelete: true},
		{ID: primitive.NewObjectID(), Name: "notes.pdf", Type: models.FileTypePDF},
	}
	favorites := []models.Favorite{{FileID: fav}}

	tests := []struct {
		name   string
		filter FileFilter
		want   []string
	}{
		{"default hides trashed", FileFilter{}, []string{"Budget.csv", "cat.png", "notes.pdf"}},
		{"deleted only", FileFilter{DeletedOnly: true}, []string{"old budget.pdf"}},
		{"query is case insensitive", FileFilter{Query: "BUDGET"}, []string{"Budget.csv"}},
		{"query in trash", FileFilter{Query: "budget", DeletedOnly: true}, []string{"old budget.pdf"}},
		{"favorites", FileFilter{FavoritesOnly: true}, []string{"Budget.csv"}},
		{"type", FileFilter{Type: models.FileTypePDF}, []string{"notes.pdf"}},
		{"no match", FileFilter{Query: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(applyFileFilters(files, favorites, tt.filter)))
		})
	}
}

func TestListFilesAttachesURLs(t *testing.T) {
	f := newFixture()
	u := f.users.add("u", member("org1"))
	f.files.add(models.File{Name: "a.pdf", OrgID: "org1", StorageRef: "uploads/a", OwnerID: u.ID, Type: models.FileTypePDF})
	f.files.add(models.File{Name: "b.pdf", OrgID: "org2", StorageRef: "uploads/b", OwnerID: u.ID, Type: models.FileTypePDF})

	listings, err := f.search.ListFiles(context.Background(), callerFor(u), "org1", FileFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "https://blobs.test/uploads/a?sig=1", listings[0].URL)
}

func TestListFilesURLFailureLeavesURLEmpty(t *testing.T) {
	f := newFixture()
	f.blobs.urlErr = errStoreDown
	u := f.users.add("u", member("org1"))
	f.files.add(models.File{Name: "a.pdf", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})

	listings, err := f.search.ListFiles(context.Background(), callerFor(u), "org1", FileFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Empty(t, listings[0].URL)
}

func TestListFilesWithoutAccessIsEmpty(t *testing.T) {
	f := newFixture()
	owner := f.users.add("owner", member("org1"))
	u := f.users.add("u1")
	f.files.add(models.File{Name: "a.pdf", OrgID: "org1", OwnerID: owner.ID, Type: models.FileTypePDF})
	f.files.add(models.File{Name: "b.pdf", OrgID: "org1", OwnerID: owner.ID, Type: models.FileTypePDF, ShouldDelete: true})

	for _, filter := range []FileFilter{{}, {DeletedOnly: true}, {FavoritesOnly: true}, {Query: "a"}, {Type: models.FileTypePDF}} {
		listings, err := f.search.ListFiles(context.Background(), callerFor(u), "org1", filter)
		require.NoError(t, err)
		assert.NotNil(t, listings)
		assert.Empty(t, listings)
	}
}

func TestListFilesFavoritesOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.users.add("u", member("org1"))
	a := f.files.add(models.File{Name: "a.pdf", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})
	f.files.add(models.File{Name: "b.pdf", OrgID: "org1", OwnerID: u.ID, Type: models.FileTypePDF})

	_, err := f.favSvc.Toggle(ctx, callerFor(u), a.ID.Hex())
	require.NoError(t, err)

	listings, err := f.search.ListFiles(ctx, callerFor(u), "org1", FileFilter{FavoritesOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, listingNames(listings))
}
