package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"orgdrive/events"
	"orgdrive/models"
	"orgdrive/storage"
	"orgdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unavailable")

type fakeUserStore struct {
	mu      sync.Mutex
	users   []*models.User
	findErr error
}

func (s *fakeUserStore) add(token string, memberships ...models.OrgMembership) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if memberships == nil {
		memberships = []models.OrgMembership{}
	}
	u := &models.User{ID: primitive.NewObjectID(), TokenIdentifier: token, Memberships: memberships}
	s.users = append(s.users, u)
	return u
}

func (s *fakeUserStore) byToken(token string) *models.User {
	for _, u := range s.users {
		if u.TokenIdentifier == token {
			return u
		}
	}
	return nil
}

func (s *fakeUserStore) FindByToken(ctx context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	if u := s.byToken(token); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byToken(user.TokenIdentifier) != nil {
		return store.ErrDuplicate
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	s.users = append(s.users, &cp)
	return nil
}

func (s *fakeUserStore) AddMembership(ctx context.Context, token string, m models.OrgMembership) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byToken(token)
	if u == nil {
		return false, store.ErrNotFound
	}
	if _, ok := u.Membership(m.OrgID); ok {
		return false, nil
	}
	u.Memberships = append(u.Memberships, m)
	return true, nil
}

func (s *fakeUserStore) SetMembershipRole(ctx context.Context, token, orgID string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byToken(token)
	if u == nil {
		return store.ErrNotFound
	}
	for i := range u.Memberships {
		if u.Memberships[i].OrgID == orgID {
			u.Memberships[i].Role = role
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeUserStore) UpdateProfile(ctx context.Context, token string, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byToken(token)
	if u == nil {
		return store.ErrNotFound
	}
	u.Name, u.Image = p.Name, p.Image
	return nil
}

type fakeFileStore struct {
	mu        sync.Mutex
	files     []*models.File
	insertErr error
	deleteErr map[primitive.ObjectID]error
}

func (s *fakeFileStore) add(f models.File) *models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	s.files = append(s.files, &f)
	return &f
}

func (s *fakeFileStore) get(id primitive.ObjectID) *models.File {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

func (s *fakeFileStore) Get(ctx context.Context, id primitive.ObjectID) (*models.File, error) {
	if f := s.get(id); f != nil {
		cp := *f
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *fakeFileStore) Insert(ctx context.Context, file *models.File) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.mu.Lock()
	for _, f := range s.files {
		if f.StorageRef == file.StorageRef {
			s.mu.Unlock()
			return fmt.Errorf("failed to insert file: %w", store.ErrDuplicate)
		}
	}
	s.mu.Unlock()
	file.ID = primitive.NewObjectID()
	file.CreatedAt = time.Now().UTC()
	file.UpdatedAt = file.CreatedAt
	s.add(*file)
	return nil
}

func (s *fakeFileStore) SetShouldDelete(ctx context.Context, id primitive.ObjectID, shouldDelete bool) error {
	f := s.get(id)
	if f == nil {
		return store.ErrNotFound
	}
	s.mu.Lock()
	f.ShouldDelete = shouldDelete
	s.mu.Unlock()
	return nil
}

func (s *fakeFileStore) ListByOrg(ctx context.Context, orgID string) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.File{}
	for _, f := range s.files {
		if f.OrgID == orgID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *fakeFileStore) ListMarkedForDeletion(ctx context.Context) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.File{}
	for _, f := range s.files {
		if f.ShouldDelete {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *fakeFileStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.deleteErr[id]; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.files {
		if f.ID == id {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeFavoriteStore struct {
	mu        sync.Mutex
	favorites []models.Favorite
	// raceOnInsert simulates a concurrent toggle that inserted first.
	raceOnInsert bool
}

func (s *fakeFavoriteStore) Find(ctx context.Context, userID primitive.ObjectID, orgID string, fileID primitive.ObjectID) (*models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favorites {
		if f.UserID == userID && f.OrgID == orgID && f.FileID == fileID {
			cp := f
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeFavoriteStore) Insert(ctx context.Context, favorite *models.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raceOnInsert {
		return store.ErrDuplicate
	}
	for _, f := range s.favorites {
		if f.UserID == favorite.UserID && f.OrgID == favorite.OrgID && f.FileID == favorite.FileID {
			return store.ErrDuplicate
		}
	}
	favorite.ID = primitive.NewObjectID()
	s.favorites = append(s.favorites, *favorite)
	return nil
}

func (s *fakeFavoriteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.favorites {
		if f.ID == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeFavoriteStore) ListByUserOrg(ctx context.Context, userID primitive.ObjectID, orgID string) ([]models.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Favorite{}
	for _, f := range s.favorites {
		if f.UserID == userID && f.OrgID == orgID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *fakeFavoriteStore) DeleteByFile(ctx context.Context, fileID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.favorites[:0]
	var removed int64
	for _, f := range s.favorites {
		if f.FileID == fileID {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	s.favorites = kept
	return removed, nil
}

type fakeBlobStore struct {
	mu        sync.Mutex
	objects   map[string]bool
	deleted   []string
	deleteErr map[string]error
	existsErr error
	urlErr    error
}

func newFakeBlobStore(refs ...string) *fakeBlobStore {
	b := &fakeBlobStore{objects: map[string]bool{}, deleteErr: map[string]error{}}
	for _, r := range refs {
		b.objects[r] = true
	}
	return b
}

func (b *fakeBlobStore) IssueUploadTarget(ctx context.Context, owner string) (*storage.UploadTarget, error) {
	ref := storage.NewStorageRef(owner)
	return &storage.UploadTarget{URL: "https://blobs.test/" + ref, Method: "PUT", StorageRef: ref, ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (b *fakeBlobStore) ResolveDownloadURL(ctx context.Context, ref string) (string, error) {
	if b.urlErr != nil {
		return "", b.urlErr
	}
	return "https://blobs.test/" + ref + "?sig=1", nil
}

func (b *fakeBlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	if b.existsErr != nil {
		return false, b.existsErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[ref], nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, ref string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.deleteErr[ref]; err != nil {
		return err
	}
	if !b.objects[ref] {
		return storage.ErrObjectNotFound
	}
	delete(b.objects, ref)
	b.deleted = append(b.deleted, ref)
	return nil
}

func (b *fakeBlobStore) Put(ctx context.Context, ref string, r io.Reader, size int64, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[ref] = true
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.FileEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.FileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) kinds() []events.Kind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []events.Kind{}
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type fixture struct {
	users     *fakeUserStore
	files     *fakeFileStore
	favorites *fakeFavoriteStore
	blobs     *fakeBlobStore
	publisher *recordingPublisher

	identity *IdentityService
	access   *AccessService
	fileSvc  *FileService
	favSvc   *FavoriteService
	search   *SearchService
	trash    *TrashService
}

func newFixture() *fixture {
	f := &fixture{
		users:     &fakeUserStore{},
		files:     &fakeFileStore{deleteErr: map[primitive.ObjectID]error{}},
		favorites: &fakeFavoriteStore{},
		blobs:     newFakeBlobStore(),
		publisher: &recordingPublisher{},
	}
	notifications := NewNotificationService(f.publisher)
	f.identity = NewIdentityService(f.users)
	f.access = NewAccessService(f.users, f.files)
	f.fileSvc = NewFileService(f.files, f.blobs, f.access, notifications)
	f.favSvc = NewFavoriteService(f.favorites, f.access)
	f.search = NewSearchService(f.files, f.favorites, f.blobs, f.access)
	f.trash = NewTrashService(f.files, f.favorites, f.blobs, notifications)
	return f
}

func callerFor(u *models.User) models.Caller {
	return models.Caller{TokenIdentifier: u.TokenIdentifier}
}

func member(orgID string) models.OrgMembership {
	return models.OrgMembership{OrgID: orgID, Role: models.RoleMember}
}

func admin(orgID string) models.OrgMembership {
	return models.OrgMembership{OrgID: orgID, Role: models.RoleAdmin}
}
