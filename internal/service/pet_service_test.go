package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petsafe/pettag-service/internal/auth"
	"github.com/petsafe/pettag-service/internal/domain"
	"github.com/petsafe/pettag-service/internal/events"
	"github.com/petsafe/pettag-service/internal/storage"
)

type fakeOwner struct {
	Name  string
	Phone string
}

type fakePetRepo struct {
	pets   map[string]*domain.Pet
	owners map[string]fakeOwner
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{
		pets:   make(map[string]*domain.Pet),
		owners: make(map[string]fakeOwner),
	}
}

func (r *fakePetRepo) Create(_ context.Context, pet *domain.Pet) error {
	pet.ID = uuid.NewString()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	copied := *pet
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) Update(_ context.Context, pet *domain.Pet) error {
	if _, ok := r.pets[pet.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *pet
	copied.UpdatedAt = time.Now()
	r.pets[pet.ID] = &copied
	return nil
}

func (r *fakePetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.pets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.pets, id)
	return nil
}

func (r *fakePetRepo) GetByID(_ context.Context, id string) (*domain.Pet, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *pet
	return &copied, nil
}

func (r *fakePetRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Pet, error) {
	pets := make([]domain.Pet, 0)
	for _, pet := range r.pets {
		if pet.OwnerID == ownerID {
			pets = append(pets, *pet)
		}
	}
	return pets, nil
}

func (r *fakePetRepo) GetPublicByID(_ context.Context, id string) (*domain.PublicPetProfile, error) {
	pet, ok := r.pets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	owner := r.owners[pet.OwnerID]
	return &domain.PublicPetProfile{
		PetID:       pet.ID,
		Name:        pet.Name,
		Species:     pet.Species,
		Breed:       pet.Breed,
		MedicalInfo: pet.MedicalInfo,
		IsMissing:   pet.IsMissing,
		OwnerName:   owner.Name,
		OwnerPhone:  owner.Phone,
	}, nil
}

func newTestPetService(repo *fakePetRepo, dispatcher events.Dispatcher) *PetService {
	return NewPetService(PetDependencies{
		PetRepo:       repo,
		Cache:         nil,
		Photos:        nil,
		Dispatcher:    dispatcher,
		PublicBaseURL: "http://tags.local",
	})
}

func ownerPrincipal(id string) *auth.Principal {
	return &auth.Principal{SubjectID: id, Name: "Owner " + id}
}

func TestCreateAssignsOwnerAndTagURL(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{
		Name:    "Rex",
		Species: "dog",
	})
	require.NoError(t, err)
	assert.Equal(t, "owner-a", pet.OwnerID)
	assert.False(t, pet.IsMissing)
	require.NotNil(t, pet.QRCodeURL)
	assert.Equal(t, "http://tags.local/api/public/pets/"+pet.ID, *pet.QRCodeURL)
}

func TestCreateRequiresPrincipal(t *testing.T) {
	svc := newTestPetService(newFakePetRepo(), nil)

	_, err := svc.Create(context.Background(), nil, PetCreateInput{Name: "Rex", Species: "dog"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainCode(t, err))
}

func TestUpdateOnlyOwner(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	newName := "Max"
	_, err = svc.Update(context.Background(), ownerPrincipal("owner-b"), pet.ID, PetUpdateInput{Name: &newName})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = svc.Update(context.Background(), nil, pet.ID, PetUpdateInput{Name: &newName})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	updated, err := svc.Update(context.Background(), ownerPrincipal("owner-a"), pet.ID, PetUpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Max", updated.Name)
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	breed := "labrador"
	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{
		Name:    "Rex",
		Species: "dog",
		Breed:   &breed,
	})
	require.NoError(t, err)

	allergies := "pollen"
	updated, err := svc.Update(context.Background(), ownerPrincipal("owner-a"), pet.ID, PetUpdateInput{Allergies: &allergies})
	require.NoError(t, err)

	assert.Equal(t, "Rex", updated.Name)
	require.NotNil(t, updated.Breed)
	assert.Equal(t, "labrador", *updated.Breed)
	require.NotNil(t, updated.Allergies)
	assert.Equal(t, "pollen", *updated.Allergies)
}

func TestDeleteOnlyOwner(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), ownerPrincipal("owner-b"), pet.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	_, err = repo.GetByID(context.Background(), pet.ID)
	require.NoError(t, err, "pet must survive a forbidden delete")

	require.NoError(t, svc.Delete(context.Background(), ownerPrincipal("owner-a"), pet.ID))
	_, err = repo.GetByID(context.Background(), pet.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestGetOnlyOwner(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), ownerPrincipal("owner-b"), pet.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	got, err := svc.Get(context.Background(), ownerPrincipal("owner-a"), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pet.ID, got.ID)
}

func TestToggleMissingFlipsAndPublishes(t *testing.T) {
	repo := newFakePetRepo()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	var seen []events.Event
	dispatcher.Subscribe(events.EventPetMissingToggled, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	svc := newTestPetService(repo, dispatcher)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	toggled, err := svc.ToggleMissing(context.Background(), ownerPrincipal("owner-a"), pet.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsMissing)

	toggled, err = svc.ToggleMissing(context.Background(), ownerPrincipal("owner-a"), pet.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsMissing)

	require.Len(t, seen, 2)
	assert.Equal(t, pet.ID, seen[0].PetID)
	assert.NotEmpty(t, seen[0].ID)
	assert.False(t, seen[0].Timestamp.IsZero())
}

func TestToggleMissingOnlyOwner(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	_, err = svc.ToggleMissing(context.Background(), ownerPrincipal("owner-b"), pet.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))
}

func TestPublicProfileIsAnonymousAndRedacted(t *testing.T) {
	repo := newFakePetRepo()
	repo.owners["owner-a"] = fakeOwner{Name: "Ana", Phone: "+5511999990000"}
	svc := newTestPetService(repo, nil)

	info := "needs daily medication"
	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{
		Name:        "Rex",
		Species:     "dog",
		MedicalInfo: &info,
	})
	require.NoError(t, err)

	// No principal involved at all.
	profile, err := svc.PublicProfile(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pet.ID, profile.PetID)
	assert.Equal(t, "Ana", profile.OwnerName)
	assert.Equal(t, "+5511999990000", profile.OwnerPhone)
	require.NotNil(t, profile.MedicalInfo)
	assert.Equal(t, info, *profile.MedicalInfo)
}

func TestPublicProfileUnknownPet(t *testing.T) {
	svc := newTestPetService(newFakePetRepo(), nil)

	_, err := svc.PublicProfile(context.Background(), "no-such-pet")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

// fakePublicCache stands in for the Redis-backed projection cache.
type fakePublicCache struct {
	entries       map[string]*domain.PublicPetProfile
	sets          int
	invalidations []string
}

func newFakePublicCache() *fakePublicCache {
	return &fakePublicCache{entries: make(map[string]*domain.PublicPetProfile)}
}

func (c *fakePublicCache) Get(_ context.Context, petID string) (*domain.PublicPetProfile, bool) {
	profile, ok := c.entries[petID]
	return profile, ok
}

func (c *fakePublicCache) Set(_ context.Context, profile *domain.PublicPetProfile) {
	c.entries[profile.PetID] = profile
	c.sets++
}

func (c *fakePublicCache) Invalidate(_ context.Context, petID string) {
	delete(c.entries, petID)
	c.invalidations = append(c.invalidations, petID)
}

func TestPublicProfileCacheInvalidatedOnMutation(t *testing.T) {
	repo := newFakePetRepo()
	repo.owners["owner-a"] = fakeOwner{Name: "Ana", Phone: "+5511999990000"}
	cache := newFakePublicCache()
	svc := NewPetService(PetDependencies{
		PetRepo:       repo,
		Cache:         cache,
		PublicBaseURL: "http://tags.local",
	})

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	profile, err := svc.PublicProfile(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", profile.Name)
	assert.Equal(t, 1, cache.sets)

	// The repository changing underneath does not show through while the
	// cache entry is live.
	repo.pets[pet.ID].Name = "Renamed Behind The Cache"
	profile, err = svc.PublicProfile(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rex", profile.Name)
	assert.Equal(t, 1, cache.sets)

	// An owner mutation invalidates, so the next anonymous lookup is fresh.
	newName := "Max"
	_, err = svc.Update(context.Background(), ownerPrincipal("owner-a"), pet.ID, PetUpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Contains(t, cache.invalidations, pet.ID)

	profile, err = svc.PublicProfile(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Equal(t, "Max", profile.Name)
	assert.Equal(t, 2, cache.sets)

	// Toggling the missing flag does the same.
	_, err = svc.ToggleMissing(context.Background(), ownerPrincipal("owner-a"), pet.ID)
	require.NoError(t, err)

	profile, err = svc.PublicProfile(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.True(t, profile.IsMissing)
}

func uploadedFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	require.NotEmpty(t, form.File["file"])
	return form.File["file"][0]
}

func TestAttachPhotoOnlyOwner(t *testing.T) {
	repo := newFakePetRepo()
	svc := NewPetService(PetDependencies{
		PetRepo:       repo,
		Photos:        storage.NewPhotoStore(t.TempDir()),
		PublicBaseURL: "http://tags.local",
	})

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	_, err = svc.AttachPhoto(context.Background(), ownerPrincipal("owner-b"), pet.ID, uploadedFile(t, "rex.jpg", "jpeg-bytes"))
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainCode(t, err))

	stored, err := repo.GetByID(context.Background(), pet.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PhotoURL, "photo must not be recorded for a non-owner")
}

func TestAttachPhotoStoresFileAndPublishes(t *testing.T) {
	repo := newFakePetRepo()
	dir := t.TempDir()
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())

	var seen []events.Event
	dispatcher.Subscribe(events.EventPetPhotoUploaded, func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	})

	cache := newFakePublicCache()
	svc := NewPetService(PetDependencies{
		PetRepo:       repo,
		Cache:         cache,
		Photos:        storage.NewPhotoStore(dir),
		Dispatcher:    dispatcher,
		PublicBaseURL: "http://tags.local",
	})

	pet, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)

	updated, err := svc.AttachPhoto(context.Background(), ownerPrincipal("owner-a"), pet.ID, uploadedFile(t, "rex.jpg", "jpeg-bytes"))
	require.NoError(t, err)

	require.NotNil(t, updated.PhotoURL)
	assert.True(t, strings.HasPrefix(*updated.PhotoURL, "/uploads/pets/"), *updated.PhotoURL)
	assert.Contains(t, *updated.PhotoURL, pet.ID)

	onDisk := filepath.Join(dir, filepath.Base(*updated.PhotoURL))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.Len(t, seen, 1)
	assert.Equal(t, pet.ID, seen[0].PetID)
	assert.Contains(t, cache.invalidations, pet.ID)
}

func TestListForOwnerScopesToPrincipal(t *testing.T) {
	repo := newFakePetRepo()
	svc := newTestPetService(repo, nil)

	_, err := svc.Create(context.Background(), ownerPrincipal("owner-a"), PetCreateInput{Name: "Rex", Species: "dog"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ownerPrincipal("owner-b"), PetCreateInput{Name: "Mia", Species: "cat"})
	require.NoError(t, err)

	pets, err := svc.ListForOwner(context.Background(), ownerPrincipal("owner-a"))
	require.NoError(t, err)
	require.Len(t, pets, 1)
	assert.Equal(t, "Rex", pets[0].Name)
}
