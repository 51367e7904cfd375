package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/blobstore"
	"carmodel-inventory/internal/model"
	"carmodel-inventory/internal/reconcile"
	"carmodel-inventory/internal/repository"
	"carmodel-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*model.CarModel
	failOn  string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[uuid.UUID]*model.CarModel{}}
}

func (r *fakeRepo) Create(m *model.CarModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "create" {
		return assert.AnError
	}
	m.ID = uuid.New()
	m.SyncImages()
	cp := *m
	r.records[m.ID] = &cp
	return nil
}

func (r *fakeRepo) FindAll() ([]model.CarModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.CarModel, 0, len(r.records))
	for _, m := range r.records {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeRepo) FindByID(id uuid.UUID) (*model.CarModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	cp.Attachments = append([]model.Attachment(nil), m.Attachments...)
	return &cp, nil
}

func (r *fakeRepo) FindByCode(code string) (*model.CarModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.records {
		if m.ModelCode == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepo) Update(m *model.CarModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "update" {
		return assert.AnError
	}
	m.SyncImages()
	cp := *m
	r.records[m.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(id uuid.UUID) ([]model.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.records, id)
	return m.Attachments, nil
}

func (r *fakeRepo) AttachmentKeys() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, m := range r.records {
		for _, a := range m.Attachments {
			keys = append(keys, a.Key)
		}
	}
	return keys, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	actions []string
}

func (p *recordingPublisher) Publish(action, id, name, code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = append(p.actions, action)
}

func validFields() reconcile.Fields {
	return reconcile.Fields{
		ModelName:           "Civic",
		ModelCode:           "CV-1",
		Brand:               "Honda",
		Class:               "Sedan",
		Price:               "25000.50",
		DateOfManufacturing: "3/7/2021",
		Active:              true,
		SortOrder:           "2",
	}
}

func setupService(t *testing.T) (CarModelService, *fakeRepo, blobstore.Store, *recordingPublisher) {
	t.Helper()
	blobs, err := blobstore.NewFSStore(t.TempDir())
	require.NoError(t, err)
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	return NewCarModelService(repo, blobs, "/uploads/", pub), repo, blobs, pub
}

func png(name string) attachment.Blob {
	return attachment.Blob{Name: name, ContentType: "image/png", Data: []byte("data-" + name)}
}

func blobKeys(t *testing.T, blobs blobstore.Store) []string {
	t.Helper()
	keys, err := blobs.List(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	return keys
}

func TestCreateStoresRecordAndImages(t *testing.T) {
	svc, _, blobs, pub := setupService(t)

	m, err := svc.Create(context.Background(), validFields(), []attachment.Blob{png("a.png"), png("b.PNG")})
	require.NoError(t, err)

	assert.Equal(t, "Civic", m.ModelName)
	assert.Equal(t, "25000.5", m.Price.String())
	assert.Equal(t, "2021-03-07", m.DateOfManufacturing.Format("2006-01-02"))
	assert.Equal(t, 2, m.SortOrder)
	require.Len(t, m.Images, 2)
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, m.Images[0])
	assert.Regexp(t, `^/uploads/[0-9a-f-]{36}\.png$`, m.Images[1])
	assert.Len(t, blobKeys(t, blobs), 2)
	assert.Equal(t, []string{ws.ActionCreated}, pub.actions)
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	svc, _, blobs, _ := setupService(t)

	f := validFields()
	f.Brand = "  "
	_, err := svc.Create(context.Background(), f, []attachment.Blob{png("a.png")})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "brand is required", verr.Message)
	assert.Empty(t, blobKeys(t, blobs))
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc, _, _, _ := setupService(t)
	_, err := svc.Create(context.Background(), validFields(), nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validFields(), nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "modelCode already exists", verr.Message)
}

func TestCreateRejectsOversizeImage(t *testing.T) {
	svc, _, blobs, _ := setupService(t)
	big := attachment.Blob{Name: "big.png", ContentType: "image/png", Data: make([]byte, attachment.MaxBlobSize+1)}

	_, err := svc.Create(context.Background(), validFields(), []attachment.Blob{png("a.png"), big})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, blobKeys(t, blobs))
}

func TestCreateReleasesBlobsWhenSaveFails(t *testing.T) {
	svc, repo, blobs, _ := setupService(t)
	repo.failOn = "create"

	_, err := svc.Create(context.Background(), validFields(), []attachment.Blob{png("a.png")})
	require.Error(t, err)
	assert.Empty(t, blobKeys(t, blobs))
}

func TestUpdateReconcilesImages(t *testing.T) {
	svc, _, blobs, pub := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png"), png("b.png"), png("c.png")})
	require.NoError(t, err)
	a, b, c := created.Images[0], created.Images[1], created.Images[2]

	f := validFields()
	f.ModelName = "Civic Type R"
	updated, err := svc.Update(ctx, created.ID, f, []string{c, a}, []attachment.Blob{png("d.png")})
	require.NoError(t, err)

	assert.Equal(t, "Civic Type R", updated.ModelName)
	require.Len(t, updated.Images, 3)
	assert.Equal(t, c, updated.Images[0])
	assert.Equal(t, a, updated.Images[1])
	assert.NotContains(t, []string{a, b, c}, updated.Images[2])

	// b released, d added
	assert.Len(t, blobKeys(t, blobs), 3)
	assert.NotContains(t, blobKeys(t, blobs), b[len("/uploads/"):])
	assert.Equal(t, []string{ws.ActionCreated, ws.ActionUpdated}, pub.actions)
}

func TestUpdateNilKeptKeepsEverything(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validFields(), nil, []attachment.Blob{png("b.png")})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, created.Images[0], updated.Images[0])
}

func TestUpdateEmptyKeptRemovesEverything(t *testing.T) {
	svc, _, blobs, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png"), png("b.png")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, validFields(), []string{}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
	assert.Empty(t, blobKeys(t, blobs))
}

func TestUpdateRejectsUnknownRef(t *testing.T) {
	svc, _, blobs, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, validFields(), []string{created.Images[0], created.Images[0]}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "unknown image reference")
	assert.Len(t, blobKeys(t, blobs), 1)
}

func TestUpdateKeepsOwnCode(t *testing.T) {
	svc, _, _, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), nil)
	require.NoError(t, err)
	other := validFields()
	other.ModelCode = "CV-2"
	second, err := svc.Create(ctx, other, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, validFields(), nil, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, validFields(), nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateReleasesNewBlobsWhenSaveFails(t *testing.T) {
	svc, repo, blobs, _ := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png")})
	require.NoError(t, err)
	repo.failOn = "update"

	_, err = svc.Update(ctx, created.ID, validFields(), []string{}, []attachment.Blob{png("b.png")})
	require.Error(t, err)
	assert.Len(t, blobKeys(t, blobs), 1, "kept blob must survive a failed update")
}

func TestUpdateMissingRecord(t *testing.T) {
	svc, _, _, _ := setupService(t)
	_, err := svc.Update(context.Background(), uuid.New(), validFields(), nil, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDeleteReleasesBlobs(t *testing.T) {
	svc, _, blobs, pub := setupService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validFields(), []attachment.Blob{png("a.png")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, blobKeys(t, blobs))
	assert.Equal(t, []string{ws.ActionCreated, ws.ActionDeleted}, pub.actions)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestResolveKeptDuplicateRefs(t *testing.T) {
	current := []model.Attachment{{Ref: "/u/x"}, {Ref: "/u/x"}, {Ref: "/u/y"}}

	retained, removed, err := resolveKept(current, []string{"/u/x"})
	require.NoError(t, err)
	assert.Len(t, retained, 1)
	assert.Equal(t, []model.Attachment{{Ref: "/u/x"}, {Ref: "/u/y"}}, removed)
}
