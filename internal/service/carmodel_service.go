package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/blobstore"
	"carmodel-inventory/internal/model"
	"carmodel-inventory/internal/reconcile"
	"carmodel-inventory/internal/repository"
	"carmodel-inventory/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError is a rejected request; the message goes back to the client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Publisher receives change notifications. *ws.Hub implements it.
type Publisher interface {
	Publish(action, id, name, code string)
}

type CarModelService interface {
	List() ([]model.CarModel, error)
	Get(id uuid.UUID) (*model.CarModel, error)
	Create(ctx context.Context, fields reconcile.Fields, files []attachment.Blob) (*model.CarModel, error)
	Update(ctx context.Context, id uuid.UUID, fields reconcile.Fields, kept []string, files []attachment.Blob) (*model.CarModel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type carModelService struct {
	repo      repository.CarModelRepository
	blobs     blobstore.Store
	assetPath string
	publisher Publisher
}

func NewCarModelService(repo repository.CarModelRepository, blobs blobstore.Store, assetPath string, publisher Publisher) CarModelService {
	return &carModelService{
		repo:      repo,
		blobs:     blobs,
		assetPath: strings.TrimRight(assetPath, "/"),
		publisher: publisher,
	}
}

func (s *carModelService) List() ([]model.CarModel, error) {
	return s.repo.FindAll()
}

func (s *carModelService) Get(id uuid.UUID) (*model.CarModel, error) {
	return s.repo.FindByID(id)
}

func (s *carModelService) Create(ctx context.Context, fields reconcile.Fields, files []attachment.Blob) (*model.CarModel, error) {
	// 1. Validasi field
	m := &model.CarModel{}
	if err := applyFields(m, fields); err != nil {
		return nil, err
	}

	// 2. Cek duplikasi modelCode
	if err := s.checkCode(m.ModelCode, uuid.Nil); err != nil {
		return nil, err
	}

	// 3. Simpan blob lalu record
	added, err := s.storeBlobs(ctx, files, 0)
	if err != nil {
		return nil, err
	}
	m.Attachments = added

	if err := s.repo.Create(m); err != nil {
		s.release(ctx, added)
		return nil, fmt.Errorf("create car model: %w", err)
	}

	s.publish(ws.ActionCreated, m)
	return m, nil
}

// Update applies fields, keeps the attachments named in kept (in that order)
// and appends files. A nil kept keeps every current attachment.
func (s *carModelService) Update(ctx context.Context, id uuid.UUID, fields reconcile.Fields, kept []string, files []attachment.Blob) (*model.CarModel, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyFields(existing, fields); err != nil {
		return nil, err
	}
	if err := s.checkCode(existing.ModelCode, existing.ID); err != nil {
		return nil, err
	}

	retained, removed, err := resolveKept(existing.Attachments, kept)
	if err != nil {
		return nil, err
	}

	added, err := s.storeBlobs(ctx, files, len(retained))
	if err != nil {
		return nil, err
	}
	for i := range retained {
		retained[i].Position = i
	}
	existing.Attachments = append(retained, added...)

	if err := s.repo.Update(existing); err != nil {
		s.release(ctx, added)
		return nil, fmt.Errorf("update car model: %w", err)
	}

	// blob lama dihapus setelah commit
	s.release(ctx, removed)
	s.publish(ws.ActionUpdated, existing)
	return existing, nil
}

func (s *carModelService) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.repo.Delete(id)
	if err != nil {
		return err
	}
	s.release(ctx, removed)
	if s.publisher != nil {
		s.publisher.Publish(ws.ActionDeleted, id.String(), "", "")
	}
	return nil
}

func (s *carModelService) checkCode(code string, self uuid.UUID) error {
	other, err := s.repo.FindByCode(code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if other.ID != self {
		return &ValidationError{Message: "modelCode already exists"}
	}
	return nil
}

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// storeBlobs writes files to the blob store and returns their attachment
// rows, numbered from offset. On failure nothing written is left behind.
func (s *carModelService) storeBlobs(ctx context.Context, files []attachment.Blob, offset int) ([]model.Attachment, error) {
	for _, f := range files {
		if f.Size() > attachment.MaxBlobSize {
			return nil, &ValidationError{Message: fmt.Sprintf("image %q is larger than 5MB", f.Name)}
		}
	}

	added := make([]model.Attachment, 0, len(files))
	for i, f := range files {
		key := uuid.NewString() + blobExt(f)
		if err := s.blobs.Put(ctx, key, bytes.NewReader(f.Data), f.Size(), f.ContentType); err != nil {
			s.release(ctx, added)
			return nil, fmt.Errorf("store image: %w", err)
		}
		added = append(added, model.Attachment{
			Position:    offset + i,
			Ref:         s.assetPath + "/" + key,
			Key:         key,
			ContentType: f.ContentType,
			Size:        f.Size(),
		})
	}
	return added, nil
}

func (s *carModelService) release(ctx context.Context, atts []model.Attachment) {
	for _, a := range atts {
		if err := s.blobs.Delete(ctx, a.Key); err != nil {
			log.Printf("Warning: failed to delete blob %s: %v", a.Key, err)
		}
	}
}

func (s *carModelService) publish(action string, m *model.CarModel) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(action, m.ID.String(), m.ModelName, m.ModelCode)
}

func blobExt(f attachment.Blob) string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if extPattern.MatchString(ext) {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(f.ContentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// resolveKept splits current into the attachments named by kept, in kept
// order, and the rest. Each kept ref must name a distinct current attachment.
func resolveKept(current []model.Attachment, kept []string) (retained, removed []model.Attachment, err error) {
	if kept == nil {
		return append([]model.Attachment(nil), current...), nil, nil
	}
	used := make([]bool, len(current))
	retained = make([]model.Attachment, 0, len(kept))
	for _, ref := range kept {
		idx := -1
		for i, a := range current {
			if !used[i] && a.Ref == ref {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil, &ValidationError{Message: fmt.Sprintf("unknown image reference %q", ref)}
		}
		used[idx] = true
		retained = append(retained, current[idx])
	}
	for i, a := range current {
		if !used[i] {
			removed = append(removed, a)
		}
	}
	return retained, removed, nil
}

// applyFields validates fields and copies them onto m.
func applyFields(m *model.CarModel, fields reconcile.Fields) error {
	f, err := fields.Normalize()
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return &ValidationError{Message: "price must be a non-negative number"}
	}
	date, err := time.Parse("2006-01-02", f.DateOfManufacturing)
	if err != nil {
		return &ValidationError{Message: reconcile.ErrDateFormat.Error()}
	}
	sortOrder, err := strconv.Atoi(f.SortOrder)
	if err != nil {
		return &ValidationError{Message: "sortOrder must be an integer"}
	}

	m.ModelName = f.ModelName
	m.ModelCode = f.ModelCode
	m.Brand = f.Brand
	m.Class = f.Class
	m.Price = price.Round(2)
	m.DateOfManufacturing = date
	m.Active = f.Active
	m.SortOrder = sortOrder
	m.Description = f.Description
	m.Features = f.Features
	return nil
}
