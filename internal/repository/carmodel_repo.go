package repository

import (
	"errors"

	"carmodel-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no live record matches.
var ErrNotFound = errors.New("car model not found")

type CarModelRepository interface {
	Create(m *model.CarModel) error
	FindAll() ([]model.CarModel, error)
	FindByID(id uuid.UUID) (*model.CarModel, error)
	FindByCode(code string) (*model.CarModel, error)
	Update(m *model.CarModel) error
	Delete(id uuid.UUID) ([]model.Attachment, error)
	AttachmentKeys() ([]string, error)
}

type carModelRepo struct {
	db *gorm.DB
}

func NewCarModelRepo(db *gorm.DB) CarModelRepository {
	return &carModelRepo{db}
}

// Create inserts the record together with its attachment rows.
func (r *carModelRepo) Create(m *model.CarModel) error {
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	m.SyncImages()
	return nil
}

func (r *carModelRepo) FindAll() ([]model.CarModel, error) {
	var models []model.CarModel
	err := r.db.Preload("Attachments").
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&models).Error
	return models, err
}

func (r *carModelRepo) FindByID(id uuid.UUID) (*model.CarModel, error) {
	var m model.CarModel
	err := r.db.Preload("Attachments").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *carModelRepo) FindByCode(code string) (*model.CarModel, error) {
	var m model.CarModel
	err := r.db.First(&m, "model_code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Update saves the scalar fields and replaces the attachment rows with
// m.Attachments in one transaction.
func (r *carModelRepo) Update(m *model.CarModel) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if err := tx.Where("car_model_id = ?", m.ID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if len(m.Attachments) == 0 {
			return nil
		}
		for i := range m.Attachments {
			m.Attachments[i].ID = 0
			m.Attachments[i].CarModelID = m.ID
		}
		return tx.Create(&m.Attachments).Error
	})
	if err != nil {
		return err
	}
	m.SyncImages()
	return nil
}

// Delete soft-deletes the record and drops its attachment rows, returning
// them so the caller can release the blobs.
func (r *carModelRepo) Delete(id uuid.UUID) ([]model.Attachment, error) {
	var removed []model.Attachment
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.CarModel{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Clauses(clause.Returning{}).
			Where("car_model_id = ?", id).
			Delete(&removed).Error
	})
	return removed, err
}

// AttachmentKeys lists the blob keys referenced by any attachment row.
func (r *carModelRepo) AttachmentKeys() ([]string, error) {
	var keys []string
	err := r.db.Model(&model.Attachment{}).Distinct().Pluck("key", &keys).Error
	return keys, err
}
