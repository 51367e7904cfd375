package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CarModel is one catalog record. Images is the ordered attachment sequence
// exposed over the wire; Attachments is its persisted form.
type CarModel struct {
	BaseModel
	ModelName           string          `gorm:"type:varchar(255);not null" json:"modelName"`
	ModelCode           string          `gorm:"type:varchar(50);index;not null" json:"modelCode"`
	Brand               string          `gorm:"type:varchar(100);index;not null" json:"brand"`
	Class               string          `gorm:"type:varchar(100);not null" json:"class"`
	Price               decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"`
	DateOfManufacturing time.Time       `gorm:"type:date;not null" json:"dateOfManufacturing"`
	Active              bool            `gorm:"default:true" json:"active"`
	SortOrder           int             `gorm:"default:0" json:"sortOrder"`
	Description         string          `gorm:"type:text" json:"description"`
	Features            string          `gorm:"type:text" json:"features"`

	Images      []string     `gorm:"-" json:"images"`
	Attachments []Attachment `gorm:"foreignKey:CarModelID;constraint:OnDelete:CASCADE" json:"-"`
}

// Attachment is one stored image of a CarModel. Ref is the path the store
// hands out (e.g. "/uploads/<key>"); Position fixes display order.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CarModelID  uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Position    int       `gorm:"not null" json:"-"`
	Ref         string    `gorm:"type:varchar(512);not null" json:"ref"`
	Key         string    `gorm:"type:varchar(512);not null" json:"-"`
	ContentType string    `gorm:"type:varchar(100)" json:"-"`
	Size        int64     `gorm:"not null" json:"size"`
}

// AfterFind mengisi Images dari Attachments sesuai urutan Position
func (m *CarModel) AfterFind(tx *gorm.DB) error {
	m.SyncImages()
	return nil
}

// SyncImages rebuilds Images from Attachments ordered by Position.
func (m *CarModel) SyncImages() {
	sort.SliceStable(m.Attachments, func(i, j int) bool {
		return m.Attachments[i].Position < m.Attachments[j].Position
	})
	m.Images = make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		m.Images = append(m.Images, a.Ref)
	}
}
