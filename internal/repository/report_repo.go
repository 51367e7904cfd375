package repository

import (
	"carmodel-inventory/internal/model"

	"gorm.io/gorm"
)

// ReportRepository runs the aggregate queries behind /report/*. Soft-deleted
// records are excluded by the model scope.
type ReportRepository interface {
	CountByBrand() ([]model.BrandCount, error)
	StatusSplit() ([]model.StatusCount, error)
	AveragePriceByBrand() ([]model.PriceAverage, error)
	ImageUsage() ([]model.ImageUsage, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) CountByBrand() ([]model.BrandCount, error) {
	results := []model.BrandCount{}
	err := r.db.Model(&model.CarModel{}).
		Select("brand AS id, COUNT(*) AS count").
		Group("brand").
		Order("brand ASC").
		Scan(&results).Error
	return results, err
}

func (r *reportRepo) StatusSplit() ([]model.StatusCount, error) {
	results := []model.StatusCount{}
	err := r.db.Model(&model.CarModel{}).
		Select("active AS id, COUNT(*) AS count").
		Group("active").
		Order("active DESC").
		Scan(&results).Error
	return results, err
}

func (r *reportRepo) AveragePriceByBrand() ([]model.PriceAverage, error) {
	results := []model.PriceAverage{}
	err := r.db.Model(&model.CarModel{}).
		Select("brand AS id, CAST(AVG(price) AS double precision) AS avg_price").
		Group("brand").
		Order("brand ASC").
		Scan(&results).Error
	return results, err
}

// ImageUsage reports attachment count and total bytes per record, records
// without images included.
func (r *reportRepo) ImageUsage() ([]model.ImageUsage, error) {
	results := []model.ImageUsage{}
	err := r.db.Model(&model.CarModel{}).
		Select(`
			car_models.model_name AS model_name,
			COUNT(attachments.id) AS count,
			COALESCE(SUM(attachments.size), 0) AS total_size
		`).
		Joins("LEFT JOIN attachments ON attachments.car_model_id = car_models.id").
		Group("car_models.id, car_models.model_name").
		Order("car_models.model_name ASC").
		Scan(&results).Error
	return results, err
}
