package service

import (
	"errors"

	"carmodel-inventory/internal/repository"
)

// ErrUnknownReport is returned for a report name the store does not serve.
var ErrUnknownReport = errors.New("unknown report")

type ReportService interface {
	Report(name string) (interface{}, error)
}

type reportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

// Report runs one of the count, status, price or images aggregates.
func (s *reportService) Report(name string) (interface{}, error) {
	switch name {
	case "count":
		return s.repo.CountByBrand()
	case "status":
		return s.repo.StatusSplit()
	case "price":
		return s.repo.AveragePriceByBrand()
	case "images":
		return s.repo.ImageUsage()
	}
	return nil, ErrUnknownReport
}
