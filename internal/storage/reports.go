package storage

import (
	"gorm.io/gorm"

	"marketgo/backend/internal/models"
)

func targetScope(t models.Target) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if t.Kind == models.TargetUser {
			return db.Where("target_user_id = ?", t.ID)
		}
		return db.Where("target_product_id = ?", t.ID)
	}
}

// CreateReport inserts a new report. The model's BeforeCreate hook enforces
// the one-target invariant.
func (s *Service) CreateReport(report *models.Report) error {
	return s.DB.Create(report).Error
}

// GetReportByID loads one report with its related rows.
func (s *Service) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	err := s.DB.Preload("Reporter").
		Preload("TargetUser").
		Preload("TargetProduct").
		First(&report, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// UpdateReport persists all fields of report.
func (s *Service) UpdateReport(report *models.Report) error {
	return s.DB.Save(report).Error
}

// HasActiveReport reports whether reporter already has a pending or approved
// report against the target.
func (s *Service) HasActiveReport(reporterID uint, target models.Target) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Report{}).
		Scopes(targetScope(target)).
		Where("reporter_id = ?", reporterID).
		Where("status IN ?", []string{models.ReportPending, models.ReportApproved}).
		Count(&count).Error
	return count > 0, err
}

// CountActiveReports counts pending and approved reports against the target.
func (s *Service) CountActiveReports(target models.Target) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Report{}).
		Scopes(targetScope(target)).
		Where("status IN ?", []string{models.ReportPending, models.ReportApproved}).
		Count(&count).Error
	return count, err
}

// ListReportsByReporter returns everything one user has filed, newest first.
func (s *Service) ListReportsByReporter(reporterID uint) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Preload("TargetUser").
		Preload("TargetProduct").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// ListReportsByStatus returns reports for the moderation console, newest
// first. An empty status returns all of them.
func (s *Service) ListReportsByStatus(status string) ([]models.Report, error) {
	q := s.DB.Preload("Reporter").Preload("TargetUser").Preload("TargetProduct")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reports []models.Report
	err := q.Order("created_at DESC").Find(&reports).Error
	return reports, err
}

// CountReportsByStatus returns per-status totals for the console dashboard.
func (s *Service) CountReportsByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := s.DB.Model(&models.Report{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := map[string]int64{
		models.ReportPending:  0,
		models.ReportApproved: 0,
		models.ReportRejected: 0,
	}
	var total int64
	for _, r := range rows {
		stats[r.Status] = r.Count
		total += r.Count
	}
	stats["total"] = total
	return stats, nil
}
