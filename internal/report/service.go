// Package report implements the moderation engine: filing complaints against
// users or products, the automatic volume threshold, and staff resolution.
package report

import (
	"errors"
	"fmt"
	"log"
	"time"

	"marketgo/backend/internal/config"
	"marketgo/backend/internal/models"
	"marketgo/backend/internal/sanitize"
)

// Staff decisions on a pending report.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var (
	// ErrInvalidTarget covers self-reports, reports against one's own product
	// and malformed targets.
	ErrInvalidTarget = errors.New("invalid report target")
	// ErrDuplicateReport means the reporter already has a pending or approved
	// report against the same target.
	ErrDuplicateReport = errors.New("duplicate report against this target")
	// ErrDetailTooShort rejects reports without a usable description.
	ErrDetailTooShort = errors.New("report detail is too short")
	// ErrInvalidReason rejects unknown complaint reasons.
	ErrInvalidReason = errors.New("unknown report reason")
	// ErrForbidden means the actor lacks the staff capability.
	ErrForbidden = errors.New("staff capability required")
	// ErrAlreadyProcessed means the report left the pending state earlier.
	ErrAlreadyProcessed = errors.New("report already processed")
	// ErrInvalidDecision rejects decisions other than approve/reject.
	ErrInvalidDecision = errors.New("unknown decision")
)

// Storage is the slice of the persistence layer the engine needs.
type Storage interface {
	GetUserByID(id uint) (*models.User, error)
	GetProductByID(id uint) (*models.Product, error)

	CreateReport(report *models.Report) error
	GetReportByID(id uint) (*models.Report, error)
	UpdateReport(report *models.Report) error
	HasActiveReport(reporterID uint, target models.Target) (bool, error)
	CountActiveReports(target models.Target) (int64, error)

	BlockProduct(productID uint) (bool, error)
	IncrementUserReportCount(userID uint) (uint, error)
	SetUserDormant(userID uint) (bool, error)
}

// Notifier receives best-effort alerts when an automatic consequence fires.
type Notifier interface {
	ModerationAlert(text string)
}

// Service is the report engine.
type Service struct {
	Storage  Storage
	Notifier Notifier
}

// NewService creates the engine. notifier may be nil.
func NewService(store Storage, notifier Notifier) *Service {
	return &Service{Storage: store, Notifier: notifier}
}

// FileReport validates and persists a complaint, then evaluates the automatic
// threshold against the target.
func (s *Service) FileReport(reporter *models.User, target models.Target, reason, detail string) (*models.Report, error) {
	if !target.Valid() {
		return nil, ErrInvalidTarget
	}
	if !models.ValidReportReason(reason) {
		return nil, ErrInvalidReason
	}

	detail = sanitize.Clean(detail)
	if len(detail) < config.ReportDetailMinLen {
		return nil, ErrDetailTooShort
	}

	switch target.Kind {
	case models.TargetUser:
		if target.ID == reporter.ID {
			return nil, ErrInvalidTarget
		}
		if _, err := s.Storage.GetUserByID(target.ID); err != nil {
			return nil, err
		}
	case models.TargetProduct:
		product, err := s.Storage.GetProductByID(target.ID)
		if err != nil {
			return nil, err
		}
		if product.SellerID == reporter.ID {
			return nil, ErrInvalidTarget
		}
	}

	duplicate, err := s.Storage.HasActiveReport(reporter.ID, target)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, ErrDuplicateReport
	}

	report := &models.Report{
		ReporterID: reporter.ID,
		Reason:     reason,
		Detail:     detail,
		Status:     models.ReportPending,
	}
	target.ApplyTo(report)

	if err := s.Storage.CreateReport(report); err != nil {
		return nil, err
	}
	log.Printf("INFO: report %d filed by user %d against %s %d", report.ID, reporter.ID, target.Kind, target.ID)

	if err := s.EvaluateThreshold(target); err != nil {
		return report, err
	}
	return report, nil
}

// EvaluateThreshold counts pending and approved reports against the target
// and applies the automatic consequence once the volume threshold is reached.
// Safe to re-run: consequences latch, so repeated evaluation of an already
// blocked product or dormant user is a no-op.
func (s *Service) EvaluateThreshold(target models.Target) error {
	count, err := s.Storage.CountActiveReports(target)
	if err != nil {
		return err
	}
	if count < config.ReportThreshold {
		return nil
	}
	return s.applyConsequence(target, fmt.Sprintf("%d reports", count))
}

// ResolveReport lets staff approve or reject a pending report. Approval always
// applies the consequence regardless of the running report count.
func (s *Service) ResolveReport(staff *models.User, reportID uint, decision string) (*models.Report, error) {
	if !staff.IsStaff {
		return nil, ErrForbidden
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	report, err := s.Storage.GetReportByID(reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportPending {
		return nil, ErrAlreadyProcessed
	}

	now := time.Now()
	staffID := staff.ID
	report.ProcessedAt = &now
	report.ProcessedByID = &staffID
	if decision == DecisionApprove {
		report.Status = models.ReportApproved
	} else {
		report.Status = models.ReportRejected
	}

	if err := s.Storage.UpdateReport(report); err != nil {
		return nil, err
	}
	log.Printf("INFO: report %d %s by staff %d", report.ID, report.Status, staff.ID)

	if decision == DecisionApprove {
		if err := s.applyConsequence(models.TargetOf(report), fmt.Sprintf("report %d approved", report.ID)); err != nil {
			return report, err
		}
	}
	return report, nil
}

// applyConsequence is the single merge point for both triggers (volume
// threshold and staff approval). Product blocking is a compare-and-set and the
// user path short-circuits on dormant accounts, so whichever trigger fires
// second observes a no-op instead of a double application.
func (s *Service) applyConsequence(target models.Target, cause string) error {
	switch target.Kind {
	case models.TargetProduct:
		blocked, err := s.Storage.BlockProduct(target.ID)
		if err != nil {
			return err
		}
		if blocked {
			s.alert(fmt.Sprintf("Product %d blocked (%s)", target.ID, cause))
		}

	case models.TargetUser:
		user, err := s.Storage.GetUserByID(target.ID)
		if err != nil {
			return err
		}
		if user.IsDormant {
			return nil
		}
		count, err := s.Storage.IncrementUserReportCount(target.ID)
		if err != nil {
			return err
		}
		volume, err := s.Storage.CountActiveReports(target)
		if err != nil {
			return err
		}
		// Dormancy triggers either on accumulated consequences (staff
		// approvals) or on raw report volume hitting the threshold.
		if count >= config.DormantThreshold || volume >= config.ReportThreshold {
			dormant, err := s.Storage.SetUserDormant(target.ID)
			if err != nil {
				return err
			}
			if dormant {
				s.alert(fmt.Sprintf("User %d set dormant (%s)", target.ID, cause))
			}
		}
	}
	return nil
}

func (s *Service) alert(text string) {
	log.Printf("WARNING: moderation consequence: %s", text)
	if s.Notifier != nil {
		s.Notifier.ModerationAlert(text)
	}
}
