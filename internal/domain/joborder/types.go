package joborder

import (
	"fmt"
	"strings"
	"time"
)

type ServiceType string

const (
	ServiceWasteManagement ServiceType = "waste_management"
	ServiceITServices      ServiceType = "it_services"
	ServiceOther           ServiceType = "other"
)

var serviceTypes = []ServiceType{ServiceWasteManagement, ServiceITServices, ServiceOther}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

type CorrectionStatus string

const (
	CorrectionPending  CorrectionStatus = "pending"
	CorrectionApproved CorrectionStatus = "approved"
	CorrectionRejected CorrectionStatus = "rejected"
)

var correctionStatuses = []CorrectionStatus{CorrectionPending, CorrectionApproved, CorrectionRejected}

type JobOrder struct {
	ID           uint64
	TicketNumber string
	ServiceType  ServiceType
	Status       Status
	Description  string
	Location     string
	CreatedBy    uint64
	CreatorName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ArchivedAt   *time.Time
}

func (j JobOrder) Archived() bool { return j.ArchivedAt != nil }

type Correction struct {
	ID           uint64
	JobOrderID   uint64
	TicketNumber string
	Status       CorrectionStatus
	Reason       string
	CreatedBy    uint64
	CreatorName  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ParseServiceType(raw string) (ServiceType, error) {
	v := ServiceType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range serviceTypes {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownServiceType, raw)
}

func ParseStatus(raw string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range statuses {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func ParseCorrectionStatus(raw string) (CorrectionStatus, error) {
	v := CorrectionStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range correctionStatuses {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCorrectionStatus, raw)
}

// CanResolve reports whether a correction may move from its current status to next.
// Only pending requests are resolvable, and only into approved or rejected.
func CanResolve(current CorrectionStatus, next CorrectionStatus) bool {
	if current != CorrectionPending {
		return false
	}
	return next == CorrectionApproved || next == CorrectionRejected
}
