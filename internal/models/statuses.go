package models

type UserRole string
type VerificationStatus string
type ReportStatus string
type ReportPriority string
type NotificationType string

const (
	UserRoleResident UserRole = "resident"
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"

	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"

	ReportStatusPending    ReportStatus = "pending"
	ReportStatusInProgress ReportStatus = "in-progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusRejected   ReportStatus = "rejected"

	ReportPriorityLow      ReportPriority = "low"
	ReportPriorityMedium   ReportPriority = "medium"
	ReportPriorityHigh     ReportPriority = "high"
	ReportPriorityCritical ReportPriority = "critical"

	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
	NotificationTypeUpdate  NotificationType = "update"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleResident, UserRoleAdmin, UserRoleStaff:
		return true
	}
	return false
}

func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationStatusPending, VerificationStatusApproved, VerificationStatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s is a terminal outcome of a review.
func (s VerificationStatus) IsDecision() bool {
	return s == VerificationStatusApproved || s == VerificationStatusRejected
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusInProgress, ReportStatusResolved, ReportStatusRejected:
		return true
	}
	return false
}

func (p ReportPriority) IsValid() bool {
	switch p {
	case ReportPriorityLow, ReportPriorityMedium, ReportPriorityHigh, ReportPriorityCritical:
		return true
	}
	return false
}

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError, NotificationTypeUpdate:
		return true
	}
	return false
}
