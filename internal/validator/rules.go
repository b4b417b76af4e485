package validator

import (
	"log"
	"strings"

	"community_issues/internal/auth"
	"community_issues/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers the enum and text rules used by request DTOs.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-report-status", validateReportStatus)
	mustRegister("is-report-priority", validateReportPriority)
	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-verification-decision", validateVerificationDecision)
	mustRegister("password-bytes", validatePasswordBytes)

	// 'notblank': a present string must contain something besides whitespace
	mustRegister("notblank", validateNotBlank)
}

// Empty values pass every enum rule; 'required' covers presence.

func validateReportStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ReportStatus(value).IsValid()
}

func validateReportPriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ReportPriority(value).IsValid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).IsValid()
}

func validateVerificationDecision(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.VerificationStatus(value).IsDecision()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// bcrypt only accepts inputs up to auth.MaxPasswordBytes bytes.
func validatePasswordBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= auth.MaxPasswordBytes
}
