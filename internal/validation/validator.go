package validation

import (
	"fmt"
	"strings"

	"github.com/lsmithpanw/pcs-where-is/internal/errors"
	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

// User list orderings
const (
	SortByName  = "name"
	SortByLogin = "login"
)

// Validator provides validation functions for various inputs
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateStacks checks that at least one stack is credentialed and, when a
// stack filter is given, that it names a credentialed stack.
func (v *Validator) ValidateStacks(stacks []models.StackConfig, filter string) error {
	configured := false
	for _, s := range stacks {
		if s.Credentialed() {
			configured = true
			break
		}
	}
	if !configured {
		return errors.NewConfigError("verify credentials for at least one stack", nil)
	}

	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}

	for _, s := range stacks {
		if strings.EqualFold(s.Name, filter) {
			if s.Credentialed() {
				return nil
			}
			break
		}
	}

	return errors.NewConfigError(
		fmt.Sprintf("verify credentials for the specified stack %s", filter),
		nil,
	).WithContext("stack", filter)
}

// ValidateSort validates the user list ordering
func (v *Validator) ValidateSort(sortBy string) error {
	validSorts := []string{SortByName, SortByLogin}
	for _, s := range validSorts {
		if sortBy == s {
			return nil
		}
	}

	return errors.NewValidationError(
		fmt.Sprintf("invalid sort '%s'. Valid options: %v", sortBy, validSorts),
		nil,
	)
}

// ValidateFormat validates the output format
func (v *Validator) ValidateFormat(format string) error {
	validFormats := []string{"table", "json", "csv"}
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}

	return errors.NewValidationError(
		fmt.Sprintf("invalid format '%s'. Valid options: %v", format, validFormats),
		nil,
	)
}

// ValidateQuery validates a customer name / ID / serial number query
func (v *Validator) ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.NewValidationError("customer name is required", nil)
	}
	return nil
}

// ValidateTenantID validates a prisma tenant ID
func (v *Validator) ValidateTenantID(id string) error {
	if id == "" {
		return errors.NewValidationError("tenant ID is required", nil)
	}

	for _, char := range id {
		if char < '0' || char > '9' {
			return errors.NewValidationError(
				fmt.Sprintf("invalid tenant ID '%s'. Expected a numeric prisma ID", id),
				nil,
			)
		}
	}

	return nil
}
