package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found.
// It is also returned when an entity exists but tenant isolation hides it,
// so callers never learn more than "not found".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in this group"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents a missing or invalid credential
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents an authenticated actor lacking permission
// for the specific resource. Kept distinct from AuthenticationError even
// where the transport maps both to the same status code.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// BusinessRuleError represents a domain rule violation: already a member,
// duplicate pending invite, assignee outside the group, and so on.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrUserNotFound   = &NotFoundError{Entity: "user"}
	ErrGroupNotFound  = &NotFoundError{Entity: "group"}
	ErrInviteNotFound = &NotFoundError{Entity: "invite"}
	ErrTaskNotFound   = &NotFoundError{Entity: "task"}
)

// Already Exists Errors
var (
	ErrEmailExists = &AlreadyExistsError{Entity: "user", Context: "with this email"}
)

// Business Rule Errors
var (
	ErrAlreadyMember        = &BusinessRuleError{Message: "user already in group"}
	ErrInviteAlreadySent    = &BusinessRuleError{Message: "invitation already sent"}
	ErrInviteAlreadyHandled = &BusinessRuleError{Message: "invitation has already been responded to"}
	ErrNoPendingInvite      = &BusinessRuleError{Message: "no valid invitation found"}
	ErrAssigneeNotInGroup   = &BusinessRuleError{Message: "assignee not found or not in group"}
	ErrLeaderNotMember      = &BusinessRuleError{Message: "new leader must be a group member"}
)

// Authorization Errors
var (
	ErrNotGroupLeader = &AuthorizationError{Message: "only the group leader can perform this action"}
	ErrNotGroupMember = &AuthorizationError{Message: "user is not a member of this group"}
)

// Authentication Errors
var (
	ErrInvalidCredentials  = &AuthenticationError{Message: "invalid credentials"}
	ErrInvalidToken        = &AuthenticationError{Message: "invalid token"}
	ErrInvalidRefreshToken = &AuthenticationError{Message: "invalid refresh token"}
	ErrRefreshTokenExpired = &AuthenticationError{Message: "refresh token has expired"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsBusinessRule checks if an error is a BusinessRuleError
func IsBusinessRule(err error) bool {
	var ruleErr *BusinessRuleError
	return errors.As(err, &ruleErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewBusinessRuleError creates a new BusinessRuleError
func NewBusinessRuleError(message string) error {
	return &BusinessRuleError{Message: message}
}
