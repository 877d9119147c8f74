package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
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
	Context string // Additional context like "with this serial number"
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

// InvalidTransitionError is returned when a request action is not allowed from its current stage
type InvalidTransitionError struct {
	Action string
	From   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a request in stage %s", e.Action, e.From)
}

// ConflictError is returned when an entity cannot be removed because other records reference it
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, e.Reason)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrCategoryNotFound  = &NotFoundError{Entity: "equipment category"}
	ErrTeamNotFound      = &NotFoundError{Entity: "maintenance team"}
	ErrUserNotFound      = &NotFoundError{Entity: "user"}
	ErrEquipmentNotFound = &NotFoundError{Entity: "equipment"}
	ErrRequestNotFound   = &NotFoundError{Entity: "maintenance request"}
	ErrTemplateNotFound  = &NotFoundError{Entity: "notification template"}
)

// Already Exists Errors
var (
	ErrCategoryExists  = &AlreadyExistsError{Entity: "equipment category", Context: "with this name"}
	ErrTeamExists      = &AlreadyExistsError{Entity: "maintenance team", Context: "with this name"}
	ErrUserExists      = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrEquipmentExists = &AlreadyExistsError{Entity: "equipment", Context: "with this serial number"}
)

// Conflict Errors
var (
	ErrCategoryInUse = &ConflictError{Entity: "equipment category", Reason: "still referenced by equipment"}
)

// Business Logic Errors
var (
	ErrCloseBeforeSchedule     = &ValidationError{Field: "close_date", Message: "Close date cannot be before scheduled date."}
	ErrEmptyEquipmentSelection = &ValidationError{Field: "equipment_ids", Message: "Please select at least one equipment."}
	ErrTechnicianNotInTeam     = &ValidationError{Field: "technician_id", Message: "technician must be a member of the maintenance team"}
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
	ErrInvalidReportDimension  = errors.New("invalid report grouping dimension")
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid email or password"}
	ErrInvalidToken       = &AuthenticationError{Message: "invalid or expired token"}
	ErrInactiveUser       = &AuthorizationError{Message: "user is inactive"}
)

// Configuration Errors
var (
	ErrJWTSecretMissing = &ConfigurationError{Message: "JWT_SECRET must be set in production"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.Is(err, &NotFoundError{}) || errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.Is(err, &AlreadyExistsError{}) || errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsInvalidTransition checks if an error is an InvalidTransitionError
func IsInvalidTransition(err error) bool {
	var transitionErr *InvalidTransitionError
	return errors.As(err, &transitionErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
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

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewInvalidTransitionError creates a new InvalidTransitionError
func NewInvalidTransitionError(action, from string) error {
	return &InvalidTransitionError{Action: action, From: from}
}

// NewConflictError creates a new ConflictError
func NewConflictError(entity, reason string) error {
	return &ConflictError{Entity: entity, Reason: reason}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
