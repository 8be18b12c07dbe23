package ecs

import (
	"fmt"
	"time"
)

// ErrorCode enumerates the runtime's error kinds as a closed, typed enum
// rather than open string constants, since the set of kinds is fixed.
type ErrorCode int

const (
	ErrWorldDisposed ErrorCode = iota
	ErrPhaseDenied
	ErrPermissionDenied
	ErrValidationFailed
	ErrSingletonViolation
	ErrMissingComponent
	ErrInvalidHandle
	ErrDuplicateWorldID
	ErrSnapshotFormat
	ErrSchedulerCycle
)

func (c ErrorCode) String() string {
	switch c {
	case ErrWorldDisposed:
		return "WorldDisposed"
	case ErrPhaseDenied:
		return "PhaseDenied"
	case ErrPermissionDenied:
		return "PermissionDenied"
	case ErrValidationFailed:
		return "ValidationFailed"
	case ErrSingletonViolation:
		return "SingletonViolation"
	case ErrMissingComponent:
		return "MissingComponent"
	case ErrInvalidHandle:
		return "InvalidHandle"
	case ErrDuplicateWorldID:
		return "DuplicateWorldId"
	case ErrSnapshotFormat:
		return "SnapshotFormat"
	case ErrSchedulerCycle:
		return "SchedulerCycle"
	default:
		return "Unknown"
	}
}

// ErrorSeverity classifies how serious an ECSError is.
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// ECSError is the single error type returned from the world/kernel's
// public surface.
type ECSError struct {
	Code      ErrorCode
	Message   string
	Entity    Entity
	HasEntity bool
	Component ComponentTypeID
	System    string
	Severity  ErrorSeverity
	Timestamp time.Time
	Details   map[string]any
}

func (e *ECSError) Error() string {
	if e.HasEntity {
		return fmt.Sprintf("ecs: %s: %s (entity=%d/%d)", e.Code, e.Message, e.Entity.ID, e.Entity.Gen)
	}
	return fmt.Sprintf("ecs: %s: %s", e.Code, e.Message)
}

// IsRecoverable reports whether the caller may retry the same operation
// after correcting its inputs; only SingletonViolation and SnapshotFormat
// are never recoverable by construction.
func (e *ECSError) IsRecoverable() bool {
	return e.Code != ErrSingletonViolation && e.Code != ErrSnapshotFormat
}

func newError(code ErrorCode, severity ErrorSeverity, msg string) *ECSError {
	return &ECSError{Code: code, Message: msg, Severity: severity, Timestamp: time.Now()}
}

func newEntityError(code ErrorCode, e Entity, msg string) *ECSError {
	err := newError(code, SeverityError, msg)
	err.Entity = e
	err.HasEntity = true
	return err
}

func newComponentError(code ErrorCode, e Entity, typeID ComponentTypeID, msg string) *ECSError {
	err := newEntityError(code, e, msg)
	err.Component = typeID
	return err
}

// WithDetail attaches a debugging key/value and returns the same error for
// chaining.
func (e *ECSError) WithDetail(key string, value any) *ECSError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func errWorldDisposed() *ECSError {
	return newError(ErrWorldDisposed, SeverityCritical, "operation attempted on a disposed world")
}

func errKernelDisposed() *ECSError {
	return newError(ErrWorldDisposed, SeverityCritical, "operation attempted on a disposed kernel")
}

func errPhaseDenied(e Entity, typeID ComponentTypeID, phase Phase, structural bool) *ECSError {
	kind := "value"
	if structural {
		kind = "structural"
	}
	err := newComponentError(ErrPhaseDenied, e, typeID, fmt.Sprintf("%s write denied in phase %s", kind, phase))
	return err
}

func errPermissionDenied(e Entity, typeID ComponentTypeID) *ECSError {
	return newComponentError(ErrPermissionDenied, e, typeID, "write-permission predicate rejected the write")
}

func errValidationFailed(e Entity, typeID ComponentTypeID) *ECSError {
	return newComponentError(ErrValidationFailed, e, typeID, "validator rejected the value")
}

func errSingletonViolation(e Entity, typeID ComponentTypeID) *ECSError {
	return newComponentError(ErrSingletonViolation, e, typeID, "singleton component already has an owner")
}

func errMissingComponent(e Entity, typeID ComponentTypeID) *ECSError {
	return newComponentError(ErrMissingComponent, e, typeID, "component not present on entity")
}

func errInvalidHandle(e Entity) *ECSError {
	return newEntityError(ErrInvalidHandle, e, "entity id is valid but generation is stale")
}

func errDuplicateWorldID(msg string) *ECSError {
	return newError(ErrDuplicateWorldID, SeverityError, msg)
}

func errSnapshotFormat(msg string) *ECSError {
	return newError(ErrSnapshotFormat, SeverityCritical, msg)
}

func errSchedulerCycle(name string) *ECSError {
	return newError(ErrSchedulerCycle, SeverityError,
		fmt.Sprintf("adding system %q would create an ordering cycle", name))
}
