package common

import (
	"errors"

	"github.com/bizledger/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrOperationFailed is what callers see when an unexpected infrastructure
// error aborted the operation
var ErrOperationFailed = shared.ErrOperationFailed

// Fail passes domain errors through unchanged. Any other error is logged
// with its cause and replaced by an OPERATION_FAILED domain error so internal
// messages never reach the caller.
func Fail(log *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	if log != nil {
		log.Error("operation failed", zap.String("operation", op), zap.Error(err))
	}
	return shared.NewDomainError(ErrOperationFailed.Code, "Failed to "+op)
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// NotFound returns a NOT_FOUND domain error naming the resource
func NotFound(resource string) error {
	return shared.ErrNotFound.WithMessage(resource + " not found")
}

// Nop returns logger if set, or a no-op logger
func Nop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
