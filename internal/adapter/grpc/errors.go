package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alvaro-al22/investsimpro-backend/internal/domain"
)

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	return status.Error(codeFor(err), err.Error())
}

func codeFor(err error) codes.Code {
	switch {
	case domain.IsValidationError(err):
		return codes.InvalidArgument
	case errors.Is(err, domain.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, domain.ErrPersistenceNotAllowed):
		return codes.PermissionDenied
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return codes.Unavailable
	case errors.Is(err, domain.ErrMissingPriceData),
		errors.Is(err, domain.ErrNotDailySimulation),
		errors.Is(err, domain.ErrNotDue):
		return codes.FailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}
