package errors

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"
)

// Map converts domain/infra errors into gRPC-friendly status errors.
// Keeps the service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		validation  *ValidationError
		notFound    *NotFoundError
		conflict    *ConflictError
		unavailable *StoreUnavailableError
	)

	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, validation.Error())

	case errors.As(err, &notFound):
		return status.Error(codes.NotFound, notFound.Error())

	case errors.Is(err, gorm.ErrRecordNotFound):
		return status.Error(codes.NotFound, "record not found")

	case errors.As(err, &conflict):
		return status.Error(codes.Aborted, "concurrent update, please retry")

	case errors.As(err, &unavailable):
		return status.Error(codes.Unavailable, "store unavailable")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timed out")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return status.Error(codes.Internal, err.Error())
	}
}

// InvalidArgument creates a gRPC InvalidArgument error.
// Use this in the transport layer for unparsable input.
func InvalidArgument(msg string) error {
	return status.Error(codes.InvalidArgument, msg)
}
