package errors_test

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/muzz-matching/internal/errors"
)

func TestFromStore_Classification(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"duplicate key", gorm.ErrDuplicatedKey, svcErr.IsConflict},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213, Message: "Deadlock found"}, svcErr.IsConflict},
		{"mysql lock wait", &mysql.MySQLError{Number: 1205}, svcErr.IsConflict},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, svcErr.IsConflict},
		{"pg connection", &pgconn.PgError{Code: "08006"}, svcErr.IsUnavailable},
		{"bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), svcErr.IsUnavailable},
		{"invalid conn", mysql.ErrInvalidConn, svcErr.IsUnavailable},
		{"typed passthrough", svcErr.NotFound("User", 1), svcErr.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(svcErr.FromStore("op", tt.err)))
		})
	}
}

func TestFromStore_PassThrough(t *testing.T) {
	assert.NoError(t, svcErr.FromStore("op", nil))
	assert.ErrorIs(t, svcErr.FromStore("op", context.Canceled), context.Canceled)

	plain := stderrors.New("boom")
	wrapped := svcErr.FromStore("load", plain)
	assert.ErrorIs(t, wrapped, plain)
	assert.False(t, svcErr.IsConflict(wrapped))
	assert.False(t, svcErr.IsUnavailable(wrapped))
}

func TestMap_Codes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{svcErr.ErrSelfMatch, codes.InvalidArgument},
		{svcErr.Validation("interests", "empty"), codes.InvalidArgument},
		{svcErr.NotFound("User", 9), codes.NotFound},
		{gorm.ErrRecordNotFound, codes.NotFound},
		{&svcErr.ConflictError{Op: "like", Err: gorm.ErrDuplicatedKey}, codes.Aborted},
		{&svcErr.StoreUnavailableError{Err: driver.ErrBadConn}, codes.Unavailable},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{context.Canceled, codes.Canceled},
		{stderrors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		st, ok := status.FromError(svcErr.Map(tt.err))
		assert.True(t, ok)
		assert.Equal(t, tt.code, st.Code(), "err=%v", tt.err)
	}
	assert.NoError(t, svcErr.Map(nil))
}
