package postgres_test

import (
	"errors"
	"fmt"
	"hotelbook/infras/postgres"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		code       string
		retryable  bool
		integrity  bool
		unique     bool
		foreignKey bool
	}{
		{
			name:      "serialization failure",
			err:       &pq.Error{Code: "40001"},
			code:      "40001",
			retryable: true,
		},
		{
			name:      "deadlock wrapped by commit",
			err:       fmt.Errorf("failed to commit transaction: %w", &pq.Error{Code: "40P01"}),
			code:      "40P01",
			retryable: true,
		},
		{
			name:      "lock timeout",
			err:       fmt.Errorf("failed to get data (room): %w", &pq.Error{Code: "55P03"}),
			code:      "55P03",
			retryable: true,
		},
		{
			name:      "unique violation",
			err:       &pq.Error{Code: "23505"},
			code:      "23505",
			integrity: true,
			unique:    true,
		},
		{
			name:       "foreign key violation",
			err:        &pq.Error{Code: "23503"},
			code:       "23503",
			integrity:  true,
			foreignKey: true,
		},
		{
			name:      "check violation",
			err:       &pq.Error{Code: "23514"},
			code:      "23514",
			integrity: true,
		},
		{
			name: "syntax error",
			err:  &pq.Error{Code: "42601"},
			code: "42601",
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, postgres.ErrorCode(tt.err))
			assert.Equal(t, tt.retryable, postgres.IsRetryable(tt.err))
			assert.Equal(t, tt.integrity, postgres.IsIntegrityViolation(tt.err))
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, postgres.IsForeignKeyViolation(tt.err))
		})
	}
}
