package repository

import (
	"database/sql"
	"testing"

	apperrors "govportal/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errNoRows() error {
	return sql.ErrNoRows
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrorCode(code), stdErr.Code)
}
