package validate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dkravets/recipebook/internal/recipebook/services/validate"
	"github.com/stretchr/testify/require"
)

func TestEmptyErrorsIsNil(t *testing.T) {
	ve := validate.Errors{}
	require.NoError(t, ve.Err())
}

func TestErrorsCollectPerField(t *testing.T) {
	ve := validate.Errors{}
	ve.Add("title", "must not be empty")
	ve.Add("price", "must be a decimal")
	ve.Add("price", "must not be negative")

	err := ve.Err()
	require.Error(t, err)
	require.Len(t, ve["price"], 2)
	require.Contains(t, err.Error(), "title")
}

func TestAsErrorsUnwraps(t *testing.T) {
	ve := validate.Errors{}
	ve.Add("name", "must not be empty")

	wrapped := fmt.Errorf("create error: %w", ve.Err())

	got, ok := validate.AsErrors(wrapped)
	require.True(t, ok)
	require.Equal(t, ve, got)

	_, ok = validate.AsErrors(errors.New("plain"))
	require.False(t, ok)
}
