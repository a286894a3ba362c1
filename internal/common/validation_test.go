package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"productName" validate:"required"`
	URL   string `json:"fileUrl" validate:"omitempty,url"`
	Alias string `json:"alias" validate:"required_without_all=Name"`
	Note  string `json:"note" validate:"max=3"`
}

func TestValidateStructMessagesUseJSONNames(t *testing.T) {
	err := ValidateStruct(sample{URL: "nope", Note: "toolong"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var aerr *AppError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, CodeValidation, aerr.Code)
	assert.Contains(t, aerr.Message, "productName is required")
	assert.Contains(t, aerr.Message, "fileUrl must be a valid URL")
	assert.Contains(t, aerr.Message, "alias is required when none of [Name] is given")
	assert.Contains(t, aerr.Message, "note must be at most 3 characters")
}

func TestValidateStructOK(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{Name: "x", URL: "https://example.com/a.png"}))
}
