package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotekeeper/internal/apperr"
	"quotekeeper/internal/model"
)

func TestRequireOwned(t *testing.T) {
	coll := &model.Collection{ID: 5, UserID: 1}

	got, err := Require(coll, 1, "collection")
	require.NoError(t, err)
	assert.Equal(t, coll, got)
}

func TestRequireForeignOwnerIsNotFound(t *testing.T) {
	coll := &model.Collection{ID: 5, UserID: 2}

	_, err := Require(coll, 1, "collection")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "collection not found", ae.Message)
}

func TestRequireNilIsNotFound(t *testing.T) {
	var q *model.Quote

	_, err := Require(q, 1, "quote")
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "quote not found", ae.Message)
}
