package core

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.False(t, id.IsEmpty())

	// IDs are valid UUIDs and unique.
	_, err := uuid.Parse(id.String())
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestNewID_TimeOrdered(t *testing.T) {
	// UUID v7 sorts by creation time, so sequential IDs sort lexicographically.
	a := NewID()
	b := NewID()
	assert.LessOrEqual(t, a.String(), b.String())
}

func TestParseRunID(t *testing.T) {
	id, err := ParseRunID("run-123")
	require.NoError(t, err)
	assert.Equal(t, RunID("run-123"), id)

	_, err = ParseRunID("   ")
	assert.Error(t, err)
}

func TestParseColumnKey(t *testing.T) {
	key, err := ParseColumnKey("response")
	require.NoError(t, err)
	assert.Equal(t, ColumnKey("response"), key)

	_, err = ParseColumnKey("")
	assert.Error(t, err)
}
