package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanJoinOwnRoomOnly(t *testing.T) {
	assert.True(t, CanJoin(1, "user.1"))

	assert.False(t, CanJoin(1, "user.2"))
	assert.False(t, CanJoin(1, "user"))
	assert.False(t, CanJoin(1, ""))
	assert.False(t, CanJoin(1, "user.1.extra"))
}
