package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acacia-hotel-backend/utils"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, utils.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, utils.CheckPassword(hash, "wrong-pass"))
	assert.False(t, utils.CheckPassword("not-a-bcrypt-hash", "s3cret-pass"))
}
