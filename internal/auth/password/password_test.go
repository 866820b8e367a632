package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("s3cret-pass")
	assert.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$v=19$")

	assert.True(t, Verify("s3cret-pass", encoded))
	assert.False(t, Verify("wrong-pass", encoded))
	assert.False(t, Verify("", encoded))
}

func TestHashesAreSalted(t *testing.T) {
	first, err := Hash("same-password")
	assert.NoError(t, err)
	second, err := Hash("same-password")
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify("same-password", first))
	assert.True(t, Verify("same-password", second))
}

func TestVerifyMalformedEncoding(t *testing.T) {
	assert.False(t, Verify("anything", ""))
	assert.False(t, Verify("anything", "plain-text"))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1$short$parts"))
	assert.False(t, Verify("anything", "$scrypt$v=19$m=65536,t=1,p=4$AAAA$AAAA"))
	assert.False(t, Verify("anything", "$argon2id$v=19$m=65536,t=1,p=4$!notb64$AAAA"))
}
