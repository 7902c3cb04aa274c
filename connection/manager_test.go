package connection

import (
	"crypto/md5"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigHash(t *testing.T) {
	config := Config{Host: "rpc.example.com", Token: "abc", IsSecure: true}

	sum := md5.Sum([]byte("https://rpc.example.com/abc"))
	require.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), config.Hash())

	same := Config{Host: "rpc.example.com", Token: "abc", IsSecure: true}
	assert.Equal(t, config.Hash(), same.Hash())

	otherToken := Config{Host: "rpc.example.com", Token: "def", IsSecure: true}
	assert.NotEqual(t, config.Hash(), otherToken.Hash())

	insecure := Config{Host: "rpc.example.com", Token: "abc"}
	assert.NotEqual(t, config.Hash(), insecure.Hash())
}
