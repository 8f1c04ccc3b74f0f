package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewESClient(t *testing.T) {
	_, err := NewESClient(nil, "", "")
	assert.ErrorIs(t, err, ErrNoESAddrs)

	es, err := NewESClient([]string{"http://localhost:9200"}, "elastic", "secret")
	require.NoError(t, err)
	assert.NotNil(t, es)
}
