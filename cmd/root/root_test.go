package root

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRegistersSharedFlags(t *testing.T) {
	Init()

	for _, name := range []string{"input", "output", "pretty"} {
		flag := Cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag %s not registered", name)
	}
	assert.Equal(t, "hkstmt", Cmd.Use)
}
