package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation: the root command wires all three subcommands.
func Test_NewRootCmd_Success(t *testing.T) {
	t.Parallel()

	root := newRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	require.True(t, names["bench"])
	require.True(t, names["split"])
	require.True(t, names["serve"])
}
