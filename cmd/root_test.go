package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRootCmdWiresAllSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"save", "restore", "list", "delete", "recover", "health", "version"} {
		assert.True(t, names[want], "expected subcommand %q to be registered", want)
	}
}

func TestRecoverCmdAcceptsOneOrTwoArgs(t *testing.T) {
	root := NewRootCmd()
	recoverCmd, _, err := root.Find([]string{"recover"})
	assert.NoError(t, err)
	assert.NoError(t, recoverCmd.Args(recoverCmd, []string{"work-20250101-000000"}))
	assert.NoError(t, recoverCmd.Args(recoverCmd, []string{"work-20250101-000000", "renamed"}))
	assert.Error(t, recoverCmd.Args(recoverCmd, []string{}))
	assert.Error(t, recoverCmd.Args(recoverCmd, []string{"a", "b", "c"}))
}

func TestListCmdRejectsArgs(t *testing.T) {
	root := NewRootCmd()
	listCmd, _, err := root.Find([]string{"list"})
	assert.NoError(t, err)
	assert.Error(t, listCmd.Args(listCmd, []string{"unexpected"}))
}
