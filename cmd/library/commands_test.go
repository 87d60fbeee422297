package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.ElementsMatch(t, []string{"serve", "migrate", "createsuperuser"}, names)

	cmd, _, err := root.Find([]string{"createsuperuser"})
	require.NoError(t, err)
	require.NotNil(t, cmd.Flags().Lookup("username"))
	require.NotNil(t, cmd.Flags().Lookup("email"))
}

func TestPrompt(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  admin \nrest"))
	var out bytes.Buffer

	v, err := prompt(in, &out, "Username: ")
	require.NoError(t, err)
	require.Equal(t, "admin", v)
	require.Equal(t, "Username: ", out.String())

	v, err = prompt(in, &out, "Email: ")
	require.NoError(t, err)
	require.Equal(t, "rest", v)

	_, err = prompt(in, &out, "Again: ")
	require.Error(t, err)
}
