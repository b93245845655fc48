package cli

import (
	"errors"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/require"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid argument",
			err:  errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad manifest"),
			want: 2,
		},
		{
			name: "resolution exhausted",
			err:  errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no candidates"),
			want: 3,
		},
		{
			name: "download exhausted",
			err:  errbuilder.New().WithCode(errbuilder.CodeUnavailable).WithMsg("all candidates failed"),
			want: 4,
		},
		{
			name: "injection failure",
			err:  errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("host refused"),
			want: 5,
		},
		{
			name: "io failure",
			err:  errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("disk full"),
			want: 5,
		},
		{
			name: "plain error",
			err:  errors.New("something unexpected"),
			want: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	require.Equal(t, "libfetch", root.Use)

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "fetch")
	require.Contains(t, names, "resolve")
	require.Contains(t, names, "verify")

	require.NotNil(t, root.PersistentFlags().Lookup("config"))
	require.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestFetchCommandFlags(t *testing.T) {
	cmd := newFetchCommand()
	for _, flag := range []string{"manifest", "cache-dir", "dir-name", "inject-dir"} {
		require.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
	require.Equal(t, "libraries.yaml", cmd.Flags().Lookup("manifest").DefValue)
	require.Equal(t, ".libfetch", cmd.Flags().Lookup("cache-dir").DefValue)
}
