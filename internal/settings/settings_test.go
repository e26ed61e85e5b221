package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args []string) *Settings {
	t.Helper()
	var got *Settings
	cmd := New(func(s *Settings) error {
		got = s
		return nil
	})
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	return got
}

func TestDefaults(t *testing.T) {
	os.Unsetenv("PROXYDISPLAY")
	os.Unsetenv("DISPLAY")
	s := run(t, nil)
	require.Equal(t, ":9", s.ProxyDisplay)
	require.True(t, s.StopIfNoActiveConn)
	require.False(t, s.Verbose)
	require.Equal(t, 0, s.MaxListLength)
}

func TestProxyDisplayFlagOverridesDefault(t *testing.T) {
	s := run(t, []string{"--proxydisplay", ":42"})
	require.Equal(t, ":42", s.ProxyDisplay)
}

func TestProxyDisplayFallsBackToEnv(t *testing.T) {
	os.Setenv("PROXYDISPLAY", ":13")
	defer os.Unsetenv("PROXYDISPLAY")
	s := run(t, nil)
	require.Equal(t, ":13", s.ProxyDisplay)
}

func TestVerboseAndMultilineAndMaxListLength(t *testing.T) {
	s := run(t, []string{"-v", "--multiline", "--maxlistlength", "16"})
	require.True(t, s.Verbose)
	require.True(t, s.Multiline)
	require.Equal(t, 16, s.MaxListLength)
}

func TestTrailingCommandIsSplitOut(t *testing.T) {
	s := run(t, []string{"--copyauth", "--", "xterm", "-e", "bash"})
	require.True(t, s.CopyAuth)
	require.Equal(t, []string{"xterm", "-e", "bash"}, s.Command)
}

func TestLogCompressFlag(t *testing.T) {
	s := run(t, []string{"--logcompress"})
	require.True(t, s.LogCompress)
}

func TestWaitForClientAndDenyAllExtensions(t *testing.T) {
	s := run(t, []string{"--waitforclient", "--denyallextensions"})
	require.True(t, s.WaitForClient)
	require.True(t, s.DenyAllExtensions)
}

func TestSeccompChildFlag(t *testing.T) {
	s := run(t, []string{"--seccompchild", "--", "xterm"})
	require.True(t, s.SeccompChild)
	require.Equal(t, []string{"xterm"}, s.Command)
}
