package childproc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartReturnsNilForEmptyArgv(t *testing.T) {
	c, err := Start(nil, ":9", false)
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestSpliceDisplayReplacesExisting(t *testing.T) {
	env := []string{"HOME=/home/u", "DISPLAY=:0", "PATH=/bin"}
	out := spliceDisplay(env, ":9")
	require.Contains(t, out, "DISPLAY=:9")
	require.NotContains(t, out, "DISPLAY=:0")
	require.Contains(t, out, "HOME=/home/u")
	require.Contains(t, out, "PATH=/bin")
}

func TestSpliceDisplayAppendsWhenAbsent(t *testing.T) {
	env := []string{"HOME=/home/u"}
	out := spliceDisplay(env, ":9")
	require.Contains(t, out, "DISPLAY=:9")
	require.Len(t, out, 2)
}

func TestPollOnNilChildIsFalse(t *testing.T) {
	var c *Child
	exited, status := c.Poll()
	require.False(t, exited)
	require.Zero(t, status)
	require.True(t, c.Exited())
}

func TestStartAndPollObservesExit(t *testing.T) {
	c, err := Start([]string{"/bin/true"}, ":9", false)
	require.NoError(t, err)
	require.NotNil(t, c)

	require.Eventually(t, func() bool {
		exited, _ := c.Poll()
		return exited
	}, 2*time.Second, 10*time.Millisecond)

	exited, status := c.Poll()
	require.True(t, exited)
	require.Equal(t, 0, status)
	require.True(t, c.Exited())
}

func TestStartAndPollObservesNonzeroExit(t *testing.T) {
	c, err := Start([]string{"/bin/false"}, ":9", false)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		exited, _ := c.Poll()
		return exited
	}, 2*time.Second, 10*time.Millisecond)

	_, status := c.Poll()
	require.Equal(t, 1, status)
}
