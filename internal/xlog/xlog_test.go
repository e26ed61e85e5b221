package xlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixFormat(t *testing.T) {
	require.Equal(t, "C0:12B:<:S1:", Prefix(0, 12, '<', 1))
	require.Equal(t, "C3:40B:>:S0:", Prefix(3, 40, '>', 0))
}

func TestFieldsCarriesAllFour(t *testing.T) {
	f := Fields(2, 32, '>', 7)
	require.Equal(t, 2, f["conn"])
	require.Equal(t, 32, f["bytes"])
	require.Equal(t, ">", f["dir"])
	require.Equal(t, uint16(7), f["seq"])
}

func TestNewPlainWritesToUnderlyingWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, false, false)
	require.NoError(t, err)
	defer closer.Close()

	logger.Info(Prefix(0, 12, '<', 1) + " Initiation ClientHandshake: { byte-order = LSBFirst(0x6c) }")
	require.Contains(t, buf.String(), "C0:12B:<:S1:")
	require.NotContains(t, buf.String(), "INFO")
}

func TestNewVerboseSetsDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, true, false)
	require.NoError(t, err)
	defer closer.Close()
	require.True(t, logger.IsLevelEnabled(5 /* logrus.DebugLevel */))
}

func TestNewCompressProducesNonEmptyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(&buf, false, true)
	require.NoError(t, err)
	logger.Info("hello")
	require.NoError(t, closer.Close())
	require.NotEmpty(t, buf.Bytes())
	// xz stream magic bytes.
	require.Equal(t, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}, buf.Bytes()[:6])
}
