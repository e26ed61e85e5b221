// Package xlog sets up the proxy's process-wide structured logger
// (spec.md §6 "Log format"). The teacher logs through stdlib log +
// Debugf; this tree follows the rest of the retrieval pack instead and
// uses logrus, since every message the core emits already carries
// structured conn/dir/seq/bytes fields that a line-oriented stdlib logger
// would have to string-format by hand anyway.
package xlog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// lineFormatter renders a single record as exactly one line, with a level
// tag only for anything above Info (ordinary traced protocol messages are
// Info and print unadorned, the way the spec's example log lines do).
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if e.Level <= logrus.WarnLevel {
		buf.WriteString(strings.ToUpper(e.Level.String()))
		buf.WriteString(": ")
	}
	buf.WriteString(e.Message)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// New builds the process-wide *logrus.Logger. verbose maps to
// logrus.DebugLevel (spec.md §6 "-v/--verbose ... formatting knobs").
// compress wraps w in an xz.Writer (the --logcompress ambient addition);
// the returned io.Closer must be closed to flush the xz trailer.
func New(w io.Writer, verbose, compress bool) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(lineFormatter{})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if !compress {
		logger.SetOutput(w)
		return logger, nopCloser{w}, nil
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, nil, fmt.Errorf("xlog: opening xz writer: %w", err)
	}
	logger.SetOutput(xw)
	return logger, xw, nil
}

// Prefix builds the "C<id>:<bytes>B:<dir>:S<seq>:" record prefix from
// spec.md §6, where dir is '<' for client-to-server or '>' for
// server-to-client.
func Prefix(connID, nBytes int, dir byte, seq uint16) string {
	return fmt.Sprintf("C%d:%dB:%c:S%d:", connID, nBytes, dir, seq)
}

// Fields builds the structured logrus.Fields companion to a Prefix line,
// for any consumer (a log shipper, a test) that wants conn/dir/seq/bytes
// without re-parsing the rendered line.
func Fields(connID, nBytes int, dir byte, seq uint16) logrus.Fields {
	return logrus.Fields{
		"conn":  connID,
		"dir":   string(dir),
		"seq":   seq,
		"bytes": nBytes,
	}
}
