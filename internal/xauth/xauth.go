// Package xauth reads and writes Xauthority records (the binary format
// consumed by xauth(1) and libXau) and implements the proxy's --copyauth
// bootstrap: cloning the real display's cookie under the proxy's own
// display name so a sandboxed client that only knows about the proxy can
// still authenticate against it.
//
// The record format and the cookie-cloning logic are ported straight from
// craftAuthority in the sandbox's x11 package. Record parsing, encoding and
// Find work for any address family; CloneForProxy (and so --copyauth)
// still matches only AF_LOCAL entries. The Xauthority file is located with
// XDG fallbacks instead of assuming $HOME.
package xauth

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cep21/xdgbasedir"
)

// Family values as they appear on the wire, per Xau(3).
const (
	FamilyInternet  = 0
	FamilyLocal     = 256
	FamilyInternet6 = 6
)

// Record is one Xauthority entry.
type Record struct {
	Family     uint16
	Address    []byte
	Display    string
	AuthMethod []byte
	AuthData   []byte
}

// ResolvePath locates the Xauthority file to read, in priority order:
// $XAUTHORITY, then ~/.Xauthority, then $XDG_CONFIG_HOME/Xauthority (not
// standard, but a reasonable fallback for home directories that keep dotfiles
// out of $HOME).
func ResolvePath() (string, error) {
	if p := os.Getenv("XAUTHORITY"); p != "" {
		return p, nil
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		p := filepath.Join(home, ".Xauthority")
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	configHome, err := xdgbasedir.ConfigHome(false)
	if err != nil {
		return "", fmt.Errorf("xauth: no $XAUTHORITY, no readable ~/.Xauthority, and XDG config home unavailable: %w", err)
	}
	return filepath.Join(configHome, "Xauthority"), nil
}

func extractString(s []byte) ([]byte, int, error) {
	if len(s) < 2 {
		return nil, 0, fmt.Errorf("xauth: truncated record (length field)")
	}
	n := int(binary.BigEndian.Uint16(s[0:]))
	if len(s[2:]) < n {
		return nil, 0, fmt.Errorf("xauth: truncated record (want %d bytes, have %d)", n, len(s[2:]))
	}
	return s[2 : 2+n], 2 + n, nil
}

func encodeString(s []byte) []byte {
	out := make([]byte, 2, 2+len(s))
	binary.BigEndian.PutUint16(out[0:], uint16(len(s)))
	return append(out, s...)
}

// ReadAll parses every record out of a raw Xauthority file's contents, in
// the order they appear.
func ReadAll(raw []byte) ([]Record, error) {
	var records []Record
	for len(raw) > 0 {
		if len(raw) < 2 {
			break
		}
		family := binary.BigEndian.Uint16(raw[0:])
		off := 2

		addr, n, err := extractString(raw[off:])
		if err != nil {
			return nil, err
		}
		off += n

		disp, n, err := extractString(raw[off:])
		if err != nil {
			return nil, err
		}
		off += n

		meth, n, err := extractString(raw[off:])
		if err != nil {
			return nil, err
		}
		off += n

		data, n, err := extractString(raw[off:])
		if err != nil {
			return nil, err
		}
		off += n

		records = append(records, Record{
			Family:     family,
			Address:    addr,
			Display:    string(disp),
			AuthMethod: meth,
			AuthData:   data,
		})
		raw = raw[off:]
	}
	return records, nil
}

// Encode serializes a single record back to its on-disk form.
func (r Record) Encode() []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out[0:], r.Family)
	out = append(out, encodeString(r.Address)...)
	out = append(out, encodeString([]byte(r.Display))...)
	out = append(out, encodeString(r.AuthMethod)...)
	out = append(out, encodeString(r.AuthData)...)
	return out
}

// CloneForProxy reads the Xauthority file at path, finds the AF_LOCAL
// record matching (hostname, realDisplay), and returns a new record with
// the display rewritten to proxyDisplay so the sandboxed client can
// authenticate against the proxy's own listening socket. The address
// family and host/address bytes are carried over unchanged.
func CloneForProxy(path, hostname, realDisplay, proxyDisplay string) (Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	records, err := ReadAll(raw)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Family != FamilyLocal {
			continue
		}
		if string(rec.Address) != hostname {
			continue
		}
		if rec.Display != realDisplay {
			continue
		}
		rec.Display = proxyDisplay
		return rec, nil
	}
	return Record{}, fmt.Errorf("xauth: no Xauthority entry for %s:%s", hostname, realDisplay)
}

// Find returns the first record in path's Xauthority file matching family,
// hostname, and display, for looking up the cookie a bootstrap connection
// must present to authenticate directly against the real server.
func Find(path string, family uint16, hostname, display string) (Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	records, err := ReadAll(raw)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.Family == family && string(rec.Address) == hostname && rec.Display == display {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("xauth: no Xauthority entry for %s:%s", hostname, display)
}

// InstallProxyCookie implements --copyauth: it clones the real display's
// MIT-MAGIC-COOKIE-1 entry under the proxy's own display name, moves path
// aside, and writes a new file at path holding the original bytes plus the
// cloned record, so a client that only knows the proxy's display can still
// authenticate against it. The returned restore func deletes the
// temporary file and moves the original back; it must be called exactly
// once, typically on exit.
func InstallProxyCookie(path, hostname, realDisplay, proxyDisplay string) (restore func() error, record Record, err error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Record{}, err
	}
	rec, err := CloneForProxy(path, hostname, realDisplay, proxyDisplay)
	if err != nil {
		return nil, Record{}, err
	}

	backupPath := path + ".x11trace-orig"
	if err := os.Rename(path, backupPath); err != nil {
		return nil, Record{}, fmt.Errorf("xauth: renaming %s aside: %w", path, err)
	}

	newRaw := append(append([]byte{}, raw...), rec.Encode()...)
	if err := os.WriteFile(path, newRaw, 0600); err != nil {
		_ = os.Rename(backupPath, path)
		return nil, Record{}, fmt.Errorf("xauth: writing %s: %w", path, err)
	}

	restore = func() error {
		if err := os.Remove(path); err != nil {
			return err
		}
		return os.Rename(backupPath, path)
	}
	return restore, rec, nil
}
