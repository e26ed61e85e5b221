package xauth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, records []Record) string {
	t.Helper()
	var raw []byte
	for _, r := range records {
		raw = append(raw, r.Encode()...)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "Xauthority")
	require.NoError(t, os.WriteFile(path, raw, 0600))
	return path
}

func TestReadAllRoundTrip(t *testing.T) {
	want := []Record{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{1, 2, 3, 4}},
		{Family: FamilyInternet, Address: []byte{127, 0, 0, 1}, Display: "1", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{5, 6}},
	}
	path := writeTestFile(t, want)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := ReadAll(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, want[0].Family, got[0].Family)
	require.Equal(t, want[0].Address, got[0].Address)
	require.Equal(t, want[0].Display, got[0].Display)
	require.Equal(t, want[1].Display, got[1].Display)
	require.Equal(t, want[1].AuthData, got[1].AuthData)
}

func TestReadAllTruncated(t *testing.T) {
	_, err := ReadAll([]byte{0x01, 0x00, 0xff, 0xff, 'a'})
	require.Error(t, err)
}

func TestCloneForProxyFindsMatchingEntry(t *testing.T) {
	path := writeTestFile(t, []Record{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{9, 9, 9}},
	})
	rec, err := CloneForProxy(path, "myhost", "0", "9")
	require.NoError(t, err)
	require.Equal(t, "9", rec.Display)
	require.Equal(t, []byte{9, 9, 9}, rec.AuthData)
	require.Equal(t, uint16(FamilyLocal), rec.Family)
}

func TestCloneForProxyNoMatch(t *testing.T) {
	path := writeTestFile(t, []Record{
		{Family: FamilyLocal, Address: []byte("otherhost"), Display: "0", AuthMethod: []byte("x"), AuthData: []byte{1}},
	})
	_, err := CloneForProxy(path, "myhost", "0", "9")
	require.Error(t, err)
}

func TestFindMatchesFamilyHostnameDisplay(t *testing.T) {
	path := writeTestFile(t, []Record{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{1, 2}},
		{Family: FamilyInternet, Address: []byte{127, 0, 0, 1}, Display: "1", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{3, 4}},
	})
	rec, err := Find(path, FamilyLocal, "myhost", "0")
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, rec.AuthData)
}

func TestFindNoMatch(t *testing.T) {
	path := writeTestFile(t, []Record{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthMethod: []byte("x"), AuthData: []byte{1}},
	})
	_, err := Find(path, FamilyLocal, "myhost", "9")
	require.Error(t, err)
}

func TestInstallProxyCookieWritesClonedRecordAndRestores(t *testing.T) {
	path := writeTestFile(t, []Record{
		{Family: FamilyLocal, Address: []byte("myhost"), Display: "0", AuthMethod: []byte("MIT-MAGIC-COOKIE-1"), AuthData: []byte{9, 9, 9}},
	})
	origRaw, err := os.ReadFile(path)
	require.NoError(t, err)

	restore, rec, err := InstallProxyCookie(path, "myhost", "0", "9")
	require.NoError(t, err)
	require.Equal(t, "9", rec.Display)

	newRaw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := ReadAll(newRaw)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "0", records[0].Display)
	require.Equal(t, "9", records[1].Display)
	require.Equal(t, []byte{9, 9, 9}, records[1].AuthData)

	require.NoError(t, restore())
	restoredRaw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, origRaw, restoredRaw)
}

func TestEncodeDecodeSingleRecord(t *testing.T) {
	r := Record{Family: FamilyInternet6, Address: []byte("::1"), Display: "2", AuthMethod: []byte("m"), AuthData: []byte("d")}
	encoded := r.Encode()
	got, err := ReadAll(encoded)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, r, got[0])
}
