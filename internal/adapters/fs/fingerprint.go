package fs

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter hashes everything that influences a compiled artifact.
type Fingerprinter struct{}

// NewFingerprinter creates a new Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// FileHash computes the XXHash of a file's content.
func (f *Fingerprinter) FileHash(path string) (string, error) {
	file, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer file.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// Fingerprint computes a single hash over the entry file, the compiler
// settings, the template dictionary and every input.
func (f *Fingerprinter) Fingerprint(
	inputs *domain.InputSet,
	vars domain.Vars,
	settings domain.CompilerSettings,
	entry string,
) string {
	hasher := xxhash.New()

	writeField(hasher, entry)
	f.hashSettings(settings, hasher)
	hashMap(hasher, vars)

	for _, in := range inputs.Entries() {
		writeField(hasher, in.Path)
		_ = binary.Write(hasher, binary.LittleEndian, xxhash.Sum64(in.Content))
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// hashSettings hashes the command line, output extension, environment and flags.
func (f *Fingerprinter) hashSettings(settings domain.CompilerSettings, hasher *xxhash.Digest) {
	writeField(hasher, settings.Command.Name)
	for _, arg := range settings.Command.Args {
		writeField(hasher, arg)
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	writeField(hasher, settings.OutputExt)
	hashMap(hasher, settings.Environment)
	_ = binary.Write(hasher, binary.LittleEndian, settings.StrictEncoding)
}

// hashMap hashes key/value pairs in a deterministic order.
func hashMap[M ~map[string]string](hasher *xxhash.Digest, m M) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		writeField(hasher, m[k])
	}
	_, _ = hasher.Write([]byte{0})
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0})
}
