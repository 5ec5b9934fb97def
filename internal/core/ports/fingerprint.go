package ports

import "go.trai.ch/texbox/internal/core/domain"

// Fingerprinter computes the hashes used to decide whether a document needs rebuilding.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprint.go -destination=mocks/mock_fingerprint.go -package=mocks
type Fingerprinter interface {
	// Fingerprint hashes the inputs, the template dictionary and the compiler settings.
	Fingerprint(inputs *domain.InputSet, vars domain.Vars, settings domain.CompilerSettings, entry string) string

	// FileHash hashes the content of a file on disk.
	FileHash(path string) (string, error)
}
