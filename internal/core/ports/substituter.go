package ports

import "go.trai.ch/texbox/internal/core/domain"

// Substituter replaces placeholders in a buffer with dictionary values.
//
//go:generate go run go.uber.org/mock/mockgen -source=substituter.go -destination=mocks/mock_substituter.go -package=mocks
type Substituter interface {
	Substitute(content []byte, vars domain.Vars) ([]byte, error)
}
