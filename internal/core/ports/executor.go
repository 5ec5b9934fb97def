// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/texbox/internal/core/domain"
)

// Executor defines the interface for running external processes.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the invocation and waits for it to exit.
	//
	// A process that cannot be started yields an error wrapping domain.ErrProcessInvocation.
	// A process that exits non-zero yields an error wrapping domain.ErrCommandFailed
	// carrying the "exit_code" metadata.
	Execute(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error
}
