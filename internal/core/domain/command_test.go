package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/texbox/internal/core/domain"
)

func TestCommandSpec_Default(t *testing.T) {
	t.Parallel()

	cmd := domain.DefaultCommand()
	assert.Equal(t, []string{"pdflatex", "-interaction=nonstopmode", "main.tex"}, cmd.Argv("main.tex"))
	assert.False(t, cmd.IsZero())
	assert.True(t, domain.CommandSpec{}.IsZero())
}

func TestCommandSpec_CopyOnWrite(t *testing.T) {
	t.Parallel()

	base := domain.DefaultCommand()
	xelatex := base.WithCmd("xelatex")
	extra := base.AddArg("-halt-on-error")
	replaced := extra.WithArgs("-draftmode")

	assert.Equal(t, []string{"pdflatex", "-interaction=nonstopmode", "doc.tex"}, base.Argv("doc.tex"))
	assert.Equal(t, []string{"xelatex", "-interaction=nonstopmode", "doc.tex"}, xelatex.Argv("doc.tex"))
	assert.Equal(t, []string{"pdflatex", "-interaction=nonstopmode", "-halt-on-error", "doc.tex"}, extra.Argv("doc.tex"))
	assert.Equal(t, []string{"pdflatex", "-draftmode", "doc.tex"}, replaced.Argv("doc.tex"))

	// Appending to a derived spec must not leak into siblings sharing a backing array.
	a := extra.AddArg("-a")
	b := extra.AddArg("-b")
	assert.Equal(t, "-a", a.Args[len(a.Args)-1])
	assert.Equal(t, "-b", b.Args[len(b.Args)-1])
}

func TestCommandSpec_WithArgs_Empty(t *testing.T) {
	t.Parallel()

	cmd := domain.DefaultCommand().WithArgs()
	assert.Equal(t, []string{"pdflatex", "main.tex"}, cmd.Argv("main.tex"))
}
