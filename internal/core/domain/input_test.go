package domain_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/texbox/internal/core/domain"
)

func TestInputSet_Add(t *testing.T) {
	t.Parallel()

	set := domain.NewInputSet()
	require.NoError(t, set.Add("main.tex", []byte("a")))
	require.NoError(t, set.Add("assets/logo.png", []byte{0x89, 0x50}))
	require.NoError(t, set.Add("main.tex", []byte("b")))

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"main.tex", "assets/logo.png"}, set.Paths())

	content, ok := set.Get("main.tex")
	require.True(t, ok)
	assert.Equal(t, "b", string(content))
}

func TestInputSet_Add_Normalizes(t *testing.T) {
	t.Parallel()

	set := domain.NewInputSet()
	require.NoError(t, set.Add("./assets//nested/main.tex", []byte("a")))
	require.NoError(t, set.Add("assets/./nested/main.tex", []byte("b")))

	assert.Equal(t, []string{"assets/nested/main.tex"}, set.Paths())
	content, ok := set.Get("assets/nested/main.tex")
	require.True(t, ok)
	assert.Equal(t, "b", string(content))
}

func TestInputSet_Add_Backslashes(t *testing.T) {
	t.Parallel()

	set := domain.NewInputSet()
	require.NoError(t, set.Add(`assets\nested\main.tex`, []byte("x")))

	if runtime.GOOS == "windows" {
		assert.Equal(t, []string{"assets/nested/main.tex"}, set.Paths())
		require.ErrorIs(t, set.Add(`a\..\x.tex`, nil), domain.ErrPathEscape)
		return
	}

	// A backslash is an ordinary file name character on POSIX systems.
	assert.Equal(t, []string{`assets\nested\main.tex`}, set.Paths())
	require.NoError(t, set.Add(`a\..\x.tex`, nil))
	assert.Equal(t, []string{`assets\nested\main.tex`, `a\..\x.tex`}, set.Paths())
}

func TestInputSet_Add_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"empty", "", domain.ErrEmptyPath},
		{"dot", ".", domain.ErrEmptyPath},
		{"absolute", "/etc/passwd", domain.ErrPathEscape},
		{"drive letter", `C:\tmp\x.tex`, domain.ErrPathEscape},
		{"parent", "../x.tex", domain.ErrPathEscape},
		{"nested parent", "a/../../x.tex", domain.ErrPathEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set := domain.NewInputSet()
			err := set.Add(tt.path, []byte("x"))
			require.ErrorIs(t, err, tt.want)
			assert.True(t, set.IsEmpty())
		})
	}
}

func TestInputSet_ZeroAndNil(t *testing.T) {
	t.Parallel()

	var zero domain.InputSet
	require.NoError(t, zero.Add("main.tex", nil))
	assert.Equal(t, 1, zero.Len())

	var nilSet *domain.InputSet
	assert.True(t, nilSet.IsEmpty())
	assert.Nil(t, nilSet.Entries())
	_, ok := nilSet.Get("main.tex")
	assert.False(t, ok)
}

func TestInputSet_Entries_IsCopy(t *testing.T) {
	t.Parallel()

	set := domain.NewInputSet()
	require.NoError(t, set.Add("main.tex", []byte("a")))

	entries := set.Entries()
	entries[0].Path = "changed.tex"

	assert.Equal(t, []string{"main.tex"}, set.Paths())
}
