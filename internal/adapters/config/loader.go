// Package config provides the texbox.yaml loader.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// SupportedVersion is the only configuration version understood by the loader.
const SupportedVersion = "1"

var validDocumentNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the project configuration.
//
// When path names a file it is read directly. Otherwise texbox.yaml is
// searched in path and then in every parent directory.
func (l *Loader) Load(path string) (*domain.Project, error) {
	configPath, err := findConfiguration(path)
	if err != nil {
		return nil, err
	}

	var file Texboxfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	return l.resolve(configPath, &file)
}

func findConfiguration(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "invalid config path"), "path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "config path does not exist"), "path", path)
	}
	if !info.IsDir() {
		return abs, nil
	}

	currentDir := abs
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no configuration in directory or parents"), "cwd", path)
}

func (l *Loader) resolve(configPath string, file *Texboxfile) (*domain.Project, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown version %q in %s, reading it as version %s",
			file.Version, domain.ConfigFileName, SupportedVersion))
	}

	if len(file.Documents) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrNoDocuments, "invalid configuration"), "config", configPath)
	}

	vars := domain.Vars(file.Vars)
	if err := vars.Validate(); err != nil {
		return nil, zerr.With(err, "config", configPath)
	}

	root := filepath.Dir(configPath)
	base := applyCompiler(defaultSettings(), file.Compiler)

	project := &domain.Project{
		Root:       root,
		ConfigPath: configPath,
		Documents:  make(map[string]*domain.Document, len(file.Documents)),
		Order:      slices.Sorted(maps.Keys(file.Documents)),
	}

	for _, name := range project.Order {
		doc, err := l.buildDocument(root, name, file.Documents[name], vars, base)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid document"), "document", name)
		}
		project.Documents[name] = doc
	}

	return project, nil
}

func (l *Loader) buildDocument(
	root, name string,
	dto *DocumentDTO,
	projectVars domain.Vars,
	base domain.CompilerSettings,
) (*domain.Document, error) {
	if err := validateDocumentName(name); err != nil {
		return nil, err
	}
	if dto == nil || dto.Main == "" {
		return nil, domain.ErrMissingMainFile
	}
	if len(dto.Inputs) == 0 {
		return nil, domain.ErrMissingInputs
	}

	main, err := domain.CleanLogicalPath(dto.Main)
	if err != nil {
		return nil, zerr.Wrap(err, "invalid main file")
	}

	docVars := domain.Vars(dto.Vars)
	if err := docVars.Validate(); err != nil {
		return nil, err
	}

	settings := applyCompiler(base, dto.Compiler)

	inputs := make([]string, len(dto.Inputs))
	for i, in := range dto.Inputs {
		inputs[i] = resolvePath(root, in)
	}

	output := dto.Output
	if output == "" {
		output = domain.ArtifactName(main, settings.OutputExt)
	}
	output = resolvePath(root, output)

	for _, in := range inputs {
		if isWithin(in, output) {
			l.Logger.Warn(fmt.Sprintf("output of %s is inside input %s and will be collected on the next build", name, in))
			break
		}
	}

	return &domain.Document{
		Name:     name,
		Main:     main,
		Inputs:   inputs,
		Exclude:  slices.Clone(dto.Exclude),
		Output:   output,
		Vars:     projectVars.Merge(docVars),
		Compiler: settings,
	}, nil
}

func defaultSettings() domain.CompilerSettings {
	return domain.CompilerSettings{
		Command:   domain.DefaultCommand(),
		OutputExt: domain.DefaultOutputExt,
	}
}

// applyCompiler returns base overridden by every field set in dto.
func applyCompiler(base domain.CompilerSettings, dto *CompilerDTO) domain.CompilerSettings {
	if dto == nil {
		return base
	}

	settings := base
	if dto.Cmd != "" {
		settings.Command = settings.Command.WithCmd(dto.Cmd)
	}
	if dto.Args != nil {
		settings.Command = settings.Command.WithArgs(dto.Args...)
	}
	if dto.OutputExt != "" {
		settings.OutputExt = normalizeExt(dto.OutputExt)
	}
	if dto.Terminal != nil {
		settings.Terminal = *dto.Terminal
	}
	if dto.StrictEncoding != nil {
		settings.StrictEncoding = *dto.StrictEncoding
	}
	if len(dto.Env) > 0 {
		env := make(map[string]string, len(base.Environment)+len(dto.Env))
		maps.Copy(env, base.Environment)
		maps.Copy(env, dto.Env)
		settings.Environment = env
	}
	return settings
}

func normalizeExt(ext string) string {
	if strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

// validateDocumentName checks that the name can be used on the command line.
func validateDocumentName(name string) error {
	if !validDocumentNameRegex.MatchString(name) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidDocumentName, "invalid document name"), "document_name", name)
	}
	return nil
}

// resolvePath resolves p relative to root unless it is absolute.
func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(root, p))
}

// isWithin reports whether target equals dir or lies below it.
func isWithin(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	return err == nil && filepath.IsLocal(rel)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is the discovered or user provided config file
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to load configuration"), "path", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigParseFailed, parseErr), "failed to load configuration"), "path", configPath)
	}

	return nil
}
