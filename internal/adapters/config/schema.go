package config

// Texboxfile represents the structure of the texbox.yaml configuration file.
type Texboxfile struct {
	Version   string                  `yaml:"version"`
	Compiler  *CompilerDTO            `yaml:"compiler"`
	Vars      map[string]string       `yaml:"vars"`
	Documents map[string]*DocumentDTO `yaml:"documents"`
}

// CompilerDTO represents compiler settings at project or document level.
// Unset fields inherit from the level above.
type CompilerDTO struct {
	Cmd            string            `yaml:"cmd"`
	Args           []string          `yaml:"args"`
	OutputExt      string            `yaml:"output_ext"`
	Terminal       *bool             `yaml:"terminal"`
	StrictEncoding *bool             `yaml:"strict_encoding"`
	Env            map[string]string `yaml:"env"`
}

// DocumentDTO represents a document definition in the configuration.
type DocumentDTO struct {
	Main     string            `yaml:"main"`
	Inputs   []string          `yaml:"inputs"`
	Exclude  []string          `yaml:"exclude"`
	Output   string            `yaml:"output"`
	Vars     map[string]string `yaml:"vars"`
	Compiler *CompilerDTO      `yaml:"compiler"`
}
