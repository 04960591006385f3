package config

// Profilefile represents the structure of the kiln.yaml profile.
type Profilefile struct {
	Settings     map[string]string            `yaml:"settings"`
	Options      map[string]map[string]string `yaml:"options"`
	Dependencies map[string]string            `yaml:"dependencies"`
	Generator    string                       `yaml:"generator"`
	Jobs         int                          `yaml:"jobs"`
}
