// Package config provides the profile loader for kiln.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ProfileLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ProfileLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the profile at path. An empty path selects kiln.yaml in the working
// directory, which may be absent.
func (l *Loader) Load(path string) (*domain.Profile, error) {
	optional := path == ""
	if optional {
		path = domain.ProfileFileName
	}

	var file Profilefile
	if err := readAndUnmarshalYAML(path, &file); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return &domain.Profile{}, nil
		}
		return nil, zerr.With(err, "path", path)
	}

	if file.Jobs < 0 {
		err := zerr.Wrap(domain.ErrConfigParseFailed, "jobs must not be negative")
		return nil, zerr.With(zerr.With(err, "path", path), "jobs", file.Jobs)
	}

	for name, version := range file.Dependencies {
		if strings.TrimSpace(version) == "" {
			err := zerr.Wrap(domain.ErrConfigParseFailed, "dependency has no version")
			return nil, zerr.With(zerr.With(err, "path", path), "dependency", name)
		}
	}

	l.Logger.Info("using profile " + path)

	return &domain.Profile{
		Settings:     file.Settings,
		Options:      file.Options,
		Dependencies: file.Dependencies,
		Generator:    file.Generator,
		Jobs:         file.Jobs,
	}, nil
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- path is supplied by the user on the command line
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(configFile))
	dec.KnownFields(true)
	if parseErr := dec.Decode(target); parseErr != nil && !errors.Is(parseErr, io.EOF) {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
