// Package cmake drives the CMake build generator through the process executor.
package cmake

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Generator = (*Generator)(nil)

// Binary is the CMake executable name.
const Binary = "cmake"

// multiConfigPrefixes are the generator names that select the build type at build time.
var multiConfigPrefixes = []string{"Visual Studio", "Xcode", "Ninja Multi-Config"}

// IsMultiConfig reports whether generator picks the configuration at build time.
func IsMultiConfig(generator string) bool {
	for _, prefix := range multiConfigPrefixes {
		if strings.HasPrefix(generator, prefix) {
			return true
		}
	}
	return false
}

// Generator implements ports.Generator for CMake.
type Generator struct {
	executor ports.Executor
}

// NewGenerator creates a new Generator.
func NewGenerator(executor ports.Executor) *Generator {
	return &Generator{executor: executor}
}

// ConfigureArgs returns the command line of the configure step.
func ConfigureArgs(req domain.GenerateRequest) ([]string, error) {
	defs := req.Definitions
	toolchain := []domain.Definition{domain.StringDef("CMAKE_INSTALL_PREFIX", req.PackageDir)}
	if !IsMultiConfig(req.Generator) {
		toolchain = append(toolchain, domain.StringDef("CMAKE_BUILD_TYPE", string(req.BuildType)))
	}
	for _, def := range toolchain {
		var err error
		if defs, err = defs.WithDefault(def); err != nil {
			return nil, err
		}
	}

	args := []string{Binary, "-S", req.SourceDir, "-B", req.BuildDir}
	if req.Generator != "" {
		args = append(args, "-G", req.Generator)
	}
	return append(args, defs.Args()...), nil
}

// BuildArgs returns the command line of the build step.
func BuildArgs(req domain.GenerateRequest) []string {
	args := []string{Binary, "--build", req.BuildDir, "--config", string(req.BuildType)}
	if req.Target != "" {
		args = append(args, "--target", req.Target)
	}
	if req.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(req.Jobs))
	}
	return args
}

// InstallArgs returns the command line of the install step.
func InstallArgs(req domain.GenerateRequest) []string {
	return []string{Binary, "--install", req.BuildDir, "--config", string(req.BuildType), "--prefix", req.PackageDir}
}

// Configure writes the build info file and generates the build tree.
func (g *Generator) Configure(ctx context.Context, req domain.GenerateRequest) error {
	req, err := absolute(req)
	if err != nil {
		return err
	}
	args, err := ConfigureArgs(req)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigureFailed.Error())
	}
	if err := WriteBuildInfo(req); err != nil {
		return err
	}
	return g.run(ctx, "configure", args, req.BuildDir, domain.ErrConfigureFailed)
}

// Build compiles the configured tree.
func (g *Generator) Build(ctx context.Context, req domain.GenerateRequest) error {
	req, err := absolute(req)
	if err != nil {
		return err
	}
	return g.run(ctx, "build", BuildArgs(req), req.BuildDir, domain.ErrBuildFailed)
}

// Install copies the build outputs into the package folder.
func (g *Generator) Install(ctx context.Context, req domain.GenerateRequest) error {
	req, err := absolute(req)
	if err != nil {
		return err
	}
	return g.run(ctx, "install", InstallArgs(req), req.BuildDir, domain.ErrInstallFailed)
}

// absolute resolves the directories of req against the process working directory.
// cmake runs inside the build folder and would resolve relative paths against it.
func absolute(req domain.GenerateRequest) (domain.GenerateRequest, error) {
	for _, dir := range []*string{&req.SourceDir, &req.BuildDir, &req.PackageDir} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return req, zerr.With(zerr.Wrap(err, domain.ErrWorkspaceFailed.Error()), "path", *dir)
		}
		*dir = abs
	}
	return req, nil
}

func (g *Generator) run(ctx context.Context, step string, args []string, dir string, sentinel error) error {
	err := g.executor.Execute(ctx, domain.Command{
		Label:      "cmake " + step,
		Args:       args,
		WorkingDir: dir,
	}, nil, nil)
	if err == nil {
		return nil
	}

	wrapped := zerr.Wrap(sentinel, "cmake "+step+" failed")
	if code, ok := exitCode(err); ok {
		wrapped = zerr.With(wrapped, "exit_code", code)
	}
	return zerr.With(wrapped, "cause", err.Error())
}

// exitCode extracts the exit code the executor attached to err.
func exitCode(err error) (int, bool) {
	var z *zerr.Error
	if !errors.As(err, &z) {
		return 0, false
	}
	code, ok := z.Metadata()["exit_code"].(int)
	return code, ok
}
