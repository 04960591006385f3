// Package shell provides the process executor used to drive the build generator.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor using os/exec.
type Executor struct {
	logger ports.Logger
}

var _ ports.Executor = (*Executor)(nil)

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the command and waits for it to complete.
//
// When ctx carries a telemetry vertex, process output is streamed to the vertex.
// Otherwise every output line is forwarded to the logger.
func (e *Executor) Execute(ctx context.Context, command domain.Command, stdout, stderr io.Writer) error {
	if len(command.Args) == 0 {
		return nil
	}

	var outSinks, errSinks []io.Writer
	var flush []*logWriter
	if v, ok := ports.VertexFromContext(ctx); ok {
		outSinks = append(outSinks, v.Stdout())
		errSinks = append(errSinks, v.Stderr())
	} else {
		stdoutLog := &logWriter{logger: e.logger}
		stderrLog := &logWriter{logger: e.logger, warn: true}
		outSinks = append(outSinks, stdoutLog)
		errSinks = append(errSinks, stderrLog)
		flush = append(flush, stdoutLog, stderrLog)
	}
	if stdout != nil {
		outSinks = append(outSinks, stdout)
	}
	if stderr != nil {
		errSinks = append(errSinks, stderr)
	}

	name := command.Args[0]
	env := resolveEnvironment(os.Environ(), command.Environment)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, command.Args[1:]...) //nolint:gosec // generator command line
	cmd.Args[0] = name
	cmd.Dir = command.WorkingDir
	cmd.Env = env
	cmd.Stdout = io.MultiWriter(outSinks...)
	cmd.Stderr = io.MultiWriter(errSinks...)

	err := cmd.Run()
	for _, w := range flush {
		_ = w.Close()
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		if command.Label != "" {
			err = zerr.With(err, "command", command.Label)
		}
		return err
	}

	return nil
}

// logWriter forwards complete lines to the logger.
type logWriter struct {
	logger ports.Logger
	warn   bool
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if w.warn {
		w.logger.Warn(msg)
		return
	}
	w.logger.Info(msg)
}

// allowListedEnvVars are the system environment variables inherited by generator
// and compiler processes.
var allowListedEnvVars = map[string]struct{}{
	"HOME":       {},
	"TERM":       {},
	"USER":       {},
	"PATH":       {},
	"TMPDIR":     {},
	"CC":         {},
	"CXX":        {},
	"SYSTEMROOT": {},
	"TEMP":       {},
	"TMP":        {},
}

// resolveEnvironment filters the system environment and applies the command overrides.
// A PATH override is prepended to the inherited PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := filterSystemEnv(sysEnv)

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath, ok := envMap["PATH"]; ok && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			envMap[k] = v
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
