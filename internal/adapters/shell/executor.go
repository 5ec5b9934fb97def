// Package shell provides the process executor used to run compiler passes.
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
	"time"

	"github.com/creack/pty"
	"go.trai.ch/texbox/internal/core/domain"
	"go.trai.ch/texbox/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

const waitDelay = 2 * time.Second

// Executor implements ports.Executor using os/exec, optionally behind a PTY.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor. Stdout lines are also sent to logger at
// debug level, stderr lines as errors.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs the invocation and waits for it to complete.
//
// The process inherits the system environment overridden by
// inv.Environment. With inv.Terminal set the
// process runs attached to a PTY and stderr is merged into stdout.
func (e *Executor) Execute(ctx context.Context, inv *domain.Invocation, stdout, stderr io.Writer) error {
	if len(inv.Command) == 0 {
		return domain.ErrEmptyCommand
	}
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	stdoutLog := &logWriter{logger: e.logger, level: "debug"}
	stderrLog := &logWriter{logger: e.logger, level: "error"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	cmd := e.command(ctx, inv)

	wait, err := start(cmd, inv.Terminal, io.MultiWriter(stdoutLog, stdout), io.MultiWriter(stderrLog, stderr))
	if err != nil {
		return zerr.With(
			zerr.Wrap(errors.Join(domain.ErrProcessInvocation, err), "failed to start process"),
			"command", inv.Command[0],
		)
	}

	if err := wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zerr.Wrap(ctxErr, "process interrupted")
		}

		var exitCode int
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrCommandFailed, err), "command failed"), "exit_code", exitCode)
	}

	return nil
}

func (e *Executor) command(ctx context.Context, inv *domain.Invocation) *exec.Cmd {
	name := inv.Command[0]
	args := inv.Command[1:]

	cmdEnv := resolveEnvironment(os.Environ(), inv.Environment)

	// Resolve against the PATH the process will see, not ours.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // user provided command

	// Keep the name as invoked in argv[0].
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	cmd.Dir = inv.WorkingDir
	cmd.Env = cmdEnv
	// Children that outlive the compiler must not keep the output pipes open forever.
	cmd.WaitDelay = waitDelay
	return cmd
}

// start launches cmd and returns a function waiting for both the process and its output.
func start(cmd *exec.Cmd, terminal bool, stdout, stderr io.Writer) (func() error, error) {
	if terminal {
		ptmx, err := pty.Start(cmd)
		switch {
		case err == nil:
			ioDone := make(chan struct{})
			go func() {
				defer close(ioDone)
				// The PTY merges both streams.
				_, _ = io.Copy(stdout, ptmx)
			}()
			return func() error {
				err := cmd.Wait()
				<-ioDone
				_ = ptmx.Close()
				return err
			}, nil
		case !errors.Is(err, pty.ErrUnsupported):
			return nil, err
		}
	}

	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

type logWriter struct {
	logger ports.Logger
	level  string
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
	// PTYs terminate lines with \r\n.
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "debug" {
		w.logger.Debug(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}

// resolveEnvironment overlays the invocation overrides on the inherited
// system environment.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok && k != "" {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
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
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(path); err == nil {
			return path, nil
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
