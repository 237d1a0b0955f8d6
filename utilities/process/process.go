// Package process runs the external tools the bundler depends on ("dotnet",
// "sips", "iconutil") as blocking subprocesses with captured output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"appbundler/utilities/fileManagement"
	"appbundler/utilities/logger"
)

// Result holds the captured streams and exit status of one invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout and stderr joined, which is what gets reported to the user.
func (r Result) Output() string {
	return strings.TrimSpace(strings.TrimSpace(r.Stdout) + "\n" + strings.TrimSpace(r.Stderr))
}

// ExitError is returned when a program ran but exited nonzero.
type ExitError struct {
	Program string
	Result  Result
}

func (e *ExitError) Error() string {
	out := e.Result.Output()
	if out == "" {
		return fmt.Sprintf("%s exited with status %d", e.Program, e.Result.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d\n%s", e.Program, e.Result.ExitCode, out)
}

// Runner executes a program and waits for it to finish.
//
// A nil error means the program exited with status 0. A program that ran and
// failed yields an *ExitError; a program that could not be started yields
// any other error. The Result is populated in both cases where output exists.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (Result, error)
}

// ExecRunner is the Runner backed by os/exec. Programs start in the current
// directory.
type ExecRunner struct{}

// NewExecRunner creates a runner that starts programs in the current directory.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run resolves program in PATH, runs it and captures its output.
func (*ExecRunner) Run(ctx context.Context, program string, args ...string) (Result, error) {
	path, err := fileManagement.FindProgramPath(program)
	if err != nil {
		return Result{ExitCode: -1}, err
	}

	logger.Debug("Running %s %s", path, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, &ExitError{Program: program, Result: result}
	default:
		result.ExitCode = -1
		return result, fmt.Errorf("failed to run %s: %w", program, err)
	}
}
