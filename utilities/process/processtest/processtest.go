// Package processtest provides a fake process.Runner that simulates the
// external tools on the filesystem, so the pipeline can be tested anywhere.
package processtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"appbundler/utilities/process"
)

// Call records one invocation.
type Call struct {
	Program string
	Args    []string
}

// Handler simulates a program.
type Handler func(args []string) (process.Result, error)

// Runner is a process.Runner dispatching to per-program handlers.
type Runner struct {
	mu       sync.Mutex
	calls    []Call
	handlers map[string]Handler
}

// New creates a runner with no programs installed.
func New() *Runner {
	return &Runner{handlers: make(map[string]Handler)}
}

// Handle installs h as program.
func (r *Runner) Handle(program string, h Handler) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[program] = h
	return r
}

// Run records the call and dispatches it. Unknown programs fail like a missing binary.
func (r *Runner) Run(_ context.Context, program string, args ...string) (process.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Program: program, Args: append([]string(nil), args...)})
	h, ok := r.handlers[program]
	r.mu.Unlock()

	if !ok {
		return process.Result{ExitCode: -1}, fmt.Errorf("program %q not found in PATH", program)
	}
	return h(args)
}

// Calls returns every recorded call in order.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsTo returns the recorded calls of one program.
func (r *Runner) CallsTo(program string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Program == program {
			out = append(out, c)
		}
	}
	return out
}

// ArgAfter returns the argument following flag, or "".
func ArgAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

// File is a file produced by the fake dotnet publish.
type File struct {
	Content string
	Mode    os.FileMode
}

// DotnetPublish writes files into the directory given with -o.
func DotnetPublish(files map[string]File) Handler {
	return func(args []string) (process.Result, error) {
		out := ArgAfter(args, "-o")
		if out == "" {
			return Exit("dotnet", 1, "", "no output directory")
		}
		for name, f := range files {
			path := filepath.Join(out, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return process.Result{}, err
			}
			if err := os.WriteFile(path, []byte(f.Content), f.Mode); err != nil {
				return process.Result{}, err
			}
			if err := os.Chmod(path, f.Mode); err != nil {
				return process.Result{}, err
			}
		}
		return process.Result{Stdout: "Build succeeded.\n"}, nil
	}
}

// Sips writes "<pixels>px" to the --out path of a "-z h w src --out dst" call.
func Sips() Handler {
	return func(args []string) (process.Result, error) {
		out := ArgAfter(args, "--out")
		px := ArgAfter(args, "-z")
		if out == "" || px == "" {
			return Exit("sips", 1, "", "usage: sips -z h w src --out dst")
		}
		if err := os.WriteFile(out, []byte(px+"px"), 0644); err != nil {
			return Exit("sips", 1, "", err.Error())
		}
		return process.Result{}, nil
	}
}

// Iconutil packs the iconset named in "-c icns <iconset> -o <dst>" into dst,
// one line per variant, after checking the iconset is complete.
func Iconutil(required []string) Handler {
	return func(args []string) (process.Result, error) {
		dst := ArgAfter(args, "-o")
		iconset := ArgAfter(args, "icns")
		if dst == "" || iconset == "" {
			return Exit("iconutil", 1, "", "usage: iconutil -c icns <iconset> -o <file>")
		}

		for _, name := range required {
			if _, err := os.Stat(filepath.Join(iconset, name)); err != nil {
				return Exit("iconutil", 1, "", iconset+": Failed to generate ICNS.")
			}
		}

		entries, err := os.ReadDir(iconset)
		if err != nil {
			return Exit("iconutil", 1, "", err.Error())
		}
		var lines []string
		for _, e := range entries {
			content, err := os.ReadFile(filepath.Join(iconset, e.Name()))
			if err != nil {
				return Exit("iconutil", 1, "", err.Error())
			}
			lines = append(lines, e.Name()+"="+string(content))
		}
		sort.Strings(lines)

		if err := os.WriteFile(dst, []byte("icns\n"+strings.Join(lines, "\n")+"\n"), 0644); err != nil {
			return Exit("iconutil", 1, "", err.Error())
		}
		return process.Result{}, nil
	}
}

// Fail always exits with code and writes stderr.
func Fail(program string, code int, stderr string) Handler {
	return func([]string) (process.Result, error) {
		return Exit(program, code, "", stderr)
	}
}

// Exit builds the result and error of a program exiting with code.
func Exit(program string, code int, stdout, stderr string) (process.Result, error) {
	res := process.Result{Stdout: stdout, Stderr: stderr, ExitCode: code}
	return res, &process.ExitError{Program: program, Result: res}
}
