package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"appbundler/application"
	"appbundler/utilities/logger"
	"appbundler/utilities/process"
	"appbundler/utilities/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRunner() *processtest.Runner {
	var required []string
	for _, size := range []int{16, 32, 128, 256, 512} {
		required = append(required,
			fmt.Sprintf("icon_%dx%d.png", size, size),
			fmt.Sprintf("icon_%dx%d@2x.png", size, size))
	}
	return processtest.New().
		Handle("dotnet", processtest.DotnetPublish(map[string]processtest.File{
			"Foo":     {Content: "macho", Mode: 0755},
			"Foo.dll": {Content: "il", Mode: 0644},
		})).
		Handle("sips", processtest.Sips()).
		Handle("iconutil", processtest.Iconutil(required))
}

// setup isolates config lookup and scratch space, and silences the logger.
func setup(t *testing.T) (project, output string) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPBUNDLER_SCRATCH_DIR", t.TempDir())

	logger.SetOutput(&bytes.Buffer{})
	t.Cleanup(logger.Reset)

	project = filepath.Join(t.TempDir(), "Foo.csproj")
	require.NoError(t, os.WriteFile(project, []byte("<Project/>"), 0644))
	return project, t.TempDir()
}

func execute(runner process.Runner, args ...string) error {
	cmd := newRootCmd(runner)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmdDefaults(t *testing.T) {
	project, output := setup(t)
	runner := fakeRunner()

	require.NoError(t, execute(runner, project, output))

	layout := application.NewBundleLayout(output, "Foo")
	assert.FileExists(t, filepath.Join(layout.MacOS, "Foo"))
	assert.FileExists(t, layout.InfoPlistPath())
	assert.FileExists(t, layout.IconPath())

	calls := runner.CallsTo("dotnet")
	require.Len(t, calls, 1)
	assert.Equal(t, "osx-x64", processtest.ArgAfter(calls[0].Args, "-r"))
}

func TestRootCmdAllArguments(t *testing.T) {
	project, output := setup(t)
	runner := fakeRunner()

	icon := filepath.Join(t.TempDir(), "icon.icns")
	require.NoError(t, os.WriteFile(icon, []byte("icns"), 0644))

	require.NoError(t, execute(runner, project, output, "Cool App", icon, "osx-arm64"))

	layout := application.NewBundleLayout(output, "Cool App")
	content, err := os.ReadFile(layout.InfoPlistPath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "<string>com.example.Cool-App</string>")
	assert.Equal(t, "osx-arm64", processtest.ArgAfter(runner.CallsTo("dotnet")[0].Args, "-r"))
}

func TestRootCmdRuntimeFromConfig(t *testing.T) {
	project, output := setup(t)
	t.Setenv("APPBUNDLER_DEFAULT_RUNTIME", "osx-arm64")
	runner := fakeRunner()

	require.NoError(t, execute(runner, project, output))
	assert.Equal(t, "osx-arm64", processtest.ArgAfter(runner.CallsTo("dotnet")[0].Args, "-r"))
}

func TestRootCmdDescriptionFlag(t *testing.T) {
	project, output := setup(t)

	desc := filepath.Join(t.TempDir(), "appbundle.yaml")
	require.NoError(t, os.WriteFile(desc, []byte("version: \"4.2\"\n"), 0644))

	require.NoError(t, execute(fakeRunner(), "--description", desc, project, output))

	content, err := os.ReadFile(application.NewBundleLayout(output, "Foo").InfoPlistPath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "<string>4.2</string>")
}

func TestRootCmdLogDir(t *testing.T) {
	project, output := setup(t)
	logDir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, execute(fakeRunner(), "--logdir", logDir, project, output))

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	content, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Bundle created")
}

func TestRootCmdPublishFailure(t *testing.T) {
	project, output := setup(t)
	runner := processtest.New().Handle("dotnet", processtest.Fail("dotnet", 1, "error CS1002: ; expected"))

	err := execute(runner, project, output)
	require.Error(t, err)

	var publishErr *application.PublishError
	assert.True(t, errors.As(err, &publishErr))
	assert.NoDirExists(t, application.NewBundleLayout(output, "Foo").Root)
}

func TestRootCmdLogDirRecordsFailure(t *testing.T) {
	project, output := setup(t)
	logDir := filepath.Join(t.TempDir(), "logs")
	runner := processtest.New().Handle("dotnet", processtest.Fail("dotnet", 1, "error CS1002: ; expected"))

	require.Error(t, execute(runner, "--logdir", logDir, project, output))

	entries, err := os.ReadDir(logDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	content, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "dotnet publish failed")
	assert.Contains(t, string(content), "CS1002")
}

func TestRootCmdRunIDNotRepeated(t *testing.T) {
	project, output := setup(t)
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	require.NoError(t, execute(fakeRunner(), project, output))
	buf.Reset()
	require.NoError(t, execute(fakeRunner(), project, output))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, strings.Count(line, "run="), 1, line)
	}
}

func TestRootCmdArgumentCount(t *testing.T) {
	setup(t)

	assert.Error(t, execute(fakeRunner()))
	assert.Error(t, execute(fakeRunner(), "a", "b", "c", "d", "e", "f"))
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, string, ...string) (process.Result, error) {
	panic("runner exploded")
}

func TestRootCmdRecoversPanics(t *testing.T) {
	project, output := setup(t)

	err := execute(panicRunner{}, project, output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runner exploded")
}

func TestArg(t *testing.T) {
	t.Parallel()

	args := []string{"Foo.csproj", "out"}
	assert.Equal(t, "Foo.csproj", arg(args, 0))
	assert.Equal(t, "out", arg(args, 1))
	assert.Equal(t, "", arg(args, 2))
}
