package application

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"appbundler/utilities/process"
	"appbundler/utilities/process/processtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iconsetOf(t *testing.T, runner *processtest.Runner) string {
	t.Helper()
	calls := runner.CallsTo("iconutil")
	require.Len(t, calls, 1)
	iconset := processtest.ArgAfter(calls[0].Args, "icns")
	require.NotEmpty(t, iconset)
	return iconset
}

func TestCompileProducesIconset(t *testing.T) {
	t.Parallel()

	runner := fakeTools(nil)
	src := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	require.NoError(t, NewIconCompiler(runner, "sips", "iconutil").Compile(context.Background(), src, dst))

	iconset := iconsetOf(t, runner)
	assert.Equal(t, "AppIcon.iconset", filepath.Base(iconset))

	var outputs []string
	var pixels []string
	for _, call := range runner.CallsTo("sips") {
		require.Len(t, call.Args, 6)
		assert.Equal(t, "-z", call.Args[0])
		assert.Equal(t, call.Args[1], call.Args[2])
		assert.Equal(t, src, call.Args[3])
		assert.Equal(t, iconset, filepath.Dir(call.Args[5]))
		pixels = append(pixels, call.Args[1])
		outputs = append(outputs, filepath.Base(call.Args[5]))
	}
	assert.Equal(t, []string{"16", "32", "32", "64", "128", "256", "256", "512", "512", "1024"}, pixels)
	assert.ElementsMatch(t, requiredIconVariants(), outputs)

	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(content), "icon_512x512@2x.png=1024px")

	assert.NoDirExists(t, filepath.Dir(iconset), "scratch directory must be removed")
}

func TestCompileRemovesScratchOnFailure(t *testing.T) {
	t.Parallel()

	runner := processtest.New().
		Handle("sips", processtest.Sips()).
		Handle("iconutil", processtest.Fail("iconutil", 1, "AppIcon.iconset:Failed to generate ICNS."))
	src := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	err := NewIconCompiler(runner, "sips", "iconutil").Compile(context.Background(), src, dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to generate ICNS")

	assert.NoDirExists(t, filepath.Dir(iconsetOf(t, runner)))
	assert.NoFileExists(t, dst)
}

func TestCompileContinuesAfterResizeFailure(t *testing.T) {
	t.Parallel()

	sips := processtest.Sips()
	runner := processtest.New().
		Handle("sips", func(args []string) (process.Result, error) {
			if args[1] == "64" {
				return processtest.Exit("sips", 13, "", "Error: unable to render")
			}
			return sips(args)
		}).
		Handle("iconutil", processtest.Iconutil(nil))
	src := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0644))
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	require.NoError(t, NewIconCompiler(runner, "sips", "iconutil").Compile(context.Background(), src, dst))

	assert.Len(t, runner.CallsTo("sips"), 10)
	content, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "icon_32x32@2x.png")
	assert.Contains(t, string(content), "icon_128x128.png")
}

func TestCompileUsesConfiguredTools(t *testing.T) {
	t.Parallel()

	runner := processtest.New().
		Handle("/opt/sips", processtest.Sips()).
		Handle("/opt/iconutil", processtest.Iconutil(requiredIconVariants()))
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	require.NoError(t, NewIconCompiler(runner, "/opt/sips", "/opt/iconutil").CompileDefault(context.Background(), dst))
	assert.Len(t, runner.CallsTo("/opt/sips"), 10)
	assert.FileExists(t, dst)
}

func TestCompileDefault(t *testing.T) {
	t.Parallel()

	runner := fakeTools(nil)
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	require.NoError(t, NewIconCompiler(runner, "sips", "iconutil").CompileDefault(context.Background(), dst))
	assert.FileExists(t, dst)

	calls := runner.CallsTo("sips")
	require.NotEmpty(t, calls)
	source := calls[0].Args[3]
	for _, call := range calls {
		assert.Equal(t, source, call.Args[3])
	}
	assert.NoFileExists(t, source, "temporary default icon source must be removed")
}

func TestCompileDefaultRemovesSourceOnFailure(t *testing.T) {
	t.Parallel()

	runner := processtest.New().
		Handle("sips", processtest.Sips()).
		Handle("iconutil", processtest.Fail("iconutil", 1, "boom"))
	dst := filepath.Join(t.TempDir(), "AppIcon.icns")

	require.Error(t, NewIconCompiler(runner, "sips", "iconutil").CompileDefault(context.Background(), dst))

	calls := runner.CallsTo("sips")
	require.NotEmpty(t, calls)
	assert.NoFileExists(t, calls[0].Args[3])
}

func TestDefaultIconIsOnePixel(t *testing.T) {
	t.Parallel()

	img, err := png.Decode(bytes.NewReader(defaultIconPNG))
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}
