package application

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"testing"

	"appbundler/utilities/config"
	"appbundler/utilities/logger"
	"appbundler/utilities/process/processtest"

	"github.com/stretchr/testify/require"
)

// requiredIconVariants lists every file iconutil needs in the iconset.
func requiredIconVariants() []string {
	var names []string
	for _, size := range iconSizes {
		names = append(names, iconVariantName(size, false), iconVariantName(size, true))
	}
	return names
}

// fakeTools installs working dotnet, sips and iconutil simulators.
func fakeTools(published map[string]processtest.File) *processtest.Runner {
	return processtest.New().
		Handle("dotnet", processtest.DotnetPublish(published)).
		Handle("sips", processtest.Sips()).
		Handle("iconutil", processtest.Iconutil(requiredIconVariants()))
}

// testConfig keeps the publish scratch directory inside the test's temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ScratchDir = t.TempDir()
	return cfg
}

// writeProject creates an empty project file named name in a fresh directory.
func writeProject(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("<Project Sdk=\"Microsoft.NET.Sdk\"></Project>\n"), 0644))
	return path
}

// captureLog redirects the logger into a buffer for the rest of the test.
// Tests using it must not run in parallel.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(logger.Reset)
	return &buf
}

// plistValues decodes a flat Info.plist dict into key/value pairs. Booleans
// are reported as "true" or "false". Decoding fails on malformed XML.
func plistValues(t *testing.T, content string) map[string]string {
	t.Helper()

	values := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewBufferString(content))
	decoder.Strict = true

	var key, element string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)

		switch tok := tok.(type) {
		case xml.StartElement:
			element = tok.Name.Local
			if element == "true" || element == "false" {
				values[key] = element
			}
		case xml.CharData:
			switch element {
			case "key":
				key = string(tok)
			case "string":
				values[key] = string(tok)
			}
		case xml.EndElement:
			element = ""
		}
	}
	return values
}

// snapshot maps every path below root to its mode and content.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry := info.Mode().String()
		if info.Mode().IsRegular() {
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			entry += " " + string(content)
		}
		tree[rel] = entry
		return nil
	})
	require.NoError(t, err)
	return tree
}
