// Package application: This file provides the icon used when no usable icon
// was supplied.
package application

import (
	"context"
	_ "embed"
	"fmt"
	"os"
)

// defaultIconPNG is a 1x1 PNG that sips scales up to every iconset size.
//
//go:embed assets/default_icon.png
var defaultIconPNG []byte

// CompileDefault writes the embedded placeholder image to a temporary file and
// compiles it into dst. The temporary file is always removed.
func (c *IconCompiler) CompileDefault(ctx context.Context, dst string) error {
	tmp, err := os.CreateTemp("", "appbundler-default-icon-*.png")
	if err != nil {
		return fmt.Errorf("failed to create default icon source: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(defaultIconPNG); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write default icon source: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write default icon source: %w", err)
	}

	return c.Compile(ctx, tmp.Name(), dst)
}
