// Package application: This file reads the optional bundle description file.
// The description overrides Info.plist metadata that otherwise has fixed values:
//
//	version: "2.3.0"
//	short_version: "2.3"
//	identifier: com.acme.foo
//	display_name: Foo Studio
//	copyright: © 2026 Acme
//	minimum_macos_version: "11.0"
package application

import (
	"fmt"
	"os"

	"appbundler/utilities/config"
	"appbundler/utilities/logger"

	"gopkg.in/yaml.v3"
)

// Description holds the optional Info.plist overrides. Empty fields keep the defaults.
type Description struct {
	Version             string `yaml:"version"`               // CFBundleVersion
	ShortVersion        string `yaml:"short_version"`         // CFBundleShortVersionString
	Identifier          string `yaml:"identifier"`            // CFBundleIdentifier
	DisplayName         string `yaml:"display_name"`          // CFBundleDisplayName
	Copyright           string `yaml:"copyright"`             // NSHumanReadableCopyright
	MinimumMacOSVersion string `yaml:"minimum_macos_version"` // LSMinimumSystemVersion
}

// ReadDescription parses a description file. Unknown keys are rejected so a
// typo does not silently fall back to a default, and minimum_macos_version must
// be a version number.
func ReadDescription(path string) (Description, error) {
	var d Description

	file, err := os.Open(path)
	if err != nil {
		return d, fmt.Errorf("failed to open description file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return d, fmt.Errorf("failed to parse description file %s: %w", path, err)
	}
	if d.MinimumMacOSVersion != "" {
		if err := config.ValidateSystemVersion(d.MinimumMacOSVersion); err != nil {
			return d, fmt.Errorf("invalid minimum_macos_version in %s: %w", path, err)
		}
	}

	logger.Debug("Description file %s read", path)
	return d, nil
}
