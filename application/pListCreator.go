// Package application: This file generates the Info.plist file required by macOS.
// Info.plist is an XML property list file that contains metadata about the application,
// such as bundle identifier, version, executable name, icon, and minimum OS version.
package application

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"text/template"

	"appbundler/utilities/config"
)

const (
	// identifierPrefix is prepended to the application name to form CFBundleIdentifier.
	identifierPrefix = "com.example."
	// iconFileName is CFBundleIconFile and the base name of the icon in Resources/.
	iconFileName = "AppIcon"
	// defaultBundleVersion is CFBundleVersion and CFBundleShortVersionString.
	defaultBundleVersion = "1.0"
	// packageType marks the bundle as an application.
	packageType = "APPL"
	// creatorSignature is the unregistered creator code written to PkgInfo.
	creatorSignature = "????"
	// infoDictionaryVersion is the version of the Info.plist format itself.
	infoDictionaryVersion = "6.0"
)

// plistTemplate is the fixed-schema Info.plist. Every string goes through
// the xml function so application names with '&' or '<' stay well-formed.
const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>CFBundleExecutable</key>
    <string>{{xml .ExecutableName}}</string>
    <key>CFBundleIdentifier</key>
    <string>{{xml .BundleIdentifier}}</string>
    <key>CFBundleName</key>
    <string>{{xml .BundleName}}</string>
    <key>CFBundleDisplayName</key>
    <string>{{xml .BundleDisplayName}}</string>
    <key>CFBundlePackageType</key>
    <string>{{xml .PackageType}}</string>
    <key>CFBundleVersion</key>
    <string>{{xml .BundleVersion}}</string>
    <key>CFBundleShortVersionString</key>
    <string>{{xml .ShortVersionString}}</string>
    <key>LSMinimumSystemVersion</key>
    <string>{{xml .MinSystemVersion}}</string>
    <key>CFBundleIconFile</key>
    <string>{{xml .IconFile}}</string>
    <key>CFBundleInfoDictionaryVersion</key>
    <string>{{xml .InfoDictionaryVersion}}</string>
    <key>NSHighResolutionCapable</key>
    <true/>
{{- if .Copyright}}
    <key>NSHumanReadableCopyright</key>
    <string>{{xml .Copyright}}</string>
{{- end}}
</dict>
</plist>
`

var plistTmpl = template.Must(template.New("plist").Funcs(template.FuncMap{
	"xml": escapeXML,
}).Parse(plistTemplate))

// InfoPlistData holds the values inserted into the Info.plist template.
type InfoPlistData struct {
	ExecutableName        string
	BundleIdentifier      string
	BundleName            string
	BundleDisplayName     string
	PackageType           string
	BundleVersion         string
	ShortVersionString    string
	MinSystemVersion      string
	IconFile              string
	InfoDictionaryVersion string
	Copyright             string
}

// BundleIdentifier derives the reverse-DNS identifier from the application
// name: "Cool App" becomes "com.example.Cool-App".
func BundleIdentifier(appName string) string {
	return identifierPrefix + strings.ReplaceAll(appName, " ", "-")
}

// NewInfoPlistData fills the fixed Info.plist schema for an executable and
// application name. Non-empty fields of desc override the defaults.
func NewInfoPlistData(executableName, appName string, desc Description) InfoPlistData {
	data := InfoPlistData{
		ExecutableName:        executableName,
		BundleIdentifier:      BundleIdentifier(appName),
		BundleName:            appName,
		BundleDisplayName:     appName,
		PackageType:           packageType,
		BundleVersion:         defaultBundleVersion,
		ShortVersionString:    defaultBundleVersion,
		MinSystemVersion:      config.DefaultMinimumSystemVersion,
		IconFile:              iconFileName,
		InfoDictionaryVersion: infoDictionaryVersion,
		Copyright:             desc.Copyright,
	}

	if desc.Identifier != "" {
		data.BundleIdentifier = desc.Identifier
	}
	if desc.DisplayName != "" {
		data.BundleDisplayName = desc.DisplayName
	}
	if desc.Version != "" {
		data.BundleVersion = desc.Version
		data.ShortVersionString = desc.Version
	}
	if desc.ShortVersion != "" {
		data.ShortVersionString = desc.ShortVersion
	}
	if desc.MinimumMacOSVersion != "" {
		data.MinSystemVersion = desc.MinimumMacOSVersion
	}

	return data
}

// GenerateInfoPlist renders the Info.plist document.
func GenerateInfoPlist(data InfoPlistData) (string, error) {
	var buf bytes.Buffer
	if err := plistTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render Info.plist: %w", err)
	}
	return buf.String(), nil
}

// CreatePlist writes Info.plist and PkgInfo into the bundle's Contents directory.
func CreatePlist(layout BundleLayout, data InfoPlistData) error {
	content, err := GenerateInfoPlist(data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(layout.InfoPlistPath(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write Info.plist: %w", err)
	}

	return CreatePkgInfo(layout)
}

// CreatePkgInfo generates the PkgInfo file in Contents/ directory.
// It holds the 4-byte package type followed by the 4-byte creator signature.
func CreatePkgInfo(layout BundleLayout) error {
	if err := os.WriteFile(layout.PkgInfoPath(), []byte(packageType+creatorSignature), 0644); err != nil {
		return fmt.Errorf("failed to write PkgInfo: %w", err)
	}
	return nil
}

func escapeXML(s string) (string, error) {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
