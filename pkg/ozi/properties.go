package ozi

import (
	"fmt"
	"regexp"
	"strings"
)

// Header defaults for waypoint files.
const (
	DefaultDatum   = "WGS 84"
	DefaultVersion = "1.1"
)

const reservedMarker = "Reserved 2"

var versionLine = regexp.MustCompile(`^OziExplorer Waypoint File Version (\S+)$`)

// FileProperties is the header information of a waypoint file. The zero value
// is not useful; construct one with NewFileProperties or
// DefaultFileProperties.
type FileProperties struct {
	datum   string
	version string
}

// NewFileProperties returns properties with the given datum and version.
func NewFileProperties(datum, version string) FileProperties {
	return FileProperties{datum: datum, version: version}
}

// DefaultFileProperties returns WGS 84 / version 1.1.
func DefaultFileProperties() FileProperties {
	return NewFileProperties(DefaultDatum, DefaultVersion)
}

// Datum returns the geodetic datum label.
func (p FileProperties) Datum() string {
	return p.datum
}

// Version returns the file format version.
func (p FileProperties) Version() string {
	return p.version
}

// Header returns the three header lines written at the top of a waypoint
// file, each terminated by a newline.
func (p FileProperties) Header() string {
	return fmt.Sprintf("OziExplorer Waypoint File Version %s\n%s\n%s\n", p.version, p.datum, reservedMarker)
}

// ParseFileProperties parses the header text of a waypoint file. The fourth
// (device) line is optional and ignored.
func ParseFileProperties(header string) (FileProperties, error) {
	lines := strings.Split(strings.TrimRight(header, "\r\n"), "\n")
	if len(lines) < 3 {
		return FileProperties{}, &FormatError{Reason: fmt.Sprintf("header has %d lines, expected at least 3", len(lines))}
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return parseHeaderLines(lines[0], lines[1])
}

func parseHeaderLines(first, second string) (FileProperties, error) {
	m := versionLine.FindStringSubmatch(strings.TrimSpace(first))
	if m == nil {
		return FileProperties{}, &FormatError{Line: 1, Reason: fmt.Sprintf("%q is not a waypoint file header", first)}
	}
	return NewFileProperties(strings.TrimSpace(second), m[1]), nil
}
