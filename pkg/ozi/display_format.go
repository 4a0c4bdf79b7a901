package ozi

import "fmt"

// DisplayFormat controls how OziExplorer labels a waypoint on the map.
type DisplayFormat int

const (
	NumberOnly DisplayFormat = iota
	NameOnly
	NumberAndName
	NameWithDot
	NameWithSymbol
	SymbolOnly
	CommentWithSymbol
	ManOverboard
	Marker
)

var displayFormatNames = [...]string{
	NumberOnly:        "number_only",
	NameOnly:          "name_only",
	NumberAndName:     "number_and_name",
	NameWithDot:       "name_with_dot",
	NameWithSymbol:    "name_with_symbol",
	SymbolOnly:        "symbol_only",
	CommentWithSymbol: "comment_with_symbol",
	ManOverboard:      "man_overboard",
	Marker:            "marker",
}

// String returns the symbolic name of f.
func (f DisplayFormat) String() string {
	if f < 0 || int(f) >= len(displayFormatNames) {
		return fmt.Sprintf("DisplayFormat(%d)", int(f))
	}
	return displayFormatNames[f]
}

// Raw returns the integer stored in files.
func (f DisplayFormat) Raw() int {
	return int(f)
}

// DisplayFormatFromRaw validates a raw display format integer.
func DisplayFormatFromRaw(n int) (DisplayFormat, error) {
	if n < 0 || n >= len(displayFormatNames) {
		return 0, fmt.Errorf("display format %d out of range", n)
	}
	return DisplayFormat(n), nil
}

// ParseDisplayFormat resolves a symbolic display format name.
func ParseDisplayFormat(name string) (DisplayFormat, error) {
	for i, n := range displayFormatNames {
		if n == name {
			return DisplayFormat(i), nil
		}
	}
	return 0, fmt.Errorf("unknown display format %q", name)
}
