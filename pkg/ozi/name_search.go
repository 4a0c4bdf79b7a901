package ozi

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// NameSearchText is an OziExplorer name search file (.nst), used to look up
// places by name on a map.
type NameSearchText struct {
	Comment    string // written as ";" prefixed lines
	UTM        bool
	UTMZone    string
	Hemisphere string // "N" or "S", only written for UTM files
	Datum      string
	Names      []Name
}

// Name is one entry of a name search file.
type Name struct {
	Name        string
	FeatureCode string
	Zone        string
	Latitude    float64
	Longitude   float64
}

// NewNameSearchText returns an empty file using the WGS 84 datum.
func NewNameSearchText() *NameSearchText {
	return &NameSearchText{Datum: DefaultDatum}
}

// NameSearchTextWriter writes name search files. Unlike waypoint files the
// format has no substitute for commas, so text containing one is rejected.
type NameSearchTextWriter struct {
	w io.Writer
}

// NewNameSearchTextWriter returns a writer for w.
func NewNameSearchTextWriter(w io.Writer) *NameSearchTextWriter {
	return &NameSearchTextWriter{w: w}
}

// Write writes nst. Nothing is written if any name is invalid.
func (nw *NameSearchTextWriter) Write(nst *NameSearchText) error {
	var b strings.Builder

	if nst.Comment != "" {
		for _, line := range strings.Split(strings.TrimRight(nst.Comment, "\n"), "\n") {
			fmt.Fprintf(&b, ";%s\n", strings.TrimRight(line, "\r"))
		}
	}

	b.WriteString("#1,")
	if nst.UTM {
		fmt.Fprintf(&b, "UTM,%s", nst.UTMZone)
		if nst.Hemisphere != "" {
			fmt.Fprintf(&b, ",%s", nst.Hemisphere)
		}
	} else {
		b.WriteString(",")
	}
	b.WriteString("\n")

	datum := nst.Datum
	if datum == "" {
		datum = DefaultDatum
	}
	fmt.Fprintf(&b, "#2,%s\n", datum)

	for i, n := range nst.Names {
		line, err := formatName(n)
		if err != nil {
			return fmt.Errorf("name %d: %w", i, err)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if _, err := io.WriteString(nw.w, b.String()); err != nil {
		return fmt.Errorf("error writing name search text: %w", err)
	}
	return nil
}

func formatName(n Name) (string, error) {
	if n.Name == "" {
		return "", &ValidationError{Field: "name", Reason: "must be set"}
	}
	if strings.ContainsRune(n.Name, ',') {
		return "", &ForbiddenCharacterError{Field: "name", Value: n.Name, Char: ','}
	}
	if strings.ContainsRune(n.FeatureCode, ',') {
		return "", &ForbiddenCharacterError{Field: "feature code", Value: n.FeatureCode, Char: ','}
	}

	return strings.Join([]string{
		n.Name,
		n.FeatureCode,
		n.Zone,
		strconv.FormatFloat(n.Latitude, 'f', -1, 64),
		strconv.FormatFloat(n.Longitude, 'f', -1, 64),
	}, ","), nil
}
