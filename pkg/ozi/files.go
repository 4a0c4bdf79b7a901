package ozi

import (
	"fmt"
	"io"

	"github.com/ozikit/ozi/internal/legacytext"
)

// WriteWaypoints writes a complete waypoint file to w.
func WriteWaypoints(w io.Writer, wps []*Waypoint, props FileProperties) error {
	return NewWaypointWriter(w, props).Write(wps)
}

// WriteWaypointsFile creates path in the legacy text encoding and writes a
// waypoint file to it. Nothing is created when a waypoint is invalid.
func WriteWaypointsFile(path string, wps []*Waypoint, props FileProperties) error {
	if err := ValidateWaypoints(wps); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return withFile(path, func(w io.Writer) error {
		return WriteWaypoints(w, wps, props)
	})
}

// ReadWaypoints reads the header and every waypoint from r.
func ReadWaypoints(r io.Reader) (FileProperties, []*Waypoint, error) {
	wr := NewWaypointReader(r)

	props, err := wr.ReadProperties()
	if err != nil {
		return FileProperties{}, nil, err
	}

	var wps []*Waypoint
	for wp, err := range wr.Waypoints() {
		if err != nil {
			return props, nil, err
		}
		wps = append(wps, wp)
	}
	return props, wps, nil
}

// ReadWaypointsFile reads a waypoint file stored in the legacy text encoding.
func ReadWaypointsFile(path string) (FileProperties, []*Waypoint, error) {
	f, err := legacytext.Open(path)
	if err != nil {
		return FileProperties{}, nil, err
	}
	defer f.Close()

	props, wps, err := ReadWaypoints(f)
	if err != nil {
		return FileProperties{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return props, wps, nil
}

// WriteTrack writes a track file to w.
func WriteTrack(w io.Writer, t *Track) error {
	return NewTrackWriter(w).Write(t)
}

// WriteTrackFile creates path in the legacy text encoding and writes t to it.
func WriteTrackFile(path string, t *Track) error {
	return withFile(path, func(w io.Writer) error {
		return WriteTrack(w, t)
	})
}

// WriteNameSearchText writes a name search file to w.
func WriteNameSearchText(w io.Writer, nst *NameSearchText) error {
	return NewNameSearchTextWriter(w).Write(nst)
}

// WriteNameSearchTextFile creates path in the legacy text encoding and writes
// nst to it.
func WriteNameSearchTextFile(path string, nst *NameSearchText) error {
	return withFile(path, func(w io.Writer) error {
		return WriteNameSearchText(w, nst)
	})
}

// withFile runs fn against a newly created legacy text file and closes it on
// every path. A close error is reported only when fn succeeded.
func withFile(path string, fn func(w io.Writer) error) (err error) {
	f, err := legacytext.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(f)
}
