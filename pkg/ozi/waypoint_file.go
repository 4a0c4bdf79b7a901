package ozi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel replaces commas inside free-text fields so they survive the comma
// delimited record grammar. Ozi has no escape for the sentinel itself.
const Sentinel = 'Ñ'

// recordLine matches a line that starts like a waypoint record ("12,...").
var recordLine = regexp.MustCompile(`^\s*-?\d+\s*,`)

func escapeText(s string) string {
	return strings.ReplaceAll(s, ",", string(Sentinel))
}

func unescapeText(s string) string {
	return strings.ReplaceAll(s, string(Sentinel), ",")
}

// FormatWaypoint serializes wp to a record line without the trailing newline.
func FormatWaypoint(wp *Waypoint) (string, error) {
	if err := wp.Validate(); err != nil {
		return "", err
	}

	date := ""
	if wp.Date != nil {
		date = strconv.FormatFloat(*wp.Date, 'f', -1, 64)
	}

	// Status is always 1; the Garmin display and proximity fields stay empty.
	return fmt.Sprintf("%d,%s,%.6f,%.6f,%s,%d,1,%d,%d,%d,%s,%d,,,%d,%d,%d,%d",
		wp.Number,
		escapeText(wp.Name),
		wp.Latitude,
		wp.Longitude,
		date,
		wp.Symbol,
		wp.DisplayFormat.Raw(),
		wp.FgColor,
		wp.BgColor,
		escapeText(wp.Description),
		wp.PointerDirection,
		wp.Altitude,
		wp.FontSize,
		wp.FontStyle,
		wp.SymbolSize,
	), nil
}

// recordFields reads positional fields of a record, keeping the first error.
type recordFields struct {
	fields []string
	err    error
}

func (f *recordFields) str(i int) string {
	if i >= len(f.fields) {
		return ""
	}
	return f.fields[i]
}

func (f *recordFields) intField(i int, name string, def int) int {
	s := f.str(i)
	if s == "" || f.err != nil {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f.err = &FormatError{Field: name, Reason: fmt.Sprintf("%q is not an integer", s)}
		return def
	}
	return v
}

func (f *recordFields) floatField(i int, name string, def float64) float64 {
	s := f.str(i)
	if s == "" || f.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsAny(s, "xX") {
		f.err = &FormatError{Field: name, Reason: fmt.Sprintf("%q is not a number", s)}
		return def
	}
	return v
}

// ParseWaypoint parses one record line. Fields beyond symbol size (proximity,
// route and attachment data) are ignored.
func ParseWaypoint(line string) (*Waypoint, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), ",")
	if len(fields) < 4 {
		return nil, &FormatError{Reason: fmt.Sprintf("record has %d fields, expected at least 4", len(fields))}
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	f := &recordFields{fields: fields}
	wp := NewWaypoint()

	wp.Number = f.intField(0, "number", wp.Number)
	wp.Name = unescapeText(f.str(1))
	wp.Latitude = f.floatField(2, "latitude", wp.Latitude)
	wp.Longitude = f.floatField(3, "longitude", wp.Longitude)
	if f.str(4) != "" {
		d := f.floatField(4, "date", 0)
		wp.Date = &d
	}
	wp.Symbol = f.intField(5, "symbol", wp.Symbol)
	// 6: status, always 1
	wp.DisplayFormat = DisplayFormat(f.intField(7, "display_format", wp.DisplayFormat.Raw()))
	wp.FgColor = Color(f.intField(8, "fg_color", int(wp.FgColor)))
	wp.BgColor = Color(f.intField(9, "bg_color", int(wp.BgColor)))
	wp.Description = unescapeText(f.str(10))
	wp.PointerDirection = f.intField(11, "pointer_direction", wp.PointerDirection)
	// 12: Garmin display format, 13: proximity distance
	wp.Altitude = f.intField(14, "altitude", wp.Altitude)
	wp.FontSize = f.intField(15, "font_size", wp.FontSize)
	wp.FontStyle = f.intField(16, "font_style", wp.FontStyle)
	wp.SymbolSize = f.intField(17, "symbol_size", wp.SymbolSize)

	if f.err != nil {
		return nil, f.err
	}
	return wp, nil
}

// WaypointWriter writes a waypoint file to a caller-owned stream. The header
// is written once, before the first waypoint. A WaypointWriter must not be
// shared between goroutines.
type WaypointWriter struct {
	w             io.Writer
	props         FileProperties
	headerWritten bool
}

// NewWaypointWriter returns a writer using props for the header. The zero
// FileProperties selects the defaults.
func NewWaypointWriter(w io.Writer, props FileProperties) *WaypointWriter {
	if props == (FileProperties{}) {
		props = DefaultFileProperties()
	}
	return &WaypointWriter{w: w, props: props}
}

// ValidateWaypoints checks every waypoint of a batch and reports the first
// invalid one by index.
func ValidateWaypoints(wps []*Waypoint) error {
	for i, wp := range wps {
		if wp == nil {
			return fmt.Errorf("waypoint %d: %w", i, &ValidationError{Reason: "is nil"})
		}
		if err := wp.Validate(); err != nil {
			return fmt.Errorf("waypoint %d: %w", i, err)
		}
	}
	return nil
}

// Write writes every waypoint in order. The batch is validated first, so an
// invalid waypoint leaves w untouched.
func (ww *WaypointWriter) Write(wps []*Waypoint) error {
	if err := ValidateWaypoints(wps); err != nil {
		return err
	}
	for i, wp := range wps {
		if err := ww.WriteWaypoint(wp); err != nil {
			return fmt.Errorf("waypoint %d: %w", i, err)
		}
	}
	return nil
}

// WriteWaypoint writes wp as one record line, preceded by the header on the
// first call.
func (ww *WaypointWriter) WriteWaypoint(wp *Waypoint) error {
	line, err := FormatWaypoint(wp)
	if err != nil {
		return err
	}

	if !ww.headerWritten {
		if _, err := io.WriteString(ww.w, ww.props.Header()); err != nil {
			return fmt.Errorf("error writing header: %w", err)
		}
		ww.headerWritten = true
	}

	if _, err := io.WriteString(ww.w, line+"\n"); err != nil {
		return fmt.Errorf("error writing waypoint: %w", err)
	}
	return nil
}

// WaypointReader reads a waypoint file from a caller-owned stream, one line at
// a time. It never seeks.
type WaypointReader struct {
	br         *bufio.Reader
	logger     *slog.Logger
	line       int
	headerRead bool
	pending    *string // record line found where the device line was expected
}

// NewWaypointReader returns a reader positioned at the start of a file.
func NewWaypointReader(r io.Reader) *WaypointReader {
	return &WaypointReader{
		br:     bufio.NewReader(r),
		logger: slog.New(slog.DiscardHandler),
	}
}

// WithLogger sets the logger used to report tolerated header anomalies.
func (r *WaypointReader) WithLogger(logger *slog.Logger) *WaypointReader {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// readLine returns the next line without its line terminator. A final line
// without a newline is returned as a line; io.EOF is returned only when
// nothing is left.
func (r *WaypointReader) readLine() (string, error) {
	if r.pending != nil {
		line := *r.pending
		r.pending = nil
		return line, nil
	}

	line, err := r.br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	r.line++
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *WaypointReader) readHeaderLine() (string, error) {
	line, err := r.readLine()
	if errors.Is(err, io.EOF) {
		return "", &FormatError{Line: r.line + 1, Reason: "truncated header", Err: io.ErrUnexpectedEOF}
	}
	if err != nil {
		return "", fmt.Errorf("error reading header: %w", err)
	}
	return line, nil
}

// ReadProperties reads the header: version line, datum, reserved marker and
// device line. It must be the first read on the stream.
func (r *WaypointReader) ReadProperties() (FileProperties, error) {
	first, err := r.readHeaderLine()
	if err != nil {
		return FileProperties{}, err
	}
	if !versionLine.MatchString(strings.TrimSpace(first)) {
		return FileProperties{}, &FormatError{Line: r.line, Reason: fmt.Sprintf("%q is not a waypoint file header", first)}
	}

	datum, err := r.readHeaderLine()
	if err != nil {
		return FileProperties{}, err
	}

	reserved, err := r.readHeaderLine()
	if err != nil {
		return FileProperties{}, err
	}
	if strings.TrimSpace(reserved) != reservedMarker {
		r.logger.Warn("Unexpected reserved header line", "line", r.line, "value", reserved)
	}

	props, err := parseHeaderLines(first, datum)
	if err != nil {
		return FileProperties{}, err
	}
	r.headerRead = true

	// The device line is optional in files written with a three line header;
	// when the fourth line is already a record, keep it for ReadWaypoint.
	device, err := r.readLine()
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return FileProperties{}, fmt.Errorf("error reading header: %w", err)
	case recordLine.MatchString(device):
		r.pending = &device
	default:
		r.logger.Debug("Skipping device header line", "value", device)
	}

	return props, nil
}

// ReadWaypoint reads the next waypoint. It returns io.EOF, unwrapped, when the
// stream has no more records. The header is read first if that has not been
// done yet. Blank lines are skipped.
func (r *WaypointReader) ReadWaypoint() (*Waypoint, error) {
	if !r.headerRead {
		if _, err := r.ReadProperties(); err != nil {
			return nil, err
		}
	}

	for {
		line, err := r.readLine()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		wp, err := ParseWaypoint(line)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Line = r.line
			}
			return nil, err
		}
		return wp, nil
	}
}

// Waypoints returns a single-pass sequence over the remaining waypoints. The
// sequence ends quietly at end of stream; any other error is yielded once and
// ends it.
func (r *WaypointReader) Waypoints() iter.Seq2[*Waypoint, error] {
	return func(yield func(*Waypoint, error) bool) {
		for {
			wp, err := r.ReadWaypoint()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(wp, nil) {
				return
			}
		}
	}
}
