package ozi

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	grorudRecord = "1,Grorud,  59.960742,  10.881999,41977.3865272,  0, 0, 1,         0," +
		"  15441496,DescriptionÑ with comma, 0, 0,    0,    404, 6, 0,15,0,10" +
		".0,2,,,,60\n"
	lillestromRecord = "2,Lillestrøm,  59.956788,  11.051257,41977.3935379,  7, 0, 4,  16777" +
		"215,   5450740,DescriptionÑ with comma, 0, 0,    0,   -777, 6, 0,20," +
		"0,10.0,2,,,,60"
	garminHeader = "OziExplorer Waypoint File Version 1.0\n" +
		"Norsk\n" +
		"Reserved 2\n" +
		"garmin\n"
)

func ptr[T any](v T) *T {
	return &v
}

func TestFormatWaypoint(t *testing.T) {
	tests := []struct {
		name string
		wp   func() *Waypoint
		want string
	}{
		{
			name: "defaults",
			wp: func() *Waypoint {
				wp := NewWaypoint()
				wp.Name = "test"
				return wp
			},
			want: "-1,test,0.000000,0.000000,,0,1,3,0,65535,,0,,,-777,6,0,17",
		},
		{
			name: "symbol",
			wp: func() *Waypoint {
				wp := NewWaypoint()
				wp.Name = "test"
				wp.Symbol = 4
				return wp
			},
			want: "-1,test,0.000000,0.000000,,4,1,3,0,65535,,0,,,-777,6,0,17",
		},
		{
			name: "description with comma",
			wp: func() *Waypoint {
				wp := NewWaypoint()
				wp.Name = "test"
				wp.Description = "æøå, ÆØÅ"
				return wp
			},
			want: "-1,test,0.000000,0.000000,,0,1,3,0,65535,æøåÑ ÆØÅ,0,,,-777,6,0,17",
		},
		{
			name: "all fields",
			wp: func() *Waypoint {
				return &Waypoint{
					Number:           12,
					Name:             "Top, north",
					Latitude:         -33.5,
					Longitude:        151.25,
					Date:             ptr(41977.3865272),
					Symbol:           7,
					DisplayFormat:    NameWithSymbol,
					FgColor:          RGB(255, 255, 255),
					BgColor:          RGB(255, 0, 0),
					Description:      "Summit",
					PointerDirection: -5,
					Altitude:         1200,
					FontSize:         8,
					FontStyle:        1,
					SymbolSize:       20,
				}
			},
			want: "12,TopÑ north,-33.500000,151.250000,41977.3865272,7,1,4,16777215,255,Summit,-5,,,1200,8,1,20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatWaypoint(tt.wp())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatWaypoint_RequiresName(t *testing.T) {
	_, err := FormatWaypoint(NewWaypoint())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
}

func assertGrorud(t *testing.T, wp *Waypoint) {
	t.Helper()
	assert.Equal(t, 1, wp.Number)
	assert.Equal(t, "Grorud", wp.Name)
	assert.Equal(t, 59.960742, wp.Latitude)
	assert.Equal(t, 10.881999, wp.Longitude)
	require.NotNil(t, wp.Date)
	assert.Equal(t, 41977.3865272, *wp.Date)
	assert.Equal(t, 0, wp.Symbol)
	assert.Equal(t, 1, wp.DisplayFormat.Raw())
	assert.Equal(t, Color(0), wp.FgColor)
	assert.Equal(t, Color(15441496), wp.BgColor)
	assert.Equal(t, "Description, with comma", wp.Description)
	assert.Equal(t, 0, wp.PointerDirection)
	assert.Equal(t, 404, wp.Altitude)
	assert.Equal(t, 6, wp.FontSize)
	assert.Equal(t, 0, wp.FontStyle)
	assert.Equal(t, 15, wp.SymbolSize)
}

func TestParseWaypoint(t *testing.T) {
	wp, err := ParseWaypoint(grorudRecord)
	require.NoError(t, err)
	assertGrorud(t, wp)
}

func TestParseWaypoint_Second(t *testing.T) {
	wp, err := ParseWaypoint(lillestromRecord)
	require.NoError(t, err)

	want := &Waypoint{
		Number:           2,
		Name:             "Lillestrøm",
		Latitude:         59.956788,
		Longitude:        11.051257,
		Date:             ptr(41977.3935379),
		Symbol:           7,
		DisplayFormat:    NameWithSymbol,
		FgColor:          16777215,
		BgColor:          5450740,
		Description:      "Description, with comma",
		PointerDirection: 0,
		Altitude:         AltitudeUnset,
		FontSize:         6,
		FontStyle:        0,
		SymbolSize:       20,
	}
	assert.Equal(t, want, wp)
}

func TestParseWaypoint_ShortRecordKeepsDefaults(t *testing.T) {
	wp, err := ParseWaypoint("3,Kjeller,59.97,11.04")
	require.NoError(t, err)

	assert.Equal(t, 3, wp.Number)
	assert.Equal(t, "Kjeller", wp.Name)
	assert.Nil(t, wp.Date)
	assert.Equal(t, DefaultDisplayFormat, wp.DisplayFormat)
	assert.Equal(t, DefaultBgColor, wp.BgColor)
	assert.Equal(t, AltitudeUnset, wp.Altitude)
	assert.Equal(t, DefaultSymbolSize, wp.SymbolSize)
}

func TestParseWaypoint_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"too few fields", "1,name,59.9", ""},
		{"bad number", "x,name,59.9,10.7", "number"},
		{"bad latitude", "1,name,north,10.7", "latitude"},
		{"bad date", "1,name,59.9,10.7,yesterday", "date"},
		{"bad altitude", "1,name,59.9,10.7,,0,1,3,0,65535,,0,,,high", "altitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWaypoint(tt.line)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestDescriptionRoundTrip(t *testing.T) {
	wp := NewWaypoint()
	wp.Name = "Bryggen, Bergen"
	wp.Description = "Wharf, old town, UNESCO"

	line, err := FormatWaypoint(wp)
	require.NoError(t, err)
	assert.Contains(t, line, ",BryggenÑ Bergen,")
	assert.Contains(t, line, ",WharfÑ old townÑ UNESCO,")

	parsed, err := ParseWaypoint(line)
	require.NoError(t, err)
	assert.Equal(t, wp.Description, parsed.Description)
	assert.Equal(t, wp.Name, parsed.Name)
	assert.Equal(t, wp, parsed)
}

func TestSentinelInSourceText(t *testing.T) {
	wp := NewWaypoint()
	wp.Name = "Ñuñoa"

	line, err := FormatWaypoint(wp)
	require.NoError(t, err)
	assert.Contains(t, line, ",Ñuñoa,")

	parsed, err := ParseWaypoint(line)
	require.NoError(t, err)
	assert.Equal(t, ",uñoa", parsed.Name)
}

func TestWaypointWriter_HeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWaypointWriter(&buf, FileProperties{})

	first := NewWaypoint()
	first.Name = "first"
	second := NewWaypoint()
	second.Name = "second"

	require.NoError(t, w.WriteWaypoint(first))
	require.NoError(t, w.WriteWaypoint(second))

	assert.Equal(t,
		"OziExplorer Waypoint File Version 1.1\n"+
			"WGS 84\n"+
			"Reserved 2\n"+
			"-1,first,0.000000,0.000000,,0,1,3,0,65535,,0,,,-777,6,0,17\n"+
			"-1,second,0.000000,0.000000,,0,1,3,0,65535,,0,,,-777,6,0,17\n",
		buf.String())
}

func TestWaypointWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewWaypointWriter(&buf, NewFileProperties("Norsk", "1.2"))

	var wps []*Waypoint
	for _, name := range []string{"foo", "bar", "baz"} {
		wp := NewWaypoint()
		wp.Name = name
		wps = append(wps, wp)
	}
	require.NoError(t, w.Write(wps))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "OziExplorer Waypoint File Version 1.2", lines[0])
	assert.Equal(t, "Norsk", lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "-1,foo,"))
	assert.True(t, strings.HasPrefix(lines[4], "-1,bar,"))
	assert.True(t, strings.HasPrefix(lines[5], "-1,baz,"))
}

func TestWaypointWriter_InvalidWaypointWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	w := NewWaypointWriter(&buf, DefaultFileProperties())

	err := w.WriteWaypoint(NewWaypoint())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, buf.String())

	wp := NewWaypoint()
	wp.Name = "later"
	require.NoError(t, w.WriteWaypoint(wp))
	assert.True(t, strings.HasPrefix(buf.String(), "OziExplorer Waypoint File Version 1.1\n"))
}

func TestWaypointWriter_InvalidBatchWritesNothing(t *testing.T) {
	ok := NewWaypoint()
	ok.Name = "ok"

	tests := []struct {
		name  string
		batch []*Waypoint
		index string
	}{
		{"missing name", []*Waypoint{ok, NewWaypoint(), ok}, "waypoint 1"},
		{"nil waypoint", []*Waypoint{ok, ok, nil}, "waypoint 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := NewWaypointWriter(&buf, DefaultFileProperties()).Write(tt.batch)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.index)
			assert.Empty(t, buf.String(), "neither the header nor earlier records are written")
		})
	}
}

func TestParseWaypoint_RejectsNonFiniteNumbers(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		field string
	}{
		{"nan latitude", "1,Bad,NaN,10.5", "latitude"},
		{"infinite longitude", "1,Bad,59.9,+Inf", "longitude"},
		{"spelled infinity", "1,Bad,-infinity,10.5", "latitude"},
		{"hex float", "1,Bad,0x1p-2,10.5", "latitude"},
		{"nan date", "1,Bad,59.9,10.5,nan", "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWaypoint(tt.line)

			var fe *FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWaypointWriter_PropagatesWriteError(t *testing.T) {
	wp := NewWaypoint()
	wp.Name = "x"

	err := NewWaypointWriter(failingWriter{}, DefaultFileProperties()).WriteWaypoint(wp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestReadProperties(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader))

	props, err := r.ReadProperties()
	require.NoError(t, err)
	assert.Equal(t, "1.0", props.Version())
	assert.Equal(t, "Norsk", props.Datum())
}

func TestReadProperties_BadHeader(t *testing.T) {
	r := NewWaypointReader(strings.NewReader("foo"))

	props, err := r.ReadProperties()

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Line)
	assert.Equal(t, FileProperties{}, props)
}

func TestReadProperties_Truncated(t *testing.T) {
	r := NewWaypointReader(strings.NewReader("OziExplorer Waypoint File Version 1.1\nWGS 84\n"))

	_, err := r.ReadProperties()

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadProperties_CRLF(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(strings.ReplaceAll(garminHeader, "\n", "\r\n")))

	props, err := r.ReadProperties()
	require.NoError(t, err)
	assert.Equal(t, "1.0", props.Version())
	assert.Equal(t, "Norsk", props.Datum())
}

func TestHeaderRoundTrip(t *testing.T) {
	props := NewFileProperties("Norsk", "1.2")

	r := NewWaypointReader(strings.NewReader(props.Header()))
	got, err := r.ReadProperties()
	require.NoError(t, err)
	assert.Equal(t, "1.2", got.Version())
	assert.Equal(t, "Norsk", got.Datum())
}

func TestReadWaypoint(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader + grorudRecord + lillestromRecord))

	// The header is consumed by the first ReadWaypoint.
	wp, err := r.ReadWaypoint()
	require.NoError(t, err)
	assertGrorud(t, wp)

	wp, err = r.ReadWaypoint()
	require.NoError(t, err)
	assert.Equal(t, "Lillestrøm", wp.Name)

	_, err = r.ReadWaypoint()
	assert.Equal(t, io.EOF, err)
}

func TestReadWaypoint_FormatErrorHasLine(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader + grorudRecord + "\n1,bad,x,y\n"))

	_, err := r.ReadWaypoint()
	require.NoError(t, err)

	_, err = r.ReadWaypoint()
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 7, fe.Line)
	assert.Equal(t, "latitude", fe.Field)
}

func TestWaypoints(t *testing.T) {
	input := garminHeader +
		grorudRecord +
		lillestromRecord + "\n" +
		"3,Kjeller,  59.970000,  11.040000,,  0, 0, 3,  0,  65535,, 0, 0,    0,   -777, 6, 0,17\n"

	r := NewWaypointReader(strings.NewReader(input))
	_, err := r.ReadProperties()
	require.NoError(t, err)

	var names []string
	for wp, err := range r.Waypoints() {
		require.NoError(t, err)
		names = append(names, wp.Name)
	}
	assert.Equal(t, []string{"Grorud", "Lillestrøm", "Kjeller"}, names)

	// A consumed sequence stays empty.
	for range r.Waypoints() {
		t.Fatal("sequence is not single-pass")
	}
}

func TestWaypoints_Empty(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader))
	_, err := r.ReadProperties()
	require.NoError(t, err)

	count := 0
	for _, err := range r.Waypoints() {
		require.NoError(t, err)
		count++
	}
	assert.Zero(t, count)
}

func TestWaypoints_YieldsFormatError(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader + grorudRecord + "oops\n" + lillestromRecord))

	var got []*Waypoint
	var errs []error
	for wp, err := range r.Waypoints() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, wp)
	}

	assert.Len(t, got, 1)
	require.Len(t, errs, 1)
	var fe *FormatError
	assert.ErrorAs(t, errs[0], &fe)
}

func TestWaypoints_EarlyBreak(t *testing.T) {
	r := NewWaypointReader(strings.NewReader(garminHeader + grorudRecord + lillestromRecord))

	for wp, err := range r.Waypoints() {
		require.NoError(t, err)
		assert.Equal(t, "Grorud", wp.Name)
		break
	}

	wp, err := r.ReadWaypoint()
	require.NoError(t, err)
	assert.Equal(t, "Lillestrøm", wp.Name)
}

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	w := NewWaypointWriter(&buf, NewFileProperties("Norsk", "1.2"))

	oslo := NewWaypoint()
	oslo.Number = 1
	oslo.Name = "OSLO"
	oslo.Latitude = 59.91273
	oslo.Longitude = 10.74609
	oslo.Date = ptr(42005.5)

	bergen := NewWaypoint()
	bergen.Number = 2
	bergen.Name = "BERGEN"
	bergen.Latitude = 60.39358
	bergen.Longitude = 5.32476
	bergen.Description = "Rain, mostly"

	require.NoError(t, w.Write([]*Waypoint{oslo, bergen}))

	props, wps, err := ReadWaypoints(&buf)
	require.NoError(t, err)
	assert.Equal(t, "1.2", props.Version())
	assert.Equal(t, "Norsk", props.Datum())
	require.Len(t, wps, 2)
	assert.Equal(t, oslo, wps[0])
	assert.Equal(t, bergen, wps[1])
}
