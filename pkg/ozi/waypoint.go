package ozi

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// AltitudeUnset is the altitude OziExplorer writes when a waypoint has no
// altitude.
const AltitudeUnset = -777

// Defaults applied by NewWaypoint.
const (
	DefaultNumber        = -1
	DefaultDisplayFormat = NameWithDot
	DefaultBgColor       = Color(65535)
	DefaultFontSize      = 6
	DefaultSymbolSize    = 17
)

// Waypoint is a named point with its OziExplorer display attributes.
// Use NewWaypoint to get a value with the format defaults applied.
type Waypoint struct {
	Number           int           `mapstructure:"number"`
	Name             string        `mapstructure:"name"`
	Latitude         float64       `mapstructure:"latitude"`
	Longitude        float64       `mapstructure:"longitude"`
	Date             *float64      `mapstructure:"date"` // serial days, nil when unset
	Symbol           int           `mapstructure:"symbol"`
	DisplayFormat    DisplayFormat `mapstructure:"display_format"`
	FgColor          Color         `mapstructure:"fg_color"`
	BgColor          Color         `mapstructure:"bg_color"`
	Description      string        `mapstructure:"description"`
	PointerDirection int           `mapstructure:"pointer_direction"`
	Altitude         int           `mapstructure:"altitude"` // feet
	FontSize         int           `mapstructure:"font_size"`
	FontStyle        int           `mapstructure:"font_style"`
	SymbolSize       int           `mapstructure:"symbol_size"`
}

// NewWaypoint returns a waypoint with every attribute at its default.
func NewWaypoint() *Waypoint {
	return &Waypoint{
		Number:        DefaultNumber,
		DisplayFormat: DefaultDisplayFormat,
		BgColor:       DefaultBgColor,
		Altitude:      AltitudeUnset,
		FontSize:      DefaultFontSize,
		SymbolSize:    DefaultSymbolSize,
	}
}

// Validate checks that wp can be serialized.
func (wp *Waypoint) Validate() error {
	if wp.Name == "" {
		return &ValidationError{Field: "name", Reason: "must be set"}
	}
	return nil
}

// SetDisplayFormatName sets the display format from its symbolic name.
func (wp *Waypoint) SetDisplayFormatName(name string) error {
	f, err := ParseDisplayFormat(name)
	if err != nil {
		return &ValidationError{Field: "display_format", Reason: err.Error()}
	}
	wp.DisplayFormat = f
	return nil
}

// SetFgColor resolves a color descriptor and stores it as the foreground.
func (wp *Waypoint) SetFgColor(desc string) error {
	c, err := ResolveColor(desc)
	if err != nil {
		return &ValidationError{Field: "fg_color", Reason: err.Error()}
	}
	wp.FgColor = c
	return nil
}

// SetBgColor resolves a color descriptor and stores it as the background.
func (wp *Waypoint) SetBgColor(desc string) error {
	c, err := ResolveColor(desc)
	if err != nil {
		return &ValidationError{Field: "bg_color", Reason: err.Error()}
	}
	wp.BgColor = c
	return nil
}

// SetTime stores t as the waypoint date.
func (wp *Waypoint) SetTime(t time.Time) {
	d := DaysFromTime(t)
	wp.Date = &d
}

// Time returns the waypoint date, if one is set.
func (wp *Waypoint) Time() (time.Time, bool) {
	if wp.Date == nil {
		return time.Time{}, false
	}
	return TimeFromDays(*wp.Date), true
}

var (
	colorType         = reflect.TypeOf(Color(0))
	displayFormatType = reflect.TypeOf(DisplayFormat(0))
)

// attributeHook lets attribute maps use symbolic names for colors and
// display formats.
func attributeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case colorType:
		if s, ok := data.(string); ok {
			return ResolveColor(s)
		}
	case displayFormatType:
		if s, ok := data.(string); ok {
			return ParseDisplayFormat(s)
		}
		v := reflect.ValueOf(data)
		switch {
		case v.CanInt():
			return DisplayFormatFromRaw(int(v.Int()))
		case v.CanFloat():
			return DisplayFormatFromRaw(int(v.Float()))
		}
	}
	return data, nil
}

// DecodeWaypoint builds a waypoint from an attribute map keyed by the
// snake_case attribute names (name, latitude, display_format, ...). Attributes
// that are not present keep their defaults; an unknown attribute is a
// ValidationError.
func DecodeWaypoint(attrs map[string]any) (*Waypoint, error) {
	wp := NewWaypoint()

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.DecodeHookFuncType(attributeHook),
		ErrorUnused: true,
		Result:      wp,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating attribute decoder: %w", err)
	}

	if err := dec.Decode(attrs); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return wp, nil
}
