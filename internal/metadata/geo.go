package metadata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"famedia/internal/domain"
)

// CoordinateDigits is the number of fractional digits kept for coordinates.
// Some viewers mishandle longer values.
const CoordinateDigits = 5

type Decision int

const (
	Apply Decision = iota
	ApplyWithOverrideWarning
	SkipWithExistingWarning
)

func (d Decision) Applies() bool {
	return d == Apply || d == ApplyWithOverrideWarning
}

func (d Decision) String() string {
	switch d {
	case Apply:
		return "apply"
	case ApplyWithOverrideWarning:
		return "apply-override"
	case SkipWithExistingWarning:
		return "skip-existing"
	default:
		return "unknown"
	}
}

// Decide chooses whether to geotag a file. Override only matters when the file
// already carries a position.
func Decide(existingGPS, override bool) Decision {
	switch {
	case !existingGPS:
		return Apply
	case override:
		return ApplyWithOverrideWarning
	default:
		return SkipWithExistingWarning
	}
}

// LocationString is the "city, state, country" label written to location name fields.
func LocationString(req domain.GeotagRequest) string {
	return fmt.Sprintf("%s, %s, %s", req.City, req.State, req.Country)
}

// GeoAssignments returns every geotag assignment for req.
func GeoAssignments(req domain.GeotagRequest) []domain.FieldAssignment {
	lat := FormatCoordinate(req.Latitude)
	lon := FormatCoordinate(req.Longitude)
	triple := fmt.Sprintf("%s, %s, 0", lat, lon)
	location := LocationString(req)

	var out []domain.FieldAssignment
	for _, f := range gpsLatitudeFields {
		out = append(out, domain.Set(f, lat))
	}
	for _, f := range gpsLongitudeFields {
		out = append(out, domain.Set(f, lon))
	}
	for _, f := range gpsZeroFields {
		out = append(out, domain.Set(f, "0"))
	}
	for _, f := range gpsCoordinateTripleFields {
		out = append(out, domain.Set(f, triple))
	}

	for _, f := range placeFields {
		var value string
		switch f.Part {
		case partCity:
			value = req.City
		case partState:
			value = req.State
		case partCountry:
			value = req.Country
		case partCountryCode:
			value = req.CountryCode
		case partLatitude:
			value = lat
		case partLongitude:
			value = lon
		case partZero:
			value = "0"
		case partLocationName:
			value = location
		}
		out = append(out, domain.Set(f.Name, value))
	}

	return appendClears(out, gpsClearFields)
}

// RoundCoordinate rounds v to CoordinateDigits fractional digits.
func RoundCoordinate(v float64) float64 {
	scale := math.Pow(10, CoordinateDigits)
	return math.Round(v*scale) / scale
}

func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var (
	ErrCoordinates = errors.New("invalid coordinates format, ensure they are a number pair")
	ErrCountry     = errors.New(`invalid country, use "Name - CODE"`)
)

// GeotagInput is the geotag form as submitted by a user or a preset.
type GeotagInput struct {
	Coordinates string `json:"coordinates" yaml:"coordinates"`
	Location    string `json:"location" yaml:"location"`
	City        string `json:"city" yaml:"city"`
	State       string `json:"state" yaml:"state"`
	Country     string `json:"country" yaml:"country"`
}

// ParseGeotagInput converts user input into a request. Coordinates are
// "lat, lon" and rounded; country is "Name - CODE".
func ParseGeotagInput(in GeotagInput, override bool) (domain.GeotagRequest, error) {
	lat, lon, err := ParseCoordinates(in.Coordinates)
	if err != nil {
		return domain.GeotagRequest{}, err
	}
	country, code, ok := strings.Cut(in.Country, " - ")
	if !ok {
		return domain.GeotagRequest{}, ErrCountry
	}
	return domain.GeotagRequest{
		Latitude:    lat,
		Longitude:   lon,
		Location:    in.Location,
		City:        in.City,
		State:       in.State,
		Country:     country,
		CountryCode: code,
		Override:    override,
	}, nil
}

func ParseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, ErrCoordinates
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, ErrCoordinates
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, ErrCoordinates
	}
	return RoundCoordinate(lat), RoundCoordinate(lon), nil
}
