/*
Copyright © 2024 the SeaMap authors.
This file is part of SeaMap.

SeaMap is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SeaMap is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SeaMap.  If not, see <http://www.gnu.org/licenses/>.
*/

package seamap

import (
	"fmt"
	"html"
	"strings"
)

// Marker colours.
const (
	Green  = "green"
	Orange = "orange"
	Red    = "red"
)

// markerColors maps station categories to marker colours.
var markerColors = map[string]string{
	"TARA": Green,
	"TREC": Orange,
}

// MarkerColor returns the marker colour for a station category.
// Categories other than TARA and TREC, including the empty category,
// are shown in red.
func MarkerColor(category string) string {
	if c, ok := markerColors[category]; ok {
		return c
	}
	return Red
}

// UnknownCategory is the category of stations with no category.
const UnknownCategory = "unknown"

// Station is a sampling station.
type Station struct {
	ID       string
	Lat, Lon float64
	Category string
	Date     string
	Note     string
}

// Check makes sure the station coordinates are valid.
func (s Station) Check() error {
	if !(s.Lat >= -90 && s.Lat <= 90) {
		return fmt.Errorf("seamap: station %s latitude %g is out of range [-90, 90]", s.ID, s.Lat)
	}
	if !(s.Lon >= -180 && s.Lon <= 360) {
		return fmt.Errorf("seamap: station %s longitude %g is out of range [-180, 360]", s.ID, s.Lon)
	}
	return nil
}

// MarkerColor returns the marker colour of s.
func (s Station) MarkerColor() string { return MarkerColor(s.Category) }

// Popup returns the HTML content of the popup shown for s.
func (s Station) Popup() string {
	b := new(strings.Builder)
	fmt.Fprintf(b, "<b>%s</b>", html.EscapeString(s.ID))
	cat := s.Category
	if cat == "" {
		cat = UnknownCategory
	}
	fmt.Fprintf(b, "<br>Category: %s", html.EscapeString(cat))
	if s.Date != "" {
		fmt.Fprintf(b, "<br>Date: %s", html.EscapeString(s.Date))
	}
	fmt.Fprintf(b, "<br>Position: %.4f, %.4f", s.Lat, s.Lon)
	if s.Note != "" {
		fmt.Fprintf(b, "<br>%s", html.EscapeString(s.Note))
	}
	return b.String()
}
