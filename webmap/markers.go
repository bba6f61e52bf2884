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

package webmap

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/seamap/seamap"
)

// Marker is a station shown on the map.
type Marker struct {
	ID       string `json:"id"`
	Position LatLng `json:"position"`
	Color    string `json:"color"`
	Popup    string `json:"popup"`
}

// MarkerGroup is a toggleable set of markers.
type MarkerGroup struct {
	Name    string             `json:"name"`
	Markers []Marker           `json:"markers"`
	GeoJSON *FeatureCollection `json:"geojson"`
}

// FeatureCollection is a GeoJSON feature collection.
type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

// Feature is a GeoJSON feature.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

// AddStations adds a group of station markers to d.
// Longitudes greater than 180 are wrapped to [-180, 180].
func (d *Document) AddStations(group string, st []seamap.Station) error {
	g := MarkerGroup{
		Name:    group,
		GeoJSON: &FeatureCollection{Type: "FeatureCollection"},
	}
	for _, s := range st {
		if err := s.Check(); err != nil {
			return fmt.Errorf("webmap: %v", err)
		}
		lon := s.Lon
		if lon > 180 {
			lon -= 360
		}
		m := Marker{
			ID:       s.ID,
			Position: LatLng{Lat: s.Lat, Lng: lon},
			Color:    s.MarkerColor(),
			Popup:    s.Popup(),
		}
		g.Markers = append(g.Markers, m)

		gj, err := geojson.ToGeoJSON(geom.Point{X: lon, Y: s.Lat})
		if err != nil {
			return fmt.Errorf("webmap: station %s: %v", s.ID, err)
		}
		cat := s.Category
		if cat == "" {
			cat = seamap.UnknownCategory
		}
		g.GeoJSON.Features = append(g.GeoJSON.Features, &Feature{
			Type:     "Feature",
			Geometry: gj,
			Properties: map[string]string{
				"id":       s.ID,
				"category": cat,
				"date":     s.Date,
				"note":     s.Note,
				"color":    m.Color,
				"popup":    m.Popup,
			},
		})
	}
	d.Markers = append(d.Markers, g)
	return nil
}
