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

// Package stations reads tables of sampling stations from CSV, Excel
// and shapefile files.
//
// Table columns are matched to station attributes by header name,
// ignoring case and surrounding space:
//
//  id        id, station, station_id, name
//  latitude  latitude, lat
//  longitude longitude, lon, lng, long
//  category  category, type, campaign
//  date      date, time, datetime
//  note      note, notes, comment, description
//
// The latitude and longitude columns are required except in
// shapefiles, where point geometries give the station coordinates.
package stations

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/seamap/seamap"
	"github.com/spf13/cast"
)

// Column identifies a station attribute.
type Column int

// Station attributes.
const (
	ID Column = iota
	Latitude
	Longitude
	Category
	Date
	Note
	numColumns
)

var columnNames = [numColumns]string{"id", "latitude", "longitude", "category", "date", "note"}

func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// aliases maps lower-case header names to columns.
var aliases = map[string]Column{
	"id":          ID,
	"station":     ID,
	"station_id":  ID,
	"name":        ID,
	"latitude":    Latitude,
	"lat":         Latitude,
	"longitude":   Longitude,
	"lon":         Longitude,
	"lng":         Longitude,
	"long":        Longitude,
	"category":    Category,
	"type":        Category,
	"campaign":    Category,
	"date":        Date,
	"time":        Date,
	"datetime":    Date,
	"note":        Note,
	"notes":       Note,
	"comment":     Note,
	"description": Note,
}

// Options holds settings for reading station tables.
type Options struct {
	// Sheet is the name of the worksheet to read from Excel files.
	// The first worksheet is read if it is empty.
	Sheet string

	// Comma is the field delimiter of CSV files. It defaults to ','.
	Comma rune
}

// Rejected is a table row that could not be read as a station.
type Rejected struct {
	// Row is the 1-based row number in the file, counting the header.
	// For shapefiles it is the 1-based record number.
	Row    int
	Reason string
}

func (r Rejected) String() string { return fmt.Sprintf("row %d: %s", r.Row, r.Reason) }

// Table holds the stations read from a file and the rows that
// were rejected.
type Table struct {
	Stations []seamap.Station
	Rejected []Rejected
}

// Read reads a station table. The file format is chosen by the file
// extension: .csv, .xlsx or .shp.
func Read(path string, opts Options) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &seamap.InputNotFoundError{Path: path, Err: err}
	}
	var t *Table
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt":
		t, err = readCSV(path, opts)
	case ".xlsx":
		t, err = readXLSX(path, opts)
	case ".shp":
		t, err = readShapefile(path)
	default:
		return nil, fmt.Errorf("stations: unsupported file extension %q for %s; valid options are .csv, .xlsx and .shp", ext, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stations: reading %s: %v", path, err)
	}
	return t, nil
}

// header maps columns to their positions in a table row.
type header [numColumns]int

// newHeader matches table header names to columns. The first header
// matching a column is used.
func newHeader(names []string) header {
	var h header
	for i := range h {
		h[i] = -1
	}
	for i, n := range names {
		c, ok := aliases[strings.ToLower(strings.TrimSpace(n))]
		if ok && h[c] < 0 {
			h[c] = i
		}
	}
	return h
}

func (h header) require(cols ...Column) error {
	var missing []string
	for _, c := range cols {
		if h[c] < 0 {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns %v", missing)
	}
	return nil
}

// get returns the value of column c in row.
func (h header) get(row []string, c Column) string {
	i := h[c]
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(row[i], "\x00"))
}

// add converts a table row to a station and adds it to t, or
// records why it was rejected.
func (t *Table) add(h header, row []string, rowNum int) {
	var s seamap.Station
	s.ID = h.get(row, ID)
	if s.ID == "" {
		s.ID = fmt.Sprintf("row %d", rowNum)
	}
	s.Category = h.get(row, Category)
	s.Date = h.get(row, Date)
	s.Note = h.get(row, Note)

	var err error
	if s.Lat, err = parseCoordinate(h.get(row, Latitude)); err != nil {
		t.reject(rowNum, fmt.Sprintf("invalid latitude: %v", err))
		return
	}
	if s.Lon, err = parseCoordinate(h.get(row, Longitude)); err != nil {
		t.reject(rowNum, fmt.Sprintf("invalid longitude: %v", err))
		return
	}
	t.addStation(s, rowNum)
}

func (t *Table) addStation(s seamap.Station, rowNum int) {
	if err := s.Check(); err != nil {
		t.reject(rowNum, err.Error())
		return
	}
	t.Stations = append(t.Stations, s)
}

func (t *Table) reject(row int, reason string) {
	t.Rejected = append(t.Rejected, Rejected{Row: row, Reason: reason})
}

func parseCoordinate(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}
	return cast.ToFloat64E(s)
}
