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

package stations

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	goshp "github.com/jonas-p/go-shp"
	"github.com/tealeg/xlsx"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/seamap/seamap"
)

var wantStations = []seamap.Station{
	{ID: "ST01", Lat: 54.5, Lon: 300.25, Category: "Green", Date: "2019-04-01", Note: "CTD cast"},
	{ID: "ST02", Lat: 55, Lon: -60, Category: "red"},
}

func TestDecodeCSV(t *testing.T) {
	const table = `Station,Lat,Long,Type,Date,Comment
ST01,54.5,300.25,Green,2019-04-01,CTD cast
ST02, 55 ,-60,red,,
,,,,,
ST03,95,-60,red,,
ST04,north,-60,red,,
`
	tb, err := decodeCSV(strings.NewReader(table), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tb.Stations, wantStations) {
		t.Errorf("have %+v, want %+v", tb.Stations, wantStations)
	}
	if len(tb.Rejected) != 2 {
		t.Fatalf("have %d rejected rows, want 2: %v", len(tb.Rejected), tb.Rejected)
	}
	if tb.Rejected[0].Row != 5 || tb.Rejected[1].Row != 6 {
		t.Errorf("rejected rows %v, want 5 and 6", tb.Rejected)
	}
	if !strings.Contains(tb.Rejected[1].Reason, "latitude") {
		t.Errorf("reason %q should mention latitude", tb.Rejected[1].Reason)
	}
}

func TestDecodeCSVOptions(t *testing.T) {
	const table = "id;latitude;longitude\nA;1;2\n"
	tb, err := decodeCSV(strings.NewReader(table), Options{Comma: ';'})
	if err != nil {
		t.Fatal(err)
	}
	want := []seamap.Station{{ID: "A", Lat: 1, Lon: 2}}
	if !reflect.DeepEqual(tb.Stations, want) {
		t.Errorf("have %+v, want %+v", tb.Stations, want)
	}
}

func TestDecodeCSVErrors(t *testing.T) {
	for name, table := range map[string]string{
		"empty":       "",
		"no latitude": "id,longitude\nA,1\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := decodeCSV(strings.NewReader(table), Options{}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDefaultID(t *testing.T) {
	tb, err := decodeCSV(strings.NewReader("lat,lon\n1,2\n"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Stations) != 1 || tb.Stations[0].ID != "row 2" {
		t.Errorf("have %+v, want a station with id 'row 2'", tb.Stations)
	}
}

func writeXLSX(t *testing.T, path, sheetName string, rows [][]string) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			cell := row.AddCell()
			cell.Value = v
		}
	}
	if err := f.Save(path); err != nil {
		t.Fatal(err)
	}
}

func TestReadXLSX(t *testing.T) {
	dir, err := ioutil.TempDir("", "stations")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "stations.xlsx")
	writeXLSX(t, path, "Cruise", [][]string{
		{"ID", "Latitude", "Longitude", "Category", "Date", "Note"},
		{"ST01", "54.5", "300.25", "Green", "2019-04-01", "CTD cast"},
		{"ST02", "55", "-60", "red", "", ""},
	})

	tb, err := Read(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(tb.Stations, wantStations) {
		t.Errorf("have %+v, want %+v", tb.Stations, wantStations)
	}

	tb, err = Read(path, Options{Sheet: "Cruise"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tb.Stations) != 2 {
		t.Errorf("have %d stations, want 2", len(tb.Stations))
	}

	if _, err = Read(path, Options{Sheet: "missing"}); err == nil {
		t.Error("expected an error for a missing worksheet")
	}
}

func TestReadShapefile(t *testing.T) {
	dir, err := ioutil.TempDir("", "stations")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "stations.shp")
	e, err := shp.NewEncoderFromFields(path, goshp.POINT,
		goshp.StringField("id", 10),
		goshp.StringField("category", 10),
		goshp.StringField("note", 20),
	)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range []struct {
		p                  geom.Point
		id, category, note string
	}{
		{p: geom.Point{X: -60, Y: 55}, id: "A", category: "orange", note: "mooring"},
		{p: geom.Point{X: 20, Y: 91}, id: "B", category: "red"},
	} {
		if err := e.EncodeFields(r.p, r.id, r.category, r.note); err != nil {
			t.Fatal(err)
		}
	}
	e.Close()

	tb, err := Read(path, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []seamap.Station{{ID: "A", Lat: 55, Lon: -60, Category: "orange", Note: "mooring"}}
	if !reflect.DeepEqual(tb.Stations, want) {
		t.Errorf("have %+v, want %+v", tb.Stations, want)
	}
	if len(tb.Rejected) != 1 || tb.Rejected[0].Row != 2 {
		t.Errorf("have rejected %v, want row 2", tb.Rejected)
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read("does/not/exist.csv", Options{})
	var nf *seamap.InputNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("have %v, want InputNotFoundError", err)
	}

	dir, err := ioutil.TempDir("", "stations")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "stations.json")
	if err := ioutil.WriteFile(path, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, Options{}); err == nil {
		t.Error("expected an error for an unsupported extension")
	}
}
