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

import "testing"

func TestMarkerColor(t *testing.T) {
	for category, want := range map[string]string{
		"TARA":  "green",
		"TREC":  "orange",
		"Other": "red",
		"":      "red",
		"tara":  "red",
	} {
		if have := MarkerColor(category); have != want {
			t.Errorf("%q: have %s, want %s", category, have, want)
		}
	}
}

func TestStationPopup(t *testing.T) {
	s := Station{ID: "<St&1>", Lat: 43.6823, Lon: 7.3167, Category: "TARA", Date: "2011-04-02", Note: "surface & 5 m"}
	want := "<b>&lt;St&amp;1&gt;</b><br>Category: TARA<br>Date: 2011-04-02<br>Position: 43.6823, 7.3167<br>surface &amp; 5 m"
	if have := s.Popup(); have != want {
		t.Errorf("have %s, want %s", have, want)
	}
	if have := (Station{ID: "x"}).Popup(); have != "<b>x</b><br>Category: unknown<br>Position: 0.0000, 0.0000" {
		t.Errorf("empty station: have %s", have)
	}
}

func TestStationCheck(t *testing.T) {
	if err := (Station{Lat: 91}).Check(); err == nil {
		t.Error("latitude 91 should be invalid")
	}
	if err := (Station{Lon: -181}).Check(); err == nil {
		t.Error("longitude -181 should be invalid")
	}
	if err := (Station{Lat: 45, Lon: 350}).Check(); err != nil {
		t.Error(err)
	}
}
