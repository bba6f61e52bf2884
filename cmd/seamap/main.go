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

// Command seamap is a command-line interface for turning oceanographic
// rasters and station tables into web maps.
package main

import (
	"os"

	"github.com/seamap/seamap/seamaputil"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := seamaputil.Root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
