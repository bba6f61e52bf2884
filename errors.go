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
	"strings"
)

// InputNotFoundError is returned when an input file does not exist.
type InputNotFoundError struct {
	Path string
	Err  error
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("seamap: input file %s not found", e.Path)
}

func (e *InputNotFoundError) Unwrap() error { return e.Err }

// VariableNotFoundError is returned when a variable is not present
// in an input file.
type VariableNotFoundError struct {
	Path, Variable string

	// Available holds the names of the variables the file does contain.
	Available []string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("seamap: variable %q not found in %s; available variables are [%s]",
		e.Variable, e.Path, strings.Join(e.Available, ", "))
}

// EmptyResultError is returned when a crop region does not overlap
// the raster being cropped.
type EmptyResultError struct {
	// Raster is the extent of the raster that was cropped.
	Raster Extent
	// Target is the requested crop region.
	Target Extent
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("seamap: crop region %v does not overlap raster extent %v", e.Target, e.Raster)
}

// DomainError reports that a value transform produced non-finite
// results for some cells, which were replaced with no-data. It is
// returned alongside a usable result and is not fatal.
type DomainError struct {
	// Op is the name of the transform.
	Op string
	// Healed is the number of cells that were replaced with no-data.
	Healed int
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("seamap: transform %s produced %d non-finite values, which were replaced with no-data",
		e.Op, e.Healed)
}

// UnsupportedCRSError is returned when a spatial reference cannot be
// parsed or has no transformation available.
type UnsupportedCRSError struct {
	SR  string
	Err error
}

func (e *UnsupportedCRSError) Error() string {
	return fmt.Sprintf("seamap: unsupported spatial reference %q: %v", e.SR, e.Err)
}

func (e *UnsupportedCRSError) Unwrap() error { return e.Err }
