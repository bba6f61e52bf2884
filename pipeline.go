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
	"errors"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"
)

// Step is a raster operation that is part of an overlay rendering pass.
// A step may return a *DomainError along with a usable result.
type Step func(*Raster) (*Raster, error)

// CropStep returns a step that crops the raster to e.
func CropStep(e Extent) Step {
	return func(r *Raster) (*Raster, error) {
		return r.Crop(e)
	}
}

// RegionCropStep returns a step that crops the raster to e, which is
// in the sr spatial reference. e is transformed to the spatial
// reference of the raster first.
func RegionCropStep(e Extent, sr string) Step {
	return func(r *Raster) (*Raster, error) {
		te, err := TransformExtent(e, sr, r.SR)
		if err != nil {
			return nil, fmt.Errorf("seamap: cropping %s: transforming region %v: %w", r.Name, e, err)
		}
		return r.Crop(te)
	}
}

// TransformStep returns a step that applies fn to every valid cell.
func TransformStep(op string, fn func(float64) float64) Step {
	return func(r *Raster) (*Raster, error) {
		return r.Transform(op, fn)
	}
}

// ExpressionStep returns a step that applies an expression transform.
func ExpressionStep(e *Expression) Step {
	return func(r *Raster) (*Raster, error) {
		return r.Transform(e.String(), e.Func(r))
	}
}

// RescaleStep returns a step that linearly maps the range of the
// raster values onto [a, b].
func RescaleStep(a, b float64) Step {
	return func(r *Raster) (*Raster, error) {
		min, max, ok := r.Range()
		if !ok {
			return r.Copy(), nil
		}
		return r.Transform(fmt.Sprintf("rescale(%g, %g)", a, b), Rescale(min, max, a, b))
	}
}

// ReclassifyStep returns a step that reclassifies the raster values.
func ReclassifyStep(buckets []Bucket) Step {
	return func(r *Raster) (*Raster, error) {
		return r.Reclassify(buckets)
	}
}

// RotateStep returns a step that converts 0 to 360 longitudes to
// -180 to 180.
func RotateStep() Step {
	return func(r *Raster) (*Raster, error) {
		return r.Rotate(), nil
	}
}

// ReprojectStep returns a step that reprojects the raster to sr.
func ReprojectStep(sr string, method Interpolation) Step {
	return func(r *Raster) (*Raster, error) {
		return r.Reproject(sr, method)
	}
}

// Overlay is a rendered raster layer ready to be placed on a map.
type Overlay struct {
	Name, Group string

	// Raster holds the values in the map display spatial reference.
	Raster  *Raster
	Mapping *ColorMapping
	Legend  *Legend

	// Healed is the number of cells that were set to no-data because
	// a transform produced a non-finite value for them.
	Healed int
}

// OverlayRenderer turns a raster into an Overlay by running
// a list of steps and then building a colour mapping and legend
// from the result.
type OverlayRenderer struct {
	Name, Group string

	// Title is the legend title. It defaults to Name.
	Title string

	Steps []Step

	Colors         []color.Color
	Kind           MappingKind
	MappingOptions []MappingOption

	LabelTransform LabelTransform

	// Log receives diagnostic messages. It defaults to the
	// logrus standard logger.
	Log logrus.FieldLogger
}

// Render runs the steps in o on r and creates the overlay. r is not
// modified. Domain errors are logged and do not stop rendering;
// any other error does.
func (o *OverlayRenderer) Render(r *Raster) (*Overlay, error) {
	log := o.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("overlay", o.Name)

	out := &Overlay{Name: o.Name, Group: o.Group}
	cur := r
	for i, step := range o.Steps {
		next, err := step(cur)
		var de *DomainError
		if errors.As(err, &de) {
			out.Healed += de.Healed
			log.WithFields(logrus.Fields{
				"step":      i,
				"transform": de.Op,
				"healed":    de.Healed,
			}).Warn("non-finite transform results replaced with no-data")
			err = nil
		}
		if err != nil {
			return nil, fmt.Errorf("seamap: rendering overlay %s: %w", o.Name, err)
		}
		if next == nil {
			return nil, fmt.Errorf("seamap: rendering overlay %s: step %d returned no raster", o.Name, i)
		}
		cur = next
	}
	if cur == r {
		cur = r.Copy()
	}

	m, err := NewColorMapping(cur.Data, o.Colors, o.Kind, o.MappingOptions...)
	if err != nil {
		return nil, fmt.Errorf("seamap: rendering overlay %s: %w", o.Name, err)
	}
	title := o.Title
	if title == "" {
		title = o.Name
	}
	out.Raster = cur
	out.Mapping = m
	out.Legend = NewLegend(m, title, o.LabelTransform)

	log.WithFields(logrus.Fields{
		"nx":     cur.Nx,
		"ny":     cur.Ny,
		"min":    m.Min(),
		"max":    m.Max(),
		"nodata": cur.NumNoData(),
	}).Info("rendered overlay")
	return out, nil
}
