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

package seamaputil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ctessum/requestcache"
	"github.com/seamap/seamap"
)

// rasterRequest identifies a raster in a file.
type rasterRequest struct {
	file, variable string
	timeIndex      int
}

func (r rasterRequest) key() string {
	return fmt.Sprintf("%s|%s|%d", r.file, r.variable, r.timeIndex)
}

// RasterCache reads rasters from files, reading each file and
// variable only once. Several layers often use the same file.
type RasterCache struct {
	cache *requestcache.Cache
}

// NewRasterCache creates a cache holding up to size rasters in memory.
func NewRasterCache(size int) *RasterCache {
	if size < 1 {
		size = 1
	}
	return &RasterCache{
		cache: requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return readRaster(request.(rasterRequest))
		}, 1, requestcache.Deduplicate(), requestcache.Memory(size)),
	}
}

// Raster returns the raster of variable at timeIndex in file. The
// returned raster is a copy that the caller may modify.
func (c *RasterCache) Raster(ctx context.Context, file, variable string, timeIndex int) (*seamap.Raster, error) {
	r := rasterRequest{file: file, variable: variable, timeIndex: timeIndex}
	result, err := c.cache.NewRequest(ctx, r, r.key()).Result()
	if err != nil {
		return nil, err
	}
	return result.(*seamap.Raster).Copy(), nil
}

func readRaster(r rasterRequest) (*seamap.Raster, error) {
	switch ext := strings.ToLower(filepath.Ext(r.file)); ext {
	case ".nc", ".nc4", ".cdf", ".netcdf":
		return seamap.ReadNetCDF(r.file, r.variable, r.timeIndex)
	case ".asc", ".txt":
		return seamap.ReadASCIIGrid(r.file)
	default:
		return nil, fmt.Errorf("seamaputil: unsupported raster file extension %q for %s; valid options are .nc and .asc", ext, r.file)
	}
}
