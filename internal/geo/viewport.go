package geo

import "math"

// Zoom bounds for terminal map viewports.
const (
	MinZoom     = 3
	MaxZoom     = 18
	DefaultZoom = 13
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2.0

// Viewport projects locations onto a character grid centered on Center.
type Viewport struct {
	Center Location
	Zoom   int
	Width  int
	Height int
}

// LngStep returns the longitude span of one column in degrees.
func (v Viewport) LngStep() float64 {
	return 360 / math.Pow(2, float64(clampZoom(v.Zoom))) / 16
}

// LatStep returns the latitude span of one row in degrees.
func (v Viewport) LatStep() float64 {
	c := math.Cos(toRad(v.Center.Lat))
	if c < 0.01 {
		c = 0.01
	}
	return v.LngStep() * cellAspect * c
}

// Project maps a location to a grid cell. ok is false when the cell is outside the grid.
func (v Viewport) Project(loc Location) (col, row int, ok bool) {
	if v.Width <= 0 || v.Height <= 0 {
		return 0, 0, false
	}
	col = v.Width/2 + int(math.Round((loc.Lng-v.Center.Lng)/v.LngStep()))
	row = v.Height/2 - int(math.Round((loc.Lat-v.Center.Lat)/v.LatStep()))
	ok = col >= 0 && col < v.Width && row >= 0 && row < v.Height
	return col, row, ok
}

// At returns the location at the center of a grid cell.
func (v Viewport) At(col, row int) Location {
	return Location{
		Lat: clampLat(v.Center.Lat + float64(v.Height/2-row)*v.LatStep()),
		Lng: wrapLng(v.Center.Lng + float64(col-v.Width/2)*v.LngStep()),
	}
}

// Pan moves the center by whole cells.
func (v Viewport) Pan(dCol, dRow int) Viewport {
	v.Center = Location{
		Lat: clampLat(v.Center.Lat - float64(dRow)*v.LatStep()),
		Lng: wrapLng(v.Center.Lng + float64(dCol)*v.LngStep()),
	}
	return v
}

// ZoomBy changes the zoom level, keeping it within bounds.
func (v Viewport) ZoomBy(delta int) Viewport {
	v.Zoom = clampZoom(v.Zoom + delta)
	return v
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

func clampLat(lat float64) float64 {
	return math.Max(-90, math.Min(90, lat))
}

func wrapLng(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
