package jitx

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceDXF/pkg/geom"
)

// TransformPoint maps a package-local point into board coordinates: mirror
// about the Y axis when the pose is flipped, rotate counter-clockwise by the
// pose angle, then translate.
func TransformPoint(p geom.Point, pose Pose) geom.Point {
	x, y := p.X, p.Y
	if pose.FlipX {
		x = -x
	}

	rad := pose.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	return geom.Point{
		X: x*cos - y*sin + pose.X,
		Y: x*sin + y*cos + pose.Y,
	}
}

// TransformAngle maps a package-local angle into board coordinates,
// normalized to [0, 360).
func TransformAngle(deg float64, pose Pose) float64 {
	if pose.FlipX {
		deg = 180 - deg
	}
	deg = math.Mod(deg+pose.Angle, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
