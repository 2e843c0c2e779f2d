package feature

import (
	"math"

	"github.com/ayusman/mudra/internal/landmark"
)

// eps guards ratio denominators so a degenerate hand never divides by zero.
const eps = 1e-6

func norm2(p landmark.Point2D) float64 {
	return math.Hypot(p.X, p.Y)
}

func norm3(p landmark.Point3D) float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

func dist3(a, b landmark.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// clipCos clamps a cosine to [-1, 1] so floating-point overshoot can never
// push math.Acos into NaN.
func clipCos(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// angle2 returns the angle between two wrist-relative vectors in the image
// plane. A degenerate (near-zero) vector yields 0 rather than NaN.
func angle2(a, b landmark.Point2D) float64 {
	na := norm2(a)
	nb := norm2(b)
	if na < eps || nb < eps {
		return 0
	}
	return math.Acos(clipCos((a.X*b.X + a.Y*b.Y) / (na * nb)))
}

// angle3 is angle2 for vectors with depth.
func angle3(a, b landmark.Point3D) float64 {
	na := norm3(a)
	nb := norm3(b)
	if na < eps || nb < eps {
		return 0
	}
	return math.Acos(clipCos((a.X*b.X + a.Y*b.Y + a.Z*b.Z) / (na * nb)))
}

// palmCentre approximates the palm as the mean of the wrist and the four
// finger MCP landmarks.
func palmCentre(h *landmark.Hand3D) landmark.Point3D {
	var c landmark.Point3D
	for _, idx := range landmark.PalmIndices {
		c.X += h[idx].X
		c.Y += h[idx].Y
		c.Z += h[idx].Z
	}
	n := float64(len(landmark.PalmIndices))
	return landmark.Point3D{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}
