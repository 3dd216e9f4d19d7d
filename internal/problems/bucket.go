package problems

import (
	"math"

	"github.com/jrenard/optiex/internal/model"
)

// BucketParams describes the frustum bucket design problem: choose bottom
// radius, top radius, and height to maximize volume while using exactly the
// given sheet surface (bottom disk plus lateral surface).
type BucketParams struct {
	Surface float64 // total material surface in m^2
	MaxDim  float64 // upper bound on radii and height in m
}

// DefaultBucket returns the classic 1 m^2 instance.
func DefaultBucket() BucketParams {
	return BucketParams{Surface: 1.0, MaxDim: 2.0}
}

// BucketVolume computes the frustum volume (pi/3) h (R^2 + Rr + r^2).
func BucketVolume(r, rTop, h float64) float64 {
	return math.Pi / 3 * h * (rTop*rTop + rTop*r + r*r)
}

// BucketSurfaceArea computes bottom and lateral surface areas.
func BucketSurfaceArea(r, rTop, h float64) (bottom, lateral float64) {
	bottom = math.Pi * r * r
	slant := math.Sqrt((rTop-r)*(rTop-r) + h*h)
	lateral = math.Pi * (rTop + r) * slant
	return bottom, lateral
}

// Bucket builds the bucket design model with variables r, R, h.
func Bucket(p BucketParams) *model.Model {
	m := model.New("bucket_frustum")
	m.AddVar("r", 0, p.MaxDim)
	m.AddVar("R", 0, p.MaxDim)
	m.AddVar("h", 0, p.MaxDim)

	m.SetObjective(model.Maximize, func(x []float64) float64 {
		return BucketVolume(x[0], x[1], x[2])
	})

	// Working in surface/pi units keeps the residual scale of the original
	// formulation.
	s := p.Surface / math.Pi
	m.AddEq("surface", func(x []float64) float64 {
		r, rTop, h := x[0], x[1], x[2]
		surf := r*r + (rTop+r)*math.Sqrt((rTop-r)*(rTop-r)+h*h)
		return surf - s
	})

	// Volume is bounded by a sphere of the same surface; loose but proven.
	radius := math.Sqrt(p.Surface / (4 * math.Pi))
	m.SetBestBound(4.0 / 3.0 * math.Pi * radius * radius * radius)

	m.SetPenaltyWeight(1e3)
	return m
}
