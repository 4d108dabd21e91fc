// Package extrap propagates tracks to the calorimeter samplings.
package extrap

import (
	"errors"
	"fmt"
	"math"

	"github.com/decibelcooper/eoverp/calo"
)

var (
	ErrLooper         = errors.New("extrap: track curls up before the calorimeter")
	ErrNoIntersection = errors.New("extrap: track crosses no calorimeter sampling")
)

// Helix propagates a track from its perigee as a helix in a uniform
// solenoid field along z, to the nominal surfaces of every tracked
// sampling.
type Helix struct {
	// BField is the solenoid field in Tesla.
	BField float64
	// MinPt is the transverse momentum, in GeV, below which tracks are not
	// propagated.
	MinPt float64
}

// NewHelix returns a Helix for the ATLAS solenoid.
func NewHelix() *Helix {
	return &Helix{BField: 2, MinPt: 0.5}
}

// curvature in mm^-1 per GeV/c per Tesla
const kappa = 0.299792458e-3

// Extrapolate returns, for each sampling the track crosses, the entry and
// the exit point of the sampling volume in the order they are reached.
func (h *Helix) Extrapolate(t calo.Track) ([]calo.Intersection, error) {
	if t.Pt < h.MinPt || t.Pt <= 0 {
		return nil, fmt.Errorf("%w: pT %.3g GeV", ErrLooper, t.Pt)
	}

	// signed radius of curvature in mm; infinite for neutral tracks.
	radius := math.Inf(1)
	if t.Charge != 0 && h.BField != 0 {
		radius = t.Pt / (kappa * h.BField * math.Abs(t.Charge))
	}
	tr := trajectory{
		r:    radius,
		q:    math.Copysign(1, t.Charge),
		phi0: t.Phi,
		cot:  math.Sinh(t.Eta),
		z0:   t.Z0,
	}

	var out []calo.Intersection
	for _, l := range calo.TrackedLayers() {
		s, _ := calo.NominalSurface(l)
		in, okIn := tr.cross(s, s.Inner)
		ex, okEx := tr.cross(s, s.Outer)
		if okIn {
			out = append(out, calo.Intersection{Layer: l, Valid: true, Entry: true, Eta: in.Eta, Phi: in.Phi})
		}
		if okEx {
			out = append(out, calo.Intersection{Layer: l, Valid: true, Eta: ex.Eta, Phi: ex.Phi})
		}
	}
	if len(out) == 0 {
		if tr.r < math.Inf(1) && 2*tr.r < 1410 {
			return nil, fmt.Errorf("%w: radius %.0f mm", ErrLooper, tr.r)
		}
		return nil, fmt.Errorf("%w: eta %.2f", ErrNoIntersection, t.Eta)
	}
	return out, nil
}

type trajectory struct {
	r    float64 // radius of curvature, mm
	q    float64 // charge sign
	phi0 float64
	cot  float64 // cot(theta) = pz/pt
	z0   float64
}

// at returns the position reached after a transverse path length s.
func (tr trajectory) at(s float64) (rho, z, phi float64) {
	if math.IsInf(tr.r, 1) {
		return s, tr.z0 + s*tr.cot, tr.phi0
	}
	psi := s / tr.r
	rho = 2 * tr.r * math.Sin(psi/2)
	phi = tr.phi0 - tr.q*psi/2
	return rho, tr.z0 + s*tr.cot, phi
}

// cross finds where the trajectory meets the surface of s at distance d
// (a radius for barrel samplings, |z| for endcaps), within the sampling's
// eta acceptance.
func (tr trajectory) cross(s calo.Surface, d float64) (calo.Position, bool) {
	var path float64
	switch {
	case s.Barrel:
		if !math.IsInf(tr.r, 1) {
			if d > 2*tr.r {
				return calo.Position{}, false
			}
			path = 2 * tr.r * math.Asin(d/(2*tr.r))
		} else {
			path = d
		}
	default:
		if tr.cot == 0 {
			return calo.Position{}, false
		}
		zs := math.Copysign(d, tr.cot)
		path = (zs - tr.z0) / tr.cot
		if path <= 0 || (!math.IsInf(tr.r, 1) && path > math.Pi*tr.r) {
			return calo.Position{}, false
		}
	}

	rho, z, phi := tr.at(path)
	if rho <= 0 {
		return calo.Position{}, false
	}
	eta := math.Asinh(z / rho)
	if a := math.Abs(eta); a < s.EtaMin || a >= s.EtaMax {
		return calo.Position{}, false
	}
	return calo.Position{Eta: eta, Phi: wrapPhi(phi)}, true
}

func wrapPhi(phi float64) float64 {
	phi = math.Mod(phi, 2*math.Pi)
	switch {
	case phi > math.Pi:
		phi -= 2 * math.Pi
	case phi <= -math.Pi:
		phi += 2 * math.Pi
	}
	return phi
}
