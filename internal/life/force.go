package life

// ForceProfile maps a distance and a pair coefficient to a signed force.
//
//	[0, MinDist)        -Repulsion * (1 - d/MinDist)
//	[MinDist, mid)      -2k * (d - MinDist) / (MaxDist - MinDist)
//	[mid, MaxDist)       2k * (d - MaxDist) / (MaxDist - MinDist)
//	[MaxDist, inf)       0
//
// with mid = (MinDist + MaxDist) / 2. Positive values pull a particle toward
// the other one, negative values push it away.
type ForceProfile struct {
	MinDist   float64
	MaxDist   float64
	Repulsion float64
}

// DefaultProfile uses the package defaults.
func DefaultProfile() ForceProfile {
	return ForceProfile{MinDist: DefaultMinDist, MaxDist: DefaultMaxDist, Repulsion: DefaultRepulsiveStrength}
}

// Force evaluates the profile. maxForce is ignored inside MinDist.
func (p ForceProfile) Force(distance, maxForce float64) float64 {
	span := p.MaxDist - p.MinDist
	switch {
	case distance < p.MinDist:
		return -p.Repulsion * (1 - distance/p.MinDist)
	case distance < (p.MaxDist+p.MinDist)/2:
		return -2 * maxForce * (distance - p.MinDist) / span
	case distance < p.MaxDist:
		return 2 * maxForce * (distance - p.MaxDist) / span
	default:
		return 0
	}
}
