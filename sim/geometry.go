package sim

import "math"

// StratifiedGeometry describes the cross-section of a stratified gas-liquid
// flow: liquid occupies a circular segment at the bottom of the pipe, gas the
// complement above the flat interface. Values are recomputed on demand from the
// local holdup and never persisted.
type StratifiedGeometry struct {
	LiquidLevel        float64 // height of the liquid layer above the pipe bottom (m)
	LiquidArea         float64 // liquid segment area (m²)
	GasArea            float64 // gas area (m²)
	LiquidWettedPerim  float64 // pipe wall length in contact with liquid (m)
	GasWettedPerim     float64 // pipe wall length in contact with gas (m)
	InterfacialWidth   float64 // chord width of the gas-liquid interface (m)
	LiquidHydraulicDia float64 // 4·A_L / S_L (m)
	GasHydraulicDia    float64 // 4·A_G / (S_G + S_i) (m)
}

func circleArea(diameter float64) float64 {
	return math.Pi * diameter * diameter / 4
}

// GeometryFromHoldup inverts the circular-segment area relation to find the
// liquid level that produces the given holdup, then derives wetted perimeters,
// interfacial chord width and per-phase hydraulic diameters.
//
// The segment half-angle θ satisfies holdup = (θ − sinθ·cosθ)/π, which is
// strictly increasing on [0, π]; it is solved by bisection to machine-level
// tolerance. Degenerate holdups return the consistent limiting geometry
// (all-gas or all-liquid pipe) rather than an error.
func GeometryFromHoldup(holdup, diameter float64) StratifiedGeometry {
	if diameter <= 0 {
		return StratifiedGeometry{}
	}
	r := diameter / 2
	total := circleArea(diameter)

	const eps = 1e-9
	if holdup <= eps {
		return StratifiedGeometry{
			GasArea:         total,
			GasWettedPerim:  math.Pi * diameter,
			GasHydraulicDia: diameter,
		}
	}
	if holdup >= 1-eps {
		return StratifiedGeometry{
			LiquidLevel:        diameter,
			LiquidArea:         total,
			LiquidWettedPerim:  math.Pi * diameter,
			LiquidHydraulicDia: diameter,
		}
	}

	theta := segmentHalfAngle(holdup)

	g := StratifiedGeometry{
		LiquidLevel:       r * (1 - math.Cos(theta)),
		LiquidArea:        holdup * total,
		GasArea:           (1 - holdup) * total,
		LiquidWettedPerim: diameter * theta,
		GasWettedPerim:    diameter * (math.Pi - theta),
		InterfacialWidth:  diameter * math.Sin(theta),
	}
	if g.LiquidWettedPerim > 0 {
		g.LiquidHydraulicDia = 4 * g.LiquidArea / g.LiquidWettedPerim
	}
	if gp := g.GasWettedPerim + g.InterfacialWidth; gp > 0 {
		g.GasHydraulicDia = 4 * g.GasArea / gp
	}
	return g
}

// segmentHalfAngle solves holdup = (θ − sinθ·cosθ)/π for θ ∈ [0, π] by
// bisection. The left side is monotone, so 60 halvings bring the bracket below
// double-precision resolution.
func segmentHalfAngle(holdup float64) float64 {
	lo, hi := 0.0, math.Pi
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if (mid-math.Sin(mid)*math.Cos(mid))/math.Pi < holdup {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// AnnularFilmThickness solves π(D²−(D−2δ)²)/4 = holdup·πD²/4 for the liquid
// film thickness δ of an annular flow, clipped to [0, D/2]. The closed form is
// δ = D(1−√(1−holdup))/2.
func AnnularFilmThickness(holdup, diameter float64) float64 {
	if diameter <= 0 {
		return 0
	}
	h := clamp(holdup, 0, 1)
	delta := diameter * (1 - math.Sqrt(1-h)) / 2
	return clamp(delta, 0, diameter/2)
}
