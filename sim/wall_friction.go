package sim

import "math"

// Laminar/turbulent transition bounds for the Fanning friction factor blend.
const (
	reLaminarLimit   = 2300.0
	reTurbulentLimit = 4000.0

	// Token friction factor for the gas core in annular/mist flow, where the
	// gas has no direct wall contact and wall shear enters only through the
	// liquid film.
	annularGasCoreFactor = 1e-4

	// Film flow transitions to turbulence earlier than pipe flow.
	reFilmLaminarLimit = 1000.0
)

// WallFrictionResult carries the per-phase wall shear stresses together with
// the friction factors and Reynolds numbers they were derived from. A fresh
// instance is returned per call and never mutated afterwards.
type WallFrictionResult struct {
	GasWallShear         float64 // τ_wG (Pa)
	LiquidWallShear      float64 // τ_wL (Pa)
	GasFrictionFactor    float64
	LiquidFrictionFactor float64
	GasReynolds          float64
	LiquidReynolds       float64
}

// WallFriction computes regime-dependent per-phase wall shear stresses. It is
// stateless: per-section evaluation reads only its arguments and may be run
// concurrently across sections.
type WallFriction struct{}

// NewWallFriction returns a wall-friction calculator.
func NewWallFriction() *WallFriction {
	return &WallFriction{}
}

// Calculate evaluates the wall shear closure for one control volume.
// Zero velocities yield zero shear and zero Reynolds numbers; no input
// combination divides by zero.
func (w *WallFriction) Calculate(regime FlowRegime, vGas, vLiquid, rhoGas, rhoLiquid,
	muGas, muLiquid, holdup, diameter, roughness float64) WallFrictionResult {

	if diameter <= 0 {
		return WallFrictionResult{}
	}
	holdup = clamp(holdup, 0, 1)

	switch regime {
	case StratifiedSmooth, StratifiedWavy:
		return w.stratified(vGas, vLiquid, rhoGas, rhoLiquid, muGas, muLiquid, holdup, diameter, roughness)
	case Slug, Churn:
		return w.homogeneousMixture(vGas, vLiquid, rhoGas, rhoLiquid, muGas, muLiquid, holdup, diameter, roughness)
	case Annular, Mist:
		return w.annularFilm(vGas, vLiquid, rhoGas, rhoLiquid, muLiquid, holdup, diameter, roughness)
	case Bubble, DispersedBubble:
		return w.bubbly(vGas, vLiquid, rhoGas, rhoLiquid, muLiquid, holdup, diameter, roughness)
	case SinglePhaseGas:
		re, f, tau := singlePhaseShear(vGas, rhoGas, muGas, diameter, roughness)
		return WallFrictionResult{GasWallShear: tau, GasFrictionFactor: f, GasReynolds: re}
	case SinglePhaseLiquid:
		re, f, tau := singlePhaseShear(vLiquid, rhoLiquid, muLiquid, diameter, roughness)
		return WallFrictionResult{LiquidWallShear: tau, LiquidFrictionFactor: f, LiquidReynolds: re}
	default:
		// Unknown regime: fall back to the homogeneous mixture closure, the
		// most forgiving of the set.
		return w.homogeneousMixture(vGas, vLiquid, rhoGas, rhoLiquid, muGas, muLiquid, holdup, diameter, roughness)
	}
}

// stratified evaluates each phase against its own hydraulic diameter from the
// circular-segment geometry.
func (w *WallFriction) stratified(vGas, vLiquid, rhoGas, rhoLiquid, muGas, muLiquid,
	holdup, diameter, roughness float64) WallFrictionResult {

	geom := GeometryFromHoldup(holdup, diameter)

	var res WallFrictionResult
	res.GasReynolds = reynolds(rhoGas, vGas, geom.GasHydraulicDia, muGas)
	res.GasFrictionFactor = fanningFactor(res.GasReynolds, roughness, geom.GasHydraulicDia)
	res.GasWallShear = fanningShear(res.GasFrictionFactor, rhoGas, vGas)

	res.LiquidReynolds = reynolds(rhoLiquid, vLiquid, geom.LiquidHydraulicDia, muLiquid)
	res.LiquidFrictionFactor = fanningFactor(res.LiquidReynolds, roughness, geom.LiquidHydraulicDia)
	res.LiquidWallShear = fanningShear(res.LiquidFrictionFactor, rhoLiquid, vLiquid)
	return res
}

// homogeneousMixture treats slug/churn flow as a single pseudo-fluid with
// volume-fraction-weighted properties, then splits the mixture wall shear back
// to the phases by volume fraction.
func (w *WallFriction) homogeneousMixture(vGas, vLiquid, rhoGas, rhoLiquid, muGas, muLiquid,
	holdup, diameter, roughness float64) WallFrictionResult {

	alphaG := 1 - holdup
	rhoMix := alphaG*rhoGas + holdup*rhoLiquid
	muMix := alphaG*muGas + holdup*muLiquid
	vMix := alphaG*vGas + holdup*vLiquid

	re := reynolds(rhoMix, vMix, diameter, muMix)
	f := fanningFactor(re, roughness, diameter)
	tauMix := fanningShear(f, rhoMix, vMix)

	return WallFrictionResult{
		GasWallShear:         tauMix * alphaG,
		LiquidWallShear:      tauMix * holdup,
		GasFrictionFactor:    f,
		LiquidFrictionFactor: f,
		GasReynolds:          re,
		LiquidReynolds:       re,
	}
}

// annularFilm evaluates the liquid film with a film-thickness-based Reynolds
// number; the gas core carries only a token wall shear since it never touches
// the wall directly.
func (w *WallFriction) annularFilm(vGas, vLiquid, rhoGas, rhoLiquid, muLiquid,
	holdup, diameter, roughness float64) WallFrictionResult {

	delta := AnnularFilmThickness(holdup, diameter)
	filmDia := 4 * delta // hydraulic diameter of a thin wall film

	var res WallFrictionResult
	res.LiquidReynolds = reynolds(rhoLiquid, vLiquid, filmDia, muLiquid)
	switch {
	case res.LiquidReynolds <= 0:
		res.LiquidFrictionFactor = 0
	case res.LiquidReynolds < reFilmLaminarLimit:
		res.LiquidFrictionFactor = 16 / res.LiquidReynolds
	default:
		res.LiquidFrictionFactor = haalandFanning(res.LiquidReynolds, roughness, filmDia)
	}
	res.LiquidWallShear = fanningShear(res.LiquidFrictionFactor, rhoLiquid, vLiquid)

	res.GasReynolds = 0
	res.GasFrictionFactor = annularGasCoreFactor
	res.GasWallShear = fanningShear(annularGasCoreFactor, rhoGas, vGas)
	return res
}

// bubbly treats bubble/dispersed-bubble flow as mixture velocity and density
// with the liquid (continuous phase) viscosity; all wall shear is carried by
// the liquid.
func (w *WallFriction) bubbly(vGas, vLiquid, rhoGas, rhoLiquid, muLiquid,
	holdup, diameter, roughness float64) WallFrictionResult {

	alphaG := 1 - holdup
	rhoMix := alphaG*rhoGas + holdup*rhoLiquid
	vMix := alphaG*vGas + holdup*vLiquid

	re := reynolds(rhoMix, vMix, diameter, muLiquid)
	f := fanningFactor(re, roughness, diameter)

	return WallFrictionResult{
		LiquidWallShear:      fanningShear(f, rhoMix, vMix),
		LiquidFrictionFactor: f,
		LiquidReynolds:       re,
	}
}

func singlePhaseShear(v, rho, mu, diameter, roughness float64) (re, f, tau float64) {
	re = reynolds(rho, v, diameter, mu)
	f = fanningFactor(re, roughness, diameter)
	tau = fanningShear(f, rho, v)
	return re, f, tau
}

// reynolds returns ρ·|v|·D/μ, or zero when any denominator vanishes.
func reynolds(rho, v, diameter, mu float64) float64 {
	if mu <= 0 || diameter <= 0 {
		return 0
	}
	return rho * math.Abs(v) * diameter / mu
}

// fanningShear returns τ = ½·f·ρ·v·|v|, signed with the velocity.
func fanningShear(f, rho, v float64) float64 {
	return 0.5 * f * rho * v * math.Abs(v)
}

// fanningFactor returns the Fanning friction factor: 16/Re in the laminar
// range, a Haaland-derived turbulent factor above Re=4000, and a linear blend
// between the two endpoint values across the transition band so the shear stays
// continuous in Reynolds number.
func fanningFactor(re, roughness, diameter float64) float64 {
	switch {
	case re <= 0:
		return 0
	case re < reLaminarLimit:
		return 16 / re
	case re > reTurbulentLimit:
		return haalandFanning(re, roughness, diameter)
	default:
		fLam := 16 / reLaminarLimit
		fTurb := haalandFanning(reTurbulentLimit, roughness, diameter)
		w := (re - reLaminarLimit) / (reTurbulentLimit - reLaminarLimit)
		return fLam + w*(fTurb-fLam)
	}
}

// haalandFanning evaluates the Haaland explicit approximation to the Colebrook
// equation and converts the Darcy factor to Fanning.
func haalandFanning(re, roughness, diameter float64) float64 {
	if re <= 0 {
		return 0
	}
	relRough := 0.0
	if diameter > 0 {
		relRough = roughness / diameter
	}
	inv := -1.8 * math.Log10(math.Pow(relRough/3.7, 1.11)+6.9/re)
	if inv <= 0 {
		return 0
	}
	darcy := 1 / (inv * inv)
	return darcy / 4
}
