package sim

import "fmt"

// SlugSeed carries the characteristics handed over by the external liquid
// accumulation tracker when a terrain low point sheds a slug.
type SlugSeed struct {
	FrontPosition float64 // m from inlet
	TailPosition  float64 // m from inlet
	Length        float64 // m
	Velocity      float64 // m/s
	Holdup        float64 // liquid holdup of the newborn slug body
	Volume        float64 // liquid volume (m³)
}

// SlugUnit is one Lagrangian-tracked liquid slug with its trailing Taylor
// bubble/film region. Units are created by terrain-induced accumulation or
// inlet generation, mutated every timestep by the tracker, and end in exactly
// one terminal outcome: merged into a neighbor, exited at the outlet, or
// dissipated back into the Eulerian field.
type SlugUnit struct {
	ID int

	FrontPosition float64 // m from inlet; invariant: FrontPosition ≥ TailPosition
	TailPosition  float64 // m from inlet
	BodyLength    float64 // liquid slug body length (m)
	BubbleLength  float64 // trailing Taylor bubble / film region length (m)

	FrontVelocity float64 // m/s
	TailVelocity  float64 // m/s

	BodyHoldup   float64 // liquid holdup in the body, kept in [0.5, 0.98]
	FilmHoldup   float64 // liquid holdup in the film region
	LiquidVolume float64 // total liquid volume in the unit (m³)

	Growing        bool
	Decaying       bool
	TerrainInduced bool

	Age              float64 // seconds since creation
	LocalInclination float64 // pipe inclination at the slug front (rad)

	// Mass-conservation bookkeeping: the liquid mass taken from the Eulerian
	// cells when this slug was formed, and the indices of the sections it was
	// taken from. Returned to the ledger on exit or dissipation.
	BorrowedMass float64
	BorrowedFrom []int
}

// TotalLength is the slug unit length, body plus bubble region (m).
func (u *SlugUnit) TotalLength() float64 {
	return u.BodyLength + u.BubbleLength
}

func (u *SlugUnit) String() string {
	return fmt.Sprintf("slug#%d[front=%.1fm body=%.1fm bubble=%.1fm vf=%.2fm/s H=%.2f]",
		u.ID, u.FrontPosition, u.BodyLength, u.BubbleLength, u.FrontVelocity, u.BodyHoldup)
}
