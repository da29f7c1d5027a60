package geom

import "math"

// FacingDirection is a discretized 8-way orientation derived from velocity.
// It only drives sprite orientation; nothing in the simulation branches on it.
type FacingDirection uint8

const (
	FacingEast FacingDirection = iota
	FacingSouthEast
	FacingSouth
	FacingSouthWest
	FacingWest
	FacingNorthWest
	FacingNorth
	FacingNorthEast
)

const facingEpsilon = 1e-6

// FacingFromVelocity maps a velocity onto one of eight 45° compass sectors.
// Sector boundaries sit between compass points (offset by 22.5°), so any
// vector with the same angle lands in the same sector regardless of length.
// A near-zero velocity keeps the previous facing: an idle character does not
// snap back to a default orientation.
func FacingFromVelocity(v Vec2, prev FacingDirection) FacingDirection {
	if math.Abs(v.X) < facingEpsilon && math.Abs(v.Y) < facingEpsilon {
		return prev
	}
	angle := math.Atan2(v.Y, v.X)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	sector := int(math.Floor((angle + math.Pi/8) / (math.Pi / 4)))
	return FacingDirection(sector % 8)
}

func (f FacingDirection) String() string {
	switch f {
	case FacingEast:
		return "east"
	case FacingSouthEast:
		return "southeast"
	case FacingSouth:
		return "south"
	case FacingSouthWest:
		return "southwest"
	case FacingWest:
		return "west"
	case FacingNorthWest:
		return "northwest"
	case FacingNorth:
		return "north"
	case FacingNorthEast:
		return "northeast"
	default:
		return "unknown"
	}
}
