package sim

import "dungeon-delve/server/internal/geom"

// AimDeadzone is the minimum aim-vector magnitude that counts as an intent
// to fire. Keeps joystick drift from draining the fire cooldown.
const AimDeadzone = 0.25

// InputState is the combined per-frame input sample: digital key vectors and
// analog joystick vectors, each component already clamped to [-1,1] by the
// capture boundary.
type InputState struct {
	MoveKeys   geom.Vec2 `json:"moveKeys"`
	MoveStick  geom.Vec2 `json:"moveStick"`
	ShootKeys  geom.Vec2 `json:"shootKeys"`
	ShootStick geom.Vec2 `json:"shootStick"`
}

// MoveVector merges WASD and the movement joystick. The sum is normalized
// only when its magnitude exceeds 1, so sub-1 analog deflections keep their
// partial-speed meaning.
func (in InputState) MoveVector() geom.Vec2 {
	v := in.MoveKeys.Add(in.MoveStick)
	if v.Length() > 1 {
		return v.Normalize()
	}
	return v
}

// AimVector picks the shot direction: arrow keys override the shoot stick
// whenever any arrow is held.
func (in InputState) AimVector() geom.Vec2 {
	if in.ShootKeys.X != 0 || in.ShootKeys.Y != 0 {
		return in.ShootKeys
	}
	return in.ShootStick
}

func (in InputState) Clamped() InputState {
	clampVec := func(v geom.Vec2) geom.Vec2 {
		return geom.Vec2{
			X: geom.Clamp(v.X, -1, 1),
			Y: geom.Clamp(v.Y, -1, 1),
		}
	}
	return InputState{
		MoveKeys:   clampVec(in.MoveKeys),
		MoveStick:  clampVec(in.MoveStick),
		ShootKeys:  clampVec(in.ShootKeys),
		ShootStick: clampVec(in.ShootStick),
	}
}
