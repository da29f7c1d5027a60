package sim

import (
	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
)

const (
	// chaseEpsilon stops pursuit jitter when an enemy is effectively on top
	// of the target.
	chaseEpsilon = 1.0

	shooterNearRange = 150.0
	shooterFarRange  = 250.0
	shooterShotSpeed = 4.0
	shooterShotSize  = 10.0

	// Dasher cycle slices, measured on the countdown: chase for the bulk of
	// the window, hold still to telegraph, then lunge.
	dasherWindupStart = 0.8  // seconds remaining when the windup begins
	dasherDashStart   = 0.45 // seconds remaining when the dash begins
	dasherDashMult    = 4.0
)

// updateEnemy advances one enemy's behavior for the frame and returns its
// displacement so later sub-steps (knockback) know which way it was moving.
// The target is the player's tentative position for this frame.
func (w *World) updateEnemy(enemy *entity.Enemy, dt float64, target geom.Vec2) {
	var step geom.Vec2

	switch {
	case enemy.Boss, enemy.Variant == entity.VariantBasic, enemy.Variant == entity.VariantTank:
		step = pursueStep(enemy, target, enemy.Speed)
	case enemy.Variant == entity.VariantShooter:
		step = w.shooterStep(enemy, dt, target)
	case enemy.Variant == entity.VariantDasher:
		step = dasherStep(enemy, dt, target)
	default:
		step = pursueStep(enemy, target, enemy.Speed)
	}

	enemy.Vel = step
	enemy.Pos = clampToRoom(enemy.Pos.Add(step), enemy.Size)
	enemy.Facing = geom.FacingFromVelocity(step, enemy.Facing)
}

// pursueStep is the constant-pursuit displacement shared by basic enemies,
// tanks, and the boss.
func pursueStep(enemy *entity.Enemy, target geom.Vec2, speed float64) geom.Vec2 {
	delta := target.Sub(enemy.Pos)
	if delta.Length() <= chaseEpsilon {
		return geom.Vec2{}
	}
	return delta.Normalize().Scale(speed)
}

// shooterStep keeps a preferred distance band and fires at the player on a
// fixed cooldown, regardless of how the positioning worked out.
func (w *World) shooterStep(enemy *entity.Enemy, dt float64, target geom.Vec2) geom.Vec2 {
	delta := target.Sub(enemy.Pos)
	dist := delta.Length()

	var step geom.Vec2
	switch {
	case dist < shooterNearRange && dist > 0:
		step = delta.Normalize().Scale(-enemy.Speed)
	case dist > shooterFarRange:
		step = delta.Normalize().Scale(enemy.Speed)
	}

	enemy.AttackCooldown -= dt
	if enemy.AttackCooldown <= 0 {
		w.spawnEnemyShot(enemy, target)
		enemy.AttackCooldown = shooterReload()
	}
	return step
}

func shooterReload() float64 {
	if def, ok := dungeon.LoadedBestiary().VariantByName(entity.VariantShooter); ok && def.AttackCooldown > 0 {
		return def.AttackCooldown
	}
	return 2.0
}

func dasherCycle() float64 {
	if def, ok := dungeon.LoadedBestiary().VariantByName(entity.VariantDasher); ok && def.AttackCooldown > 0 {
		return def.AttackCooldown
	}
	return 2.5
}

// dasherStep runs the three-phase cycle keyed off the repeating countdown:
// normal chase, a stationary windup, then a short dash at several times
// speed. The cooldown resets to the full window whenever it lapses.
func dasherStep(enemy *entity.Enemy, dt float64, target geom.Vec2) geom.Vec2 {
	enemy.AttackCooldown -= dt
	if enemy.AttackCooldown <= 0 {
		enemy.AttackCooldown = dasherCycle()
	}

	remaining := enemy.AttackCooldown
	switch {
	case remaining > dasherWindupStart:
		return pursueStep(enemy, target, enemy.Speed)
	case remaining > dasherDashStart:
		return geom.Vec2{}
	default:
		return pursueStep(enemy, target, enemy.Speed*dasherDashMult)
	}
}

func (w *World) spawnEnemyShot(enemy *entity.Enemy, target geom.Vec2) {
	dir := target.Sub(enemy.Pos).Normalize()
	if dir == (geom.Vec2{}) {
		dir = geom.Vec2{X: 1}
	}
	shot := &entity.Projectile{
		Actor: entity.Actor{
			ID:     w.newProjectileID(),
			Pos:    enemy.Pos,
			Vel:    dir.Scale(shooterShotSpeed),
			Size:   shooterShotSize,
			Damage: enemy.Damage,
			Active: true,
		},
		Owner: entity.OwnerEnemy,
	}
	w.projectiles = append(w.projectiles, shot)
}

// clampToRoom confines a position to the walkable band inside the walls.
// Enemies never use doors, so there is no door carve-out here.
func clampToRoom(pos geom.Vec2, size float64) geom.Vec2 {
	half := size / 2
	return geom.Vec2{
		X: geom.Clamp(pos.X, dungeon.WallThickness+half, dungeon.CanvasWidth-dungeon.WallThickness-half),
		Y: geom.Clamp(pos.Y, dungeon.WallThickness+half, dungeon.CanvasHeight-dungeon.WallThickness-half),
	}
}
