package sim

import (
	"math"

	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
	"dungeon-delve/server/logging"
)

const (
	playerShotSpeed   = 7.0
	playerShotSize    = 8.0
	bigTearsShotSize  = 14.0
	tripleShotSpread  = 0.3 // radians either side of the aim line
	knockbackDistance = 12.0

	// hitLandChance models invulnerability frames statistically: contact is
	// flagged every frame it persists, but only this fraction of flagged
	// frames actually deal damage. Changing this to a timer-based i-frame
	// model would alter the game's observed difficulty.
	hitLandChance = 0.05
)

// Advance is the per-frame entry point. The session phase gates the
// simulation: only PhasePlaying runs the step, and the pickup interstitial
// counts itself down here.
func (w *World) Advance(tick uint64, dt float64, input InputState) {
	w.tick = tick
	w.drainDeferred()

	switch w.phase {
	case PhasePickup:
		w.pickupTimer -= dt
		if w.pickupTimer <= 0 {
			w.pickupTimer = 0
			w.phase = PhasePlaying
		}
	case PhasePlaying:
		w.step(dt, input.Clamped())
	}
}

// step advances one frame of play. Sub-step order is load-bearing: the
// player's tentative position must exist before enemy pursuit and collision
// checks read it, and damage is applied only after every hit source for the
// frame has been collected.
func (w *World) step(dt float64, input InputState) {
	room := w.currentRoom()
	if room == nil {
		// Broken room index; skip the frame rather than stall the loop.
		w.publish(logging.EventTransitionAborted,
			logging.EntityRef{ID: "world", Kind: logging.EntityKindRoom},
			logging.SeverityError,
			map[string]any{"reason": "missing current room", "index": w.roomIndex})
		return
	}

	// 1. Movement intent and facing.
	move := input.MoveVector()
	w.player.Vel = move
	w.player.Facing = geom.FacingFromVelocity(move, w.player.Facing)

	// 2. Tentative position. Movement is applied per step; dt only drives
	// timers, so one frame of full input always covers Speed pixels.
	tentative := w.player.Pos.Add(move.Scale(w.player.Speed))

	// 3. Wall and door clamp.
	w.player.Pos = w.clampPlayer(tentative, room)

	// 4. Shooting.
	w.player.FireCooldown -= dt
	if aim := input.AimVector(); aim.Length() > AimDeadzone && w.player.FireCooldown <= 0 {
		w.firePlayerShots(aim)
		w.player.FireCooldown = entity.PlayerFireCooldown
	}

	// 5. Enemy AI, aiming at the tentative player position.
	for _, enemy := range room.Enemies {
		if !enemy.Active {
			continue
		}
		w.updateEnemy(enemy, dt, w.player.Pos)
	}

	// 6. Enemy contact marks the player as hit; damage waits until the end
	// of the frame.
	playerHit := false
	hitDamage := 0.0
	for _, enemy := range room.Enemies {
		if !enemy.Active {
			continue
		}
		if enemy.Overlaps(&w.player.Actor) {
			playerHit = true
			hitDamage = math.Max(hitDamage, enemy.Damage)
		}
	}

	// 7. Player projectiles vs enemies.
	for _, shot := range w.projectiles {
		if !shot.Active || shot.Owner != entity.OwnerPlayer {
			continue
		}
		for _, enemy := range room.Enemies {
			if !enemy.Active || shot.AlreadyHit(enemy.ID) {
				continue
			}
			if !shot.Overlaps(&enemy.Actor) {
				continue
			}
			enemy.Health -= shot.Damage
			if shot.Piercing {
				shot.MarkHit(enemy.ID)
			} else {
				shot.Deactivate()
			}
			if !enemy.KnockbackImmune {
				knockDir := enemy.Vel.Normalize()
				if knockDir != (geom.Vec2{}) {
					enemy.Pos = clampToRoom(enemy.Pos.Sub(knockDir.Scale(knockbackDistance)), enemy.Size)
				}
			}
			if !shot.Active {
				break
			}
		}
	}

	// 8. Enemy death and rewards.
	for _, enemy := range room.Enemies {
		if !enemy.Active || enemy.Health > 0 {
			continue
		}
		enemy.Deactivate()
		w.publish(logging.EventEnemyKilled,
			logging.EntityRef{ID: enemy.ID, Kind: logging.EntityKindEnemy},
			logging.SeverityInfo,
			map[string]any{"variant": enemy.Variant, "boss": enemy.Boss, "room": room.ID})
		if enemy.Boss {
			w.spawnItem(room, dungeon.Center())
			w.publish(logging.EventBossDefeated,
				logging.EntityRef{ID: enemy.ID, Kind: logging.EntityKindEnemy},
				logging.SeverityInfo, nil)
			if w.phase == PhasePlaying {
				w.phase = PhaseVictory
			}
		} else if w.rng.Float64() < enemyDropChance {
			w.spawnItem(room, enemy.Pos)
		}
	}

	// 9. Projectile advance and culling.
	for _, shot := range w.projectiles {
		if !shot.Active {
			continue
		}
		shot.Pos = shot.Pos.Add(shot.Vel)
		if shot.Pos.X < 0 || shot.Pos.X > dungeon.CanvasWidth || shot.Pos.Y < 0 || shot.Pos.Y > dungeon.CanvasHeight {
			shot.Deactivate()
			continue
		}
		if shot.Owner == entity.OwnerEnemy && shot.Overlaps(&w.player.Actor) {
			playerHit = true
			hitDamage = math.Max(hitDamage, shot.Damage)
			shot.Deactivate()
		}
	}

	// 10. Item pickup.
	for _, item := range room.Items {
		if !item.Active {
			continue
		}
		if !geom.CirclesOverlap(item.Pos, item.Radius(), w.player.Pos, w.player.Radius()) {
			continue
		}
		item.Active = false
		applyItemEffect(w.player, item.ItemType)
		w.publish(logging.EventItemPickup,
			logging.EntityRef{ID: item.ID, Kind: logging.EntityKindItem},
			logging.SeverityInfo,
			map[string]any{"type": item.ItemType, "name": item.Name})
		if w.phase == PhasePlaying {
			w.phase = PhasePickup
			w.pickupTimer = pickupDisplaySeconds
		}
	}

	// 11. Damage application, after every hit source has been seen.
	if playerHit && w.rng.Float64() < hitLandChance {
		w.player.Health -= hitDamage
		w.publish(logging.EventPlayerDamaged,
			logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
			logging.SeverityInfo,
			map[string]any{"damage": hitDamage, "health": w.player.Health})
		if w.player.Health <= 0 {
			w.player.Deactivate()
			w.phase = PhaseGameOver
			w.publish(logging.EventPlayerDied,
				logging.EntityRef{ID: w.player.ID, Kind: logging.EntityKindPlayer},
				logging.SeverityInfo, nil)
		}
	}

	// 12. Room transition, judged on the unclamped tentative position.
	if w.phase == PhasePlaying {
		w.checkRoomTransition(tentative, room)
	}

	// 13. Auto-clear once the last enemy is down. Cleared never reverts.
	if !room.Cleared && !room.HasActiveEnemies() {
		room.MarkCleared()
		w.publish(logging.EventRoomCleared,
			logging.EntityRef{ID: room.ID, Kind: logging.EntityKindRoom},
			logging.SeverityInfo, nil)
	}

	// 14. Commit: drop retired projectiles and swept entities.
	w.sweep(room)
}

// clampPlayer confines the tentative position to the walkable band, carving
// out door corridors: a wall may be crossed only inside the door zone of an
// existing door, and only once the room no longer holds live enemies.
func (w *World) clampPlayer(tentative geom.Vec2, room *dungeon.Room) geom.Vec2 {
	half := w.player.Radius()
	minX := dungeon.WallThickness + half
	maxX := dungeon.CanvasWidth - dungeon.WallThickness - half
	minY := dungeon.WallThickness + half
	maxY := dungeon.CanvasHeight - dungeon.WallThickness - half

	canPass := room.Cleared || !room.HasActiveEnemies()
	pos := tentative

	clampAxis := func(v, min, max float64, lowDir, highDir dungeon.Direction) float64 {
		if v < min {
			if canPass && room.Doors[lowDir] && dungeon.InDoorZone(lowDir, tentative) {
				return math.Max(v, half)
			}
			return min
		}
		if v > max {
			if canPass && room.Doors[highDir] && dungeon.InDoorZone(highDir, tentative) {
				return math.Min(v, canvasMax(highDir)-half)
			}
			return max
		}
		return v
	}

	pos.X = clampAxis(pos.X, minX, maxX, dungeon.West, dungeon.East)
	pos.Y = clampAxis(pos.Y, minY, maxY, dungeon.North, dungeon.South)
	return pos
}

func canvasMax(d dungeon.Direction) float64 {
	if d == dungeon.East || d == dungeon.West {
		return dungeon.CanvasWidth
	}
	return dungeon.CanvasHeight
}

// firePlayerShots spawns one shot, or three with TripleShot, at the player's
// already-clamped position.
func (w *World) firePlayerShots(aim geom.Vec2) {
	dir := aim.Normalize()
	size := playerShotSize
	if w.player.HasModifier(entity.ModifierBigTears) {
		size = bigTearsShotSize
	}
	angles := []float64{0}
	if w.player.HasModifier(entity.ModifierTripleShot) {
		angles = []float64{-tripleShotSpread, 0, tripleShotSpread}
	}
	for _, angle := range angles {
		shot := &entity.Projectile{
			Actor: entity.Actor{
				ID:     w.newProjectileID(),
				Pos:    w.player.Pos,
				Vel:    rotate(dir, angle).Scale(playerShotSpeed),
				Size:   size,
				Damage: w.player.Damage,
				Active: true,
			},
			Owner:    entity.OwnerPlayer,
			Piercing: w.player.HasModifier(entity.ModifierPiercing),
		}
		w.projectiles = append(w.projectiles, shot)
	}
}

func rotate(v geom.Vec2, angle float64) geom.Vec2 {
	sin, cos := math.Sincos(angle)
	return geom.Vec2{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// sweep compacts the projectile list and drops retired enemies and items
// from the room. IDs come from monotonic counters, so nothing is ever
// reused.
func (w *World) sweep(room *dungeon.Room) {
	live := w.projectiles[:0]
	for _, shot := range w.projectiles {
		if shot.Active {
			live = append(live, shot)
		}
	}
	w.projectiles = live

	enemies := room.Enemies[:0]
	for _, enemy := range room.Enemies {
		if enemy.Active {
			enemies = append(enemies, enemy)
		}
	}
	room.Enemies = enemies

	items := room.Items[:0]
	for _, item := range room.Items {
		if item.Active {
			items = append(items, item)
		}
	}
	room.Items = items
}
