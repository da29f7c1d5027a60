package dungeon

import (
	"math/rand"

	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
)

// Enemies never spawn this close to the room center, so a player walking in
// through a door is not standing inside one on the first frame.
const enemySpawnSafeRadius = 120.0

func (d *Dungeon) populate(rng *rand.Rand) {
	bestiary := LoadedBestiary()
	for i, room := range d.Rooms {
		switch {
		case i == d.StartIndex:
			room.MarkCleared()
		case i == d.ItemIndex:
			room.MarkCleared()
			itemType := entity.RandomItemType(rng)
			room.Items = append(room.Items, entity.NewItem(d.NewItemID(), itemType, Center()))
		case i == d.BossIndex:
			room.Enemies = append(room.Enemies, d.spawnBoss(bestiary))
		default:
			d.populateEnemyRoom(room, bestiary, rng)
		}
	}
}

func (d *Dungeon) spawnBoss(bestiary *Bestiary) *entity.Enemy {
	def := bestiary.Boss()
	return &entity.Enemy{
		Actor: entity.Actor{
			ID:        d.NewEnemyID(),
			Pos:       Center(),
			Size:      def.Size,
			Health:    def.Health,
			MaxHealth: def.Health,
			Damage:    def.Damage,
			Speed:     bestiary.BaseSpeed() * def.SpeedScale,
			Active:    true,
		},
		Boss:            true,
		KnockbackImmune: true,
	}
}

// populateEnemyRoom rolls a head count that grows with distance from the
// start, then draws each enemy's variant from the bestiary bands.
func (d *Dungeon) populateEnemyRoom(room *Room, bestiary *Bestiary, rng *rand.Rand) {
	dist := room.ManhattanFromOrigin()
	count := rng.Intn(3) + 1 + dist/4
	baseHealth := bestiary.BaseHealth() + bestiary.HealthPerDistance()*float64(dist)

	for n := 0; n < count; n++ {
		def := bestiary.RollVariant(rng)
		health := baseHealth * def.HealthScale
		enemy := &entity.Enemy{
			Actor: entity.Actor{
				ID:        d.NewEnemyID(),
				Pos:       randomSpawnPoint(rng, def.Size),
				Size:      def.Size,
				Health:    health,
				MaxHealth: health,
				Damage:    def.Damage,
				Speed:     bestiary.BaseSpeed() * def.SpeedScale,
				Active:    true,
			},
			Variant:         entity.Variant(def.Variant),
			AttackCooldown:  def.AttackCooldown,
			KnockbackImmune: def.KnockbackImmune,
		}
		room.Enemies = append(room.Enemies, enemy)
	}
}

func randomSpawnPoint(rng *rand.Rand, size float64) geom.Vec2 {
	minX := WallThickness + size/2
	maxX := CanvasWidth - WallThickness - size/2
	minY := WallThickness + size/2
	maxY := CanvasHeight - WallThickness - size/2
	for attempt := 0; attempt < 16; attempt++ {
		p := geom.Vec2{
			X: minX + rng.Float64()*(maxX-minX),
			Y: minY + rng.Float64()*(maxY-minY),
		}
		if geom.Distance(p, Center()) >= enemySpawnSafeRadius {
			return p
		}
	}
	// Crowded roll streak; corner placement is always safe.
	return geom.Vec2{X: minX, Y: minY}
}
