package sim

import (
	"dungeon-delve/server/internal/dungeon"
	"dungeon-delve/server/internal/entity"
	"dungeon-delve/server/internal/geom"
	"dungeon-delve/server/logging"
)

// enemyDropChance is the probability that a non-boss kill leaves a reward
// item behind.
const enemyDropChance = 0.25

// applyItemEffect permanently mutates the player per the pickup table.
// Modifier pickups are set membership, so duplicates are harmless no-ops.
func applyItemEffect(player *entity.Player, itemType entity.ItemType) {
	switch itemType {
	case entity.ItemHealth:
		player.MaxHealth += 2
		player.Health = player.MaxHealth
	case entity.ItemDamage:
		player.Damage += 1.5
	case entity.ItemSpeed:
		player.Speed += 0.5
	case entity.ItemTripleShot:
		player.AddModifier(entity.ModifierTripleShot)
	case entity.ItemPiercing:
		player.AddModifier(entity.ModifierPiercing)
	case entity.ItemBigTears:
		player.Damage += 2
		player.AddModifier(entity.ModifierBigTears)
	}
}

// spawnItem places a reward item and tells the notifier so flavor text can
// start generating while the item sits on the floor.
func (w *World) spawnItem(room *dungeon.Room, pos geom.Vec2) *entity.Item {
	itemType := entity.RandomItemType(w.rng)
	item := entity.NewItem(w.dungeon.NewItemID(), itemType, pos)
	room.Items = append(room.Items, item)
	w.publish(logging.EventItemSpawned,
		logging.EntityRef{ID: item.ID, Kind: logging.EntityKindItem},
		logging.SeverityInfo,
		map[string]any{"type": item.ItemType, "room": room.ID})
	if w.notifier != nil {
		w.notifier.ItemSpawned(w.epoch, item)
	}
	return item
}
