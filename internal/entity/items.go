package entity

import (
	"math/rand"

	"dungeon-delve/server/internal/geom"
)

// ItemType enumerates the six reward item kinds.
type ItemType string

const (
	ItemHealth     ItemType = "health"
	ItemDamage     ItemType = "damage"
	ItemSpeed      ItemType = "speed"
	ItemTripleShot ItemType = "triple_shot"
	ItemPiercing   ItemType = "piercing"
	ItemBigTears   ItemType = "big_tears"
)

const ItemSize = 24.0

// PlaceholderDescription is shown until the flavor service fills in a real
// one. Gameplay never reads the description.
const PlaceholderDescription = "A mysterious relic of the depths."

type Item struct {
	ID       string    `json:"id"`
	Pos      geom.Vec2 `json:"pos"`
	Size     float64   `json:"size"`
	Active   bool      `json:"active"`
	ItemType ItemType  `json:"itemType"`
	Name     string    `json:"name"`
	// Description starts as a placeholder and may be replaced asynchronously
	// by the flavor service. Display-only.
	Description     string `json:"description"`
	StatDescription string `json:"statDescription"`
}

func (i *Item) Radius() float64 {
	return i.Size / 2
}

type itemInfo struct {
	name  string
	stats string
}

var itemCatalog = map[ItemType]itemInfo{
	ItemHealth:     {name: "Heart of Stone", stats: "+1 heart, wounds mended"},
	ItemDamage:     {name: "Whetted Fang", stats: "+1.5 damage"},
	ItemSpeed:      {name: "Fleet Soles", stats: "+0.5 speed"},
	ItemTripleShot: {name: "Hydra Gland", stats: "shots split into three"},
	ItemPiercing:   {name: "Needle of Ruin", stats: "shots pierce through enemies"},
	ItemBigTears:   {name: "Swollen Vial", stats: "+2 damage, bigger shots"},
}

var itemTypes = []ItemType{
	ItemHealth,
	ItemDamage,
	ItemSpeed,
	ItemTripleShot,
	ItemPiercing,
	ItemBigTears,
}

// NewItem builds an item of the given type at pos with catalog name and stat
// line and the placeholder description.
func NewItem(id string, itemType ItemType, pos geom.Vec2) *Item {
	info := itemCatalog[itemType]
	return &Item{
		ID:              id,
		Pos:             pos,
		Size:            ItemSize,
		Active:          true,
		ItemType:        itemType,
		Name:            info.name,
		Description:     PlaceholderDescription,
		StatDescription: info.stats,
	}
}

// RandomItemType draws uniformly across the six kinds.
func RandomItemType(rng *rand.Rand) ItemType {
	return itemTypes[rng.Intn(len(itemTypes))]
}
