package entity

import "dungeon-delve/server/internal/geom"

// Actor carries the fields shared by every simulated thing: player, enemies,
// and projectiles. Size is a diameter; collisions use Size/2 as the radius.
type Actor struct {
	ID        string               `json:"id"`
	Pos       geom.Vec2            `json:"pos"`
	Vel       geom.Vec2            `json:"vel"`
	Size      float64              `json:"size"`
	Health    float64              `json:"health"`
	MaxHealth float64              `json:"maxHealth"`
	Damage    float64              `json:"damage"`
	Speed     float64              `json:"speed"`
	Active    bool                 `json:"active"`
	Facing    geom.FacingDirection `json:"facing"`
}

func (a *Actor) Radius() float64 {
	return a.Size / 2
}

// Deactivate retires the actor permanently. Inactive actors are skipped by
// every simulation sub-step and are never reactivated.
func (a *Actor) Deactivate() {
	a.Active = false
}

func (a *Actor) Overlaps(b *Actor) bool {
	if a == nil || b == nil || !a.Active || !b.Active {
		return false
	}
	return geom.CirclesOverlap(a.Pos, a.Radius(), b.Pos, b.Radius())
}

// Modifier is a permanent player upgrade acquired from an item. Modifiers are
// set membership: picking one up twice has no further effect.
type Modifier string

const (
	ModifierTripleShot Modifier = "triple_shot"
	ModifierPiercing   Modifier = "piercing"
	ModifierBigTears   Modifier = "big_tears"
)

// Player base stats.
const (
	PlayerSize         = 28.0
	PlayerMaxHealth    = 6.0
	PlayerSpeed        = 3.5
	PlayerDamage       = 1.0
	PlayerFireCooldown = 0.4 // seconds between shots
)

type Player struct {
	Actor
	Modifiers    map[Modifier]struct{} `json:"modifiers"`
	FireCooldown float64               `json:"-"`
}

func NewPlayer(id string, pos geom.Vec2) *Player {
	return &Player{
		Actor: Actor{
			ID:        id,
			Pos:       pos,
			Size:      PlayerSize,
			Health:    PlayerMaxHealth,
			MaxHealth: PlayerMaxHealth,
			Damage:    PlayerDamage,
			Speed:     PlayerSpeed,
			Active:    true,
		},
		Modifiers: make(map[Modifier]struct{}),
	}
}

func (p *Player) AddModifier(m Modifier) {
	if p.Modifiers == nil {
		p.Modifiers = make(map[Modifier]struct{})
	}
	p.Modifiers[m] = struct{}{}
}

func (p *Player) HasModifier(m Modifier) bool {
	_, ok := p.Modifiers[m]
	return ok
}

// Variant is an enemy behavioral subtype.
type Variant string

const (
	VariantBasic   Variant = "basic"
	VariantShooter Variant = "shooter"
	VariantDasher  Variant = "dasher"
	VariantTank    Variant = "tank"
)

type Enemy struct {
	Actor
	Variant Variant `json:"variant"`
	Boss    bool    `json:"boss"`
	// AttackCooldown counts down in seconds. Shooters fire when it lapses;
	// dashers key their chase/windup/dash cycle off it.
	AttackCooldown  float64 `json:"-"`
	KnockbackImmune bool    `json:"-"`
}

// Owner identifies which side spawned a projectile.
type Owner string

const (
	OwnerPlayer Owner = "player"
	OwnerEnemy  Owner = "enemy"
)

type Projectile struct {
	Actor
	Owner    Owner `json:"owner"`
	Piercing bool  `json:"piercing"`
	// HitIDs records every enemy already damaged by this projectile so a
	// piercing shot never hits the same target twice.
	HitIDs map[string]struct{} `json:"-"`
}

func (p *Projectile) MarkHit(id string) {
	if p.HitIDs == nil {
		p.HitIDs = make(map[string]struct{})
	}
	p.HitIDs[id] = struct{}{}
}

func (p *Projectile) AlreadyHit(id string) bool {
	_, ok := p.HitIDs[id]
	return ok
}
