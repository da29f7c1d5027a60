package dungeon

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"dungeon-delve/server/internal/entity"
)

//go:embed config/bestiary.json
var embeddedBestiary embed.FS

var globalBestiary = mustLoadBestiary()

// FileDefinitions is the designer-authored bestiary document. cmd/schema
// reflects this type into a JSON schema for editor validation.
type FileDefinitions struct {
	BaseHealth        float64             `json:"baseHealth" jsonschema:"required,description=Basic-enemy health in the start room's neighbors"`
	BaseSpeed         float64             `json:"baseSpeed" jsonschema:"required,description=Per-step movement of a basic enemy"`
	HealthPerDistance float64             `json:"healthPerDistance" jsonschema:"description=Extra base health per Manhattan step from the origin"`
	Variants          []VariantDefinition `json:"variants" jsonschema:"required"`
	Boss              BossDefinition      `json:"boss" jsonschema:"required"`
}

// VariantDefinition scales the distance-adjusted base stats for one enemy
// subtype. Probabilities are cumulative in file order; the final entry
// absorbs any rounding remainder.
type VariantDefinition struct {
	Variant         string  `json:"variant" jsonschema:"required,enum=basic,enum=shooter,enum=dasher,enum=tank"`
	Probability     float64 `json:"probability" jsonschema:"required"`
	HealthScale     float64 `json:"healthScale" jsonschema:"required"`
	SpeedScale      float64 `json:"speedScale" jsonschema:"required"`
	Size            float64 `json:"size" jsonschema:"required"`
	Damage          float64 `json:"damage" jsonschema:"required"`
	AttackCooldown  float64 `json:"attackCooldown,omitempty" jsonschema:"description=Seconds between shots (shooter) or full cycle length (dasher)"`
	KnockbackImmune bool    `json:"knockbackImmune,omitempty"`
}

type BossDefinition struct {
	Health     float64 `json:"health" jsonschema:"required"`
	SpeedScale float64 `json:"speedScale" jsonschema:"required"`
	Size       float64 `json:"size" jsonschema:"required"`
	Damage     float64 `json:"damage" jsonschema:"required"`
}

// Bestiary is the validated, loaded form.
type Bestiary struct {
	defs FileDefinitions
}

func mustLoadBestiary() *Bestiary {
	b, err := loadBestiary()
	if err != nil {
		panic(fmt.Sprintf("dungeon: load bestiary: %v", err))
	}
	return b
}

func loadBestiary() (*Bestiary, error) {
	data, err := embeddedBestiary.ReadFile("config/bestiary.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded bestiary: %w", err)
	}
	var defs FileDefinitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse bestiary: %w", err)
	}
	if err := validateBestiary(defs); err != nil {
		return nil, err
	}
	return &Bestiary{defs: defs}, nil
}

func validateBestiary(defs FileDefinitions) error {
	if defs.BaseHealth <= 0 || defs.BaseSpeed <= 0 {
		return fmt.Errorf("bestiary: base stats must be positive")
	}
	if len(defs.Variants) == 0 {
		return fmt.Errorf("bestiary: no variants defined")
	}
	total := 0.0
	for _, v := range defs.Variants {
		switch entity.Variant(v.Variant) {
		case entity.VariantBasic, entity.VariantShooter, entity.VariantDasher, entity.VariantTank:
		default:
			return fmt.Errorf("bestiary: unknown variant %q", v.Variant)
		}
		if v.Probability < 0 || v.HealthScale <= 0 || v.SpeedScale <= 0 || v.Size <= 0 {
			return fmt.Errorf("bestiary: invalid stats for variant %q", v.Variant)
		}
		total += v.Probability
	}
	if math.Abs(total-1) > 1e-6 {
		return fmt.Errorf("bestiary: variant probabilities sum to %.3f, want 1", total)
	}
	if defs.Boss.Health <= 0 || defs.Boss.Size <= 0 {
		return fmt.Errorf("bestiary: invalid boss stats")
	}
	return nil
}

// RollVariant draws an enemy subtype from the probability bands.
func (b *Bestiary) RollVariant(rng *rand.Rand) VariantDefinition {
	roll := rng.Float64()
	acc := 0.0
	for _, v := range b.defs.Variants {
		acc += v.Probability
		if roll < acc {
			return v
		}
	}
	return b.defs.Variants[len(b.defs.Variants)-1]
}

func (b *Bestiary) VariantByName(name entity.Variant) (VariantDefinition, bool) {
	for _, v := range b.defs.Variants {
		if entity.Variant(v.Variant) == name {
			return v, true
		}
	}
	return VariantDefinition{}, false
}

func (b *Bestiary) Boss() BossDefinition {
	return b.defs.Boss
}

func (b *Bestiary) BaseHealth() float64 {
	return b.defs.BaseHealth
}

func (b *Bestiary) BaseSpeed() float64 {
	return b.defs.BaseSpeed
}

func (b *Bestiary) HealthPerDistance() float64 {
	return b.defs.HealthPerDistance
}

// LoadedBestiary exposes the package-level bestiary parsed at init.
func LoadedBestiary() *Bestiary {
	return globalBestiary
}
