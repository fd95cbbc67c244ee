package modifier

// typeBoostItems maps each of the 18 type-boosting items to the type it boosts.
var typeBoostItems = []struct{ id, typ string }{
	{"silk-scarf", "normal"},
	{"charcoal", "fire"},
	{"mystic-water", "water"},
	{"miracle-seed", "grass"},
	{"magnet", "electric"},
	{"never-melt-ice", "ice"},
	{"black-belt", "fighting"},
	{"poison-barb", "poison"},
	{"soft-sand", "ground"},
	{"sharp-beak", "flying"},
	{"twisted-spoon", "psychic"},
	{"silver-powder", "bug"},
	{"hard-stone", "rock"},
	{"spell-tag", "ghost"},
	{"dragon-fang", "dragon"},
	{"black-glasses", "dark"},
	{"metal-coat", "steel"},
	{"fairy-feather", "fairy"},
}

const (
	// TypeBoostMultiplier is the damage multiplier of every type-boosting item.
	TypeBoostMultiplier = 1.2
	// ChoiceMultiplier is the offensive stat multiplier of choice items.
	ChoiceMultiplier = 1.5
	// FlatBoostMultiplier is the damage multiplier of life-orb.
	FlatBoostMultiplier = 1.3
)

func defaultItems() []*ItemDef {
	items := make([]*ItemDef, 0, len(typeBoostItems)+5)
	for _, t := range typeBoostItems {
		items = append(items, &ItemDef{ID: t.id, Kind: KindTypeBoost, Type: t.typ, Multiplier: TypeBoostMultiplier})
	}
	return append(items,
		&ItemDef{ID: "flame-orb", Kind: KindStatus, Status: StatusBurn},
		&ItemDef{ID: "toxic-orb", Kind: KindStatus, Status: StatusPoison},
		&ItemDef{ID: "choice-band", Kind: KindChoice, Class: "physical", Multiplier: ChoiceMultiplier},
		&ItemDef{ID: "choice-specs", Kind: KindChoice, Class: "special", Multiplier: ChoiceMultiplier},
		&ItemDef{ID: "life-orb", Kind: KindFlatBoost, Multiplier: FlatBoostMultiplier},
	)
}

func defaultAbilities() []*AbilityDef {
	return []*AbilityDef{
		{ID: "huge-power", Attacker: DoublesRawPower},
		{ID: "pure-power", Attacker: DoublesRawPower},
		{ID: "guts", Attacker: EmpoweredByStatus},
		{ID: "fur-coat", Defender: HalvesPhysical},
		{ID: "ice-scales", Defender: HalvesSpecial},
		{ID: "multiscale", Defender: HalvesWhenFullHP},
		{ID: "shadow-shield", Defender: HalvesWhenFullHP},
	}
}

// Default returns a Catalog populated with the built-in item and ability tables.
//
// Postcondition: Returns a non-nil Catalog with 23 items and 7 abilities.
func Default() *Catalog {
	c := NewCatalog()
	for _, d := range defaultItems() {
		if err := c.RegisterItem(d); err != nil {
			panic(err)
		}
	}
	for _, d := range defaultAbilities() {
		if err := c.RegisterAbility(d); err != nil {
			panic(err)
		}
	}
	return c
}
