// Package catalog holds the static game data tables: item rarities and
// their sampling weights, the marketplace item catalog, infrastructure
// upgrades, the rank ladder and the seeded instruments. Everything here is
// closed data consumed by the services; nothing mutates at runtime.
package catalog

import "irontycoon/internal/money"

type Rarity string

const (
	Common    Rarity = "COMMON"
	Uncommon  Rarity = "UNCOMMON"
	Rare      Rarity = "RARE"
	Epic      Rarity = "EPIC"
	Legendary Rarity = "LEGENDARY"
)

// RarityOrder is the declared walk order of the weighted sampler.
var RarityOrder = []Rarity{Common, Uncommon, Rare, Epic, Legendary}

// RarityWeights sum to 100 so the weights read as percentages.
var RarityWeights = map[Rarity]int64{
	Common:    50,
	Uncommon:  30,
	Rare:      15,
	Epic:      4,
	Legendary: 1,
}

func TotalRarityWeight() int64 {
	var total int64
	for _, r := range RarityOrder {
		total += RarityWeights[r]
	}
	return total
}

type Item struct {
	ID     int64
	Name   string
	Cost   int64 // minor units
	Type   string
	Rarity Rarity
	Icon   string
}

var Items = []Item{
	{ID: 1, Name: "Protein Shake", Cost: money.FromWOL(150), Type: "consumable", Rarity: Common, Icon: "🥤"},
	{ID: 2, Name: "15min Rest", Cost: money.FromWOL(50), Type: "activity", Rarity: Common, Icon: "😴"},
	{ID: 3, Name: "Water Bottle", Cost: money.FromWOL(200), Type: "consumable", Rarity: Common, Icon: "💧"},
	{ID: 4, Name: "Playlist Boost", Cost: money.FromWOL(300), Type: "bonus", Rarity: Common, Icon: "🎵"},
	{ID: 5, Name: "Black Coffee", Cost: money.FromWOL(250), Type: "consumable", Rarity: Common, Icon: "☕"},

	{ID: 10, Name: "Energy Bar", Cost: money.FromWOL(500), Type: "consumable", Rarity: Uncommon, Icon: "🍫"},
	{ID: 11, Name: "Lifting Straps", Cost: money.FromWOL(1200), Type: "equipment", Rarity: Uncommon, Icon: "🧣"},
	{ID: 12, Name: "Power Belt", Cost: money.FromWOL(1500), Type: "equipment", Rarity: Uncommon, Icon: "🥋"},
	{ID: 13, Name: "Hot Shower", Cost: money.FromWOL(400), Type: "comfort", Rarity: Uncommon, Icon: "🚿"},

	{ID: 20, Name: "Movie Night", Cost: money.FromWOL(5000), Type: "leisure", Rarity: Rare, Icon: "🍿"},
	{ID: 21, Name: "Cheat Meal", Cost: money.FromWOL(4000), Type: "consumable", Rarity: Rare, Icon: "🍔"},
	{ID: 22, Name: "Deep Tissue Massage", Cost: money.FromWOL(6000), Type: "recovery", Rarity: Rare, Icon: "💆"},
	{ID: 23, Name: "New Headphones", Cost: money.FromWOL(8000), Type: "equipment", Rarity: Rare, Icon: "🎧"},

	{ID: 30, Name: "All-You-Can-Eat Sushi", Cost: money.FromWOL(15000), Type: "leisure", Rarity: Epic, Icon: "🍣"},
	{ID: 31, Name: "Tech T-Shirt", Cost: money.FromWOL(12000), Type: "apparel", Rarity: Epic, Icon: "👕"},
	{ID: 32, Name: "Casino Night", Cost: money.FromWOL(20000), Type: "leisure", Rarity: Epic, Icon: "🎰"},

	{ID: 40, Name: "Pro Sneakers", Cost: money.FromWOL(50000), Type: "apparel", Rarity: Legendary, Icon: "👟"},
	{ID: 41, Name: "Next-Gen Console", Cost: money.FromWOL(100000), Type: "leisure", Rarity: Legendary, Icon: "🎮"},
	{ID: 42, Name: "Weekend Trip", Cost: money.FromWOL(150000), Type: "leisure", Rarity: Legendary, Icon: "✈️"},
	{ID: 43, Name: "Home Gym Set", Cost: money.FromWOL(250000), Type: "equipment", Rarity: Legendary, Icon: "🏋️"},
}

func ItemByID(id int64) (Item, bool) {
	for _, item := range Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// PoolByRarity returns the catalog items of one rarity bucket.
func PoolByRarity(r Rarity) []Item {
	var pool []Item
	for _, item := range Items {
		if item.Rarity == r {
			pool = append(pool, item)
		}
	}
	return pool
}

// IsPermanentType reports whether an acquired unit of this item type sits in
// the inventory as PERMANENT gear rather than a CONSUMABLE.
func IsPermanentType(itemType string) bool {
	return itemType == "equipment" || itemType == "apparel"
}

const (
	UpgradeVentSystem = "VENT_SYSTEM"
	UpgradeGoldWeight = "GOLD_WEIGHTS"
	UpgradeMiningRig  = "MINING_RIG"
	UpgradeJukebox    = "JUKEBOX_PRO"
)

const (
	EffectRestReduction    = "REST_REDUCTION"
	EffectGlobalMultiplier = "GLOBAL_MULTIPLIER"
	EffectPassiveIncome    = "PASSIVE_INCOME"
	EffectAudioUnlock      = "AUDIO_UNLOCK"
)

type Upgrade struct {
	ID          string
	Name        string
	Price       int64 // minor units
	Description string
	EffectType  string
	// Value meaning depends on EffectType: a rest-time factor, a gain
	// multiplier or a passive rate in whole $WOL per hour.
	Value float64
}

var Upgrades = []Upgrade{
	{ID: UpgradeVentSystem, Name: "High-Tech Ventilation", Price: money.FromWOL(15000), Description: "Cuts rest timers by 10%.", EffectType: EffectRestReduction, Value: 0.90},
	{ID: UpgradeGoldWeight, Name: "Gold Plated Weights", Price: money.FromWOL(30000), Description: "x1.1 multiplier on all gains.", EffectType: EffectGlobalMultiplier, Value: 1.10},
	{ID: UpgradeMiningRig, Name: "Crypto Mining Rig", Price: money.FromWOL(50000), Description: "Generates 100 $WOL/h while away (24h cap).", EffectType: EffectPassiveIncome, Value: 100},
	{ID: UpgradeJukebox, Name: "Motivation Jukebox", Price: money.FromWOL(5000), Description: "Unlocks the elite SFX pack.", EffectType: EffectAudioUnlock, Value: 1},
}

func UpgradeByID(id string) (Upgrade, bool) {
	for _, u := range Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return Upgrade{}, false
}

type Rank struct {
	Threshold int64 // minor units of lifetime earnings
	Name      string
}

// Ranks are ordered by strictly increasing threshold. Rank is a pure
// function of lifetime earnings; an exact threshold match reaches the rank.
var Ranks = []Rank{
	{Threshold: 0, Name: "Stagiaire"},
	{Threshold: money.FromWOL(5000), Name: "Trader"},
	{Threshold: money.FromWOL(20000), Name: "Broker"},
	{Threshold: money.FromWOL(50000), Name: "Shark"},
	{Threshold: money.FromWOL(100000), Name: "Wolf of Wall Street"},
	{Threshold: money.FromWOL(1000000), Name: "Iron Tycoon"},
}

func RankFor(totalEarned int64) string {
	name := Ranks[0].Name
	for _, r := range Ranks {
		if totalEarned >= r.Threshold {
			name = r.Name
		}
	}
	return name
}

const (
	CategoryPush   = "push"
	CategoryPull   = "pull"
	CategoryLegs   = "legs"
	CategoryCardio = "cardio"
)

// TickerForCategory maps an exercise category to its instrument.
func TickerForCategory(category string) (string, bool) {
	switch category {
	case CategoryPush:
		return "$PUSH", true
	case CategoryPull:
		return "$PULL", true
	case CategoryLegs:
		return "$LEGS", true
	case CategoryCardio:
		return "$CRDO", true
	}
	return "", false
}

type SeedStock struct {
	Ticker      string
	DisplayName string
	Category    string
	Price       int64
}

var SeedStocks = []SeedStock{
	{Ticker: "$PUSH", DisplayName: "Push Industries", Category: CategoryPush, Price: 1000},
	{Ticker: "$PULL", DisplayName: "Pull Holdings", Category: CategoryPull, Price: 1000},
	{Ticker: "$LEGS", DisplayName: "Leg Day Logistics", Category: CategoryLegs, Price: 1000},
	{Ticker: "$CRDO", DisplayName: "Cardio Dynamics", Category: CategoryCardio, Price: 1000},
}

type SeedExercise struct {
	Name       string
	Category   string
	Multiplier float64
}

var SeedExercises = []SeedExercise{
	{Name: "Bench Press", Category: CategoryPush, Multiplier: 1.5},
	{Name: "Squat", Category: CategoryLegs, Multiplier: 1.5},
	{Name: "Deadlift", Category: CategoryPull, Multiplier: 1.5},
	{Name: "Overhead Press", Category: CategoryPush, Multiplier: 1.2},
	{Name: "Pull Ups", Category: CategoryPull, Multiplier: 1.2},
	{Name: "Dumbbell Curl", Category: CategoryPull, Multiplier: 1.0},
	{Name: "Tricep Extension", Category: CategoryPush, Multiplier: 1.0},
	{Name: "Running (min)", Category: CategoryCardio, Multiplier: 1.0},
}

type SeedShopItem struct {
	Name string
	Cost int64
	Type string
	Icon string
}

// Legacy base shop rows, kept so historical spend stats keep resolving.
var SeedShopItems = []SeedShopItem{
	{Name: "Protein Shake", Cost: money.FromWOL(500), Type: "food", Icon: "🥤"},
	{Name: "Creatine", Cost: money.FromWOL(1500), Type: "food", Icon: "🧪"},
	{Name: "Gym Membership", Cost: money.FromWOL(5000), Type: "leisure", Icon: "💳"},
	{Name: "New Sneakers", Cost: money.FromWOL(8000), Type: "gear", Icon: "👟"},
	{Name: "Smart Watch", Cost: money.FromWOL(15000), Type: "gear", Icon: "⌚"},
	{Name: "Home Gym", Cost: money.FromWOL(50000), Type: "gear", Icon: "🏋️"},
	{Name: "Private Jet", Cost: money.FromWOL(1000000), Type: "leisure", Icon: "✈️"},
}
