// Package main's dataset.go is the hand-authored source of truth the
// generator expands into the build-time registry data file: block/item/
// entity/biome declarations plus the per-block property, shape, and tag
// facts needed to derive the packed state-indexed arrays pkg/regdata
// loads. Keeping these as Go structs (rather than the flat hex arrays
// in data/blocks.txt) is the whole point of having a generator at all.
package main

import "strconv"

type aabb struct{ MinX, MinY, MinZ, MaxX, MaxY, MaxZ uint8 }

func fullCube() aabb    { return aabb{0, 0, 0, 16, 16, 16} }
func bottomHalf() aabb  { return aabb{0, 0, 0, 16, 8, 16} }
func topHalf() aabb     { return aabb{0, 8, 0, 16, 16, 16} }
func chestBounds() aabb { return aabb{1, 0, 1, 15, 14, 15} }

// shapeFunc resolves a block state's collision AABB from its decoded
// property values; ok=false means the state carries no shape at all
// (static_bounds stores the zero sentinel).
type shapeFunc func(values map[string]string) (aabb, bool)

func constantShape(a aabb) shapeFunc {
	return func(map[string]string) (aabb, bool) { return a, true }
}

func slabShape(values map[string]string) (aabb, bool) {
	switch values["type"] {
	case "top":
		return topHalf(), true
	case "bottom":
		return bottomHalf(), true
	default: // double
		return fullCube(), true
	}
}

type propertyDef struct {
	Key    string
	Values []string
}

var propertyDefs = []propertyDef{
	{Key: "waterlogged", Values: []string{"false", "true"}},
	{Key: "type", Values: []string{"top", "bottom", "double"}},
	{Key: "half", Values: []string{"bottom", "top"}},
	{Key: "facing", Values: []string{"north", "east", "south", "west"}},
	{Key: "level", Values: levelValues()},
}

func levelValues() []string {
	out := make([]string, 16)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

func propertyIndex(key string) int {
	for i, p := range propertyDefs {
		if p.Key == key {
			return i
		}
	}
	panic("regdata-gen: unknown property key " + key)
}

func propertyCard(key string) int {
	for _, p := range propertyDefs {
		if p.Key == key {
			return len(p.Values)
		}
	}
	panic("regdata-gen: unknown property key " + key)
}

type blockDef struct {
	Name      string
	Props     []string // property keys, in declaration order
	Default   []int    // default value index per prop, same order as Props
	Luminance int
	Shape     shapeFunc // nil: block has no collision shape in any state
	Tags      []string
}

var blocks = []blockDef{
	{Name: "air"},
	{Name: "stone", Shape: constantShape(fullCube()), Tags: []string{"mineable/pickaxe"}},
	{Name: "dirt", Shape: constantShape(fullCube()), Tags: []string{"mineable/shovel"}},
	{Name: "grass_block", Shape: constantShape(fullCube()), Tags: []string{"mineable/shovel"}},
	{Name: "oak_log", Shape: constantShape(fullCube()), Tags: []string{"mineable/axe"}},
	{Name: "oak_planks", Shape: constantShape(fullCube()), Tags: []string{"mineable/axe"}},
	{
		Name:    "oak_slab",
		Props:   []string{"type", "waterlogged"},
		Default: []int{1, 0}, // bottom, not waterlogged
		Shape:   slabShape,
		Tags:    []string{"mineable/axe"},
	},
	{
		Name:    "oak_stairs",
		Props:   []string{"facing", "half", "waterlogged"},
		Default: []int{0, 0, 0}, // north, bottom, not waterlogged
		Shape:   constantShape(fullCube()),
		Tags:    []string{"mineable/axe"},
	},
	{Name: "glass", Shape: constantShape(fullCube()), Tags: []string{"mineable/pickaxe"}},
	{Name: "torch", Luminance: 14},
	{
		Name:    "chest",
		Props:   []string{"facing", "waterlogged"},
		Default: []int{0, 0},
		Shape:   constantShape(chestBounds()),
		Tags:    []string{"mineable/axe"},
	},
	{Name: "water", Props: []string{"level"}, Default: []int{0}},
	{Name: "lava", Props: []string{"level"}, Default: []int{0}},
}

type itemDef struct {
	Name        string
	MaxStack    int
	PlacesBlock string // "" = no placed-block form
}

var items = []itemDef{
	{Name: "air", MaxStack: 0, PlacesBlock: "air"},
	{Name: "stick", MaxStack: 64},
	{Name: "oak_planks", MaxStack: 64, PlacesBlock: "oak_planks"},
	{Name: "torch", MaxStack: 64, PlacesBlock: "torch"},
	{Name: "chest", MaxStack: 64, PlacesBlock: "chest"},
	{Name: "water_bucket", MaxStack: 1},
	{Name: "diamond", MaxStack: 64},
	{Name: "iron_ingot", MaxStack: 64},
	{Name: "bread", MaxStack: 64},
}

type entityDef struct {
	Name                             string
	WidthHundredths, HeightHundredths int
	Flags                            uint16
}

var entities = []entityDef{
	{Name: "player", WidthHundredths: 60, HeightHundredths: 180, Flags: 0},
	{Name: "zombie", WidthHundredths: 60, HeightHundredths: 195, Flags: 1},
	{Name: "item", WidthHundredths: 25, HeightHundredths: 25, Flags: 2},
	{Name: "arrow", WidthHundredths: 50, HeightHundredths: 50, Flags: 0},
	{Name: "villager", WidthHundredths: 60, HeightHundredths: 195, Flags: 1},
}

var biomes = []string{"plains", "forest", "desert", "ocean"}
var blockEntityTypes = []string{"chest", "furnace"}

type fluidDef struct {
	Name       string
	StateCount int
	Block      string // "" = no owning block
}

var fluids = []fluidDef{
	{Name: "empty", StateCount: 1},
	{Name: "water", StateCount: 16, Block: "water"},
	{Name: "lava", StateCount: 16, Block: "lava"},
}

type packetDef struct {
	Name string
	ID   uint32
}

var packets = []packetDef{
	{Name: "handshake", ID: 0x00},
	{Name: "status_request", ID: 0x00},
	{Name: "status_response", ID: 0x00},
	{Name: "login_start", ID: 0x00},
	{Name: "login_success", ID: 0x02},
	{Name: "set_compression", ID: 0x03},
	{Name: "keep_alive", ID: 0x21},
	{Name: "chunk_data", ID: 0x22},
	{Name: "player_position", ID: 0x14},
	{Name: "block_change", ID: 0x0c},
}
