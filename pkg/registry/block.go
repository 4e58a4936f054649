package registry

import (
	"github.com/cockroachdb/errors"
)

// PropDef is one property attached to a block: its registry key id/name
// and the number of discrete values it can take.
type PropDef struct {
	KeyID   uint32
	KeyName string
	Card    int
}

// blockStateDef is one block's property-set declaration plus its
// derived state_index/state_count, matching spec.md §4.2's per-block
// DEFAULT/state_index/PROPS_INDEX family.
type blockStateDef struct {
	props          []PropDef
	defaultOrdinal int
	stateIndex     uint32
	stateCount     uint32
}

// AABB is a unit-cube-relative axis-aligned box, each coordinate in
// sixteenths of a block (0..16), unpacked from one static_bounds shape.
type AABB struct {
	MinX, MinY, MinZ uint8
	MaxX, MaxY, MaxZ uint8
}

func unpackAABB(word uint64) AABB {
	return AABB{
		MinX: uint8(word >> 40), MinY: uint8(word >> 32), MinZ: uint8(word >> 24),
		MaxX: uint8(word >> 16), MaxY: uint8(word >> 8), MaxZ: uint8(word),
	}
}

func (a AABB) isFullCube() bool {
	return a.MinX == 0 && a.MinY == 0 && a.MinZ == 0 && a.MaxX == 16 && a.MaxY == 16 && a.MaxZ == 16
}

// coversFace reports whether a covers the entire 16x16 square of the
// named axis-aligned face (0=-X,1=+X,2=-Y,3=+Y,4=-Z,5=+Z).
func (a AABB) coversFace(face int) bool {
	switch face {
	case 0:
		return a.MinX == 0 && a.MinY == 0 && a.MinZ == 0 && a.MaxY == 16 && a.MaxZ == 16
	case 1:
		return a.MaxX == 16 && a.MinY == 0 && a.MinZ == 0 && a.MaxY == 16 && a.MaxZ == 16
	case 2:
		return a.MinY == 0 && a.MinX == 0 && a.MinZ == 0 && a.MaxX == 16 && a.MaxZ == 16
	case 3:
		return a.MaxY == 16 && a.MinX == 0 && a.MinZ == 0 && a.MaxX == 16 && a.MaxZ == 16
	case 4:
		return a.MinZ == 0 && a.MinX == 0 && a.MinY == 0 && a.MaxX == 16 && a.MaxY == 16
	case 5:
		return a.MaxZ == 16 && a.MinX == 0 && a.MinY == 0 && a.MaxX == 16 && a.MaxY == 16
	default:
		return false
	}
}

// StateIndex returns the global state id of block's first state.
func (r *Registries) StateIndex(block uint32) uint32 { return r.blockDefs[block].stateIndex }

// StateCount returns the number of distinct states block has.
func (r *Registries) StateCount(block uint32) uint32 { return r.blockDefs[block].stateCount }

// DefaultState returns block's default global state id.
func (r *Registries) DefaultState(block uint32) uint32 {
	d := r.blockDefs[block]
	return d.stateIndex + uint32(d.defaultOrdinal)
}

// Props returns block's ordered property definitions.
func (r *Registries) Props(block uint32) []PropDef { return r.blockDefs[block].props }

// TotalStates is the size of the global block-state id space.
func (r *Registries) TotalStates() uint32 { return uint32(len(r.stateToBlock)) }

// ToBlock recovers the owning block of a global state id.
func (r *Registries) ToBlock(state uint32) (uint32, bool) {
	if state >= uint32(len(r.stateToBlock)) {
		return 0, false
	}
	return r.stateToBlock[state], true
}

// EncodeProps packs per-property ordinal values (one per entry in
// Props(block), same order) into block's mixed-radix state ordinal.
func (r *Registries) EncodeProps(block uint32, values []int) (int, error) {
	props := r.blockDefs[block].props
	if len(values) != len(props) {
		return 0, errors.Newf("registry: block %d expects %d property values, got %d", block, len(props), len(values))
	}
	ordinal := 0
	for i, p := range props {
		if values[i] < 0 || values[i] >= p.Card {
			return 0, errors.Newf("registry: property %q value %d out of range [0,%d)", p.KeyName, values[i], p.Card)
		}
		ordinal = ordinal*p.Card + values[i]
	}
	return ordinal, nil
}

// DecodeProps is EncodeProps's inverse: given a block's state ordinal
// (state - StateIndex(block)), recovers one value per property, in
// declaration order. Correct regardless of whether cardinalities are
// powers of two, since it walks the mixed-radix digits directly rather
// than shifting/masking bits.
func (r *Registries) DecodeProps(block uint32, ordinal int) []int {
	props := r.blockDefs[block].props
	values := make([]int, len(props))
	for i := len(props) - 1; i >= 0; i-- {
		values[i] = ordinal % props[i].Card
		ordinal /= props[i].Card
	}
	return values
}

// KV is a textual property assignment, as block_state::parse consumes
// them.
type KV struct{ Key, Value string }

// ParseState reconstructs a state id for block from a key/value set,
// consuming matched property assignments in reverse property-declaration
// order and filling every unspecified property from the block's default,
// per spec.md §4.7. Entries naming a property block doesn't have are
// left in the returned remaining slice rather than erroring — an
// unrecognized key is not malformed input, since callers may be handing
// the same key/value set to multiple blocks. An unknown value token for
// a property the block does have is an error.
func (r *Registries) ParseState(block uint32, kv []KV) (state uint32, remaining []KV, err error) {
	def := r.blockDefs[block]
	values := r.DecodeProps(block, def.defaultOrdinal)
	remaining = append([]KV(nil), kv...)

	for i := len(def.props) - 1; i >= 0; i-- {
		p := def.props[i]
		for j := 0; j < len(remaining); j++ {
			if remaining[j].Key != p.KeyName {
				continue
			}
			names := r.propertyValueNames[p.KeyName]
			idx := indexOfStr(names, remaining[j].Value)
			if idx < 0 {
				return 0, nil, errors.Newf("registry: unknown value %q for property %q", remaining[j].Value, p.KeyName)
			}
			values[i] = idx
			remaining = append(remaining[:j], remaining[j+1:]...)
			break
		}
	}

	ordinal, err := r.EncodeProps(block, values)
	if err != nil {
		return 0, nil, err
	}
	return def.stateIndex + uint32(ordinal), remaining, nil
}

// WithProp returns the state obtained by overriding a single named
// property of state's owning block, leaving every other property as-is.
func (r *Registries) WithProp(state uint32, key, value string) (uint32, error) {
	block, ok := r.ToBlock(state)
	if !ok {
		return 0, errors.Newf("registry: state %d has no owning block", state)
	}
	def := r.blockDefs[block]
	values := r.DecodeProps(block, int(state-def.stateIndex))
	for i, p := range def.props {
		if p.KeyName != key {
			continue
		}
		names := r.propertyValueNames[p.KeyName]
		idx := indexOfStr(names, value)
		if idx < 0 {
			return 0, errors.Newf("registry: unknown value %q for property %q", value, key)
		}
		values[i] = idx
		ordinal, err := r.EncodeProps(block, values)
		if err != nil {
			return 0, err
		}
		return def.stateIndex + uint32(ordinal), nil
	}
	return 0, errors.Newf("registry: block %d has no property %q", block, key)
}

// GetProp reads a named property's current textual value off state.
func (r *Registries) GetProp(state uint32, key string) (value string, ok bool) {
	block, ok := r.ToBlock(state)
	if !ok {
		return "", false
	}
	def := r.blockDefs[block]
	values := r.DecodeProps(block, int(state-def.stateIndex))
	for i, p := range def.props {
		if p.KeyName == key {
			return r.propertyValueNames[p.KeyName][values[i]], true
		}
	}
	return "", false
}

// Luminance is the light level a block state emits, 0..15.
func (r *Registries) Luminance(state uint32) int { return int(r.settings[state] & 0xF) }

// StaticFlags returns the two plain (non-Option) declared flags stored
// alongside luminance: a raw "solid" declaration and a raw "opaque"
// declaration, independent of whether the state has a collision shape.
func (r *Registries) StaticFlags(state uint32) (solid, opaque bool) {
	f := r.settings[state]
	return f&0x10 != 0, f&0x20 != 0
}

func (r *Registries) shape(state uint32) (AABB, bool) {
	idx := r.staticBounds[state]
	if idx == 0 {
		return AABB{}, false
	}
	return unpackAABB(r.shapes[idx]), true
}

// Opacity reports whether state's collision shape is a full opaque
// cube. None when the state carries no shape at all (the bounds word
// is zero) — matching spec.md §4.7's shared zero-sentinel contract
// across the opacity/solid/face-sturdiness/collision/culling family.
func (r *Registries) Opacity(state uint32) (bool, bool) {
	a, ok := r.shape(state)
	if !ok {
		return false, false
	}
	return a.isFullCube(), true
}

// Solid reports whether state has any collision geometry at all.
func (r *Registries) Solid(state uint32) (bool, bool) {
	_, ok := r.shape(state)
	return ok, ok
}

// FaceSturdiness reports whether state's shape fully covers the given
// face (0=-X,1=+X,2=-Y,3=+Y,4=-Z,5=+Z), e.g. for redstone/piston push
// rules.
func (r *Registries) FaceSturdiness(state uint32, face int) (bool, bool) {
	a, ok := r.shape(state)
	if !ok {
		return false, false
	}
	return a.coversFace(face), true
}

// CollisionShape returns state's AABB for entity collision resolution.
func (r *Registries) CollisionShape(state uint32) (AABB, bool) { return r.shape(state) }

// CullingShape returns state's AABB for face-culling during chunk mesh
// building. This registry does not model distinct partial-occlusion
// culling geometry, so it reuses the collision shape — a documented
// reduction, not a distinct table.
func (r *Registries) CullingShape(state uint32) (AABB, bool) { return r.shape(state) }

func indexOfStr(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
