// Package inventory implements the player inventory state machine
// described in spec.md §4.6: a fixed 46-slot array plus a cursor stack,
// dispatched through a click() entry point covering pickup, quick-move
// (shift-click), swap, clone, throw, the three-stage quick-craft drag
// protocol, and pickup-all.
//
// Grounded on the teacher's pkg/server/inventory.go Click Window
// handling (handleInventoryClick/handleWindowClick), generalized from
// its hardcoded 1.8 45-slot/window-ID dispatch onto one slot-array
// owned per connection, independent of any particular window layout.
package inventory

// Slot layout, per spec.md's "Fixed 46-slot array" declaration.
const (
	SlotCraftResult    = 0
	SlotCraftGridStart = 1
	SlotCraftGridEnd   = 4
	SlotArmorStart     = 5
	SlotArmorEnd       = 8
	SlotMainStart      = 9
	SlotMainEnd        = 35
	SlotHotbarStart    = 36
	SlotHotbarEnd      = 44
	SlotOffHand        = 45
	NumSlots           = 46
)

// AirItem is the registry's air sentinel; a zero-count stack always
// carries this item id.
const AirItem uint32 = 0

// ItemStack is one inventory cell: an item id and a count. Count 0
// always pairs with Item == AirItem, enforced by every mutator in this
// package rather than by the caller.
type ItemStack struct {
	Item  uint32
	Count int
}

func (s ItemStack) IsEmpty() bool { return s.Count == 0 }

func normalize(s ItemStack) ItemStack {
	if s.Count <= 0 {
		return ItemStack{}
	}
	return s
}

// WorldPos is the click's reported cursor position in world space, used
// only as the spawn origin for items this click ejects into the world.
type WorldPos struct{ X, Y, Z float64 }

// Drop is one stack ejected into the world as a result of a click.
type Drop struct {
	Stack ItemStack
	Pos   WorldPos
}

// ItemCatalog supplies the one piece of external data click() needs:
// an item's maximum stack size. Satisfied by *registry.Registries.
type ItemCatalog interface {
	MaxStackSize(item uint32) int
}

// GameMode gates the actions spec.md restricts per mode: Clone and
// quick-craft's CLONE button kind require Creative; Throw is disabled
// in Spectator.
type GameMode int

const (
	Survival GameMode = iota
	Creative
	Adventure
	Spectator
)

// Action is one of the seven click kinds spec.md §4.6 names.
type Action int

const (
	Pickup Action = iota
	QuickMove
	Swap
	Clone
	Throw
	QuickCraft
	PickupAll
)

type buttonKind int

const (
	kindCharitable buttonKind = iota
	kindGreedy
	kindClone
)

type quickCraftStage int

const (
	qcStart quickCraftStage = iota
	qcContinue
	qcEnd
)

type quickCraftState struct {
	active bool
	stage  quickCraftStage
	kind   buttonKind
	slots  []int
}

// Inventory is one player's slot array, cursor, and quick-craft state,
// owned by a single connection (spec.md §5's per-connection ownership
// model — no cross-connection sharing).
type Inventory struct {
	slots          [NumSlots]ItemStack
	cursor         ItemStack
	selectedHotbar int
	revision       uint8
	syncID         uint8
	qc             quickCraftState
	catalog        ItemCatalog
}

func New(catalog ItemCatalog) *Inventory {
	return &Inventory{catalog: catalog}
}

func (inv *Inventory) Slot(i int) ItemStack    { return inv.slots[i] }
func (inv *Inventory) Cursor() ItemStack       { return inv.cursor }
func (inv *Inventory) Revision() uint8         { return inv.revision }
func (inv *Inventory) SyncID() uint8           { return inv.syncID }
func (inv *Inventory) SetSyncID(id uint8)      { inv.syncID = id }
func (inv *Inventory) SelectedHotbar() int     { return inv.selectedHotbar }

func (inv *Inventory) SetSelectedHotbar(i int) bool {
	if i < 0 || i >= SlotHotbarEnd-SlotHotbarStart+1 {
		return false
	}
	inv.selectedHotbar = i
	return true
}

// SetSlot overwrites a slot directly (used to populate starting
// inventories, creative-mode gives, and wire-sync application); it
// still enforces the count==0 => air invariant.
func (inv *Inventory) SetSlot(i int, s ItemStack) { inv.slots[i] = normalize(s) }

func (inv *Inventory) setNormalized(slot int, s ItemStack) { inv.slots[slot] = normalize(s) }

func (inv *Inventory) maxCount(item uint32) int {
	if item == AirItem {
		return 0
	}
	return inv.catalog.MaxStackSize(item)
}

func (inv *Inventory) bumpRevision() { inv.revision++ }

func (inv *Inventory) resetQuickCraft() { inv.qc = quickCraftState{} }

// Click is the state machine's single entry point: (button, slot,
// action, cursor_world_pos, game_mode) in, inventory/cursor mutations
// plus world drops out, per spec.md §4.6.
func (inv *Inventory) Click(action Action, button, slot int, cursorPos WorldPos, gameMode GameMode) []Drop {
	if action != QuickCraft && inv.qc.active {
		inv.resetQuickCraft()
	}

	switch action {
	case Pickup:
		return inv.pickup(button, slot, cursorPos)
	case Throw:
		return inv.throw(button, slot, cursorPos, gameMode)
	case QuickCraft:
		return inv.quickCraft(button, slot, gameMode)
	case PickupAll:
		inv.pickupAll(slot)
		return nil
	case Swap:
		inv.swap(slot)
		return nil
	case QuickMove:
		inv.quickMove(slot)
		return nil
	case Clone:
		inv.clone(slot, gameMode)
		return nil
	}
	return nil
}

// pickup implements spec.md §4.6's Pickup semantics. slot == -999
// drops the cursor's contents into the world instead of touching a
// slot.
func (inv *Inventory) pickup(button, slot int, cursorPos WorldPos) []Drop {
	if slot == -999 {
		return inv.throwCursor(button, cursorPos)
	}

	s := inv.Slot(slot)
	cur := inv.cursor

	switch {
	case cur.Count == 0 && s.Count > 0:
		if button == 0 {
			inv.cursor = s
			inv.setNormalized(slot, ItemStack{})
		} else {
			half := (s.Count + 1) / 2
			inv.cursor = ItemStack{Item: s.Item, Count: half}
			s.Count -= half
			inv.setNormalized(slot, s)
		}
	case cur.Count > 0 && s.Count == 0:
		if button == 0 {
			inv.setNormalized(slot, cur)
			inv.cursor = ItemStack{}
		} else {
			inv.setNormalized(slot, ItemStack{Item: cur.Item, Count: 1})
			cur.Count--
			inv.cursor = normalize(cur)
		}
	case cur.Item == s.Item:
		max := inv.maxCount(cur.Item)
		if button == 0 {
			space := max - s.Count
			if space < 0 {
				space = 0
			}
			give := cur.Count
			if give > space {
				give = space
			}
			s.Count += give
			cur.Count -= give
			inv.setNormalized(slot, s)
			inv.cursor = normalize(cur)
		} else if s.Count < max {
			s.Count++
			cur.Count--
			inv.setNormalized(slot, s)
			inv.cursor = normalize(cur)
		}
	default:
		inv.cursor = s
		inv.setNormalized(slot, cur)
	}

	inv.bumpRevision()
	return nil
}

func (inv *Inventory) throwCursor(button int, cursorPos WorldPos) []Drop {
	cur := inv.cursor
	if cur.Count == 0 {
		return nil
	}
	count := cur.Count
	if button == 1 {
		count = 1
	}
	item := cur.Item
	cur.Count -= count
	inv.cursor = normalize(cur)
	inv.bumpRevision()
	return []Drop{{Stack: ItemStack{Item: item, Count: count}, Pos: cursorPos}}
}

// throw implements spec.md §4.6's Throw: empty cursor only, left drops
// the whole clicked stack, right drops one.
func (inv *Inventory) throw(button, slot int, cursorPos WorldPos, gameMode GameMode) []Drop {
	if gameMode == Spectator || inv.cursor.Count != 0 {
		inv.bumpRevision()
		return nil
	}
	s := inv.Slot(slot)
	if s.Count == 0 {
		return nil
	}
	item := s.Item
	count := s.Count
	if button == 1 {
		count = 1
	}
	s.Count -= count
	inv.setNormalized(slot, s)
	inv.bumpRevision()
	return []Drop{{Stack: ItemStack{Item: item, Count: count}, Pos: cursorPos}}
}

// quickCraft drives the three-stage drag machine keyed by button&3,
// per spec.md §4.6.
func (inv *Inventory) quickCraft(button, slot int, gameMode GameMode) []Drop {
	stage := quickCraftStage(button & 3)

	switch stage {
	case qcStart:
		kind := buttonKind((button >> 2) & 3)
		if kind == kindClone && gameMode != Creative {
			inv.resetQuickCraft()
			return nil
		}
		inv.qc = quickCraftState{active: true, stage: qcStart, kind: kind}

	case qcContinue:
		if !inv.qc.active {
			return nil
		}
		s := inv.Slot(slot)
		cur := inv.cursor
		eligible := s.Count == 0 || s.Item == cur.Item
		room := inv.qc.kind == kindClone || cur.Count > len(inv.qc.slots)
		if eligible && room && !containsInt(inv.qc.slots, slot) {
			inv.qc.slots = append(inv.qc.slots, slot)
		}
		inv.qc.stage = qcContinue

	case qcEnd:
		if !inv.qc.active {
			return nil
		}
		inv.finishQuickCraft()
		inv.resetQuickCraft()
	}
	return nil
}

// finishQuickCraft distributes the cursor stack over the recorded
// slots per spec.md's CHARITABLE/GREEDY/CLONE rules. A single claimed
// slot takes its own branch and is handled as a standard left-click
// Pickup on that slot.
func (inv *Inventory) finishQuickCraft() {
	slots := inv.qc.slots
	if len(slots) == 0 {
		return
	}
	if len(slots) == 1 {
		inv.pickup(0, slots[0], WorldPos{})
		return
	}

	cur := inv.cursor
	switch inv.qc.kind {
	case kindCharitable:
		if cur.Count == 0 {
			return
		}
		per := cur.Count / len(slots)
		if per <= 0 {
			return
		}
		for _, s := range slots {
			inv.depositInto(s, per, &cur)
		}
		inv.cursor = normalize(cur)

	case kindGreedy:
		for _, s := range slots {
			inv.depositInto(s, 1, &cur)
		}
		inv.cursor = normalize(cur)

	case kindClone:
		max := inv.maxCount(cur.Item)
		for _, s := range slots {
			existing := inv.Slot(s)
			if existing.Count == 0 || existing.Item == cur.Item {
				inv.setNormalized(s, ItemStack{Item: cur.Item, Count: max})
			}
		}
		// Cursor is left untouched: CLONE fills slots without debiting it.
	}

	inv.bumpRevision()
}

// depositInto gives up to amount cursor items to slot, respecting the
// slot's headroom and the item's max_count, and debits cur in place.
func (inv *Inventory) depositInto(slot, amount int, cur *ItemStack) {
	if cur.Count <= 0 || amount <= 0 {
		return
	}
	if amount > cur.Count {
		amount = cur.Count
	}
	existing := inv.Slot(slot)
	max := inv.maxCount(cur.Item)

	if existing.Count == 0 {
		give := amount
		if give > max {
			give = max
		}
		inv.setNormalized(slot, ItemStack{Item: cur.Item, Count: give})
		cur.Count -= give
		return
	}
	if existing.Item != cur.Item {
		return
	}
	space := max - existing.Count
	if space <= 0 {
		return
	}
	give := amount
	if give > space {
		give = space
	}
	existing.Count += give
	inv.setNormalized(slot, existing)
	cur.Count -= give
}

// pickupAll implements spec.md's PickupAll: sweeps the inventory twice
// collecting same-item stacks onto a non-empty cursor at an empty-slot
// click, the first pass skipping already-full stacks.
func (inv *Inventory) pickupAll(slot int) {
	if inv.cursor.Count == 0 || inv.Slot(slot).Count != 0 {
		return
	}
	max := inv.maxCount(inv.cursor.Item)

	sweep := func(includeFull bool) {
		for i := 0; i < NumSlots && inv.cursor.Count < max; i++ {
			if i == SlotCraftResult {
				continue
			}
			s := inv.Slot(i)
			if s.Count == 0 || s.Item != inv.cursor.Item {
				continue
			}
			if !includeFull && s.Count >= max {
				continue
			}
			space := max - inv.cursor.Count
			take := s.Count
			if take > space {
				take = space
			}
			inv.cursor.Count += take
			s.Count -= take
			inv.setNormalized(i, s)
		}
	}
	sweep(false)
	sweep(true)
	inv.bumpRevision()
}

// swap exchanges the cursor and the clicked slot unconditionally,
// grounded on the teacher's Click Window "else { swap }" fallback used
// whenever cursor and slot hold different non-empty items.
func (inv *Inventory) swap(slot int) {
	s := inv.Slot(slot)
	inv.setNormalized(slot, inv.cursor)
	inv.cursor = s
	inv.bumpRevision()
}

// quickMoveDestination resolves the shift-click target range for a
// slot, generalizing the teacher's hotbar<->main-storage pairing onto
// this package's 46-slot layout: hotbar shifts into main storage and
// vice versa, everything else (crafting grid, armor, off-hand) shifts
// into main storage.
func (inv *Inventory) quickMoveDestination(slot int) (int, int) {
	switch {
	case slot >= SlotHotbarStart && slot <= SlotHotbarEnd:
		return SlotMainStart, SlotMainEnd
	case slot >= SlotMainStart && slot <= SlotMainEnd:
		return SlotHotbarStart, SlotHotbarEnd
	default:
		return SlotMainStart, SlotMainEnd
	}
}

// quickMove implements shift-click: stack onto matching destination
// slots first, then spill into empty ones, mirroring the teacher's
// two-pass handleInventoryClick mode==1 logic.
func (inv *Inventory) quickMove(slot int) {
	s := inv.Slot(slot)
	if s.Count == 0 {
		return
	}
	destStart, destEnd := inv.quickMoveDestination(slot)
	max := inv.maxCount(s.Item)
	remaining := s.Count

	for i := destStart; i <= destEnd && remaining > 0; i++ {
		d := inv.Slot(i)
		if d.Count > 0 && d.Item == s.Item && d.Count < max {
			space := max - d.Count
			give := remaining
			if give > space {
				give = space
			}
			d.Count += give
			inv.setNormalized(i, d)
			remaining -= give
		}
	}
	for i := destStart; i <= destEnd && remaining > 0; i++ {
		if inv.Slot(i).Count == 0 {
			give := remaining
			if give > max {
				give = max
			}
			inv.setNormalized(i, ItemStack{Item: s.Item, Count: give})
			remaining -= give
		}
	}

	if remaining == s.Count {
		return
	}
	s.Count = remaining
	inv.setNormalized(slot, s)
	inv.bumpRevision()
}

// clone duplicates the clicked stack onto the cursor at max_count
// without consuming it, restricted to Creative — the middle-click
// "pick block" duplication behavior, distinct from quick-craft's CLONE
// button kind but gated by the same mode restriction.
func (inv *Inventory) clone(slot int, gameMode GameMode) {
	if gameMode != Creative {
		return
	}
	s := inv.Slot(slot)
	if s.Count == 0 {
		return
	}
	inv.cursor = ItemStack{Item: s.Item, Count: inv.maxCount(s.Item)}
	inv.bumpRevision()
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
