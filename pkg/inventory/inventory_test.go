package inventory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeCatalog struct{ max map[uint32]int }

func (c fakeCatalog) MaxStackSize(item uint32) int {
	if m, ok := c.max[item]; ok {
		return m
	}
	return 64
}

const (
	itemStone uint32 = 1
	itemTorch uint32 = 2 // max stack 64
	itemEgg   uint32 = 3 // max stack 16
)

func newTestInventory() *Inventory {
	return New(fakeCatalog{max: map[uint32]int{itemEgg: 16}})
}

func TestPickupEmptyCursorLeftTakesAll(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 40})

	inv.Click(Pickup, 0, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 40}, inv.Cursor())
	require.Equal(t, ItemStack{}, inv.Slot(SlotMainStart))
}

func TestPickupEmptyCursorRightTakesHalfRoundedUp(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 7})

	inv.Click(Pickup, 1, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 4}, inv.Cursor())
	require.Equal(t, ItemStack{Item: itemStone, Count: 3}, inv.Slot(SlotMainStart))
}

func TestPickupSingleStackRightTakesAll(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 1})

	inv.Click(Pickup, 1, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, inv.Cursor())
	require.Equal(t, ItemStack{}, inv.Slot(SlotMainStart))
}

func TestPickupMergeSameItemLeftMergesUpToMax(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemEgg, Count: 10}
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemEgg, Count: 10})

	inv.Click(Pickup, 0, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemEgg, Count: 16}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{Item: itemEgg, Count: 4}, inv.Cursor())
}

func TestPickupDifferentItemsSwap(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 5}
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemTorch, Count: 3})

	inv.Click(Pickup, 0, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemTorch, Count: 3}, inv.Cursor())
	require.Equal(t, ItemStack{Item: itemStone, Count: 5}, inv.Slot(SlotMainStart))
}

func TestPickupDropsCursorIntoWorld(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 5}

	drops := inv.Click(Pickup, 1, -999, WorldPos{X: 1, Y: 2, Z: 3}, Survival)

	require.Len(t, drops, 1)
	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, drops[0].Stack)
	require.Equal(t, WorldPos{X: 1, Y: 2, Z: 3}, drops[0].Pos)
	require.Equal(t, ItemStack{Item: itemStone, Count: 4}, inv.Cursor())
}

func TestThrowRequiresEmptyCursor(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 1}
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemTorch, Count: 5})

	drops := inv.Click(Throw, 0, SlotMainStart, WorldPos{}, Survival)

	require.Nil(t, drops)
	require.Equal(t, ItemStack{Item: itemTorch, Count: 5}, inv.Slot(SlotMainStart))
}

func TestThrowLeftDropsWholeStackRightDropsOne(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 5})

	drops := inv.Click(Throw, 1, SlotMainStart, WorldPos{}, Survival)
	require.Len(t, drops, 1)
	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, drops[0].Stack)
	require.Equal(t, ItemStack{Item: itemStone, Count: 4}, inv.Slot(SlotMainStart))

	drops = inv.Click(Throw, 0, SlotMainStart, WorldPos{}, Survival)
	require.Len(t, drops, 1)
	require.Equal(t, ItemStack{Item: itemStone, Count: 4}, drops[0].Stack)
	require.Equal(t, ItemStack{}, inv.Slot(SlotMainStart))
}

func TestThrowDisallowedInSpectator(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 5})

	drops := inv.Click(Throw, 0, SlotMainStart, WorldPos{}, Spectator)

	require.Nil(t, drops)
	require.Equal(t, ItemStack{Item: itemStone, Count: 5}, inv.Slot(SlotMainStart))
}

func TestQuickCraftCharitableDistributesEvenly(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 9}

	inv.Click(QuickCraft, 0|(int(kindCharitable)<<2), -999, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart+1, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart+2, WorldPos{}, Survival)
	inv.Click(QuickCraft, 2, -999, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 3}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{Item: itemStone, Count: 3}, inv.Slot(SlotMainStart+1))
	require.Equal(t, ItemStack{Item: itemStone, Count: 3}, inv.Slot(SlotMainStart+2))
	require.Equal(t, ItemStack{}, inv.Cursor())
}

func TestQuickCraftGreedyGivesOnePerSlot(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 9}

	inv.Click(QuickCraft, 0|(int(kindGreedy)<<2), -999, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart+1, WorldPos{}, Survival)
	inv.Click(QuickCraft, 2, -999, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, inv.Slot(SlotMainStart+1))
	require.Equal(t, ItemStack{Item: itemStone, Count: 7}, inv.Cursor())
}

func TestQuickCraftCloneRequiresCreative(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 1}

	inv.Click(QuickCraft, 0|(int(kindClone)<<2), -999, WorldPos{}, Survival)
	require.False(t, inv.qc.active)

	inv.Click(QuickCraft, 0|(int(kindClone)<<2), -999, WorldPos{}, Creative)
	require.True(t, inv.qc.active)
	inv.Click(QuickCraft, 1, SlotMainStart, WorldPos{}, Creative)
	inv.Click(QuickCraft, 1, SlotMainStart+1, WorldPos{}, Creative)
	inv.Click(QuickCraft, 2, -999, WorldPos{}, Creative)

	require.Equal(t, ItemStack{Item: itemStone, Count: 64}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{Item: itemStone, Count: 64}, inv.Slot(SlotMainStart+1))
	require.Equal(t, ItemStack{Item: itemStone, Count: 1}, inv.Cursor()) // CLONE never debits
}

func TestQuickCraftSingleSlotDegeneratesToPickup(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 10}

	inv.Click(QuickCraft, 0|(int(kindCharitable)<<2), -999, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart, WorldPos{}, Survival)
	inv.Click(QuickCraft, 2, -999, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 10}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{}, inv.Cursor())
}

func TestNonQuickCraftActionResetsInProgressDrag(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 9}
	inv.Click(QuickCraft, 0|(int(kindCharitable)<<2), -999, WorldPos{}, Survival)
	inv.Click(QuickCraft, 1, SlotMainStart, WorldPos{}, Survival)
	require.True(t, inv.qc.active)

	inv.Click(Swap, 0, SlotMainStart+5, WorldPos{}, Survival)

	require.False(t, inv.qc.active)
}

func TestPickupAllSweepsNonFullThenFullStacks(t *testing.T) {
	inv := newTestInventory()
	inv.cursor = ItemStack{Item: itemStone, Count: 1}
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 64})
	inv.SetSlot(SlotMainStart+1, ItemStack{Item: itemStone, Count: 10})
	inv.SetSlot(SlotMainStart+2, ItemStack{Item: itemTorch, Count: 5})

	inv.Click(PickupAll, 0, SlotMainStart+10, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 64}, inv.Cursor())
	require.Equal(t, ItemStack{}, inv.Slot(SlotMainStart+10)) // click target itself stays empty
	require.Equal(t, ItemStack{Item: itemStone, Count: 11}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{}, inv.Slot(SlotMainStart+1))
	require.Equal(t, ItemStack{Item: itemTorch, Count: 5}, inv.Slot(SlotMainStart+2)) // different item untouched
}

func TestQuickMoveHotbarToMainStacksThenFillsEmpty(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotHotbarStart, ItemStack{Item: itemStone, Count: 40})
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 60})

	inv.Click(QuickMove, 0, SlotHotbarStart, WorldPos{}, Survival)

	require.Equal(t, ItemStack{Item: itemStone, Count: 64}, inv.Slot(SlotMainStart))
	require.Equal(t, ItemStack{}, inv.Slot(SlotHotbarStart))
	require.Equal(t, ItemStack{Item: itemStone, Count: 36}, inv.Slot(SlotMainStart+1))
}

func TestCloneRequiresCreativeAndDoesNotConsumeSource(t *testing.T) {
	inv := newTestInventory()
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 3})

	inv.Click(Clone, 0, SlotMainStart, WorldPos{}, Survival)
	require.Equal(t, ItemStack{}, inv.Cursor())

	inv.Click(Clone, 0, SlotMainStart, WorldPos{}, Creative)
	require.Equal(t, ItemStack{Item: itemStone, Count: 64}, inv.Cursor())
	require.Equal(t, ItemStack{Item: itemStone, Count: 3}, inv.Slot(SlotMainStart))
}

func TestRevisionBumpsOnMutationAndWraps(t *testing.T) {
	inv := newTestInventory()
	inv.revision = 255
	inv.SetSlot(SlotMainStart, ItemStack{Item: itemStone, Count: 1})

	inv.Click(Pickup, 0, SlotMainStart, WorldPos{}, Survival)

	require.Equal(t, uint8(0), inv.Revision())
}
