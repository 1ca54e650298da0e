// Package npcres holds the id and name tables the client uses to assemble
// player characters out of per-slot sprites: animation actions, render
// slots and the per-action layer order.
//
// The tables are plain values. Code that needs them takes a Tables
// argument; DefaultTables returns the ones shipped with the client.
package npcres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

// ActionID identifies a character animation.
type ActionID int

const (
	FreeStand1 ActionID = iota
	FreeStand2
	FreeStand3
	MeleeWStand
	RangeWStand
	DoubleWStand
	FreeWalk
	NormalWalk
	MeleeWWalk
	RangeWWalk
	DoubleWWalk
	FreeRun
	NormalRun
	MeleeWRun
	RangeWRun
	DoubleWRun
	FreeWound
	MeleeWWound
	RangeWWound
	DoubleWWound
	FreeDie
	MeleeWDie
	RangeWDie
	DoubleWDie
	FreeAttack
	MeleeWPuncture
	MeleeWCut
	RangeWPuncture
	RangeWCut
	DoubleWPull
	DoubleWPound
	DartThrow
	FreeMagic
	MeleeWMagic
	RangeWMagic
	DoubleWMagic
	SitDown
	JumpFly
	RideStand
	RideWalk
	RideRun
	RideCut
	RidePuncture
	RideMagic
	RideWound
	RideDie
	RideStand1
	RideStand2

	ActionCount = int(iota)
)

var actionNames = [ActionCount]string{
	"FreeStand1", "FreeStand2", "FreeStand3",
	"MeleeWStand", "RangeWStand", "DoubleWStand",
	"FreeWalk", "NormalWalk", "MeleeWWalk", "RangeWWalk", "DoubleWWalk",
	"FreeRun", "NormalRun", "MeleeWRun", "RangeWRun", "DoubleWRun",
	"FreeWound", "MeleeWWound", "RangeWWound", "DoubleWWound",
	"FreeDie", "MeleeWDie", "RangeWDie", "DoubleWDie",
	"FreeAttack", "MeleeWPuncture", "MeleeWCut", "RangeWPuncture", "RangeWCut",
	"DoubleWPull", "DoubleWPound", "DartThrow",
	"FreeMagic", "MeleeWMagic", "RangeWMagic", "DoubleWMagic",
	"SitDown", "JumpFly",
	"RideStand", "RideWalk", "RideRun", "RideCut", "RidePuncture",
	"RideMagic", "RideWound", "RideDie", "RideStand1", "RideStand2",
}

// String implements the stringer interface.
func (a ActionID) String() string {
	if a < 0 || int(a) >= ActionCount {
		return fmt.Sprintf("action %d unknown", int(a))
	}
	return actionNames[a]
}

// Slot is a render slot of a character, named as in the resource tables.
type Slot string

const (
	SlotHead        = Slot("head")
	SlotBody        = Slot("body")
	SlotLeftHand    = Slot("lefthand")
	SlotLeftWeapon  = Slot("leftweapon")
	SlotShoulder    = Slot("shoulder")
	SlotHorseMiddle = Slot("horsemiddle")
	SlotHorseFront  = Slot("horsefront")
	SlotHorseBack   = Slot("horseback")
	SlotHair        = Slot("hair")
	SlotRightWeapon = Slot("rightweapon")
)

// DefaultLayerOrder is the layer order used when a resource table has none
// for an action: back to front, as layer ids.
const DefaultLayerOrder = "-1,14,13,1,4,9,7,6,5,12,8,0"

// Tables maps between the names and numeric ids used in resource tables.
// A Tables value is never modified after construction and may be shared.
type Tables struct {
	actions map[string]ActionID
	slots   map[int]Slot
}

// DefaultTables returns the tables used by the shipped client.
func DefaultTables() Tables {
	t := Tables{
		actions: make(map[string]ActionID, ActionCount),
		slots: map[int]Slot{
			0:  SlotHead,
			1:  SlotBody,
			2:  SlotLeftHand,
			4:  SlotLeftWeapon,
			5:  SlotShoulder,
			6:  SlotHorseMiddle,
			7:  SlotHorseFront,
			8:  SlotHorseBack,
			12: SlotHair,
			13: SlotLeftHand,
			14: SlotRightWeapon,
		},
	}
	for i, n := range actionNames {
		t.actions[strings.ToLower(n)] = ActionID(i)
	}
	return t
}

// Action looks up an action by name, ignoring case. Numeric names are
// accepted too, as some tables store the id instead of the name.
func (t Tables) Action(name string) (ActionID, bool) {
	name = strings.TrimSpace(name)
	if a, ok := t.actions[strings.ToLower(name)]; ok {
		return a, true
	}
	if n, err := strconv.Atoi(name); err == nil && n >= 0 && n < ActionCount {
		return ActionID(n), true
	}
	return 0, false
}

// SlotByID returns the slot a layer id refers to.
func (t Tables) SlotByID(id int) (Slot, bool) {
	s, ok := t.slots[id]
	return s, ok
}

// Slots returns every known slot once, sorted by name.
func (t Tables) Slots() []Slot {
	seen := make(map[Slot]bool, len(t.slots))
	var out []Slot
	for _, s := range t.slots {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ParseLayerOrder parses a comma separated list of layer ids, back to
// front, into slots. Negative ids mark unused positions and are skipped, as
// are ids that do not parse or that name no slot. A slot listed twice is
// kept at its first position.
func ParseLayerOrder(t Tables, order string) []Slot {
	var out []Slot
	seen := make(map[Slot]bool)
	for _, f := range strings.Split(order, ",") {
		f = strings.TrimSpace(f)
		id, err := strconv.Atoi(f)
		if err != nil {
			if f != "" {
				glog.V(1).Infof("npcres: ignoring layer id %q", f)
			}
			continue
		}
		if id < 0 {
			continue
		}
		s, ok := t.SlotByID(id)
		if !ok {
			glog.V(2).Infof("npcres: layer id %d names no slot", id)
			continue
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
