package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerRequirementHelpers(L)
	registerRewardHelpers(L)
}

// curried registers a `Name "id" { ... }` constructor appending to dst.
func curried(L *lua.LState, name string, dst *[]rawDef) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			*dst = append(*dst, rawDef{id: id, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Chapter(0) { ... }, curried on the numeric chapter id.
	L.SetGlobal("Chapter", L.NewFunction(func(L *lua.LState) int {
		id := int(L.CheckNumber(1))
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.chapters = append(coll.chapters, rawChapter{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Lesson "id" { ... } and friends, curried on the string id.
	curried(L, "Lesson", &coll.lessons)
	curried(L, "Item", &coll.items)
	curried(L, "Vehicle", &coll.vehicles)
	curried(L, "Pet", &coll.pets)
	curried(L, "Housing", &coll.housing)
	curried(L, "Partner", &coll.partners)
	curried(L, "Ending", &coll.endings)
	curried(L, "Choice", &coll.choices)
}

// kindTable builds the tagged table all requirement and reward helpers
// return.
func kindTable(L *lua.LState, kind string, fields map[string]lua.LValue) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("kind", lua.LString(kind))
	for k, v := range fields {
		tbl.RawSetString(k, v)
	}
	return tbl
}

func registerRequirementHelpers(L *lua.LState) {
	// ItemOwned("id")
	L.SetGlobal("ItemOwned", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "item_owned", map[string]lua.LValue{
			"item": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// VehicleOwned("id")
	L.SetGlobal("VehicleOwned", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "vehicle_owned", map[string]lua.LValue{
			"vehicle": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// PetOwned("id")
	L.SetGlobal("PetOwned", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "pet_owned", map[string]lua.LValue{
			"pet": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// RelationshipLevel("partner", min)
	L.SetGlobal("RelationshipLevel", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "relationship_level", map[string]lua.LValue{
			"partner": lua.LString(L.CheckString(1)),
			"min":     L.CheckNumber(2),
		}))
		return 1
	}))

	// StatAtLeast("stat", min)
	L.SetGlobal("StatAtLeast", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "stat_at_least", map[string]lua.LValue{
			"stat": lua.LString(L.CheckString(1)),
			"min":  L.CheckNumber(2),
		}))
		return 1
	}))

	// ChapterUnlocked(id)
	L.SetGlobal("ChapterUnlocked", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "chapter_unlocked", map[string]lua.LValue{
			"chapter": L.CheckNumber(1),
		}))
		return 1
	}))

	// FlagSet("flag")
	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "flag_set", map[string]lua.LValue{
			"flag": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// MoneyAtLeast(amount)
	L.SetGlobal("MoneyAtLeast", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "money_at_least", map[string]lua.LValue{
			"amount": L.CheckNumber(1),
		}))
		return 1
	}))
}

func registerRewardHelpers(L *lua.LState) {
	// MoneyDelta(amount)
	L.SetGlobal("MoneyDelta", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "money_delta", map[string]lua.LValue{
			"amount": L.CheckNumber(1),
		}))
		return 1
	}))

	// ItemGrant("id")
	L.SetGlobal("ItemGrant", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "item_grant", map[string]lua.LValue{
			"item": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// VehicleGrant("id")
	L.SetGlobal("VehicleGrant", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "vehicle_grant", map[string]lua.LValue{
			"vehicle": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// PetGrant("id")
	L.SetGlobal("PetGrant", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "pet_grant", map[string]lua.LValue{
			"pet": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))

	// RelationshipDelta("partner", delta)
	L.SetGlobal("RelationshipDelta", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "relationship_delta", map[string]lua.LValue{
			"partner": lua.LString(L.CheckString(1)),
			"delta":   L.CheckNumber(2),
		}))
		return 1
	}))

	// StatDelta("stat", delta)
	L.SetGlobal("StatDelta", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "stat_delta", map[string]lua.LValue{
			"stat":  lua.LString(L.CheckString(1)),
			"delta": L.CheckNumber(2),
		}))
		return 1
	}))

	// GrantFlag("flag")
	L.SetGlobal("GrantFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(kindTable(L, "flag_set", map[string]lua.LValue{
			"flag": lua.LString(L.CheckString(1)),
		}))
		return 1
	}))
}
