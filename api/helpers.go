package api

import (
	"teascript/object"
	"teascript/state"
	"teascript/table"
	"teascript/value"
)

func setGlobal(s *state.State, key *object.String, v value.Value) {
	table.Set(&s.Globals, key, v)
}

func getGlobal(s *state.State, key *object.String) (value.Value, bool) {
	return table.Get(&s.Globals, key)
}

func setModuleValue(m *object.Module, key *object.String, v value.Value) {
	table.Set(&m.Values, key, v)
}
