package vm

import (
	"teascript/object"
	"teascript/table"
	"teascript/value"
)

// Loader resolves a script module path to its already-compiled entry
// closure. Teascript's compiler is out of scope here, so
// importing raw .tea source is only possible through a host-supplied
// Loader that already did the parsing/compiling step (e.g. from a cache
// built by an external tool, or — in tests — a hand-built *chunk.Chunk); by default no
// Loader is installed and OP_IMPORT can only resolve modules already
// present in State.Modules or the native module registry.
type Loader interface {
	Load(path string) (*object.Closure, error)
}

// RegisterNativeModule makes a host-defined module resolvable by OP_IMPORT_NATIVE under
// name.
func (vm *VM) RegisterNativeModule(name string, m *object.Module) {
	if vm.natives == nil {
		vm.natives = map[string]*object.Module{}
	}
	vm.natives[name] = m
}

// SetLoader installs the script-module resolver used by OP_IMPORT.
func (vm *VM) SetLoader(l Loader) { vm.loader = l }

func (vm *VM) resolveModule(name string) (*object.Module, error) {
	if m, ok := vm.S.Modules[name]; ok {
		return m, nil
	}
	if m, ok := vm.natives[name]; ok {
		return m, nil
	}
	if vm.loader != nil {
		closure, err := vm.loader.Load(name)
		if err != nil {
			return nil, vm.runtimeError("could not import '%s': %v", name, err)
		}
		m := vm.S.NewModule(vm.S.NewString(name), name)
		vm.S.Modules[name] = m
		prevModule := vm.S.LastModule
		vm.S.LastModule = m
		if _, err := vm.CallValue(value.Object(closure), nil); err != nil {
			vm.S.LastModule = prevModule
			return nil, err
		}
		vm.S.LastModule = prevModule
		return m, nil
	}
	return nil, vm.runtimeError("module '%s' is not registered", name)
}

// execImport drives the whole OP_IMPORT* family: resolve/cache the module, then optionally pull one or more
// of its exported names into the current scope.
func (vm *VM) execImport(op Op, readString func() *object.String) error {
	switch op {
	case OpImport, OpImportNative:
		name := readString()
		m, err := vm.resolveModule(name.Bytes)
		if err != nil {
			return err
		}
		vm.S.LastModule = m
		vm.S.Push(value.Object(m))

	case OpImportVariable, OpImportNativeVariable:
		name := readString()
		if vm.S.LastModule == nil {
			return vm.runtimeError("no module is currently being imported")
		}
		v, ok := table.Get(&vm.S.LastModule.Values, name)
		if !ok {
			return vm.runtimeError("'%s' is not exported by module '%s'", name.Bytes, vm.S.LastModule.Path)
		}
		table.Set(&vm.S.Globals, name, v)

	case OpImportFrom:
		name := readString()
		if vm.S.LastModule == nil {
			return vm.runtimeError("no module is currently being imported")
		}
		v, ok := table.Get(&vm.S.LastModule.Values, name)
		if !ok {
			return vm.runtimeError("'%s' is not exported by module '%s'", name.Bytes, vm.S.LastModule.Path)
		}
		table.Set(&vm.S.Globals, name, v)

	case OpImportEnd:
		vm.S.Pop()
		vm.S.LastModule = nil
	}
	return nil
}
