// Package vm implements the stack-based bytecode interpreter of /:
// instruction dispatch, call-frame management, upvalue capture/close, and
// the full family of opcodes (literals, variables, aggregates, subscript,
// properties, arithmetic/comparison with instance dispatch, logic, control
// flow, calls, classes, closures, imports). Grounded opcode-for-opcode on
// tea_vm.c's CASE_CODE(...) dispatch (original_source), restructured from
// sentra/internal/vm's single giant switch-based Run loop into the same
// "one function, one switch, one case per opcode" shape.
package vm

// Op is one bytecode instruction opcode.
type Op byte

const (
	OpConstant Op = iota
	OpNull
	OpTrue
	OpFalse
	OpDup
	OpPop
	OpPopRepl // replaces the "_" repl global with the popped value when it is non-null

	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal
	OpGetModule
	OpSetModule
	OpDefineModule
	OpDefineOptional
	OpGetUpvalue
	OpSetUpvalue

	OpGetProperty
	OpGetPropertyNoPop
	OpSetProperty
	OpGetSuper

	OpRange
	OpList
	OpUnpackList
	OpUnpackRestList
	OpMap
	OpSubscript
	OpSubscriptStore
	OpSubscriptPush

	OpIs
	OpIn
	OpEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpMod
	OpPow
	OpBAnd
	OpBOr
	OpBNot
	OpBXor
	OpLShift
	OpRShift
	OpAnd
	OpOr
	OpNot
	OpNegate

	OpJump
	OpJumpIfFalse
	OpJumpIfNull
	OpLoop

	OpCall
	OpClosure
	OpCloseUpvalue
	OpReturn

	OpClass
	OpSetClassVar
	OpInherit
	OpMethod

	OpImport
	OpImportVariable
	OpImportFrom
	OpImportEnd
	OpImportNative
	OpImportNativeVariable

	OpEnd
)
