package vm

import (
	"teascript/chunk"
	"teascript/object"
	"teascript/ordmap"
	"teascript/table"
	"teascript/value"
)

// run drives the flat bytecode dispatch loop until the call-frame count
// drops back to stopAt (0 for a top-level Interpret, or the depth recorded
// before a nested CallValue for a native-triggered re-entry), or an error
// propagates. Every script-to-script call pushes a frame and loops back
// here instead of recursing in Go, so a plain returned error is sufficient
// to unwind any depth of Teascript call frames.
func (vm *VM) run(stopAt int) error {
	s := vm.S
	for {
		fi := len(s.Frames) - 1
		fr := &s.Frames[fi]
		c := fr.Closure.Function.Chunk.(*chunk.Chunk)
		ip := fr.IP

		op := Op(c.Code[ip])
		ip++

		readByte := func() byte {
			b := c.Code[ip]
			ip++
			return b
		}
		readShort := func() int {
			hi, lo := c.Code[ip], c.Code[ip+1]
			ip += 2
			return int(hi)<<8 | int(lo)
		}
		readConstant := func() value.Value {
			return c.Constants[readByte()]
		}
		readString := func() *object.String {
			return readConstant().AsObject().(*object.String)
		}

		switch op {
		case OpConstant:
			s.Push(readConstant())

		case OpNull:
			s.Push(value.Null)
		case OpTrue:
			s.Push(value.Bool(true))
		case OpFalse:
			s.Push(value.Bool(false))
		case OpDup:
			s.Push(s.Peek(0))
		case OpPop:
			s.Pop()
		case OpPopRepl:
			v := s.Pop()
			if !v.IsNull() {
				table.Set(&s.Globals, s.ReplString, v)
			}

		case OpGetLocal:
			slot := int(readByte())
			s.Push(s.Stack[fr.Base+slot])
		case OpSetLocal:
			slot := int(readByte())
			s.Stack[fr.Base+slot] = s.Peek(0)

		case OpGetGlobal:
			name := readString()
			v, ok := table.Get(&s.Globals, name)
			if !ok {
				fr.IP = ip
				return vm.runtimeError("undefined variable '%s'", name.Bytes)
			}
			s.Push(v)
		case OpSetGlobal:
			name := readString()
			if table.Set(&s.Globals, name, s.Peek(0)) {
				table.Delete(&s.Globals, name)
				fr.IP = ip
				return vm.runtimeError("undefined variable '%s'", name.Bytes)
			}
		case OpDefineGlobal:
			name := readString()
			table.Set(&s.Globals, name, s.Peek(0))
			s.Pop()

		case OpGetModule:
			name := readString()
			v, ok := table.Get(&s.LastModule.Values, name)
			if !ok {
				fr.IP = ip
				return vm.runtimeError("undefined variable '%s'", name.Bytes)
			}
			s.Push(v)
		case OpSetModule:
			name := readString()
			if table.Set(&s.LastModule.Values, name, s.Peek(0)) {
				table.Delete(&s.LastModule.Values, name)
				fr.IP = ip
				return vm.runtimeError("undefined variable '%s'", name.Bytes)
			}
		case OpDefineModule:
			name := readString()
			table.Set(&s.LastModule.Values, name, s.Peek(0))
			s.Pop()

		case OpDefineOptional:
			// operand: number of declared optional params beyond those filled on the stack
			extra := int(readByte())
			for i := 0; i < extra; i++ {
				s.Push(value.Null)
			}

		case OpGetUpvalue:
			idx := int(readByte())
			s.Push(getUpvalueLocation(fr.Closure.Upvalues[idx]))
		case OpSetUpvalue:
			idx := int(readByte())
			setUpvalueLocation(fr.Closure.Upvalues[idx], s.Peek(0))

		case OpGetProperty, OpGetPropertyNoPop:
			name := readString()
			receiver := s.Peek(0)
			v, err := vm.getProperty(receiver, name)
			if err != nil {
				fr.IP = ip
				return err
			}
			if op == OpGetProperty {
				s.Pop()
			}
			s.Push(v)
		case OpSetProperty:
			name := readString()
			v := s.Peek(0)
			receiver := s.Peek(1)
			if err := vm.setProperty(receiver, name, v); err != nil {
				fr.IP = ip
				return err
			}
			s.Pop()
			s.Pop()
			s.Push(v)
		case OpGetSuper:
			name := readString()
			super := s.Pop().AsObject().(*object.Class)
			receiver := s.Pop()
			m, ok := table.Get(&super.Methods, name)
			if !ok {
				fr.IP = ip
				return vm.runtimeError("undefined method '%s'", name.Bytes)
			}
			s.Push(value.Object(s.NewBoundMethod(receiver, m)))

		case OpRange:
			step := s.Pop()
			end := s.Pop()
			start := s.Pop()
			if !start.IsNumber() || !end.IsNumber() || !step.IsNumber() {
				fr.IP = ip
				return vm.runtimeError("range operands must be numbers")
			}
			s.Push(value.Object(s.NewRange(start.AsNumber(), end.AsNumber(), step.AsNumber())))

		case OpList:
			count := int(readByte())
			list := s.NewList()
			s.Push(value.Object(list))
			items := make([]value.Value, 0, count)
			for i := count; i >= 1; i-- {
				el := s.Peek(i)
				if el.Is(value.KindRange) {
					items = append(items, expandRange(el.AsObject().(*object.Range))...)
				} else {
					items = append(items, el)
				}
			}
			list.Items = items
			s.SetTop(s.Top() - (count + 1))
			s.Push(value.Object(list))

		case OpUnpackList:
			varCount := int(readByte())
			if !s.Peek(0).Is(value.KindList) {
				fr.IP = ip
				return vm.runtimeError("can only unpack lists")
			}
			list := s.Pop().AsObject().(*object.List)
			if varCount != len(list.Items) {
				fr.IP = ip
				if varCount < len(list.Items) {
					return vm.runtimeError("too many values to unpack")
				}
				return vm.runtimeError("not enough values to unpack")
			}
			for _, it := range list.Items {
				s.Push(it)
			}

		case OpUnpackRestList:
			varCount := int(readByte())
			restPos := int(readByte())
			if !s.Peek(0).Is(value.KindList) {
				fr.IP = ip
				return vm.runtimeError("can only unpack lists")
			}
			list := s.Pop().AsObject().(*object.List)
			if varCount > len(list.Items) {
				fr.IP = ip
				return vm.runtimeError("not enough values to unpack")
			}
			tailLen := len(list.Items) - (varCount - restPos) + 1
			for i := 0; i < len(list.Items); {
				if i == restPos {
					rest := s.NewList()
					s.Push(value.Object(rest))
					for j := i; j < tailLen; j++ {
						rest.Items = append(rest.Items, list.Items[j])
					}
					i = tailLen
					continue
				}
				s.Push(list.Items[i])
				i++
			}

		case OpMap:
			count := int(readByte())
			m := s.NewMap()
			s.Push(value.Object(m))
			for i := count; i >= 1; i-- {
				k := s.Peek(2*i - 1)
				v := s.Peek(2*i - 2)
				ordmap.Set(m, k, v)
			}
			s.SetTop(s.Top() - (count*2 + 1))
			s.Push(value.Object(m))

		case OpSubscript:
			idx := s.Peek(0)
			recv := s.Peek(1)
			v, err := vm.subscript(recv, idx)
			if err != nil {
				fr.IP = ip
				return err
			}
			s.Pop()
			s.Pop()
			s.Push(v)
		case OpSubscriptStore:
			item := s.Peek(0)
			idx := s.Peek(1)
			recv := s.Peek(2)
			if err := vm.subscriptStore(recv, idx, item); err != nil {
				fr.IP = ip
				return err
			}
			s.SetTop(s.Top() - 3)
			s.Push(item)
		case OpSubscriptPush:
			item := s.Peek(0)
			idx := s.Peek(1)
			recv := s.Peek(2)
			if err := vm.subscriptStore(recv, idx, item); err != nil {
				fr.IP = ip
				return err
			}
			s.SetTop(s.Top() - 3)
			s.Push(item)

		case OpIs:
			b := s.Pop()
			a := s.Pop()
			s.Push(value.Bool(isInstanceOf(a, b)))
		case OpIn:
			b := s.Pop()
			a := s.Pop()
			ok, err := vm.contains(b, a)
			if err != nil {
				fr.IP = ip
				return err
			}
			s.Push(value.Bool(ok))

		case OpEqual:
			b := s.Pop()
			a := s.Pop()
			s.Push(value.Bool(object.DeepEqual(a, b)))
		case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
			b := s.Pop()
			a := s.Pop()
			v, err := vm.compare(op, a, b)
			if err != nil {
				fr.IP = ip
				return err
			}
			s.Push(v)

		case OpAdd, OpSubtract, OpMultiply, OpDivide, OpMod, OpPow,
			OpBAnd, OpBOr, OpBXor, OpLShift, OpRShift:
			b := s.Pop()
			a := s.Pop()
			fr.IP = ip
			v, err := vm.arith(op, a, b)
			if err != nil {
				return err
			}
			ip = fr.IP
			s.Push(v)
		case OpBNot:
			a := s.Pop()
			if !a.IsNumber() {
				fr.IP = ip
				return vm.runtimeError("operand must be a number")
			}
			s.Push(value.Number(float64(^int64(a.AsNumber()))))

		case OpAnd:
			offset := readShort()
			if !s.Peek(0).Truthy() {
				ip += offset
			} else {
				s.Pop()
			}
		case OpOr:
			offset := readShort()
			if s.Peek(0).Truthy() {
				ip += offset
			} else {
				s.Pop()
			}
		case OpNot:
			s.Push(value.Bool(!s.Pop().Truthy()))
		case OpNegate:
			a := s.Pop()
			if !a.IsNumber() {
				fr.IP = ip
				return vm.runtimeError("operand must be a number")
			}
			s.Push(value.Number(-a.AsNumber()))

		case OpJump:
			offset := readShort()
			ip += offset
		case OpJumpIfFalse:
			offset := readShort()
			if !s.Peek(0).Truthy() {
				ip += offset
			}
		case OpJumpIfNull:
			offset := readShort()
			if s.Peek(0).IsNull() {
				ip += offset
			}
		case OpLoop:
			offset := readShort()
			ip -= offset

		case OpCall:
			argCount := int(readByte())
			callee := s.Peek(argCount)
			fr.IP = ip
			if err := vm.callValue(callee, argCount); err != nil {
				return err
			}
			continue

		case OpClosure:
			fn := readConstant().AsObject().(*object.Function)
			closure := s.NewClosure(fn)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := readByte()
				index := int(readByte())
				if isLocal != 0 {
					closure.Upvalues[i] = captureUpvalue(s, fr.Base+index)
				} else {
					closure.Upvalues[i] = fr.Closure.Upvalues[index]
				}
			}
			s.Push(value.Object(closure))
		case OpCloseUpvalue:
			closeUpvalues(s, s.Top()-1)
			s.Pop()

		case OpReturn:
			result := s.Pop()
			closeUpvalues(s, fr.Base)
			s.SetTop(fr.Base)
			s.Frames = s.Frames[:fi]
			s.Push(result)
			if len(s.Frames) == stopAt {
				return nil
			}
			continue

		case OpClass:
			name := readString()
			s.Push(value.Object(s.NewClass(name, nil)))
		case OpSetClassVar:
			name := readString()
			v := s.Peek(0)
			class := s.Peek(1).AsObject().(*object.Class)
			table.Set(&class.Statics, name, v)
			s.Pop()
		case OpInherit:
			superVal := s.Peek(1)
			if !superVal.Is(value.KindClass) {
				fr.IP = ip
				return vm.runtimeError("superclass must be a class")
			}
			super := superVal.AsObject().(*object.Class)
			sub := s.Peek(0).AsObject().(*object.Class)
			sub.Super = super
			table.AddAll(&super.Methods, &sub.Methods)
			table.AddAll(&super.Statics, &sub.Statics)
			s.Pop() // subclass stays, superclass popped
		case OpMethod:
			name := readString()
			method := s.Peek(0)
			class := s.Peek(1).AsObject().(*object.Class)
			table.Set(&class.Methods, name, method)
			if name == s.ConstructorString {
				class.Constructor = method
			}
			s.Pop()

		case OpImport, OpImportVariable, OpImportFrom, OpImportEnd,
			OpImportNative, OpImportNativeVariable:
			fr.IP = ip
			if err := vm.execImport(op, readString); err != nil {
				return err
			}
			ip = fr.IP

		case OpEnd:
			fr.IP = ip
			return nil

		default:
			fr.IP = ip
			return vm.runtimeError("unknown opcode %d", op)
		}

		fr.IP = ip
	}
}

// expandRange flattens a range literal used inside a list literal into its
// member numbers, replicating tea_vm.c's OP_LIST range-expansion exactly
// (including its asymmetric descending bound against 0, not range.start).
func expandRange(r *object.Range) []value.Value {
	var out []value.Value
	if r.Step > 0 {
		for i := r.Start; i < r.End; i += r.Step {
			out = append(out, value.Number(i))
		}
	} else if r.Step < 0 {
		for i := r.End + r.Step; i >= 0; i += r.Step {
			out = append(out, value.Number(i))
		}
	}
	return out
}

func isInstanceOf(v, class value.Value) bool {
	if !class.Is(value.KindClass) {
		return false
	}
	target := class.AsObject().(*object.Class)
	if !v.Is(value.KindInstance) {
		return false
	}
	for c := v.AsObject().(*object.Instance).Class; c != nil; c = c.Super {
		if c == target {
			return true
		}
	}
	return false
}

