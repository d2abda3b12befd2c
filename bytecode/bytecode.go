// Package bytecode implements on-disk (de)serialization of a compiled
// function prototype, claiming the reserved signature TEA_SIGNATURE
// "\x1bTea" so the host front-end (cmd/teascript) has a way to run a
// program without a compiler. Grounded on tea_chunk.h/tea_chunk.c's
// field layout (the same one package chunk mirrors) and tea_value.c's
// value-kind tags, written out with encoding/binary favoring fixed-width
// fields over string encodings.
package bytecode

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"teascript/chunk"
	"teascript/object"
	"teascript/value"
)

// Signature is the reserved on-disk magic.
var Signature = [4]byte{0x1b, 'T', 'e', 'a'}

const version = 1

// constant tags distinguish a serialized value.Value's payload; object
// kinds that can't sensibly appear as a literal constant (lists, maps,
// closures, instances, ...) are never written because the compiler never
// emits them as OP_CONSTANT operands.
const (
	tagNull byte = iota
	tagBool
	tagNumber
	tagString
	tagFunction // a nested prototype, for OP_CLOSURE's function constant
)

// Save writes fn (and its nested function constants, recursively) to w.
func Save(w io.Writer, fn *object.Function) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Signature[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(version)); err != nil {
		return err
	}
	if err := writeFunction(bw, fn); err != nil {
		return err
	}
	return bw.Flush()
}

// Intern produces (or finds) the single canonical *object.String for s, the
// same role strtable.Table.Intern plays for freshly scanned source text
//. Load needs one so every string constant it reconstructs takes
// part in the same pointer-identity equality the rest of the heap relies
// on, instead of becoming a one-off allocation that looks equal but never
// compares equal.
type Intern func(s string) *object.String

// Load reads a function prototype previously written by Save, interning
// every string constant through intern.
func Load(r io.Reader, intern Intern) (*object.Function, error) {
	br := bufio.NewReader(r)
	var sig [4]byte
	if _, err := io.ReadFull(br, sig[:]); err != nil {
		return nil, fmt.Errorf("bytecode: %w", err)
	}
	if sig != Signature {
		return nil, fmt.Errorf("bytecode: bad signature")
	}
	var ver uint32
	if err := binary.Read(br, binary.LittleEndian, &ver); err != nil {
		return nil, fmt.Errorf("bytecode: %w", err)
	}
	if ver != version {
		return nil, fmt.Errorf("bytecode: unsupported version %d", ver)
	}
	return readFunction(br, intern)
}

func writeFunction(w *bufio.Writer, fn *object.Function) error {
	if err := writeString(w, fn.Name); err != nil {
		return err
	}
	for _, n := range []int{fn.Arity, fn.ArityOptional, fn.UpvalueCount, fn.MaxSlots} {
		if err := binary.Write(w, binary.LittleEndian, uint32(n)); err != nil {
			return err
		}
	}
	if err := w.WriteByte(boolByte(fn.Variadic)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(fn.UpvalueDescs))); err != nil {
		return err
	}
	for _, d := range fn.UpvalueDescs {
		if err := w.WriteByte(boolByte(d.IsLocal)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(d.Index)); err != nil {
			return err
		}
	}

	c, ok := fn.Chunk.(*chunk.Chunk)
	if !ok {
		return fmt.Errorf("bytecode: function %q has no compiled chunk", fn.Name)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.Code))); err != nil {
		return err
	}
	if _, err := w.Write(c.Code); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(c.Constants))); err != nil {
		return err
	}
	for _, v := range c.Constants {
		if err := writeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func readFunction(r *bufio.Reader, intern Intern) (*object.Function, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	fn := object.NewFunction(name)

	ints := make([]uint32, 4)
	for i := range ints {
		if err := binary.Read(r, binary.LittleEndian, &ints[i]); err != nil {
			return nil, err
		}
	}
	fn.Arity, fn.ArityOptional, fn.UpvalueCount, fn.MaxSlots = int(ints[0]), int(ints[1]), int(ints[2]), int(ints[3])

	variadic, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	fn.Variadic = variadic != 0

	var descCount uint32
	if err := binary.Read(r, binary.LittleEndian, &descCount); err != nil {
		return nil, err
	}
	fn.UpvalueDescs = make([]object.UpvalueDesc, descCount)
	for i := range fn.UpvalueDescs {
		isLocal, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		var idx uint32
		if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
			return nil, err
		}
		fn.UpvalueDescs[i] = object.UpvalueDesc{IsLocal: isLocal != 0, Index: int(idx)}
	}

	var codeLen uint32
	if err := binary.Read(r, binary.LittleEndian, &codeLen); err != nil {
		return nil, err
	}
	code := make([]byte, codeLen)
	if _, err := io.ReadFull(r, code); err != nil {
		return nil, err
	}

	var constCount uint32
	if err := binary.Read(r, binary.LittleEndian, &constCount); err != nil {
		return nil, err
	}
	consts := make([]value.Value, constCount)
	for i := range consts {
		v, err := readValue(r, intern)
		if err != nil {
			return nil, err
		}
		consts[i] = v
	}

	c := chunk.New()
	c.Code = code
	c.Constants = consts
	fn.Chunk = c
	return fn, nil
}

func writeValue(w *bufio.Writer, v value.Value) error {
	switch {
	case v.IsNull():
		return w.WriteByte(tagNull)
	case v.IsBool():
		if err := w.WriteByte(tagBool); err != nil {
			return err
		}
		return w.WriteByte(boolByte(v.AsBool()))
	case v.IsNumber():
		if err := w.WriteByte(tagNumber); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, v.AsNumber())
	case v.Is(value.KindString):
		if err := w.WriteByte(tagString); err != nil {
			return err
		}
		return writeString(w, v.AsObject().(*object.String).Bytes)
	case v.Is(value.KindFunction):
		if err := w.WriteByte(tagFunction); err != nil {
			return err
		}
		return writeFunction(w, v.AsObject().(*object.Function))
	default:
		return fmt.Errorf("bytecode: value kind cannot be a constant")
	}
}

func readValue(r *bufio.Reader, intern Intern) (value.Value, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return value.Null, err
	}
	switch tag {
	case tagNull:
		return value.Null, nil
	case tagBool:
		b, err := r.ReadByte()
		if err != nil {
			return value.Null, err
		}
		return value.Bool(b != 0), nil
	case tagNumber:
		var f float64
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return value.Null, err
		}
		return value.Number(f), nil
	case tagString:
		s, err := readString(r)
		if err != nil {
			return value.Null, err
		}
		return value.Object(intern(s)), nil
	case tagFunction:
		fn, err := readFunction(r, intern)
		if err != nil {
			return value.Null, err
		}
		return value.Object(fn), nil
	default:
		return value.Null, fmt.Errorf("bytecode: unknown constant tag %d", tag)
	}
}

func writeString(w *bufio.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func readString(r *bufio.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
