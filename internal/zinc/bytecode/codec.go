package bytecode

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Encode serializes i as a tag byte followed by its fields in a fixed,
// canonical order — every field present regardless of opcode, so
// decode never has to guess which fields a given Op carries
func Encode(i Instruction) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(i.Op))

	writeOptString(&buf, i.Value)
	writeOptType(&buf, i.Type)
	writeU32(&buf, i.Address)
	writeU32(&buf, i.Size)
	writeU32(&buf, i.ValueSize)
	writeU32(&buf, i.TotalSize)
	writeU32(&buf, i.Length)
	writeU32(&buf, i.Total)
	writeU32(&buf, i.InputSize)
	writeU32(&buf, i.OutputSize)
	writeU32(&buf, i.Iterations)
	writeString(&buf, i.Message)
	writeTypeList(&buf, i.ArgTypes)
	writeString(&buf, i.File)
	writeU32(&buf, i.Line)
	writeU32(&buf, i.Column)
	writeString(&buf, i.Identifier)
	writeTypeList(&buf, i.FieldTypes)

	return buf.Bytes()
}

// Decode reads one instruction from data, returning it and the number
// of bytes consumed.
func Decode(data []byte) (Instruction, int, error) {
	if len(data) == 0 {
		return Instruction{}, 0, fmt.Errorf("bytecode: decode: empty input")
	}
	op := Opcode(data[0])
	if !op.Valid() {
		return Instruction{}, 0, fmt.Errorf("bytecode: decode: unknown opcode %d", data[0])
	}
	r := bytes.NewReader(data[1:])

	i := Instruction{Op: op}
	var err error
	if i.Value, err = readOptString(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Type, err = readOptType(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Address, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Size, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.ValueSize, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.TotalSize, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Length, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Total, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.InputSize, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.OutputSize, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Iterations, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Message, err = readString(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.ArgTypes, err = readTypeList(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.File, err = readString(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Line, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Column, err = readU32(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.Identifier, err = readString(r); err != nil {
		return Instruction{}, 0, err
	}
	if i.FieldTypes, err = readTypeList(r); err != nil {
		return Instruction{}, 0, err
	}

	consumed := len(data) - r.Len()
	return i, consumed, nil
}

// DecodeAll decodes a full instruction stream, the shape Circuit and
// Contract store their bytecode in.
func DecodeAll(data []byte) ([]Instruction, error) {
	var out []Instruction
	for len(data) > 0 {
		i, n, err := Decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
		data = data[n:]
	}
	return out, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := readFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("bytecode: decode: truncated u32: %w", err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeU32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return "", fmt.Errorf("bytecode: decode: truncated string: %w", err)
	}
	return string(b), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	total := 0
	for total < len(b) {
		n, err := r.Read(b[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeOptString(buf *bytes.Buffer, s *string) {
	if s == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	writeString(buf, *s)
}

func readOptString(r *bytes.Reader) (*string, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("bytecode: decode: truncated option tag: %w", err)
	}
	if present == 0 {
		return nil, nil
	}
	s, err := readString(r)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func writeType(buf *bytes.Buffer, t TypeTag) {
	writeString(buf, t.Kind)
	if t.Signed {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	writeU32(buf, uint32(t.BitLength))
}

func readType(r *bytes.Reader) (TypeTag, error) {
	kind, err := readString(r)
	if err != nil {
		return TypeTag{}, err
	}
	signedByte, err := r.ReadByte()
	if err != nil {
		return TypeTag{}, fmt.Errorf("bytecode: decode: truncated type signedness: %w", err)
	}
	bits, err := readU32(r)
	if err != nil {
		return TypeTag{}, err
	}
	return TypeTag{Kind: kind, Signed: signedByte != 0, BitLength: uint(bits)}, nil
}

func writeOptType(buf *bytes.Buffer, t *TypeTag) {
	if t == nil {
		buf.WriteByte(0)
		return
	}
	buf.WriteByte(1)
	writeType(buf, *t)
}

func readOptType(r *bytes.Reader) (*TypeTag, error) {
	present, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("bytecode: decode: truncated option tag: %w", err)
	}
	if present == 0 {
		return nil, nil
	}
	t, err := readType(r)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeTypeList(buf *bytes.Buffer, ts []TypeTag) {
	writeU32(buf, uint32(len(ts)))
	for _, t := range ts {
		writeType(buf, t)
	}
}

func readTypeList(r *bytes.Reader) ([]TypeTag, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]TypeTag, n)
	for i := range out {
		if out[i], err = readType(r); err != nil {
			return nil, err
		}
	}
	return out, nil
}
