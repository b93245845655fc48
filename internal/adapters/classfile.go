package adapters

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// JVM class file constant pool tags (JVMS §4.4).
const (
	constUtf8          = 1
	constInteger       = 3
	constFloat         = 4
	constLong          = 5
	constDouble        = 6
	constClass         = 7
	constString        = 8
	constFieldRef      = 9
	constMethodRef     = 10
	constInterfaceRef  = 11
	constNameAndType   = 12
	constMethodHandle  = 15
	constMethodType    = 16
	constDynamic       = 17
	constInvokeDynamic = 18
	constModule        = 19
	constPackage       = 20
)

const classFileMagic = 0xCAFEBABE

// rewriteClassFile applies the relocation rules to every CONSTANT_Utf8 entry
// of a class file's constant pool, in both internal (slash) and source (dot)
// name form. Only Utf8 payloads change, so all constant pool indices stay
// valid; everything after the pool is copied verbatim.
func rewriteClassFile(data []byte, rules []compiledRule) ([]byte, error) {
	if len(data) < 10 || binary.BigEndian.Uint32(data) != classFileMagic {
		return nil, fmt.Errorf("not a class file")
	}
	poolCount := int(binary.BigEndian.Uint16(data[8:10]))

	var out bytes.Buffer
	out.Grow(len(data))
	out.Write(data[:10])

	offset := 10
	for index := 1; index < poolCount; index++ {
		if offset >= len(data) {
			return nil, fmt.Errorf("truncated constant pool at entry %d", index)
		}
		tag := data[offset]

		if tag == constUtf8 {
			if offset+3 > len(data) {
				return nil, fmt.Errorf("truncated utf8 constant at entry %d", index)
			}
			length := int(binary.BigEndian.Uint16(data[offset+1 : offset+3]))
			end := offset + 3 + length
			if end > len(data) {
				return nil, fmt.Errorf("truncated utf8 constant at entry %d", index)
			}
			text := string(data[offset+3 : end])
			text = rewriteOccurrences(text, rules, '/')
			text = rewriteOccurrences(text, rules, '.')
			if len(text) > math.MaxUint16 {
				return nil, fmt.Errorf("relocated utf8 constant exceeds %d bytes at entry %d", math.MaxUint16, index)
			}
			out.WriteByte(tag)
			var lengthBuf [2]byte
			binary.BigEndian.PutUint16(lengthBuf[:], uint16(len(text)))
			out.Write(lengthBuf[:])
			out.WriteString(text)
			offset = end
			continue
		}

		size, err := constantSize(tag)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", index, err)
		}
		if offset+size > len(data) {
			return nil, fmt.Errorf("truncated constant pool at entry %d", index)
		}
		out.Write(data[offset : offset+size])
		offset += size
		if tag == constLong || tag == constDouble {
			// 8-byte constants occupy two pool slots.
			index++
		}
	}

	out.Write(data[offset:])
	return out.Bytes(), nil
}

// constantSize returns the full entry size in bytes, tag included, for
// fixed-size constant pool entries.
func constantSize(tag byte) (int, error) {
	switch tag {
	case constClass, constString, constMethodType, constModule, constPackage:
		return 3, nil
	case constMethodHandle:
		return 4, nil
	case constInteger, constFloat, constFieldRef, constMethodRef, constInterfaceRef,
		constNameAndType, constDynamic, constInvokeDynamic:
		return 5, nil
	case constLong, constDouble:
		return 9, nil
	default:
		return 0, fmt.Errorf("unknown constant pool tag %d", tag)
	}
}
