package shadowreg

import "encoding/binary"

// ROSlice is a read-only, bounds-checked façade over a borrowed byte slice.
// Primitive readers panic on overflow of the local slice, matching the
// bounds check already performed when the view handed out this slice.
type ROSlice struct {
	b []byte
}

func newROSlice(b []byte) ROSlice { return ROSlice{b: b} }

// Len returns the length of the underlying slice.
func (s ROSlice) Len() int { return len(s.b) }

// IsEmpty reports whether the underlying slice has zero length.
func (s ROSlice) IsEmpty() bool { return len(s.b) == 0 }

// CopyToSlice copies the entire slice into dest. Panics if len(dest) !=
// s.Len().
func (s ROSlice) CopyToSlice(dest []byte) {
	if len(dest) != len(s.b) {
		panic("shadowreg: CopyToSlice length mismatch")
	}
	copy(dest, s.b)
}

// CopyToSliceAt copies len(dest) bytes starting at offset into dest.
func (s ROSlice) CopyToSliceAt(offset int, dest []byte) {
	copy(dest, s.b[offset:offset+len(dest)])
}

func (s ROSlice) ReadU8At(offset int) uint8 { return s.b[offset] }
func (s ROSlice) ReadI8At(offset int) int8  { return int8(s.b[offset]) }

func (s ROSlice) ReadU16LEAt(offset int) uint16 {
	return binary.LittleEndian.Uint16(s.b[offset : offset+2])
}
func (s ROSlice) ReadU16BEAt(offset int) uint16 {
	return binary.BigEndian.Uint16(s.b[offset : offset+2])
}
func (s ROSlice) ReadI16LEAt(offset int) int16 { return int16(s.ReadU16LEAt(offset)) }
func (s ROSlice) ReadI16BEAt(offset int) int16 { return int16(s.ReadU16BEAt(offset)) }

func (s ROSlice) ReadU32LEAt(offset int) uint32 {
	return binary.LittleEndian.Uint32(s.b[offset : offset+4])
}
func (s ROSlice) ReadU32BEAt(offset int) uint32 {
	return binary.BigEndian.Uint32(s.b[offset : offset+4])
}
func (s ROSlice) ReadI32LEAt(offset int) int32 { return int32(s.ReadU32LEAt(offset)) }
func (s ROSlice) ReadI32BEAt(offset int) int32 { return int32(s.ReadU32BEAt(offset)) }

// TryReadU32LEAt is a non-panicking twin of ReadU32LEAt, for defensive
// callers that would rather get a zero value and false than panic.
func (s ROSlice) TryReadU32LEAt(offset int) (uint32, bool) {
	if offset < 0 || offset+4 > len(s.b) {
		return 0, false
	}
	return s.ReadU32LEAt(offset), true
}

// WOSlice is a write-only, bounds-checked façade over a borrowed byte
// slice. It never exposes a way to read back what was written.
type WOSlice struct {
	b []byte
}

func newWOSlice(b []byte) WOSlice { return WOSlice{b: b} }

func (s WOSlice) Len() int      { return len(s.b) }
func (s WOSlice) IsEmpty() bool { return len(s.b) == 0 }

// CopyFromSlice copies src into the entire underlying slice. Panics if
// len(src) != s.Len().
func (s WOSlice) CopyFromSlice(src []byte) {
	if len(src) != len(s.b) {
		panic("shadowreg: CopyFromSlice length mismatch")
	}
	copy(s.b, src)
}

// CopyFromSliceAt copies src starting at offset.
func (s WOSlice) CopyFromSliceAt(offset int, src []byte) {
	copy(s.b[offset:offset+len(src)], src)
}

// Fill sets every byte in the slice to v.
func (s WOSlice) Fill(v byte) {
	for i := range s.b {
		s.b[i] = v
	}
}

// FillAt sets count bytes starting at offset to v.
func (s WOSlice) FillAt(offset, count int, v byte) {
	for i := offset; i < offset+count; i++ {
		s.b[i] = v
	}
}

func (s WOSlice) WriteU8At(offset int, v uint8) { s.b[offset] = v }
func (s WOSlice) WriteI8At(offset int, v int8)  { s.b[offset] = uint8(v) }

func (s WOSlice) WriteU16LEAt(offset int, v uint16) {
	binary.LittleEndian.PutUint16(s.b[offset:offset+2], v)
}
func (s WOSlice) WriteU16BEAt(offset int, v uint16) {
	binary.BigEndian.PutUint16(s.b[offset:offset+2], v)
}
func (s WOSlice) WriteI16LEAt(offset int, v int16) { s.WriteU16LEAt(offset, uint16(v)) }
func (s WOSlice) WriteI16BEAt(offset int, v int16) { s.WriteU16BEAt(offset, uint16(v)) }

func (s WOSlice) WriteU32LEAt(offset int, v uint32) {
	binary.LittleEndian.PutUint32(s.b[offset:offset+4], v)
}
func (s WOSlice) WriteU32BEAt(offset int, v uint32) {
	binary.BigEndian.PutUint32(s.b[offset:offset+4], v)
}
func (s WOSlice) WriteI32LEAt(offset int, v int32) { s.WriteU32LEAt(offset, uint32(v)) }
func (s WOSlice) WriteI32BEAt(offset int, v int32) { s.WriteU32BEAt(offset, uint32(v)) }

// RWSlice is the union of ROSlice and WOSlice: full bounds-checked read and
// write access to a borrowed byte slice.
type RWSlice struct {
	b []byte
}

func newRWSlice(b []byte) RWSlice { return RWSlice{b: b} }

func (s RWSlice) Len() int      { return len(s.b) }
func (s RWSlice) IsEmpty() bool { return len(s.b) == 0 }

func (s RWSlice) ro() ROSlice { return ROSlice{b: s.b} }
func (s RWSlice) wo() WOSlice { return WOSlice{b: s.b} }

func (s RWSlice) CopyToSlice(dest []byte)          { s.ro().CopyToSlice(dest) }
func (s RWSlice) CopyToSliceAt(offset int, d []byte) { s.ro().CopyToSliceAt(offset, d) }
func (s RWSlice) ReadU8At(offset int) uint8        { return s.ro().ReadU8At(offset) }
func (s RWSlice) ReadI8At(offset int) int8         { return s.ro().ReadI8At(offset) }
func (s RWSlice) ReadU16LEAt(offset int) uint16    { return s.ro().ReadU16LEAt(offset) }
func (s RWSlice) ReadU16BEAt(offset int) uint16    { return s.ro().ReadU16BEAt(offset) }
func (s RWSlice) ReadI16LEAt(offset int) int16     { return s.ro().ReadI16LEAt(offset) }
func (s RWSlice) ReadI16BEAt(offset int) int16     { return s.ro().ReadI16BEAt(offset) }
func (s RWSlice) ReadU32LEAt(offset int) uint32    { return s.ro().ReadU32LEAt(offset) }
func (s RWSlice) ReadU32BEAt(offset int) uint32    { return s.ro().ReadU32BEAt(offset) }
func (s RWSlice) ReadI32LEAt(offset int) int32     { return s.ro().ReadI32LEAt(offset) }
func (s RWSlice) ReadI32BEAt(offset int) int32     { return s.ro().ReadI32BEAt(offset) }

func (s RWSlice) CopyFromSlice(src []byte)            { s.wo().CopyFromSlice(src) }
func (s RWSlice) CopyFromSliceAt(offset int, src []byte) { s.wo().CopyFromSliceAt(offset, src) }
func (s RWSlice) Fill(v byte)                         { s.wo().Fill(v) }
func (s RWSlice) FillAt(offset, count int, v byte)    { s.wo().FillAt(offset, count, v) }
func (s RWSlice) WriteU8At(offset int, v uint8)       { s.wo().WriteU8At(offset, v) }
func (s RWSlice) WriteI8At(offset int, v int8)        { s.wo().WriteI8At(offset, v) }
func (s RWSlice) WriteU16LEAt(offset int, v uint16)   { s.wo().WriteU16LEAt(offset, v) }
func (s RWSlice) WriteU16BEAt(offset int, v uint16)   { s.wo().WriteU16BEAt(offset, v) }
func (s RWSlice) WriteI16LEAt(offset int, v int16)    { s.wo().WriteI16LEAt(offset, v) }
func (s RWSlice) WriteI16BEAt(offset int, v int16)    { s.wo().WriteI16BEAt(offset, v) }
func (s RWSlice) WriteU32LEAt(offset int, v uint32)   { s.wo().WriteU32LEAt(offset, v) }
func (s RWSlice) WriteU32BEAt(offset int, v uint32)   { s.wo().WriteU32BEAt(offset, v) }
func (s RWSlice) WriteI32LEAt(offset int, v int32)    { s.wo().WriteI32LEAt(offset, v) }
func (s RWSlice) WriteI32BEAt(offset int, v int32)    { s.wo().WriteI32BEAt(offset, v) }
