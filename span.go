package shadowreg

import "github.com/pkg/errors"

// rangeSpan validates an (addr, len) pair against a table of total size ts
// and returns the half-open byte span [off, end).
func rangeSpan(ts int, addr uint16, length int) (off, end int, err error) {
	if length == 0 {
		return 0, 0, ErrZeroLength
	}

	off = int(addr)
	end = off + length
	if end < off {
		// overflow of the (int) offset arithmetic
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "addr=%d len=%d overflows", addr, length)
	}
	if end > ts {
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "addr=%d len=%d exceeds table size %d", addr, length, ts)
	}

	return off, end, nil
}

// blockSpan validates an (addr, len) pair and returns the inclusive block
// index span [sb, eb] it covers, given a table of block size bs and block
// count bc.
func blockSpan(ts, bs, bc int, addr uint16, length int) (sb, eb int, err error) {
	off, end, err := rangeSpan(ts, addr, length)
	if err != nil {
		return 0, 0, err
	}

	sb = off / bs
	eb = (end - 1) / bs

	if eb >= bc {
		// defensive: implied by end <= ts with ts == bs*bc
		return 0, 0, errors.Wrapf(ErrOutOfBounds, "addr=%d len=%d spans block %d beyond block count %d", addr, length, eb, bc)
	}

	return sb, eb, nil
}
