package shadowreg

import "github.com/pkg/errors"

// Sentinel errors returned by shadowreg operations. Callers should compare
// against these with errors.Is, since internal call sites wrap them with
// additional context via errors.Wrapf.
var (
	// ErrOutOfBounds is returned when an (addr, len) pair does not lie
	// within [0, TS) or overflows when computing its end offset.
	ErrOutOfBounds = errors.New("shadowreg: address or length exceeds table bounds")

	// ErrZeroLength is returned when len == 0. A zero-length range is
	// treated as a programmer error, not a silent no-op.
	ErrZeroLength = errors.New("shadowreg: operation attempted with zero length")

	// ErrDenied is returned when an AccessPolicy rejects a read or write.
	ErrDenied = errors.New("shadowreg: access denied by policy")

	// ErrStageFull is returned when the staging buffer lacks capacity
	// for the requested entry, either in its data arena or its entry
	// table.
	ErrStageFull = errors.New("shadowreg: staging buffer capacity exceeded")

	// errDimensionsRequired is returned by Builder.Build when Dimensions
	// was never called.
	errDimensionsRequired = errors.New("shadowreg: builder requires Dimensions before Build")

	// errDimensionMismatch is returned by Builder.Build when totalSize !=
	// blockSize*blockCount.
	errDimensionMismatch = errors.New("shadowreg: totalSize must equal blockSize*blockCount")

	// errTotalSizeTooLarge is returned by Builder.Build when totalSize
	// exceeds maxTotalSize, so every address still fits in a uint16.
	errTotalSizeTooLarge = errors.New("shadowreg: totalSize must not exceed 65536")
)
