package shadowreg

import "go.uber.org/zap"

// logger returns l if non-nil, otherwise a no-op logger. Storage always
// holds a non-nil *zap.Logger (defaulting to zap.NewNop() via the builder),
// so this only guards direct struct construction in tests.
func logger(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
