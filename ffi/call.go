package ffi

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/ffi-bindgen/errors"
)

// Call status codes written by native code.
const (
	StatusSuccess int8 = 0
	StatusError   int8 = 1
	StatusPanic   int8 = 2
)

// StatusSize is the size of the call status record: an i8 code at offset 0
// and an error Buffer at offset 4.
const StatusSize = 16

const statusBufferOffset = 4

// ErrorHandler lifts a declared error from the owned buffer a failed call
// returned. It must release the buffer.
type ErrorHandler func(Buffer) error

// Call invokes symbol with a trailing call status pointer and turns a
// non-success status into an error. A declared error (status 1) is lifted
// with handler; without a handler it is reported as a call failure. A panic
// (status 2) carries the native message.
func Call(ctx context.Context, lib Library, symbol string, handler ErrorHandler, args []uint64) ([]uint64, error) {
	status, err := lib.Alloc(StatusSize, 4)
	if err != nil {
		return nil, errors.AllocationFailed(errors.PhaseCall, StatusSize, err)
	}
	defer func() {
		if err := lib.Free(status, StatusSize, 4); err != nil {
			Logger().Warn("release call status", zap.String("symbol", symbol), zap.Error(err))
		}
	}()
	if err := lib.Write(status, make([]byte, StatusSize)); err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindIO, err, "clear call status")
	}

	full := make([]uint64, 0, len(args)+1)
	full = append(full, args...)
	full = append(full, api.EncodeU32(status))

	results, err := lib.Invoke(ctx, symbol, full)
	if err != nil {
		if e, ok := err.(*errors.Error); ok {
			return nil, e
		}
		return nil, errors.CallFailed(symbol, -1, err)
	}

	raw, err := lib.Read(status, StatusSize)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindIO, err, "read call status")
	}
	code := int8(raw[0])
	if code == StatusSuccess {
		return results, nil
	}

	buf, err := LoadBuffer(lib, status+statusBufferOffset)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCall, errors.KindIO, err, "read call status buffer")
	}

	switch code {
	case StatusError:
		if handler == nil {
			releaseQuietly(lib, buf)
			return nil, errors.CallFailed(symbol, code, fmt.Errorf("unexpected declared error"))
		}
		return nil, handler(buf)
	case StatusPanic:
		msg, err := LiftString(lib, buf)
		if err != nil {
			msg = "unknown panic"
		}
		Logger().Debug("native panic", zap.String("symbol", symbol), zap.String("message", msg))
		return nil, errors.Panic(symbol, msg)
	}
	releaseQuietly(lib, buf)
	return nil, errors.CallFailed(symbol, code, fmt.Errorf("unknown call status"))
}

// StatusPointer returns the call status pointer passed as the last slot.
func StatusPointer(args []uint64) uint32 {
	if len(args) == 0 {
		return 0
	}
	return api.DecodeU32(args[len(args)-1])
}

// SetStatus is used by native implementations to report the outcome of a
// call. b is the error payload for StatusError or the message for
// StatusPanic.
func SetStatus(m Memory, status uint32, code int8, b Buffer) error {
	if err := m.Write(status, []byte{byte(code)}); err != nil {
		return err
	}
	return StoreBuffer(m, status+statusBufferOffset, b)
}
