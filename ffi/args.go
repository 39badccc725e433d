package ffi

// Args collects the argument slots of one native call. Buffers lowered into
// it are owned by the batch until the call consumes them; if any argument
// fails to lower, Slots releases the ones already allocated. Objects passed
// directly or inside buffers stay referenced until Done.
type Args struct {
	native Native
	err    error
	slots  []uint64
	owned  []Buffer
	held   []*ObjectHandle
}

func NewArgs(n Native) *Args {
	return &Args{native: n, slots: make([]uint64, 0, 8)}
}

func (a *Args) Int8(v int8) *Args       { return a.push(LowerInt8(v)) }
func (a *Args) UInt8(v uint8) *Args     { return a.push(LowerUInt8(v)) }
func (a *Args) Int16(v int16) *Args     { return a.push(LowerInt16(v)) }
func (a *Args) UInt16(v uint16) *Args   { return a.push(LowerUInt16(v)) }
func (a *Args) Int32(v int32) *Args     { return a.push(LowerInt32(v)) }
func (a *Args) UInt32(v uint32) *Args   { return a.push(LowerUInt32(v)) }
func (a *Args) Int64(v int64) *Args     { return a.push(LowerInt64(v)) }
func (a *Args) UInt64(v uint64) *Args   { return a.push(LowerUInt64(v)) }
func (a *Args) Float32(v float32) *Args { return a.push(LowerFloat32(v)) }
func (a *Args) Float64(v float64) *Args { return a.push(LowerFloat64(v)) }
func (a *Args) Bool(v bool) *Args       { return a.push(LowerBool(v)) }

// Pointer passes an object handle.
func (a *Args) Pointer(p uint64) *Args { return a.push(p) }

// Object passes the pointer guarded by h and holds a reference to it until
// Done. A destroyed object fails the batch.
func (a *Args) Object(h *ObjectHandle) *Args {
	if a.err != nil {
		return a
	}
	p, err := h.Acquire()
	if err != nil {
		return a.Fail(err)
	}
	a.held = append(a.held, h)
	return a.push(p)
}

// String lowers s into an owned buffer.
func (a *Args) String(s string) *Args {
	if a.err != nil {
		return a
	}
	b, err := LowerString(a.native, s)
	return a.buffer(b, err)
}

// Buffer passes an already lowered buffer; the batch takes ownership.
func (a *Args) Buffer(b Buffer) *Args { return a.buffer(b, nil) }

// Fail records an error raised while preparing an argument outside the
// batch.
func (a *Args) Fail(err error) *Args {
	if a.err == nil {
		a.err = err
	}
	return a
}

// Lower serializes v through c into an owned buffer argument.
func Lower[T any](a *Args, c Codec[T], v T) *Args {
	if a.err != nil {
		return a
	}
	b, held, err := lowerHeld(a.native, c, v)
	a.held = append(a.held, held...)
	return a.buffer(b, err)
}

// LowerCallback stores impl in r and passes its handle.
func LowerCallback[T any](a *Args, r *CallbackRegistry[T], impl T) *Args {
	if a.err != nil {
		return a
	}
	h, err := r.Lower(impl)
	if err != nil {
		return a.Fail(err)
	}
	return a.push(h)
}

func (a *Args) push(s ...uint64) *Args {
	if a.err == nil {
		a.slots = append(a.slots, s...)
	}
	return a
}

func (a *Args) buffer(b Buffer, err error) *Args {
	if err != nil {
		a.err = err
		return a
	}
	if a.err != nil {
		releaseQuietly(a.native, b)
		return a
	}
	a.owned = append(a.owned, b)
	return a.push(b.Slots()...)
}

// Slots returns the flattened arguments. On error every buffer the batch
// owns and every object reference it holds are released and no slots are
// returned.
func (a *Args) Slots() ([]uint64, error) {
	if a.err != nil {
		a.Release()
		return nil, a.err
	}
	return a.slots, nil
}

// Release frees owned buffers that were never handed to a call and drops
// the object references.
func (a *Args) Release() {
	for _, b := range a.owned {
		releaseQuietly(a.native, b)
	}
	a.owned = nil
	a.Done()
}

// Done drops the object references once the call that received the slots
// has returned. The buffers now belong to the native side.
func (a *Args) Done() {
	for _, h := range a.held {
		h.Release()
	}
	a.held = nil
	a.owned = nil
}
