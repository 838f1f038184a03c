package rangecoder

import (
	"io"

	"github.com/pkg/errors"
)

// An Encoder narrows its interval once per symbol and appends the settled
// high-order bytes to its sink. It is Active from construction until Finish,
// and must not be shared between goroutines.
type Encoder struct {
	w     io.ByteWriter
	low   uint64
	rng   uint64
	state coderState
}

// NewEncoder returns an Encoder appending coded bytes to w.
// The caller must call Finish (or defer Close) exactly once after the last
// symbol, otherwise the trailing symbols are unrecoverable.
func NewEncoder(w io.ByteWriter) *Encoder {
	return &Encoder{
		w:     w,
		rng:   fullRange,
		state: stateActive,
	}
}

// Encode narrows the interval to symbol's sub-interval in m and emits any
// bytes that settle. A failed Encode leaves the registers half-updated;
// the Encoder refuses further use and the stream must be discarded.
func (e *Encoder) Encode(m Model, symbol int) error {
	if e.state != stateActive {
		return errors.WithStack(ErrState)
	}
	total, err := checkModel(m)
	if err != nil {
		return errors.WithStack(err)
	}
	freq := m.Freq(symbol)
	if freq == 0 {
		e.state = stateFinished
		return errors.WithStack(ErrZeroFrequency)
	}
	cum := m.CumFreq(symbol)
	if cum+freq > total {
		e.state = stateFinished
		return errors.WithStack(ErrInvalidModel)
	}

	e.rng /= total
	e.low += cum * e.rng
	e.rng *= freq

	if err := e.renormalize(); err != nil {
		e.state = stateFinished
		return err
	}
	return nil
}

// renormalize emits settled bytes. The first loop runs while the top byte of
// low and low+range agree; the second handles the straddling case by
// truncating range to the portion below the next carry boundary, which is
// what makes the coder carry-less.
func (e *Encoder) renormalize() error {
	for e.low^(e.low+e.rng) < top {
		if err := e.emit(); err != nil {
			return err
		}
		e.rng <<= precision
		e.low <<= precision
	}
	for e.rng < bottom {
		if err := e.emit(); err != nil {
			return err
		}
		e.rng = (-e.low & (bottom - 1)) << precision
		e.low <<= precision
	}
	return nil
}

// emit writes the top byte of low to the sink.
func (e *Encoder) emit() error {
	b := byte(e.low >> (registerBits - precision))
	if err := e.w.WriteByte(b); err != nil {
		return errors.Wrap(err, "write coded byte")
	}
	return nil
}

// Finish flushes the remaining register contents, eight bytes of low most
// significant first, and moves the Encoder to its terminal state. The flush
// must happen exactly once per stream; a second Finish returns ErrState.
func (e *Encoder) Finish() error {
	if e.state != stateActive {
		return errors.WithStack(ErrState)
	}
	e.state = stateFinished
	for i := 0; i < flushBytes; i++ {
		if err := e.emit(); err != nil {
			return err
		}
		e.low <<= precision
	}
	return nil
}

// Close runs Finish if it has not run yet, and is a no-op afterwards.
// It exists so callers can guarantee the flush on every exit path:
//
//	enc := rangecoder.NewEncoder(out)
//	defer enc.Close()
func (e *Encoder) Close() error {
	if e.state != stateActive {
		return nil
	}
	return e.Finish()
}
