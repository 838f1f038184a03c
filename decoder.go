package rangecoder

import (
	"io"

	"github.com/pkg/errors"
)

// A Decoder mirrors the Encoder's interval narrowing, pulling bytes from its
// source on demand and recovering each symbol from the code register. It must
// be driven with the same model sequence that produced the stream; the coder
// cannot detect a mismatch and will silently decode garbage.
type Decoder struct {
	r     io.ByteReader
	low   uint64
	rng   uint64
	code  uint64
	state coderState
}

// NewDecoder returns a Decoder reading coded bytes from r.
// Start must be called before the first Decode.
func NewDecoder(r io.ByteReader) *Decoder {
	return &Decoder{
		r:   r,
		rng: fullRange,
	}
}

// Start preloads the code register with the first eight stream bytes,
// the counterpart of the Encoder's Finish flush.
func (d *Decoder) Start() error {
	if d.state != stateIdle {
		return errors.WithStack(ErrState)
	}
	for i := 0; i < flushBytes; i++ {
		if err := d.fill(); err != nil {
			d.state = stateFinished
			return err
		}
	}
	d.state = stateActive
	return nil
}

// Decode recovers the next symbol using m and consumes any bytes freed up by
// renormalization. A failed Decode leaves the registers half-updated; the
// Decoder refuses further use.
func (d *Decoder) Decode(m Model) (int, error) {
	if d.state != stateActive {
		return 0, errors.WithStack(ErrState)
	}
	total, err := checkModel(m)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	d.rng /= total
	value := (d.code - d.low) / d.rng
	// The final flush rounds the stream tail upward; clamp rather than
	// report a model error for values past the last symbol.
	if value >= total {
		value = total - 1
	}
	symbol, err := m.FindSymbol(value)
	if err != nil {
		d.state = stateFinished
		return 0, errors.WithStack(err)
	}
	freq := m.Freq(symbol)
	if freq == 0 {
		d.state = stateFinished
		return 0, errors.WithStack(ErrZeroFrequency)
	}

	d.low += m.CumFreq(symbol) * d.rng
	d.rng *= freq

	if err := d.renormalize(); err != nil {
		d.state = stateFinished
		return 0, err
	}
	return symbol, nil
}

// renormalize is the Encoder's loop with reads in place of writes: every byte
// shifted out of low/range is matched by one byte pulled into code.
func (d *Decoder) renormalize() error {
	for d.low^(d.low+d.rng) < top {
		if err := d.fill(); err != nil {
			return err
		}
		d.rng <<= precision
		d.low <<= precision
	}
	for d.rng < bottom {
		if err := d.fill(); err != nil {
			return err
		}
		d.rng = (-d.low & (bottom - 1)) << precision
		d.low <<= precision
	}
	return nil
}

// fill shifts one source byte into the low-order end of code.
func (d *Decoder) fill() error {
	b, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return errors.WithStack(ErrEndOfStream)
		}
		return errors.Wrap(err, "read coded byte")
	}
	d.code = d.code<<precision | uint64(b)
	return nil
}
