// Package rangecoder implements a carry-less range coder, an entropy coder
// that maps a sequence of symbols onto a shrinking numeric interval and emits
// the interval's settled high-order bytes as it goes.
// The coder owns only the interval arithmetic; the frequency model that
// drives it is supplied by the caller through the Model interface and must be
// presented to the decoder in exactly the same sequence that produced the
// stream.
//
// The carry problem of classic arithmetic coding is avoided by truncating the
// interval whenever it straddles a byte boundary, so already-emitted bytes
// are never revisited.
//
// Reference:
// G.N.N. Martin, Range encoding: an algorithm for removing redundancy from a digitised message, Video & Data Recording Conference, Southampton, 1979.
package rangecoder

import (
	"fmt"
)

const (
	// registerBits is the width of the low/range/code registers.
	registerBits = 64

	// precision is the number of bits moved per renormalization step.
	precision = 8

	// flushBytes is the number of bytes written by Finish and preloaded by Start.
	flushBytes = registerBits / precision

	// top is the settled-byte threshold: while low and low+range agree in
	// the byte above top, that byte can be emitted.
	top = uint64(1) << (registerBits - precision)

	// bottom is the minimum workable range. A model's Total must stay below
	// bottom so that range/Total never reaches zero.
	bottom = uint64(1) << (registerBits - 2*precision)

	// fullRange seeds the range register. Starting one below the register
	// modulus keeps low+range from ever wrapping.
	fullRange = ^uint64(0)
)

// A Model is a read-only cumulative-frequency view over a finite alphabet,
// as consumed by Encoder.Encode and Decoder.Decode for a single symbol step.
// Static tables, adaptive structures and ranked trees can all satisfy it.
//
// The coder requires of every model that CumFreq is non-decreasing in the
// symbol index, that CumFreq(s)+Freq(s) never exceeds Total, and that
// Total is positive and smaller than the coder's precision floor (1<<48).
// The coder checks these only opportunistically; a model violating them
// desynchronizes the stream rather than reliably raising an error.
type Model interface {
	// Total returns the sum of all symbol frequencies.
	Total() uint64

	// CumFreq returns the sum of the frequencies of all symbols before symbol.
	CumFreq(symbol int) uint64

	// Freq returns the frequency of symbol.
	Freq(symbol int) uint64

	// FindSymbol returns the symbol whose cumulative interval contains value,
	// that is CumFreq(s) <= value < CumFreq(s)+Freq(s).
	// It is only needed for decoding.
	FindSymbol(value uint64) (int, error)
}

// ErrZeroFrequency is returned when a symbol's model frequency is zero,
// leaving it no sub-interval to encode into.
var ErrZeroFrequency = fmt.Errorf("symbol has zero frequency")

// ErrInvalidModel is returned when a model's cumulative table is found to be
// inconsistent, for example not monotone or not summing to Total.
var ErrInvalidModel = fmt.Errorf("invalid frequency model")

// ErrEndOfStream is returned when the decoder's byte source runs out before
// the expected number of bytes has been read.
var ErrEndOfStream = fmt.Errorf("unexpected end of coded stream")

// ErrState is returned when an operation is invoked outside its valid
// lifecycle state, such as Encode after Finish or Decode before Start.
var ErrState = fmt.Errorf("coder used outside its valid state")

// ErrPrecision is returned when a model's Total is too large for the
// register width, which would let the range collapse to zero.
var ErrPrecision = fmt.Errorf("model total exceeds coder precision")

// coderState tracks the Idle -> Active -> Finished lifecycle shared by
// Encoder and Decoder. There is no way back from Finished; a coder is
// single-use per channel.
type coderState int

const (
	stateIdle coderState = iota
	stateActive
	stateFinished
)

// checkModel validates the per-step model preconditions shared by encode and
// decode. It returns the model's total on success.
func checkModel(m Model) (uint64, error) {
	total := m.Total()
	if total == 0 {
		return 0, ErrInvalidModel
	}
	if total >= bottom {
		return 0, ErrPrecision
	}
	return total, nil
}
