package rangecoder

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Compress writes an order-0 compressed form of the named file to w.
// It codes every byte against a single ByteHistogram table of the whole file.
//
// The coded stream itself carries no metadata, so Compress prefixes its own
// frame: the input length and the 256 table counts, all as uvarints. The
// frame belongs to this utility, not to the coder.
func Compress(w io.Writer, name string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}

	counts := ByteHistogram(data)
	table := NewFreqTable(counts)

	bw := bufio.NewWriter(w)
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(data)))
	if _, err := bw.Write(scratch[:n]); err != nil {
		return errors.Wrap(err, "")
	}
	for _, c := range counts {
		n := binary.PutUvarint(scratch[:], c)
		if _, err := bw.Write(scratch[:n]); err != nil {
			return errors.Wrap(err, "")
		}
	}

	enc := NewEncoder(bw)
	defer enc.Close()
	for _, b := range data {
		if err := enc.Encode(table, int(b)); err != nil {
			return err
		}
	}
	if err := enc.Finish(); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "")
}

// Decompress reverses Compress, writing the original bytes to w.
func Decompress(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)

	size, err := binary.ReadUvarint(br)
	if err != nil {
		return errors.Wrap(err, "read length")
	}
	counts := make([]uint64, alphabetSize)
	for i := range counts {
		c, err := binary.ReadUvarint(br)
		if err != nil {
			return errors.Wrap(err, "read count table")
		}
		counts[i] = c
	}
	table := NewFreqTable(counts)

	dec := NewDecoder(br)
	if err := dec.Start(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := uint64(0); i < size; i++ {
		symbol, err := dec.Decode(table)
		if err != nil {
			return err
		}
		if err := bw.WriteByte(byte(symbol)); err != nil {
			return errors.Wrap(err, "")
		}
	}
	return errors.Wrap(bw.Flush(), "")
}
