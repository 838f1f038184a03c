package rangecoder

import (
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"
)

func BenchmarkEncode(b *testing.B) {
	data := []byte(gettysburg)
	table := NewFreqTable(ByteHistogram(data))
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		var buf bytes.Buffer
		enc := NewEncoder(&buf)
		for _, c := range data {
			if err := enc.Encode(table, int(c)); err != nil {
				b.Fatalf("%+v", err)
			}
		}
		if err := enc.Finish(); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	data := []byte(gettysburg)
	table := NewFreqTable(ByteHistogram(data))
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, c := range data {
		if err := enc.Encode(table, int(c)); err != nil {
			b.Fatalf("%+v", err)
		}
	}
	if err := enc.Finish(); err != nil {
		b.Fatalf("%+v", err)
	}
	coded := buf.Bytes()
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		dec := NewDecoder(bytes.NewReader(coded))
		if err := dec.Start(); err != nil {
			b.Fatalf("%+v", err)
		}
		for j := 0; j < len(data); j++ {
			if _, err := dec.Decode(table); err != nil {
				b.Fatalf("%+v", err)
			}
		}
	}
}

// BenchmarkCompare sizes the order-0 range coder against general-purpose
// compressors on the same text, reporting the compression ratio.
func BenchmarkCompare(b *testing.B) {
	data := []byte(gettysburg)

	b.Run("rangecoder", func(b *testing.B) {
		var size int
		for i := 0; i < b.N; i++ {
			table := NewFreqTable(ByteHistogram(data))
			var buf bytes.Buffer
			enc := NewEncoder(&buf)
			for _, c := range data {
				if err := enc.Encode(table, int(c)); err != nil {
					b.Fatalf("%+v", err)
				}
			}
			if err := enc.Finish(); err != nil {
				b.Fatalf("%+v", err)
			}
			size = buf.Len()
		}
		b.ReportMetric(float64(len(data))/float64(size), "ratio")
	})

	b.Run("flate", func(b *testing.B) {
		var size int
		for i := 0; i < b.N; i++ {
			var buf bytes.Buffer
			w, err := flate.NewWriter(&buf, flate.DefaultCompression)
			if err != nil {
				b.Fatalf("%v", err)
			}
			if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
				b.Fatalf("%v", err)
			}
			if err := w.Close(); err != nil {
				b.Fatalf("%v", err)
			}
			size = buf.Len()
		}
		b.ReportMetric(float64(len(data))/float64(size), "ratio")
	})

	b.Run("zstd", func(b *testing.B) {
		w, err := zstd.NewWriter(nil)
		if err != nil {
			b.Fatalf("%v", err)
		}
		defer w.Close()
		var size int
		for i := 0; i < b.N; i++ {
			size = len(w.EncodeAll(data, nil))
		}
		b.ReportMetric(float64(len(data))/float64(size), "ratio")
	})
}
