package bm25

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Save writes the index to filepath in the layout described in spec.md §6:
// k1, b, avgDocLength as float64, the doc-length table, then the inverted
// index as length-prefixed (term, postings) records. All integers are
// written in the host's native byte order via binary.NativeEndian, and
// every length/count field is a uint64 — see DESIGN.md's Open Question 2
// for why this, rather than a fixed little-endian width, is the faithful
// rendering of "host byte order, native size".
//
// Finalize is not called here; callers must finalize before saving (the
// Hybrid Searcher does this in its own Save).
func (idx *Index) Save(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeFloat64(w, idx.K1); err != nil {
		return err
	}
	if err := writeFloat64(w, idx.B); err != nil {
		return err
	}
	if err := writeFloat64(w, idx.avgDocLength); err != nil {
		return err
	}

	if err := writeUint64(w, uint64(len(idx.docLengths))); err != nil {
		return err
	}
	for docID, length := range idx.docLengths {
		if err := writeInt32(w, docID); err != nil {
			return err
		}
		if err := writeInt32(w, length); err != nil {
			return err
		}
	}

	if err := writeUint64(w, uint64(len(idx.inverted))); err != nil {
		return err
	}
	for term, postings := range idx.inverted {
		if err := writeUint64(w, uint64(len(term))); err != nil {
			return err
		}
		if _, err := w.WriteString(term); err != nil {
			return err
		}
		if err := writeUint64(w, uint64(len(postings))); err != nil {
			return err
		}
		for _, p := range postings {
			if err := writeInt32(w, p.DocID); err != nil {
				return err
			}
			if err := writeInt32(w, p.Freq); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// Load reads an index previously written by Save from filepath and returns
// it as a new Index. On success,
// AvgDocLength reflects the value stored at save time, not a recomputation.
func Load(filepath string) (*Index, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	idx := &Index{
		docLengths: make(map[int32]int32),
		inverted:   make(map[string][]Posting),
	}

	if idx.K1, err = readFloat64(r); err != nil {
		return nil, err
	}
	if idx.B, err = readFloat64(r); err != nil {
		return nil, err
	}
	if idx.avgDocLength, err = readFloat64(r); err != nil {
		return nil, err
	}

	docLengthsSize, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < docLengthsSize; i++ {
		docID, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		length, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		idx.docLengths[docID] = length
	}

	indexSize, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < indexSize; i++ {
		keySize, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		keyBytes := make([]byte, keySize)
		if _, err := io.ReadFull(r, keyBytes); err != nil {
			return nil, err
		}

		postingsSize, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		postings := make([]Posting, postingsSize)
		for j := range postings {
			docID, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			freq, err := readInt32(r)
			if err != nil {
				return nil, err
			}
			postings[j] = Posting{DocID: docID, Freq: freq}
		}
		idx.inverted[string(keyBytes)] = postings
	}

	return idx, nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeInt32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func writeFloat64(w io.Writer, v float64) error {
	return writeUint64(w, math.Float64bits(v))
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("bm25: read uint64: %w", err)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("bm25: read int32: %w", err)
	}
	return int32(binary.NativeEndian.Uint32(buf[:])), nil
}

func readFloat64(r io.Reader) (float64, error) {
	bits, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
