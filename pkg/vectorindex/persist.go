package vectorindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Save writes the index to filepath in the layout described in spec.md §6: a
// uint64 count, followed by that many (doc_id int32, vector [Dimensions]float32)
// records. Every vector is assumed to be exactly Dimensions wide — the format
// has no per-record dimension field, matching the fixed-size array the
// original implementation stored. Integers and floats are written in the
// host's native byte order via binary.NativeEndian (see pkg/bm25/persist.go
// and DESIGN.md's Open Question 2 for the same reasoning applied here).
func (idx *Index) Save(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeUint64(w, uint64(len(idx.vectors))); err != nil {
		return err
	}
	for docID, vec := range idx.vectors {
		if err := writeInt32(w, docID); err != nil {
			return err
		}
		if err := writeVector(w, vec); err != nil {
			return err
		}
	}

	return w.Flush()
}

// Load reads the vectors stored at filepath and returns them as a new Index.
func Load(filepath string) (*Index, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	idx := &Index{vectors: make(map[int32][]float32)}

	total, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	for i := uint64(0); i < total; i++ {
		docID, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		vec, err := readVector(r)
		if err != nil {
			return nil, err
		}
		idx.vectors[docID] = vec
	}

	return idx, nil
}

func writeVector(w io.Writer, vec []float32) error {
	buf := make([]byte, 4*Dimensions)
	for i, v := range vec {
		binary.NativeEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func readVector(r io.Reader) ([]float32, error) {
	buf := make([]byte, 4*Dimensions)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("vectorindex: read vector: %w", err)
	}
	vec := make([]float32, Dimensions)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.NativeEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
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

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("vectorindex: read uint64: %w", err)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("vectorindex: read int32: %w", err)
	}
	return int32(binary.NativeEndian.Uint32(buf[:])), nil
}
