package hybrid

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// saveDocCache writes the document text cache to filepath in the layout
// described in spec.md §6: a uint64 count, then per document an int32 id, a
// uint64 byte length, and that many raw text bytes — the same shape
// HybridSearcher::save wrote for index.docs.
func (s *Searcher) saveDocCache(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeUint64(w, uint64(len(s.docCache))); err != nil {
		return err
	}
	for id, text := range s.docCache {
		if err := writeInt32(w, id); err != nil {
			return err
		}
		if err := writeUint64(w, uint64(len(text))); err != nil {
			return err
		}
		if _, err := w.WriteString(text); err != nil {
			return err
		}
	}

	return w.Flush()
}

// loadDocCache reads a document text cache previously written by
// saveDocCache.
func loadDocCache(filepath string) (map[int32]string, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	total, err := readUint64(r)
	if err != nil {
		return nil, err
	}

	cache := make(map[int32]string, total)
	for i := uint64(0); i < total; i++ {
		id, err := readInt32(r)
		if err != nil {
			return nil, err
		}
		length, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("hybrid: read document text: %w", err)
		}
		cache[id] = string(buf)
	}

	return cache, nil
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
		return 0, fmt.Errorf("hybrid: read uint64: %w", err)
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func readInt32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("hybrid: read int32: %w", err)
	}
	return int32(binary.NativeEndian.Uint32(buf[:])), nil
}
