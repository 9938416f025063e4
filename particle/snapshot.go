package particle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"

	"github.com/phil-mansfield/gomd/geom"
)

/* snapshot.go reads and writes compressed binary snapshots of a Store.
The format is a fixed little-endian header followed by one
zstd-compressed block per field. Snapshots are a driver convenience, not
a restart file: only the particle arrays and the box are stored. */

const (
	// SnapshotMagicNumber sits at the start of every snapshot file so that
	// running the reader on something else fails loudly.
	SnapshotMagicNumber = 0xce111157
	SnapshotVersion     = 1
)

type snapshotHeader struct {
	Magic, Version uint32
	Dims           uint32
	N              uint64
	Lo, Hi         [3]float32
}

// WriteSnapshot writes the contents of a Store to the named file.
func WriteSnapshot(fname string, s *Store) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer fp.Close()

	arrays := s.AcquireReadOnly()
	defer s.Release()
	box := s.Box()

	hd := snapshotHeader{
		Magic: SnapshotMagicNumber, Version: SnapshotVersion,
		Dims: uint32(box.Dims), N: uint64(arrays.N),
		Lo: box.Lo, Hi: box.Hi,
	}
	if err := binary.Write(fp, binary.LittleEndian, hd); err != nil {
		return err
	}

	fields := []interface{}{
		arrays.X, arrays.Charge, arrays.Diameter, arrays.Type, arrays.Body,
	}
	for _, field := range fields {
		if err := writeBlock(fp, field); err != nil {
			return err
		}
	}

	return nil
}

// ReadSnapshot reads a snapshot file written by WriteSnapshot and
// returns a new Store holding its contents.
func ReadSnapshot(fname string) (*Store, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	hd := snapshotHeader{}
	if err := binary.Read(fp, binary.LittleEndian, &hd); err != nil {
		return nil, err
	}

	if hd.Magic != SnapshotMagicNumber {
		return nil, fmt.Errorf(
			"%s is not a gomd snapshot: magic number is %#x, not %#x.",
			fname, hd.Magic, uint32(SnapshotMagicNumber),
		)
	}
	if hd.Version != SnapshotVersion {
		return nil, fmt.Errorf(
			"%s has snapshot version %d, but this build reads version %d.",
			fname, hd.Version, SnapshotVersion,
		)
	}

	box := geom.Box{Lo: hd.Lo, Hi: hd.Hi, Dims: int(hd.Dims)}
	s, err := NewStore(int(hd.N), box)
	if err != nil {
		return nil, err
	}

	fields := []interface{}{s.x, s.charge, s.diameter, s.typ, s.body}
	for _, field := range fields {
		if err := readBlock(fp, field); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// writeBlock serializes one field array, compresses it, and writes it as
// a length-prefixed block.
func writeBlock(fp *os.File, field interface{}) error {
	raw := &bytes.Buffer{}
	if err := binary.Write(raw, binary.LittleEndian, field); err != nil {
		return err
	}

	comp, err := zstd.CompressLevel(nil, raw.Bytes(), 1)
	if err != nil {
		return err
	}

	if err := binary.Write(
		fp, binary.LittleEndian, uint64(len(comp)),
	); err != nil {
		return err
	}
	_, err = fp.Write(comp)
	return err
}

// readBlock reads one length-prefixed block and decompresses it into a
// field array, which must already have the correct length.
func readBlock(fp *os.File, field interface{}) error {
	var compLen uint64
	if err := binary.Read(fp, binary.LittleEndian, &compLen); err != nil {
		return err
	}

	comp := make([]byte, compLen)
	if _, err := io.ReadFull(fp, comp); err != nil {
		return err
	}

	raw, err := zstd.Decompress(nil, comp)
	if err != nil {
		return err
	}

	return binary.Read(bytes.NewReader(raw), binary.LittleEndian, field)
}
