package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"blockindex/pkg/common"
)

var ErrCorruptResult = errors.New("protocol: corrupt result payload")

// minRecordSize is an encoded record with empty name and major.
const minRecordSize = 8 + 4 + 4

// EncodeResult serializes a query answer:
//
//	[Blocks 4B] [Count 4B] ( [ID 8B] [NameLen 4B] [Name] [MajorLen 4B] [Major] ) * Count
//
// It fails with ErrFrameTooLarge when the payload would not fit in one frame.
func EncodeResult(blocks int, records []common.Record) ([]byte, error) {
	size := 8
	for _, r := range records {
		size += minRecordSize + len(r.Name) + len(r.Major)
	}
	if size > MaxValueLen {
		return nil, fmt.Errorf("%w: %d records need %d bytes", ErrFrameTooLarge, len(records), size)
	}

	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint32(buf, uint32(blocks))
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(records)))
	for _, r := range records {
		buf = binary.BigEndian.AppendUint64(buf, uint64(r.ID))
		buf = appendString(buf, r.Name)
		buf = appendString(buf, r.Major)
	}
	return buf, nil
}

func appendString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func DecodeResult(data []byte) (int, []common.Record, error) {
	r := bytes.NewReader(data)

	var blocks, count uint32
	if err := binary.Read(r, binary.BigEndian, &blocks); err != nil {
		return 0, nil, ErrCorruptResult
	}
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return 0, nil, ErrCorruptResult
	}
	// every record takes at least minRecordSize bytes
	if uint64(count) > uint64(r.Len()/minRecordSize) {
		return 0, nil, ErrCorruptResult
	}

	records := make([]common.Record, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec common.Record
		if err := binary.Read(r, binary.BigEndian, &rec.ID); err != nil {
			return 0, nil, ErrCorruptResult
		}
		var err error
		if rec.Name, err = readString(r); err != nil {
			return 0, nil, err
		}
		if rec.Major, err = readString(r); err != nil {
			return 0, nil, err
		}
		records = append(records, rec)
	}
	if r.Len() != 0 {
		return 0, nil, ErrCorruptResult
	}
	return int(blocks), records, nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", ErrCorruptResult
	}
	if uint64(n) > uint64(r.Len()) {
		return "", ErrCorruptResult
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", ErrCorruptResult
	}
	return string(b), nil
}
