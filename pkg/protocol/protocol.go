package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Frame layout, big endian:
//
//	[Magic 1B] [Op 1B] [KeyLen 2B] [ValLen 4B] [Key] [Value]
//
// The key is unused by the query ops but stays in the frame so requests can
// carry routing data later.
const (
	MagicNumber = 0x42
	headerSize  = 8

	// MaxValueLen bounds the value of a single frame. Decode refuses larger
	// lengths before allocating anything.
	MaxValueLen = 16 << 20

	OpQuery = 0x01 // Value = query text
	OpStats = 0x02

	RespOK  = 0x00
	RespErr = 0xFF
	RespVal = 0x01
)

var (
	ErrBadMagic      = errors.New("invalid magic number")
	ErrFrameTooLarge = errors.New("protocol: frame value too large")
	ErrKeyTooLarge   = errors.New("protocol: frame key too large")
)

type Packet struct {
	Op    byte
	Key   []byte
	Value []byte
}

// Encode writes one frame. Header and payload go out in a single Write.
func Encode(w io.Writer, op byte, key []byte, value []byte) error {
	if len(key) > 0xFFFF {
		return fmt.Errorf("%w: %d bytes", ErrKeyTooLarge, len(key))
	}
	if len(value) > MaxValueLen {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(value))
	}

	frame := make([]byte, headerSize, headerSize+len(key)+len(value))
	frame[0] = MagicNumber
	frame[1] = op
	binary.BigEndian.PutUint16(frame[2:4], uint16(len(key)))
	binary.BigEndian.PutUint32(frame[4:8], uint32(len(value)))
	frame = append(frame, key...)
	frame = append(frame, value...)

	_, err := w.Write(frame)
	return err
}

// Decode reads one frame from r.
func Decode(r io.Reader) (*Packet, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	if header[0] != MagicNumber {
		return nil, ErrBadMagic
	}

	kLen := int(binary.BigEndian.Uint16(header[2:4]))
	vLen := binary.BigEndian.Uint32(header[4:8])
	if vLen > MaxValueLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, vLen)
	}

	body := make([]byte, kLen+int(vLen))
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return &Packet{
		Op:    header[1],
		Key:   body[:kLen:kLen],
		Value: body[kLen:],
	}, nil
}
