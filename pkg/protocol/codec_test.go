package protocol

import (
	"errors"
	"io"
	"testing"
)

func TestUvarint(t *testing.T) {
	tests := []struct {
		value uint64
		size  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{1<<32 - 1, 5},
		{1<<64 - 1, 10},
	}
	for _, tt := range tests {
		e := NewEncoder()
		e.WriteUvarint(tt.value)
		if e.Len() != tt.size {
			t.Errorf("WriteUvarint(%d) wrote %d bytes, want %d", tt.value, e.Len(), tt.size)
		}
		got, err := NewDecoder(e.Bytes()).ReadUvarint()
		if err != nil || got != tt.value {
			t.Errorf("ReadUvarint() = %d, %v, want %d", got, err, tt.value)
		}
	}
}

func TestWriteU8(t *testing.T) {
	e := NewEncoder()
	for _, b := range []byte{0x00, 0x7f, 0xff} {
		e.WriteU8(b)
	}
	if e.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", e.Len())
	}
	d := NewDecoder(e.Bytes())
	for _, want := range []byte{0x00, 0x7f, 0xff} {
		got, err := d.ReadByte()
		if err != nil || got != want {
			t.Errorf("ReadByte() = 0x%02x, %v, want 0x%02x", got, err, want)
		}
	}
	var _ io.ByteReader = d
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Decoder) error
		want error
	}{
		{
			name: "truncated varint",
			data: []byte{0x80},
			read: func(d *Decoder) error { _, err := d.ReadUvarint(); return err },
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "varint overflow",
			data: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01},
			read: func(d *Decoder) error { _, err := d.ReadUvarint(); return err },
			want: ErrVarintOverflow,
		},
		{
			name: "string past end",
			data: []byte{0x05, 'a', 'b'},
			read: func(d *Decoder) error { _, err := d.ReadString(); return err },
			want: io.ErrUnexpectedEOF,
		},
		{
			name: "empty byte",
			data: nil,
			read: func(d *Decoder) error { _, err := d.ReadByte(); return err },
			want: io.ErrUnexpectedEOF,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.read(NewDecoder(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.WriteString("héllo")
	e.WriteString("")
	d := NewDecoder(e.Bytes())
	for _, want := range []string{"héllo", ""} {
		got, err := d.ReadString()
		if err != nil || got != want {
			t.Errorf("ReadString() = %q, %v, want %q", got, err, want)
		}
	}
	if !d.EOF() {
		t.Errorf("Remaining() = %d after reading everything", d.Remaining())
	}

	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() = %d after Reset", e.Len())
	}
}
