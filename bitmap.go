package iso8583

import (
	"log/slog"
	"strconv"
)

// segmentWidth is the bit width of one bitmap segment.
const segmentWidth = 64

// Bitmap tracks which fields are present across up to three 64-bit
// segments: primary (fields 1-64), secondary (65-128), and an optional
// tertiary segment (129-192) for forward-compatible extended acquisition
// messages. This generalizes the donor's BitmapManager, which only ever
// carried a primary and a secondary segment.
type Bitmap struct {
	bits         [3 * segmentWidth]bool
	hasSecondary bool
	hasTertiary  bool
}

// NewBitmap returns an empty Bitmap.
func NewBitmap() *Bitmap {
	return &Bitmap{}
}

// Set marks field n (1-based, 1..192) present. Setting a field beyond 64
// also marks the secondary segment active; beyond 128 also marks tertiary.
func (bm *Bitmap) Set(n int) {
	if n < 1 || n > 3*segmentWidth {
		return
	}
	bm.bits[n-1] = true
	if n > segmentWidth {
		bm.hasSecondary = true
		bm.bits[0] = true
	}
	if n > 2*segmentWidth {
		bm.hasTertiary = true
		bm.bits[segmentWidth] = true
	}
}

// IsSet reports whether field n is marked present.
func (bm *Bitmap) IsSet(n int) bool {
	if n < 1 || n > 3*segmentWidth {
		return false
	}
	return bm.bits[n-1]
}

// BuildBitmap constructs a Bitmap from msg's keys prefix+"1".."prefix+width".
// For the top-level call (prefix=="", width==128) bit 0 (field 1, the
// secondary marker) is always forced on, so the secondary segment is always
// emitted regardless of whether any field 65-128 is actually present. If
// "127.1" is present in msg, bit 126 (field 127) is also forced.
func BuildBitmap(msg Message, prefix string, width int) *Bitmap {
	bm := NewBitmap()
	for n := 1; n <= width; n++ {
		if n == 1 || n == segmentWidth+1 {
			continue // reserved continuation markers, never data
		}
		if _, ok := msg[constructFieldKey(prefix, n)]; ok {
			bm.Set(n)
		}
	}
	if prefix == "" && width == 2*segmentWidth {
		bm.hasSecondary = true
		bm.bits[0] = true
		if _, ok := msg["127.1"]; ok {
			bm.bits[126] = true
		}
	}
	return bm
}

func packSegment(bits []bool) [8]byte {
	var out [8]byte
	for i := 0; i < 8; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			if bits[i*8+j] {
				b |= 1 << uint(7-j)
			}
		}
		out[i] = b
	}
	return out
}

func unpackSegment(dst []bool, seg []byte) {
	for i := 0; i < 8 && i < len(seg); i++ {
		for j := 0; j < 8; j++ {
			dst[i*8+j] = seg[i]&(1<<uint(7-j)) != 0
		}
	}
}

// Encode serializes the active segments (primary, plus secondary/tertiary
// if marked present) in the given wire encoding.
func (bm *Bitmap) Encode(enc BitmapEncoding) []byte {
	var out []byte
	segs := [][]bool{bm.bits[0:64]}
	if bm.hasSecondary {
		segs = append(segs, bm.bits[64:128])
	}
	if bm.hasTertiary {
		segs = append(segs, bm.bits[128:192])
	}
	for _, s := range segs {
		packed := packSegment(s)
		switch enc {
		case BitmapASCII:
			out = append(out, []byte(bytesToHex(packed[:]))...)
		default:
			out = append(out, packed[:]...)
		}
	}
	return out
}

func segmentByteWidth(enc BitmapEncoding) int {
	if enc == BitmapASCII {
		return 16
	}
	return 8
}

func readSegment(data []byte, enc BitmapEncoding) (raw []byte, rest []byte, err error) {
	w := segmentByteWidth(enc)
	head, rest, err := sliceBytes(data, 0, w)
	if err != nil {
		return nil, nil, wrapErr(KindBitmapExtraction, "", err)
	}
	if enc == BitmapASCII {
		raw, err = hexToBytes(string(head))
		if err != nil {
			return nil, nil, wrapErr(KindBitmapExtraction, "", err)
		}
		return raw, rest, nil
	}
	return head, rest, nil
}

// DecodeBitmap reads a primary segment, and extends into secondary and
// tertiary segments as their own continuation bits demand. It returns the
// unconsumed remainder of data.
func DecodeBitmap(data []byte, enc BitmapEncoding) (*Bitmap, []byte, error) {
	bm := NewBitmap()

	primary, rest, err := readSegment(data, enc)
	if err != nil {
		return nil, nil, err
	}
	unpackSegment(bm.bits[0:64], primary)
	bm.hasSecondary = bm.bits[0]

	if bm.hasSecondary {
		secondary, r2, err := readSegment(rest, enc)
		if err != nil {
			return nil, nil, err
		}
		unpackSegment(bm.bits[64:128], secondary)
		rest = r2
		bm.hasTertiary = bm.bits[64]

		if bm.hasTertiary {
			tertiary, r3, err := readSegment(rest, enc)
			if err != nil {
				return nil, nil, err
			}
			unpackSegment(bm.bits[128:192], tertiary)
			rest = r3
		}
	}

	return bm, rest, nil
}

// PresentFields returns the set field numbers in ascending order, skipping
// the continuation markers at absolute bit index 0 (field 1) and 64 (field
// 65). Bit index 63 (field 64) is ordinary data and is never skipped.
func (bm *Bitmap) PresentFields() []int {
	var out []int
	for i := 0; i < len(bm.bits); i++ {
		if i == 0 || i == segmentWidth {
			continue
		}
		if bm.bits[i] {
			out = append(out, i+1)
		}
	}
	return out
}

// LogValue implements slog.LogValuer for compact structured logging.
func (bm *Bitmap) LogValue() slog.Value {
	if bm == nil {
		return slog.StringValue("nil")
	}
	return slog.GroupValue(
		slog.Bool("has_secondary", bm.hasSecondary),
		slog.Bool("has_tertiary", bm.hasTertiary),
		slog.String("present", formatFieldList(bm.PresentFields())),
	)
}

func formatFieldList(fields []int) string {
	if len(fields) == 0 {
		return ""
	}
	var b []byte
	for i, f := range fields {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(f), 10)
	}
	return string(b)
}
