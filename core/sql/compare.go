package sql

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zeebo/blake3"
)

// rank orders values of different variants.
func rank(v Value) int {
	switch v.(type) {
	case None:
		return 0
	case Null:
		return 1
	case Bool:
		return 2
	case Number:
		return 3
	case Strand:
		return 4
	case Duration:
		return 5
	case Datetime:
		return 6
	case Uuid:
		return 7
	case Array:
		return 8
	case *Object:
		return 9
	case *Point:
		return 10
	case *Thing:
		return 11
	case Table:
		return 12
	case Param:
		return 13
	case Idiom:
		return 14
	case *Regex:
		return 15
	case *Mock:
		return 16
	default:
		// Structural forms compare by their canonical text.
		return 17
	}
}

// Equal reports whether a and b are the same value.
func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

// Compare orders two values. It returns 0 exactly when Equal does.
func Compare(a, b Value) int {
	if ra, rb := rank(a), rank(b); ra != rb {
		return cmpInt(ra, rb)
	}
	switch x := a.(type) {
	case None, Null:
		return 0
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		default:
			return 1
		}
	case Number:
		return compareNumber(x, b.(Number))
	case Strand:
		return strings.Compare(string(x), string(b.(Strand)))
	case Duration:
		return cmpInt64(int64(x), int64(b.(Duration)))
	case Datetime:
		return x.Compare(b.(Datetime).Time)
	case Uuid:
		y := b.(Uuid)
		return bytes.Compare(x[:], y[:])
	case Array:
		return compareArray(x, b.(Array))
	case *Object:
		return compareObject(x, b.(*Object))
	case *Point:
		y := b.(*Point)
		if c := compareFloat(x.X, y.X); c != 0 {
			return c
		}
		return compareFloat(x.Y, y.Y)
	case *Thing:
		y := b.(*Thing)
		if c := strings.Compare(x.Table, y.Table); c != 0 {
			return c
		}
		return Compare(x.ID, y.ID)
	case Table:
		return strings.Compare(string(x), string(b.(Table)))
	case Param:
		return strings.Compare(string(x), string(b.(Param)))
	case *Regex:
		return strings.Compare(x.Source(), b.(*Regex).Source())
	default:
		return strings.Compare(a.String(), b.String())
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareFloat orders by value, then by bit pattern so that 0 and -0, or
// two NaN payloads, stay distinct. NaN sorts below every number.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && !bn:
		return -1
	case bn && !an:
		return 1
	case !an && a < b:
		return -1
	case !an && a > b:
		return 1
	}
	ab, bb := math.Float64bits(a), math.Float64bits(b)
	switch {
	case ab < bb:
		return -1
	case ab > bb:
		return 1
	}
	return 0
}

func compareNumber(a, b Number) int {
	if c := compareNumeric(a, b); c != 0 {
		return c
	}
	if a.Kind != b.Kind {
		return cmpInt(int(a.Kind), int(b.Kind))
	}
	switch a.Kind {
	case FloatNumber:
		return compareFloat(a.Float, b.Float)
	case DecimalNumber:
		return strings.Compare(a.Decimal.String(), b.Decimal.String())
	}
	return 0
}

// compareNumeric compares the mathematical values of two numbers.
func compareNumeric(a, b Number) int {
	if a.Kind == IntNumber && b.Kind == IntNumber {
		return cmpInt64(a.Int, b.Int)
	}
	if a.Kind != DecimalNumber && b.Kind != DecimalNumber {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		if math.IsNaN(af) || math.IsNaN(bf) {
			return compareFloat(af, bf)
		}
		return compareFloat(af, bf) * boolInt(af != bf)
	}
	ad, aok := toDecimal(a)
	bd, bok := toDecimal(b)
	if !aok || !bok {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return compareFloat(af, bf) * boolInt(af != bf)
	}
	return ad.Cmp(bd)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toDecimal(n Number) (decimal.Decimal, bool) {
	switch n.Kind {
	case IntNumber:
		return decimal.NewFromInt(n.Int), true
	case FloatNumber:
		if math.IsNaN(n.Float) || math.IsInf(n.Float, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n.Float), true
	default:
		return n.Decimal, true
	}
}

func compareArray(a, b Array) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

func sortedFields(o *Object) []ObjectField {
	fs := make([]ObjectField, len(o.Fields))
	copy(fs, o.Fields)
	sort.Slice(fs, func(i, j int) bool { return fs[i].Key < fs[j].Key })
	return fs
}

func compareObject(a, b *Object) int {
	af, bf := sortedFields(a), sortedFields(b)
	for i := 0; i < len(af) && i < len(bf); i++ {
		if c := strings.Compare(af[i].Key, bf[i].Key); c != 0 {
			return c
		}
		if c := Compare(af[i].Value, bf[i].Value); c != 0 {
			return c
		}
	}
	return cmpInt(len(af), len(bf))
}

// Hash returns a 64 bit digest of v. Equal values hash equally.
func Hash(v Value) uint64 {
	h := blake3.New()
	writeHash(h, v)
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

func writeHash(h *blake3.Hasher, v Value) {
	var buf [9]byte
	buf[0] = byte(rank(v))
	switch x := v.(type) {
	case None, Null:
		h.Write(buf[:1])
	case Bool:
		if x {
			buf[1] = 1
		}
		h.Write(buf[:2])
	case Number:
		// Values that compare equal share kind and bits.
		buf[1] = byte(x.Kind)
		h.Write(buf[:2])
		switch x.Kind {
		case IntNumber:
			binary.LittleEndian.PutUint64(buf[1:], uint64(x.Int))
			h.Write(buf[1:])
		case FloatNumber:
			binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x.Float))
			h.Write(buf[1:])
		default:
			h.WriteString(x.Decimal.String())
		}
	case Duration:
		binary.LittleEndian.PutUint64(buf[1:], uint64(x))
		h.Write(buf[:])
	case Datetime:
		binary.LittleEndian.PutUint64(buf[1:], uint64(x.Unix()))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[1:], uint64(x.Nanosecond()))
		h.Write(buf[1:])
	case Uuid:
		h.Write(buf[:1])
		h.Write(x[:])
	case Array:
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(x)))
		h.Write(buf[:])
		for _, e := range x {
			writeHash(h, e)
		}
	case *Object:
		fs := sortedFields(x)
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(fs)))
		h.Write(buf[:])
		for _, f := range fs {
			writeHashString(h, f.Key)
			writeHash(h, f.Value)
		}
	case *Point:
		h.Write(buf[:1])
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x.X))
		h.Write(buf[1:])
		binary.LittleEndian.PutUint64(buf[1:], math.Float64bits(x.Y))
		h.Write(buf[1:])
	case *Thing:
		h.Write(buf[:1])
		writeHashString(h, x.Table)
		writeHash(h, x.ID)
	case Strand:
		h.Write(buf[:1])
		writeHashString(h, string(x))
	case Table:
		h.Write(buf[:1])
		writeHashString(h, string(x))
	case Param:
		h.Write(buf[:1])
		writeHashString(h, string(x))
	case *Regex:
		h.Write(buf[:1])
		writeHashString(h, x.Source())
	default:
		h.Write(buf[:1])
		writeHashString(h, v.String())
	}
}

func writeHashString(h *blake3.Hasher, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.WriteString(s)
}
