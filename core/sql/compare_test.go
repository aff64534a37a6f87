package sql

import (
	"math"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func mustRegex(t *testing.T, src string) *Regex {
	t.Helper()
	re, err := NewRegex(src)
	if err != nil {
		t.Fatalf("NewRegex(%q): %v", src, err)
	}
	return re
}

func TestEqualImpliesSameHash(t *testing.T) {
	at := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("e72bee20-f49b-11ec-b939-0242ac120002")

	pairs := []struct {
		name string
		a, b Value
	}{
		{name: "none", a: None{}, b: None{}},
		{name: "int", a: NewInt(42), b: NewInt(42)},
		{name: "decimal scale", a: NewDecimal(decimal.RequireFromString("1.50")), b: NewDecimal(decimal.RequireFromString("1.5"))},
		{name: "strand", a: Strand("a"), b: Strand("a")},
		{name: "datetime zones", a: Datetime{at}, b: Datetime{at.In(time.FixedZone("", 3600))}},
		{name: "uuid", a: Uuid(id), b: Uuid(id)},
		{name: "array", a: Array{NewInt(1), Strand("x")}, b: Array{NewInt(1), Strand("x")}},
		{
			name: "object key order",
			a:    &Object{Fields: []ObjectField{{"a", NewInt(1)}, {"b", NewInt(2)}}},
			b:    &Object{Fields: []ObjectField{{"b", NewInt(2)}, {"a", NewInt(1)}}},
		},
		{name: "thing", a: &Thing{Table: "person", ID: Strand("tobie")}, b: &Thing{Table: "person", ID: Strand("tobie")}},
		{name: "regex", a: mustRegex(t, "a+"), b: mustRegex(t, "a+")},
		{
			name: "structural",
			a:    &Binary{Left: NewInt(1), Op: OpAdd, Right: Param("x")},
			b:    &Binary{Left: NewInt(1), Op: OpAdd, Right: Param("x")},
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if !Equal(tt.a, tt.b) {
				t.Fatalf("Equal(%v, %v) = false", tt.a, tt.b)
			}
			if Compare(tt.a, tt.b) != 0 || Compare(tt.b, tt.a) != 0 {
				t.Errorf("Compare is not zero for equal values")
			}
			if Hash(tt.a) != Hash(tt.b) {
				t.Errorf("Hash differs for equal values %v and %v", tt.a, tt.b)
			}
		})
	}
}

func TestNotEqual(t *testing.T) {
	pairs := []struct {
		name string
		a, b Value
	}{
		{name: "int and float", a: NewInt(1), b: NewFloat(1)},
		{name: "zero signs", a: NewFloat(0), b: NewFloat(math.Copysign(0, -1))},
		{name: "strand and table", a: Strand("person"), b: Table("person")},
		{name: "none and null", a: None{}, b: Null{}},
		{name: "array length", a: Array{NewInt(1)}, b: Array{NewInt(1), NewInt(2)}},
		{name: "thing id", a: &Thing{Table: "t", ID: NewInt(1)}, b: &Thing{Table: "t", ID: Strand("1")}},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if Equal(tt.a, tt.b) {
				t.Fatalf("Equal(%v, %v) = true", tt.a, tt.b)
			}
			if c1, c2 := Compare(tt.a, tt.b), Compare(tt.b, tt.a); c1 != -c2 {
				t.Errorf("Compare is not antisymmetric: %d, %d", c1, c2)
			}
		})
	}
}

func TestCompareOrdersNumbersByValue(t *testing.T) {
	values := []Value{
		NewFloat(2.5),
		NewInt(-3),
		NewDecimal(decimal.RequireFromString("2.25")),
		NewInt(10),
		NewFloat(math.NaN()),
	}
	sort.Slice(values, func(i, j int) bool { return Compare(values[i], values[j]) < 0 })

	var got []string
	for _, v := range values {
		got = append(got, v.String())
	}
	want := []string{"NaNf", "-3", "2.25dec", "2.5f", "10"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted numbers mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareOrdersVariants(t *testing.T) {
	ordered := []Value{
		None{},
		Null{},
		Bool(false),
		Bool(true),
		NewInt(0),
		Strand(""),
		Duration(time.Second),
		Array{},
		&Object{},
		&Thing{Table: "a", ID: NewInt(1)},
	}
	for i := 1; i < len(ordered); i++ {
		if Compare(ordered[i-1], ordered[i]) >= 0 {
			t.Errorf("%v should sort before %v", ordered[i-1], ordered[i])
		}
	}
}
