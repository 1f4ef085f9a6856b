package instr

import "testing"

func TestParseTypeTagLive(t *testing.T) {
	for b := byte(0); b <= 12; b++ {
		got, err := ParseTypeTag(b)
		if err != nil {
			t.Errorf("ParseTypeTag(%d) returned error %v", b, err)
		}
		if got.Name() == "" {
			t.Errorf("type tag %d has no name", b)
		}
	}
}

func TestParseTypeTagReserved(t *testing.T) {
	for _, b := range []byte{13, 100, 255} {
		_, err := ParseTypeTag(b)
		de, ok := err.(*DecodeError)
		if !ok || de.Kind != ReservedTypeTag {
			t.Errorf("ParseTypeTag(%d) = %v, want ReservedTypeTag", b, err)
		}
	}
}

func TestTypeTagByNameRoundTrip(t *testing.T) {
	tags := []TypeTag{None, I64, U64, F64, Bool, Char, Variant, Tuple, FuncType, Array, Maybe, Result, Unit}
	for _, tg := range tags {
		got, ok := TypeTagByName(tg.Name())
		if !ok || got != tg {
			t.Errorf("TypeTagByName(%q) = %v, %v; want %v, true", tg.Name(), got, ok, tg)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	for _, tg := range []TypeTag{I64, U64, F64} {
		if !tg.IsNumeric() {
			t.Errorf("%v.IsNumeric() = false, want true", tg)
		}
	}
	for _, tg := range []TypeTag{Bool, Char, Unit, Variant} {
		if tg.IsNumeric() {
			t.Errorf("%v.IsNumeric() = true, want false", tg)
		}
	}
}
