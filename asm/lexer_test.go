package asm

import "testing"

func TestTokenizeLineBlank(t *testing.T) {
	toks, err := tokenizeLine("", 1)
	if err != nil || len(toks) != 0 {
		t.Fatalf("tokenizeLine(\"\") = %v, %v", toks, err)
	}
	toks, err = tokenizeLine("   \t  ", 1)
	if err != nil || len(toks) != 0 {
		t.Fatalf("tokenizeLine(whitespace) = %v, %v", toks, err)
	}
	toks, err = tokenizeLine("; just a comment", 1)
	if err != nil || len(toks) != 0 {
		t.Fatalf("tokenizeLine(comment) = %v, %v", toks, err)
	}
}

func TestTokenizeLineIdentAndComment(t *testing.T) {
	toks, err := tokenizeLine("add ; add two values", 1)
	if err != nil {
		t.Fatalf("tokenizeLine error: %v", err)
	}
	if len(toks) != 1 || toks[0].kind != tokIdent || toks[0].text != "ADD" {
		t.Fatalf("tokenizeLine = %v, want [ADD]", toks)
	}
}

func TestTokenizeLineHexAndDecimal(t *testing.T) {
	toks, err := tokenizeLine("CONST I64 0x0000 0x002a", 1)
	if err != nil {
		t.Fatalf("tokenizeLine error: %v", err)
	}
	if len(toks) != 4 || toks[2].ival != 0 || toks[3].ival != 42 {
		t.Fatalf("tokenizeLine = %+v", toks)
	}
}

func TestTokenizeLineInvalidHex(t *testing.T) {
	_, err := tokenizeLine("CONST I64 0xZZZZ 0x0000", 3)
	if err == nil {
		t.Fatal("expected error for invalid hex literal")
	}
	if ae, ok := err.(*Error); !ok || ae.Kind != InvalidNumber || ae.Line != 3 {
		t.Fatalf("err = %v, want InvalidNumber at line 3", err)
	}
}

func TestTokenizeLineLargeHexValue(t *testing.T) {
	toks, err := tokenizeLine("CONST_EXT I64 0x0000123456789abc", 1)
	if err != nil {
		t.Fatalf("tokenizeLine error: %v", err)
	}
	if len(toks) != 3 || toks[2].ival != 0x0000123456789abc {
		t.Fatalf("tokenizeLine = %+v", toks)
	}
}
