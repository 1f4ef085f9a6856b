package instr

import "testing"

func TestProgramEncodeDecodeRoundTrip(t *testing.T) {
	p := NewProgram([]Instruction{
		New(Const, I64, 0, 42, 0),
		New(Halt, None, 0, 0, 0),
	})
	b := p.Encode()
	if len(b) != 16 {
		t.Fatalf("Encode() length = %d, want 16", len(b))
	}
	got, err := DecodeProgram(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Instructions) != len(p.Instructions) {
		t.Fatalf("decoded %d instructions, want %d", len(got.Instructions), len(p.Instructions))
	}
	for i := range p.Instructions {
		if got.Instructions[i] != p.Instructions[i] {
			t.Errorf("instruction %d: got %+v, want %+v", i, got.Instructions[i], p.Instructions[i])
		}
	}
}

func TestDecodeProgramInvalidLength(t *testing.T) {
	_, err := DecodeProgram(make([]byte, 7))
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != InvalidLength {
		t.Fatalf("DecodeProgram(7 bytes) = %v, want InvalidLength", err)
	}
}

func TestDecodeProgramEmpty(t *testing.T) {
	p, err := DecodeProgram(nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 0 {
		t.Errorf("Len() = %d, want 0", p.Len())
	}
}

func TestDecodeProgramPropagatesInstructionErrors(t *testing.T) {
	halt := New(Halt, None, 0, 0, 0).Encode()
	illegal := [8]byte{0, 0, 0, 0, 0, 0, 0, 0}
	b := append(append([]byte{}, halt[:]...), illegal[:]...)
	_, err := DecodeProgram(b)
	de, ok := err.(*DecodeError)
	if !ok || de.Kind != IllegalOpcode {
		t.Fatalf("DecodeProgram() = %v, want IllegalOpcode", err)
	}
}
