package nolt

import (
	"encoding/base64"
	"testing"

	"github.com/goccy/go-json"

	"github.com/sefton37/nolang/instr"
)

func TestWitnessJSONRoundTripScalar(t *testing.T) {
	w := Witness{
		Input:    []instr.Value{instr.ValI64(5), instr.ValI64(3)},
		Expected: instr.ValI64(8),
	}
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got Witness
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(got.Input) != 2 || !got.Input[0].Equal(instr.ValI64(5)) || !got.Input[1].Equal(instr.ValI64(3)) {
		t.Fatalf("Input mismatch: %+v", got.Input)
	}
	if !got.Expected.Equal(instr.ValI64(8)) {
		t.Fatalf("Expected mismatch: %v", got.Expected)
	}
}

func TestWitnessJSONRoundTripComposite(t *testing.T) {
	w := Witness{
		Input: []instr.Value{
			instr.ValTuple{instr.ValI64(3), instr.ValI64(7)},
			instr.ValArray{instr.ValBool(true), instr.ValBool(false)},
		},
		Expected: instr.ValVariant{TagCount: 2, Tag: 1, Payload: instr.ValChar('x')},
	}
	b, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var got Witness
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !got.Input[0].Equal(w.Input[0]) || !got.Input[1].Equal(w.Input[1]) {
		t.Fatalf("Input mismatch: %+v", got.Input)
	}
	if !got.Expected.Equal(w.Expected) {
		t.Fatalf("Expected mismatch: %v", got.Expected)
	}
}

func TestRunWitnessesPassAndFail(t *testing.T) {
	// ADD; HALT, driven entirely by seeded stack operands.
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Add, instr.None, 0, 0, 0),
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	witnesses := []Witness{
		{Input: []instr.Value{instr.ValI64(2), instr.ValI64(3)}, Expected: instr.ValI64(5)},
		{Input: []instr.Value{instr.ValI64(2), instr.ValI64(3)}, Expected: instr.ValI64(999)},
	}
	passed, results, err := RunWitnesses(prog, witnesses)
	if err != nil {
		t.Fatalf("RunWitnesses error: %v", err)
	}
	if passed != 1 {
		t.Fatalf("passed = %d, want 1", passed)
	}
	if results[0] != nil {
		t.Fatalf("results[0] = %v, want nil", results[0])
	}
	if results[1] == nil {
		t.Fatal("results[1] = nil, want a mismatch error")
	}
}

func TestDecodeBinary(t *testing.T) {
	prog := instr.NewProgram([]instr.Instruction{
		instr.New(instr.Halt, instr.None, 0, 0, 0),
	})
	rec := Record{BinaryB64: base64.StdEncoding.EncodeToString(prog.Encode())}
	got, err := DecodeBinary(rec)
	if err != nil {
		t.Fatalf("DecodeBinary error: %v", err)
	}
	if len(got.Instructions) != 1 || got.Instructions[0].Opcode != instr.Halt {
		t.Fatalf("got %+v", got.Instructions)
	}
}
