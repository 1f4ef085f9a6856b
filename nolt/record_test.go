package nolt

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadAllSkipsBlankLines(t *testing.T) {
	src := `{"intent":"add two numbers","assembly":"ADD\nHALT\n","binary_b64":"AAAA"}

{"intent":"negate","assembly":"NEG\nHALT\n","binary_b64":"AQEB"}
`
	records, err := ReadAll(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Intent != "add two numbers" || records[1].Intent != "negate" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestReadAllRejectsMalformedLine(t *testing.T) {
	_, err := ReadAll(strings.NewReader("not json\n"))
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
}

func TestWriteAllThenReadAllRoundTrips(t *testing.T) {
	records := []Record{
		{Intent: "double x", Assembly: "ADD\nHALT\n", BinaryB64: "AAAA", Contracts: []string{"x >= 0"}},
	}
	var buf bytes.Buffer
	if err := WriteAll(&buf, records); err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(got) != 1 || got[0].Intent != "double x" || len(got[0].Contracts) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}
