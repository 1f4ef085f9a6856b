package nolt

import (
	"encoding/base64"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/sefton37/nolang/instr"
	"github.com/sefton37/nolang/vm"
)

// Witness is one input/expected-output pair a Record's program should
// satisfy when run to completion.
type Witness struct {
	Input    []instr.Value `json:"input"`
	Expected instr.Value   `json:"expected"`
}

// jsonValue is the tagged wire form of an instr.Value: {"type": NAME,
// "value": ...}, with composite types nesting further jsonValues.
type jsonValue struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// MarshalJSON renders a Witness using the tagged value encoding.
func (w Witness) MarshalJSON() ([]byte, error) {
	inputs := make([]jsonValue, len(w.Input))
	for i, v := range w.Input {
		jv, err := toJSONValue(v)
		if err != nil {
			return nil, err
		}
		inputs[i] = jv
	}
	exp, err := toJSONValue(w.Expected)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Input    []jsonValue `json:"input"`
		Expected jsonValue   `json:"expected"`
	}{inputs, exp})
}

// UnmarshalJSON parses a Witness from the tagged value encoding.
func (w *Witness) UnmarshalJSON(b []byte) error {
	var raw struct {
		Input    []jsonValue `json:"input"`
		Expected jsonValue   `json:"expected"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	input := make([]instr.Value, len(raw.Input))
	for i, jv := range raw.Input {
		v, err := fromJSONValue(jv)
		if err != nil {
			return err
		}
		input[i] = v
	}
	expected, err := fromJSONValue(raw.Expected)
	if err != nil {
		return err
	}
	w.Input = input
	w.Expected = expected
	return nil
}

func toJSONValue(v instr.Value) (jsonValue, error) {
	switch x := v.(type) {
	case instr.ValI64:
		return jsonValue{Type: "I64", Value: int64(x)}, nil
	case instr.ValU64:
		return jsonValue{Type: "U64", Value: uint64(x)}, nil
	case instr.ValF64:
		return jsonValue{Type: "F64", Value: float64(x)}, nil
	case instr.ValBool:
		return jsonValue{Type: "BOOL", Value: bool(x)}, nil
	case instr.ValChar:
		return jsonValue{Type: "CHAR", Value: string(rune(x))}, nil
	case instr.ValUnit:
		return jsonValue{Type: "UNIT"}, nil
	case instr.ValVariant:
		payload, err := toJSONValue(x.Payload)
		if err != nil {
			return jsonValue{}, err
		}
		return jsonValue{Type: "VARIANT", Value: map[string]interface{}{
			"tag_count": x.TagCount,
			"tag":       x.Tag,
			"payload":   payload,
		}}, nil
	case instr.ValTuple:
		fields := make([]jsonValue, len(x))
		for i, e := range x {
			jv, err := toJSONValue(e)
			if err != nil {
				return jsonValue{}, err
			}
			fields[i] = jv
		}
		return jsonValue{Type: "TUPLE", Value: fields}, nil
	case instr.ValArray:
		elems := make([]jsonValue, len(x))
		for i, e := range x {
			jv, err := toJSONValue(e)
			if err != nil {
				return jsonValue{}, err
			}
			elems[i] = jv
		}
		return jsonValue{Type: "ARRAY", Value: elems}, nil
	default:
		return jsonValue{}, fmt.Errorf("nolt: no JSON encoding for value of type %s", v.TypeTag().Name())
	}
}

func fromJSONValue(jv jsonValue) (instr.Value, error) {
	switch jv.Type {
	case "I64":
		return instr.ValI64(int64(jv.Value.(float64))), nil
	case "U64":
		return instr.ValU64(uint64(jv.Value.(float64))), nil
	case "F64":
		return instr.ValF64(jv.Value.(float64)), nil
	case "BOOL":
		return instr.ValBool(jv.Value.(bool)), nil
	case "CHAR":
		s := jv.Value.(string)
		r := []rune(s)
		if len(r) != 1 {
			return nil, fmt.Errorf("nolt: invalid CHAR value %q", s)
		}
		return instr.ValChar(r[0]), nil
	case "UNIT":
		return instr.ValUnit{}, nil
	case "VARIANT":
		m := jv.Value.(map[string]interface{})
		payloadRaw, err := reencode(m["payload"])
		if err != nil {
			return nil, err
		}
		var payloadJV jsonValue
		if err := json.Unmarshal(payloadRaw, &payloadJV); err != nil {
			return nil, err
		}
		payload, err := fromJSONValue(payloadJV)
		if err != nil {
			return nil, err
		}
		return instr.ValVariant{
			TagCount: uint16(m["tag_count"].(float64)),
			Tag:      uint16(m["tag"].(float64)),
			Payload:  payload,
		}, nil
	case "TUPLE":
		fields, err := decodeList(jv.Value)
		if err != nil {
			return nil, err
		}
		return instr.ValTuple(fields), nil
	case "ARRAY":
		elems, err := decodeList(jv.Value)
		if err != nil {
			return nil, err
		}
		return instr.ValArray(elems), nil
	default:
		return nil, fmt.Errorf("nolt: unknown value type %q", jv.Type)
	}
}

func decodeList(raw interface{}) ([]instr.Value, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("nolt: expected a list of values")
	}
	out := make([]instr.Value, len(items))
	for i, item := range items {
		b, err := reencode(item)
		if err != nil {
			return nil, err
		}
		var jv jsonValue
		if err := json.Unmarshal(b, &jv); err != nil {
			return nil, err
		}
		v, err := fromJSONValue(jv)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// reencode round-trips a decoded interface{} back through JSON so it
// can be re-parsed into a typed jsonValue; go-json decodes nested
// objects as map[string]interface{}/[]interface{}, not structs.
func reencode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeBinary base64-decodes a Record's BinaryB64 field into a
// Program.
func DecodeBinary(rec Record) (instr.Program, error) {
	raw, err := base64.StdEncoding.DecodeString(rec.BinaryB64)
	if err != nil {
		return instr.Program{}, errors.Wrap(err, "nolt: invalid base64")
	}
	return instr.DecodeProgram(raw)
}

// RunWitnesses executes prog once per witness and reports how many
// passed. Each witness's Input values are pushed onto a fresh VM's
// operand stack before execution starts, in order (so a program
// written to consume pre-seeded operands rather than its own CONSTs
// can be driven by witness data); a witness passes when the program
// halts with a value Equal to its Expected value.
func RunWitnesses(prog instr.Program, witnesses []Witness) (passed int, results []error, err error) {
	results = make([]error, len(witnesses))
	for i, w := range witnesses {
		m, verr := vm.New(prog)
		if verr != nil {
			return passed, results, errors.Wrap(verr, "nolt: vm setup failed")
		}
		for _, v := range w.Input {
			m.Stack = append(m.Stack, v)
		}
		got, rerr := m.Run()
		if rerr != nil {
			results[i] = rerr
			continue
		}
		if !got.Equal(w.Expected) {
			results[i] = fmt.Errorf("got %s, want %s", got.String(), w.Expected.String())
			continue
		}
		passed++
	}
	return passed, results, nil
}
