package codec

import (
	"fmt"
	"math/big"

	"github.com/pnwamk/cryptol/internal/evaluator"
)

// literalReader is satisfied by backends whose bit and word
// representations can be read back as literals. Both shipped backends
// implement it; for symbolic values that are not literal the reads fail
// and the term is rendered textually instead.
type literalReader interface {
	BitValue(evaluator.BitRep) (bool, bool)
	WordValue(evaluator.WordRep) (*big.Int, bool)
}

// EncodeValue renders a fully forced value in the wire schema. Forcing
// failures propagate; infinite sequences and functions have no encoding.
func EncodeValue(sym evaluator.Backend, v evaluator.Value) (interface{}, error) {
	reader, _ := sym.(literalReader)

	switch val := v.(type) {
	case *evaluator.Bit:
		if reader != nil {
			if b, ok := reader.BitValue(val.B); ok {
				return b, nil
			}
		}
		return map[string]interface{}{"expression": "term", "data": val.B.String()}, nil

	case *evaluator.Word:
		if reader != nil {
			if x, ok := reader.WordValue(val.W); ok {
				return encodeWord(val.W.Len(), x), nil
			}
		}
		return map[string]interface{}{"expression": "term", "data": val.W.String()}, nil

	case *evaluator.Seq:
		if val.Len.IsInf() {
			return nil, fmt.Errorf("cannot encode an infinite sequence")
		}
		n := val.Len.Size()
		elems := make([]interface{}, n)
		for i := 0; i < n; i++ {
			el, err := sym.LookupSeq(val.Map, i)
			if err != nil {
				return nil, err
			}
			enc, err := EncodeValue(sym, el)
			if err != nil {
				return nil, err
			}
			elems[i] = enc
		}
		return map[string]interface{}{"expression": "sequence", "data": elems}, nil

	case *evaluator.Tuple:
		if len(val.Elems) == 0 {
			return map[string]interface{}{"expression": "unit"}, nil
		}
		elems := make([]interface{}, len(val.Elems))
		for i, t := range val.Elems {
			el, err := t.Force()
			if err != nil {
				return nil, err
			}
			enc, err := EncodeValue(sym, el)
			if err != nil {
				return nil, err
			}
			elems[i] = enc
		}
		return map[string]interface{}{"expression": "tuple", "data": elems}, nil

	case *evaluator.Record:
		fields := make(map[string]interface{}, len(val.Names))
		for _, name := range val.Names {
			el, err := val.Fields[name].Force()
			if err != nil {
				return nil, err
			}
			enc, err := EncodeValue(sym, el)
			if err != nil {
				return nil, err
			}
			fields[name] = enc
		}
		return map[string]interface{}{"expression": "record", "data": fields}, nil

	case *evaluator.ErrVal:
		return nil, val.Err

	default:
		return nil, fmt.Errorf("cannot encode a %s value", v.Type())
	}
}

func encodeWord(width int, v *big.Int) map[string]interface{} {
	digits := (width + 3) / 4
	if digits == 0 {
		digits = 1
	}
	return map[string]interface{}{
		"expression": "bits",
		"encoding":   "hex",
		"width":      width,
		"data":       fmt.Sprintf("%0*x", digits, v),
	}
}
