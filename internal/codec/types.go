package codec

import (
	"fmt"
	"sort"

	"github.com/pnwamk/cryptol/internal/typesystem"
)

// Type JSON forms:
//
//	{"type":"bit"}
//	{"type":"number","value":8}            numeric literal (a length)
//	{"type":"inf"}                         the infinite length
//	{"type":"sequence","length":T,"element":T}
//	{"type":"tuple","elements":[T...]}
//	{"type":"record","fields":{name:T...}}
//	{"type":"function","domain":T,"range":T}
//	{"type":"variable","name":"a","kind":"num"|"value"}
func decodeType(raw interface{}) (typesystem.Type, error) {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("type must be an object, found %T", raw)
	}
	tag, _ := obj["type"].(string)
	switch tag {
	case "bit":
		return typesystem.TBit{}, nil
	case "number":
		n, err := intField(obj, "value")
		if err != nil {
			return nil, err
		}
		return typesystem.TNum{N: typesystem.Finite(n)}, nil
	case "inf":
		return typesystem.TNum{N: typesystem.Inf}, nil
	case "sequence":
		length, err := decodeType(obj["length"])
		if err != nil {
			return nil, err
		}
		elem, err := decodeType(obj["element"])
		if err != nil {
			return nil, err
		}
		return typesystem.TSeq{Len: length, Elem: elem}, nil
	case "tuple":
		items, ok := obj["elements"].([]interface{})
		if !ok {
			return nil, fmt.Errorf("tuple type needs an array %q field", "elements")
		}
		elems := make([]typesystem.Type, len(items))
		for i, item := range items {
			t, err := decodeType(item)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return typesystem.TTuple{Elems: elems}, nil
	case "record":
		data, ok := obj["fields"].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("record type needs an object %q field", "fields")
		}
		names := make([]string, 0, len(data))
		for name := range data {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]typesystem.Field, len(names))
		for i, name := range names {
			t, err := decodeType(data[name])
			if err != nil {
				return nil, err
			}
			fields[i] = typesystem.Field{Name: name, Type: t}
		}
		return typesystem.TRecord{Fields: fields}, nil
	case "function":
		dom, err := decodeType(obj["domain"])
		if err != nil {
			return nil, err
		}
		rng, err := decodeType(obj["range"])
		if err != nil {
			return nil, err
		}
		return typesystem.TFun{Arg: dom, Res: rng}, nil
	case "variable":
		name, _ := obj["name"].(string)
		kind := typesystem.KindValue
		if k, _ := obj["kind"].(string); k == "num" {
			kind = typesystem.KindNum
		}
		return typesystem.TVar{Name: name, KindVal: kind}, nil
	default:
		return nil, fmt.Errorf("unknown type form %q", tag)
	}
}
