package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/backend"
	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
	"github.com/pnwamk/cryptol/internal/typesystem"
)

func TestDecodeVariableAndBooleans(t *testing.T) {
	e, err := DecodeExpr([]byte(`"f"`))
	require.NoError(t, err)
	assert.Equal(t, &ast.Var{Name: "f"}, e)

	e, err = DecodeExpr([]byte(`true`))
	require.NoError(t, err)
	assert.Equal(t, &ast.Var{Name: config.PrimTrue}, e)

	e, err = DecodeExpr([]byte(`false`))
	require.NoError(t, err)
	assert.Equal(t, &ast.Var{Name: config.PrimFalse}, e)
}

func TestDecodeBareNumberIsRejected(t *testing.T) {
	_, err := DecodeExpr([]byte(`42`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width")
}

func TestDecodeBits(t *testing.T) {
	e, err := DecodeExpr([]byte(`{"expression":"bits","encoding":"hex","width":4,"data":"a"}`))
	require.NoError(t, err)
	list, ok := e.(*ast.List)
	require.True(t, ok)
	require.Len(t, list.Elems, 4)
	// 0xa = 1010
	want := []string{config.PrimTrue, config.PrimFalse, config.PrimTrue, config.PrimFalse}
	for i, name := range want {
		assert.Equal(t, &ast.Var{Name: name}, list.Elems[i])
	}
	assert.Equal(t, typesystem.TBit{}, list.Elem)
}

func TestDecodeBitsRejectsBadInput(t *testing.T) {
	for name, input := range map[string]string{
		"missing width": `{"expression":"bits","encoding":"hex","data":"a"}`,
		"bad encoding":  `{"expression":"bits","encoding":"base64","width":4,"data":"a"}`,
		"bad hex":       `{"expression":"bits","encoding":"hex","width":4,"data":"zz"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeExpr([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestDecodeCallCurries(t *testing.T) {
	e, err := DecodeExpr([]byte(`{"expression":"call","function":"f","arguments":["x","y"]}`))
	require.NoError(t, err)
	app, ok := e.(*ast.App)
	require.True(t, ok)
	assert.Equal(t, &ast.Var{Name: "y"}, app.Arg)
	inner, ok := app.Fn.(*ast.App)
	require.True(t, ok)
	assert.Equal(t, &ast.Var{Name: "f"}, inner.Fn)
	assert.Equal(t, &ast.Var{Name: "x"}, inner.Arg)
}

func TestDecodeLambdaAndIf(t *testing.T) {
	raw := `{"expression":"lambda","parameter":"x","body":
	          {"expression":"if","condition":"x","then":true,"else":false,
	           "type":{"type":"bit"}}}`
	e, err := DecodeExpr([]byte(raw))
	require.NoError(t, err)
	abs, ok := e.(*ast.Abs)
	require.True(t, ok)
	assert.Equal(t, "x", abs.Param)
	cond, ok := abs.Body.(*ast.If)
	require.True(t, ok)
	assert.Equal(t, typesystem.TBit{}, cond.Ty)
}

func TestDecodeRecordSortsFields(t *testing.T) {
	e, err := DecodeExpr([]byte(`{"expression":"record","data":{"b":true,"a":false}}`))
	require.NoError(t, err)
	rec, ok := e.(*ast.Record)
	require.True(t, ok)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "a", rec.Fields[0].Name)
	assert.Equal(t, "b", rec.Fields[1].Name)
}

func TestDecodeSelectors(t *testing.T) {
	e, err := DecodeExpr([]byte(`{"expression":"select","from":"p","selector":{"tuple":1}}`))
	require.NoError(t, err)
	sel := e.(*ast.Sel)
	assert.Equal(t, &ast.TupleSel{Index: 1}, sel.Sel)

	e, err = DecodeExpr([]byte(`{"expression":"select","from":"p","selector":{"record":"a"}}`))
	require.NoError(t, err)
	assert.Equal(t, &ast.RecordSel{Field: "a"}, e.(*ast.Sel).Sel)

	e, err = DecodeExpr([]byte(`{"expression":"select","from":"p","selector":{"index":3}}`))
	require.NoError(t, err)
	assert.Equal(t, &ast.ListSel{Index: 3}, e.(*ast.Sel).Sel)
}

func TestDecodeUpdate(t *testing.T) {
	raw := `{"expression":"update","from":"p","selector":{"tuple":0},"value":true,
	         "type":{"type":"tuple","elements":[{"type":"bit"},{"type":"bit"}]}}`
	e, err := DecodeExpr([]byte(raw))
	require.NoError(t, err)
	set, ok := e.(*ast.Set)
	require.True(t, ok)
	assert.Equal(t, &ast.TupleSel{Index: 0}, set.Sel)
	assert.IsType(t, typesystem.TTuple{}, set.Ty)
}

func TestDecodeInstantiate(t *testing.T) {
	raw := `{"expression":"instantiate","generic":"zero",
	  "argument":{"type":"sequence","length":{"type":"number","value":8},"element":{"type":"bit"}}}`
	e, err := DecodeExpr([]byte(raw))
	require.NoError(t, err)
	tapp, ok := e.(*ast.TApp)
	require.True(t, ok)
	assert.Equal(t, &ast.Var{Name: "zero"}, tapp.Expr)
	assert.Equal(t, "[8]Bit", tapp.Arg.String())
}

func TestDecodeComprehension(t *testing.T) {
	raw := `{"expression":"comprehension",
	  "length":{"type":"number","value":4},
	  "element":{"type":"bit"},
	  "head":"x",
	  "branches":[[{"from":{"name":"x",
	                        "length":{"type":"number","value":4},
	                        "element":{"type":"bit"},
	                        "source":{"expression":"bits","encoding":"hex","width":4,"data":"9"}}},
	               {"let":{"name":"y","body":"x"}}]]}`
	e, err := DecodeExpr([]byte(raw))
	require.NoError(t, err)
	comp, ok := e.(*ast.Comp)
	require.True(t, ok)
	require.Len(t, comp.Branches, 1)
	require.Len(t, comp.Branches[0], 2)
	f, ok := comp.Branches[0][0].(*ast.From)
	require.True(t, ok)
	assert.Equal(t, "x", f.Name)
	l, ok := comp.Branches[0][1].(*ast.MatchLet)
	require.True(t, ok)
	assert.Equal(t, "y", l.Decl.Name)
}

func TestDecodeTypes(t *testing.T) {
	ty, err := decodeType(map[string]interface{}{
		"type":   "function",
		"domain": map[string]interface{}{"type": "bit"},
		"range": map[string]interface{}{
			"type":   "sequence",
			"length": map[string]interface{}{"type": "inf"},
			"element": map[string]interface{}{
				"type": "variable", "name": "a", "kind": "value",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "(Bit -> [inf]a)", ty.String())
}

func TestDecodeModule(t *testing.T) {
	raw := `{"name":"M",
	  "newtypes":[{"name":"T","params":[{"name":"n","kind":"num"}]}],
	  "declarations":[
	    {"recursive":false,"decls":[{"name":"p","primitive":"+"}]},
	    {"recursive":true,"decls":[{"name":"x","expression":"y"},
	                               {"name":"y","expression":true}]}]}`
	m, err := DecodeModule([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "M", m.Name)
	require.Len(t, m.Newtypes, 1)
	assert.Equal(t, typesystem.KindNum, m.Newtypes[0].Params[0].Kind)
	require.Len(t, m.Groups, 2)
	assert.False(t, m.Groups[0].Recursive)
	assert.Equal(t, &ast.DPrim{Ident: "+"}, m.Groups[0].Decls[0].Body)
	assert.True(t, m.Groups[1].Recursive)
	require.Len(t, m.Groups[1].Decls, 2)
}

func TestDecodeModuleRejectsEmptyDecl(t *testing.T) {
	_, err := DecodeModule([]byte(`{"name":"M","declarations":[{"decls":[{"name":"x"}]}]}`))
	require.Error(t, err)
}

func TestEncodeValues(t *testing.T) {
	c := backend.NewConcrete()

	t.Run("bit", func(t *testing.T) {
		out, err := EncodeValue(c, c.BitLit(true))
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("word", func(t *testing.T) {
		w, err := c.WordLit(12, big.NewInt(0xa5))
		require.NoError(t, err)
		out, err := EncodeValue(c, w)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"expression": "bits",
			"encoding":   "hex",
			"width":      12,
			"data":       "0a5",
		}, out)
	})

	t.Run("unit", func(t *testing.T) {
		out, err := EncodeValue(c, &evaluator.Tuple{})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"expression": "unit"}, out)
	})

	t.Run("tuple", func(t *testing.T) {
		out, err := EncodeValue(c, &evaluator.Tuple{Elems: []*evaluator.Thunk{
			evaluator.Ready(c.BitLit(true)),
			evaluator.Ready(c.BitLit(false)),
		}})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"expression": "tuple",
			"data":       []interface{}{true, false},
		}, out)
	})

	t.Run("record", func(t *testing.T) {
		out, err := EncodeValue(c, &evaluator.Record{
			Names:  []string{"a"},
			Fields: map[string]*evaluator.Thunk{"a": evaluator.Ready(c.BitLit(true))},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"expression": "record",
			"data":       map[string]interface{}{"a": true},
		}, out)
	})

	t.Run("sequence", func(t *testing.T) {
		seq := &evaluator.Seq{
			Len:  typesystem.Finite(2),
			Elem: typesystem.TBit{},
			Map: evaluator.ThunkSeqMap([]*evaluator.Thunk{
				evaluator.Ready(c.BitLit(false)),
				evaluator.Ready(c.BitLit(true)),
			}),
		}
		out, err := EncodeValue(c, seq)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"expression": "sequence",
			"data":       []interface{}{false, true},
		}, out)
	})

	t.Run("infinite sequence fails", func(t *testing.T) {
		seq := &evaluator.Seq{Len: typesystem.Inf, Elem: typesystem.TBit{}}
		_, err := EncodeValue(c, seq)
		require.Error(t, err)
	})

	t.Run("function fails", func(t *testing.T) {
		_, err := EncodeValue(c, &evaluator.Fun{})
		require.Error(t, err)
	})
}

func TestEncodeSymbolicTerm(t *testing.T) {
	s := backend.NewSymbolic()
	out, err := EncodeValue(s, s.BitVarValue("c"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"expression": "term", "data": "c"}, out)
}
