// Package server exposes the evaluator over JSON-RPC 2.0 on HTTP,
// following the remote API protocol of the original system: every
// request names the server state it runs against, every state-changing
// response returns a fresh state token, and states are immutable — a
// token can be replayed any number of times.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/pnwamk/cryptol/internal/ast"
	"github.com/pnwamk/cryptol/internal/backend"
	"github.com/pnwamk/cryptol/internal/builtins"
	"github.com/pnwamk/cryptol/internal/codec"
	"github.com/pnwamk/cryptol/internal/config"
	"github.com/pnwamk/cryptol/internal/evaluator"
)

// JSON-RPC error codes. The standard ones plus two application codes,
// kept distinct so clients can tell a program error from an interpreter
// bug.
const (
	codeParse        = -32700
	codeMethod       = -32601
	codeParams       = -32602
	codeInternal     = -32603
	codeProgramError = 20000
	codeEvaluatorBug = 20001
)

// serverState is one immutable point in a session: the bindings in
// scope and the directory module files load from.
type serverState struct {
	env *evaluator.Environment
	dir string
}

// Server holds the immutable states keyed by token.
type Server struct {
	sym    evaluator.Backend
	eval   *evaluator.Evaluator
	logger *log.Logger

	// mu also serializes evaluation: forcing shares thunks between
	// states derived from one another, and evaluation is single-
	// threaded by design.
	mu     sync.Mutex
	states map[string]*serverState
}

// New builds a server from its configuration.
func New(cfg *Config) (*Server, error) {
	sym, err := backend.Select(cfg.Backend)
	if err != nil {
		return nil, err
	}
	e := evaluator.New(sym, backend.Primitives(sym))
	env, err := e.EvalModule(evaluator.NewEnvironment(), builtins.Prelude())
	if err != nil {
		return nil, fmt.Errorf("binding prelude: %w", err)
	}
	return &Server{
		sym:    sym,
		eval:   e,
		logger: log.New(os.Stderr, "[cryptol-remote-api] ", log.LstdFlags),
		states: map[string]*serverState{"": {env: env, dir: cfg.ModuleDir}},
	}, nil
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// Handler returns the HTTP handler for the RPC endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveRPC)
	return mux
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Printf("listening on %s (%s backend)", addr, s.sym.Name())
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) serveRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.reply(w, rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: codeParse, Message: err.Error()}})
		return
	}
	s.logger.Printf("%s", req.Method)

	result, rpcErr := s.dispatch(&req)
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	s.reply(w, resp)
}

func (s *Server) reply(w http.ResponseWriter, resp rpcResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("writing response: %v", err)
	}
}

func (s *Server) dispatch(req *rpcRequest) (interface{}, *rpcError) {
	switch req.Method {
	case config.MethodChangeDir:
		return s.changeDirectory(req.Params)
	case config.MethodLoadModule:
		return s.loadModule(req.Params)
	case config.MethodEvalExpr:
		return s.evalExpr(req.Params)
	case config.MethodCall:
		return s.call(req.Params)
	default:
		return nil, &rpcError{Code: codeMethod, Message: fmt.Sprintf("unknown method %q", req.Method)}
	}
}

func (s *Server) state(token string) (*serverState, *rpcError) {
	st, ok := s.states[token]
	if !ok {
		return nil, &rpcError{Code: codeParams, Message: fmt.Sprintf("unknown state %q", token)}
	}
	return st, nil
}

func (s *Server) newState(st *serverState) string {
	token := uuid.NewString()
	s.states[token] = st
	return token
}

// changeDirectory rebinds where module files are loaded from. Like
// every state change it mints a fresh token; the old state keeps its
// directory.
func (s *Server) changeDirectory(params json.RawMessage) (interface{}, *rpcError) {
	var p struct {
		State     string `json:"state"`
		Directory string `json:"directory"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	info, err := os.Stat(p.Directory)
	if err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &rpcError{Code: codeParams, Message: fmt.Sprintf("%q is not a directory", p.Directory)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, rpcErr := s.state(p.State)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{"state": s.newState(&serverState{env: st.env, dir: p.Directory})}, nil
}

func (s *Server) loadModule(params json.RawMessage) (interface{}, *rpcError) {
	var p struct {
		State string `json:"state"`
		File  string `json:"file"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, rpcErr := s.state(p.State)
	if rpcErr != nil {
		return nil, rpcErr
	}
	data, err := os.ReadFile(filepath.Join(st.dir, p.File))
	if err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	m, err := codec.DecodeModule(data)
	if err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	var extended *evaluator.Environment
	_, evalErr := s.guard(func() (evaluator.Value, error) {
		var err error
		extended, err = s.eval.EvalModule(st.env, m)
		return nil, err
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return map[string]interface{}{"state": s.newState(&serverState{env: extended, dir: st.dir})}, nil
}

func (s *Server) evalExpr(params json.RawMessage) (interface{}, *rpcError) {
	var p struct {
		State      string          `json:"state"`
		Expression json.RawMessage `json:"expression"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	expr, err := codec.DecodeExpr(p.Expression)
	if err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	return s.answer(p.State, expr)
}

func (s *Server) call(params json.RawMessage) (interface{}, *rpcError) {
	var p struct {
		State     string            `json:"state"`
		Function  string            `json:"function"`
		Arguments []json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, &rpcError{Code: codeParams, Message: err.Error()}
	}
	var expr ast.Expr = &ast.Var{Name: p.Function}
	for _, raw := range p.Arguments {
		arg, err := codec.DecodeExpr(raw)
		if err != nil {
			return nil, &rpcError{Code: codeParams, Message: err.Error()}
		}
		expr = &ast.App{Fn: expr, Arg: arg}
	}
	return s.answer(p.State, expr)
}

// answer evaluates expr against a named state and encodes the result.
// Evaluation does not extend the environment, so the state token is
// returned unchanged.
func (s *Server) answer(token string, expr ast.Expr) (interface{}, *rpcError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, rpcErr := s.state(token)
	if rpcErr != nil {
		return nil, rpcErr
	}
	v, evalErr := s.guard(func() (evaluator.Value, error) {
		return s.eval.EvalExpr(st.env, expr)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	encoded, err := codec.EncodeValue(s.sym, v)
	if err != nil {
		if evaluator.IsRuntimeError(err) {
			return nil, &rpcError{Code: codeProgramError, Message: err.Error()}
		}
		return nil, &rpcError{Code: codeInternal, Message: err.Error()}
	}
	return map[string]interface{}{
		"answer": map[string]interface{}{"value": encoded},
		"state":  token,
	}, nil
}

// guard runs an evaluation, converting runtime errors and evaluator
// bugs into their respective RPC error codes.
func (s *Server) guard(f func() (evaluator.Value, error)) (v evaluator.Value, rpcErr *rpcError) {
	defer func() {
		if r := recover(); r != nil {
			if b, ok := r.(*evaluator.Bug); ok {
				s.logger.Printf("evaluator bug: %v", b)
				rpcErr = &rpcError{Code: codeEvaluatorBug, Message: b.Error()}
				return
			}
			panic(r)
		}
	}()
	v, err := f()
	if err != nil {
		if evaluator.IsRuntimeError(err) {
			return nil, &rpcError{Code: codeProgramError, Message: err.Error()}
		}
		return nil, &rpcError{Code: codeInternal, Message: err.Error()}
	}
	return v, nil
}
