// Package rpc exposes the chains over HTTP JSON: transaction submission and
// read-only query projections. Completed rounds are immutable, so their
// GetRound projections are served from an LRU cache.
package rpc

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/winzalabs/winzachain/executor"
	rty "github.com/winzalabs/winzachain/plugin/dapp/rounds/types"
	"github.com/winzalabs/winzachain/types"
)

var rpclog = log.New("module", "rpc")

const cacheSize = 1024

// Server serves every hosted chain under /{chain}/query and /{chain}/exec.
type Server struct {
	execs map[string]*executor.Executor
	cache *lru.Cache
	srv   *http.Server
}

type queryReq struct {
	Execer   string          `json:"execer"`
	FuncName string          `json:"funcName"`
	Payload  json.RawMessage `json:"payload"`
}

type execReq struct {
	Execer  string          `json:"execer"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
	From    string          `json:"from"`
}

type reply struct {
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func New(execs map[string]*executor.Executor) *Server {
	cache, err := lru.New(cacheSize)
	if err != nil {
		panic(err)
	}
	return &Server{execs: execs, cache: cache}
}

// Handler builds the routing mux. Split out so tests can drive it without a
// listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for chain, e := range s.execs {
		mux.HandleFunc("/"+chain+"/query", s.queryHandler(chain, e))
		mux.HandleFunc("/"+chain+"/exec", s.execHandler(e))
	}
	return cors.Default().Handler(mux)
}

func (s *Server) queryHandler(chain string, e *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var req queryReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeReply(w, reply{Error: err.Error()})
			return
		}

		cacheKey := ""
		if req.FuncName == "GetRound" {
			cacheKey = fmt.Sprintf("%s|%s|%s", chain, req.Execer, string(req.Payload))
			if cached, ok := s.cache.Get(cacheKey); ok {
				writeReply(w, reply{Result: cached})
				return
			}
		}

		result, err := e.Query(req.Execer, req.FuncName, req.Payload)
		if err != nil {
			writeReply(w, reply{Error: err.Error()})
			return
		}
		if cacheKey != "" {
			if round, ok := result.(*rty.Round); ok && round.Status == rty.RoundStatusComplete {
				s.cache.Add(cacheKey, round)
			}
		}
		writeReply(w, reply{Result: result})
	}
}

func (s *Server) execHandler(e *executor.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var req execReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeReply(w, reply{Error: err.Error()})
			return
		}
		receipt, err := e.Exec(&types.Transaction{
			Execer:  req.Execer,
			Action:  req.Action,
			Payload: req.Payload,
			From:    req.From,
		})
		if err != nil {
			writeReply(w, reply{Error: err.Error()})
			return
		}
		writeReply(w, reply{Result: receipt})
	}
}

func writeReply(w http.ResponseWriter, rep reply) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		rpclog.Error("write reply", "err", err)
	}
}

// Start listens on addr and serves until Close.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "rpc listen %s", addr)
	}
	s.srv = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			rpclog.Error("rpc serve", "err", err)
		}
	}()
	rpclog.Info("rpc listening", "addr", addr)
	return nil
}

func (s *Server) Close() {
	if s.srv != nil {
		if err := s.srv.Close(); err != nil {
			rpclog.Error("rpc close", "err", err)
		}
	}
}
