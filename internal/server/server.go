// Package server exposes the parser over JSON-RPC 2.0 on HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/YKarmar/JobTracker/internal/assemble"
	"github.com/YKarmar/JobTracker/internal/batch"
	"github.com/YKarmar/JobTracker/internal/classify"
	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/types"
)

// maxRequestBytes 一次请求的上限，批量请求可能包含很多封邮件
const maxRequestBytes = 64 << 20

type Options struct {
	APIKey string
	// Mailbox 为空时 email.fetch 返回错误
	Mailbox mailbox.Fetcher
	Batch   batch.Options
	Logger  *slog.Logger
}

type Server struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	opts.Batch.Logger = log
	return &Server{opts: opts, log: log.With("component", "rpc")}
}

// Handler 路由：POST /rpc 和 GET /healthz
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rpc", s.handleRPC)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) authorized(r *http.Request) bool {
	if s.opts.APIKey == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && token == s.opts.APIKey
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.reply(w, nil, nil, &Error{Code: CodeParseError, Message: "Parse error"})
		return
	}
	if req.Jsonrpc != "2.0" || req.Method == "" {
		s.reply(w, req.ID, nil, &Error{Code: CodeInvalidRequest, Message: "Invalid Request"})
		return
	}

	result, err := s.dispatch(r.Context(), req)
	if err != nil {
		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			rpcErr = &Error{Code: CodeServerError, Message: err.Error()}
		}
		s.log.Warn("rpc call failed", "method", req.Method, "code", rpcErr.Code, "error", rpcErr.Message)
		s.reply(w, req.ID, nil, rpcErr)
		return
	}
	s.reply(w, req.ID, result, nil)
}

func (s *Server) dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Method {
	case MethodParse:
		var e types.Email
		if err := decodeParams(req.Params, &e); err != nil {
			return nil, err
		}
		return assemble.Parse(e), nil

	case MethodParseBatch:
		var p BatchParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		return s.parseBatch(ctx, p.Emails)

	case MethodClassify:
		var p ClassifyParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		c := classify.Classify(p.Sender)
		return ClassifyResult{Category: c, EmailType: c.EmailType()}, nil

	case MethodFetch:
		var p FetchParams
		if err := decodeParams(req.Params, &p); err != nil {
			return nil, err
		}
		if s.opts.Mailbox == nil {
			return nil, errors.New("mailbox is not configured on this server")
		}
		emails, err := s.opts.Mailbox.Fetch(ctx, mailbox.Query{
			Since:     p.StartDate,
			Before:    p.EndDate,
			Sender:    p.Sender,
			MaxEmails: p.MaxEmails,
		})
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if emails == nil {
			emails = []types.Email{}
		}
		return FetchResult{Emails: emails}, nil

	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "Method not found"}
	}
}

func (s *Server) parseBatch(ctx context.Context, emails []types.Email) (*BatchResult, error) {
	opts := s.opts.Batch
	// 调用方已经选好了邮件，这里不再按发件人过滤
	opts.PlatformOnly = false
	report, err := batch.Run(ctx, emails, opts)
	if err != nil {
		return nil, err
	}

	out := &BatchResult{
		RunID:   report.RunID,
		Results: make([]json.RawMessage, len(emails)),
		Errors:  []BatchError{},
	}
	for _, it := range report.Items {
		if it.Err != nil {
			out.Errors = append(out.Errors, BatchError{Index: it.Index, Error: it.Err.Error()})
			continue
		}
		b, err := json.Marshal(it.Result)
		if err != nil {
			return nil, fmt.Errorf("encode result %d: %w", it.Index, err)
		}
		out.Results[it.Index] = b
	}
	return out, nil
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return &Error{Code: CodeInvalidParams, Message: "missing params"}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "invalid params: " + err.Error()}
	}
	return nil
}

func (s *Server) reply(w http.ResponseWriter, id json.RawMessage, result any, rpcErr *Error) {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	resp := Response{Jsonrpc: "2.0", ID: id, Error: rpcErr}
	if rpcErr == nil {
		b, err := json.Marshal(result)
		if err != nil {
			resp.Error = &Error{Code: CodeServerError, Message: "encode result: " + err.Error()}
		} else {
			resp.Result = b
		}
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("write response failed", "error", err)
	}
}
