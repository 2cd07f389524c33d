package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/YKarmar/JobTracker/internal/types"
)

// JSON-RPC 2.0
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type Response struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeServerError    = -32000
)

const (
	MethodParse      = "email.parse"
	MethodParseBatch = "email.parse_batch"
	MethodClassify   = "email.classify"
	MethodFetch      = "email.fetch"
)

type BatchParams struct {
	Emails []types.Email `json:"emails"`
}

// BatchResult 与输入一一对应，失败的位置为 null，原因在 Errors 里
type BatchResult struct {
	RunID   string            `json:"run_id"`
	Results []json.RawMessage `json:"results"`
	Errors  []BatchError      `json:"errors"`
}

type BatchError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type ClassifyParams struct {
	Sender string `json:"sender"`
}

type ClassifyResult struct {
	Category  types.Category `json:"category"`
	EmailType string         `json:"email_type"`
}

type FetchParams struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	MaxEmails int       `json:"max_emails"`
	Sender    string    `json:"sender,omitempty"`
}

type FetchResult struct {
	Emails []types.Email `json:"emails"`
}
