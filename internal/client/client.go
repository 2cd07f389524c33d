package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/YKarmar/JobTracker/internal/mailbox"
	"github.com/YKarmar/JobTracker/internal/server"
	"github.com/YKarmar/JobTracker/internal/types"
)

// Config 远程解析服务配置
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client JSON-RPC 客户端，方法与服务端一一对应
type Client struct {
	config     Config
	httpClient *http.Client
}

func New(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	id, _ := json.Marshal(uuid.NewString())
	reqBody, err := json.Marshal(server.Request{
		Jsonrpc: "2.0",
		ID:      id,
		Method:  method,
		Params:  rawParams,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("server returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	var rpcResp server.Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("unmarshal %s result: %w", method, err)
	}
	return nil
}

// Parse 远程解析一封邮件
func (c *Client) Parse(ctx context.Context, e types.Email) (types.ParseResult, error) {
	var raw json.RawMessage
	if err := c.call(ctx, server.MethodParse, e, &raw); err != nil {
		return nil, err
	}
	return types.DecodeResult(raw)
}

// BatchItem 批量解析中的一项，Err 不为空时 Result 为空
type BatchItem struct {
	Result types.ParseResult
	Err    error
}

// ParseBatch 一次请求解析多封邮件，返回值与输入顺序一致
func (c *Client) ParseBatch(ctx context.Context, emails []types.Email) (string, []BatchItem, error) {
	var out server.BatchResult
	if err := c.call(ctx, server.MethodParseBatch, server.BatchParams{Emails: emails}, &out); err != nil {
		return "", nil, err
	}
	if len(out.Results) != len(emails) {
		return "", nil, fmt.Errorf("batch %s: got %d results for %d emails", out.RunID, len(out.Results), len(emails))
	}

	items := make([]BatchItem, len(emails))
	for _, e := range out.Errors {
		if e.Index >= 0 && e.Index < len(items) {
			items[e.Index].Err = fmt.Errorf("email %d: %s", e.Index, e.Error)
		}
	}
	for i, raw := range out.Results {
		if items[i].Err != nil {
			continue
		}
		if len(raw) == 0 || string(raw) == "null" {
			items[i].Err = fmt.Errorf("email %d: no result", i)
			continue
		}
		items[i].Result, items[i].Err = types.DecodeResult(raw)
	}
	return out.RunID, items, nil
}

func (c *Client) Classify(ctx context.Context, sender string) (types.Category, error) {
	var out server.ClassifyResult
	if err := c.call(ctx, server.MethodClassify, server.ClassifyParams{Sender: sender}, &out); err != nil {
		return "", err
	}
	return out.Category, nil
}

// Fetch 通过服务端抓取邮件，实现 mailbox.Fetcher
func (c *Client) Fetch(ctx context.Context, q mailbox.Query) ([]types.Email, error) {
	var out server.FetchResult
	params := server.FetchParams{
		StartDate: q.Since,
		EndDate:   q.Before,
		MaxEmails: q.MaxEmails,
		Sender:    q.Sender,
	}
	if err := c.call(ctx, server.MethodFetch, params, &out); err != nil {
		return nil, err
	}
	return out.Emails, nil
}

var _ mailbox.Fetcher = (*Client)(nil)
