// Package mailbox fetches raw mails over IMAP for the parser.
package mailbox

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/charset"
	"github.com/emersion/go-sasl"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/YKarmar/JobTracker/internal/types"
)

func init() {
	// 信封里的主题可能是非 UTF-8 编码
	imap.CharsetReader = charset.Reader
}

// ErrNoCredentials 既没有密码也没有 OAuth 刷新令牌
var ErrNoCredentials = errors.New("imap: no password or oauth refresh token configured")

type Config struct {
	Host     string
	Email    string
	Password string
	UseTLS   bool
	Provider string
	Folders  []string

	OAuthClientID     string
	OAuthClientSecret string
	OAuthRefreshToken string
}

// Query 抓取条件。零值字段表示不限制
type Query struct {
	Since     time.Time
	Before    time.Time
	Sender    string
	MaxEmails int
}

// Fetcher 供 JSON-RPC 服务和命令行共用
type Fetcher interface {
	Fetch(ctx context.Context, q Query) ([]types.Email, error)
}

type Client struct {
	cfg    Config
	tokens oauth2.TokenSource
	log    *slog.Logger
}

func New(ctx context.Context, cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if len(cfg.Folders) == 0 {
		cfg.Folders = []string{"INBOX"}
	}
	c := &Client{cfg: cfg, log: log.With("component", "mailbox", "host", cfg.Host)}
	if cfg.OAuthRefreshToken != "" {
		c.tokens = tokenSource(ctx, cfg)
	}
	return c
}

// tokenSource 用刷新令牌换取访问令牌，过期后自动刷新
func tokenSource(ctx context.Context, cfg Config) oauth2.TokenSource {
	oc := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
	}
	switch cfg.Provider {
	case "outlook":
		oc.Endpoint = endpoints.AzureAD("common")
		oc.Scopes = []string{"https://outlook.office.com/IMAP.AccessAsUser.All", "offline_access"}
	default:
		oc.Endpoint = endpoints.Google
		oc.Scopes = []string{"https://mail.google.com/"}
	}
	return oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.OAuthRefreshToken})
}

func (c *Client) dial() (*client.Client, error) {
	if !c.cfg.UseTLS {
		return client.Dial(c.cfg.Host)
	}
	host, _, err := net.SplitHostPort(c.cfg.Host)
	if err != nil {
		host = c.cfg.Host
	}
	return client.DialTLS(c.cfg.Host, &tls.Config{ServerName: host})
}

func (c *Client) login(conn *client.Client) error {
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("oauth token: %w", err)
		}
		return conn.Authenticate(oauthBearer(c.cfg.Email, tok))
	}
	if c.cfg.Password == "" {
		return ErrNoCredentials
	}
	return conn.Login(c.cfg.Email, c.cfg.Password)
}

func oauthBearer(email string, tok *oauth2.Token) sasl.Client {
	return sasl.NewOAuthBearerClient(&sasl.OAuthBearerOptions{
		Username: email,
		Token:    tok.AccessToken,
	})
}

// Fetch 依次抓取配置的文件夹。单个文件夹失败只记日志，继续下一个
func (c *Client) Fetch(ctx context.Context, q Query) ([]types.Email, error) {
	if c.cfg.Host == "" {
		return nil, errors.New("imap: host is not configured")
	}
	conn, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.Host, err)
	}
	defer conn.Logout()
	stop := context.AfterFunc(ctx, func() { _ = conn.Terminate() })
	defer stop()

	if err := c.login(conn); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	var out []types.Email
	for _, folder := range c.cfg.Folders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		limit := 0
		if q.MaxEmails > 0 {
			limit = q.MaxEmails - len(out)
		}
		emails, err := c.fetchFolder(conn, folder, q, limit)
		if err != nil {
			c.log.Warn("fetch folder failed", "folder", folder, "error", err)
			continue
		}
		c.log.Debug("folder fetched", "folder", folder, "emails", len(emails))
		out = append(out, emails...)
		if q.MaxEmails > 0 && len(out) >= q.MaxEmails {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func criteria(q Query) *imap.SearchCriteria {
	sc := imap.NewSearchCriteria()
	sc.Since = q.Since
	if !q.Before.IsZero() {
		// BEFORE 不包含当天
		sc.Before = q.Before.AddDate(0, 0, 1)
	}
	if q.Sender != "" {
		sc.Header.Add("From", q.Sender)
	}
	return sc
}

func (c *Client) fetchFolder(conn *client.Client, folder string, q Query, limit int) ([]types.Email, error) {
	mbox, err := conn.Select(folder, true)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	if mbox.Messages == 0 {
		return nil, nil
	}

	uids, err := conn.UidSearch(criteria(q))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}
	// 只保留最新的 limit 封
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- conn.UidFetch(seqset, items, messages)
	}()

	emails := c.collect(messages, section, folder)
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return emails, nil
}

// collect 读完 messages，转换失败的邮件记日志后跳过
func (c *Client) collect(messages <-chan *imap.Message, section *imap.BodySectionName, folder string) []types.Email {
	var emails []types.Email
	for msg := range messages {
		e, err := toEmail(msg, section, folder)
		if err != nil {
			c.log.Debug("skip message", "folder", folder, "uid", msg.Uid, "error", err)
			continue
		}
		emails = append(emails, e)
	}
	return emails
}

// toEmail 正文保存整封原始邮件，MIME 解包交给 normalize
func toEmail(msg *imap.Message, section *imap.BodySectionName, folder string) (types.Email, error) {
	e := types.Email{
		ID:     strconv.FormatUint(uint64(msg.Uid), 10),
		Folder: folder,
	}
	if env := msg.Envelope; env != nil {
		if len(env.From) > 0 {
			e.Sender = env.From[0].Address()
		}
		e.Subject = env.Subject
		if !env.Date.IsZero() {
			e.Date = env.Date.Format(time.RFC3339)
		}
	}

	r := msg.GetBody(section)
	if r == nil {
		return e, fmt.Errorf("message %d has no body", msg.Uid)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return e, fmt.Errorf("read body: %w", err)
	}
	e.Body = string(b)
	return e, nil
}
