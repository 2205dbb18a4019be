// Package client 是门户前端使用的 REST 访问层。
// 统一三件事：响应信封的解包、错误文案的提取优先级、
// 以及 401 的全局会话清理，页面代码不再各自处理。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"

	"fyp-portal/client/session"
)

// defaultTimeout 调用方未设置截止时间时的单请求超时
const defaultTimeout = 15 * time.Second

// ErrUnauthorized 会话已失效（HTTP 401，全局清理已触发）
var ErrUnauthorized = errors.New("会话已失效，请重新登录")

// Envelope 服务端响应信封
// 部分端点返回裸数组/对象而非信封，解码时需兼容两种形态
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Timestamp  string          `json:"timestamp"`
}

// APIError 带 HTTP 状态与用户可读文案的请求错误
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// UserMessage 提供给存储层的展示文案
func (e *APIError) UserMessage() string { return e.Message }

// Client REST 客户端
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	logger  *zap.Logger
}

// New 创建 Client；sess 可为 nil（匿名请求场景）
func New(baseURL string, sess *session.Session, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		logger:  logger,
	}
}

// Session 当前会话对象
func (c *Client) Session() *session.Session { return c.session }

// ── HTTP 动词 ──

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

// UploadField 一个 multipart 表单字段
type UploadField struct {
	Name  string
	Value string
}

// Upload 以 multipart 上传文件；fields 为附带的元数据字段
func (c *Client) Upload(ctx context.Context, path, fileField, filename string, file io.Reader, fields []UploadField, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(fileField, filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, file); err != nil {
		return err
	}
	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), out)
}

// FileURL 把服务端返回的附件路径拼成可下载的完整 URL
// 路径分隔符统一为正斜杠（服务端可能返回反斜杠）
func (c *Client) FileURL(relPath string) string {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	normalized = strings.TrimLeft(normalized, "/")
	if strings.HasPrefix(normalized, "http://") || strings.HasPrefix(normalized, "https://") {
		return normalized
	}
	return c.baseURL + "/" + normalized
}

// Download 拉取附件内容
func (c *Client) Download(ctx context.Context, relPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FileURL(relPath), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: "文件下载失败"}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: "文件下载失败"}
	}
	return io.ReadAll(resp.Body)
}

// ── 内部实现 ──

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, reader, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		// 网络/传输层错误：无响应可解析，使用通用文案
		return &APIError{Message: "请求失败，请检查网络后重试"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: "读取响应失败"}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown()
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(raw, resp.StatusCode)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return c.decode(path, raw, out)
}

// decode 解包响应：优先取信封的 data 字段，信封缺失时回退裸响应体
// 期望数组却收到其他形态时落为空数组并记一条警告，不向上抛错
func (c *Client) decode(path string, raw []byte, out interface{}) error {
	payload := raw

	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		payload = env.Data
	}

	if err := json.Unmarshal(payload, out); err != nil {
		if resetSlice(out) {
			c.logger.Warn("响应形态与预期数组不符，已置为空数组",
				zap.String("path", path))
			return nil
		}
		return &APIError{Message: "响应解析失败"}
	}
	return nil
}

// resetSlice 若 out 指向切片，则把它重置为空切片
func resetSlice(out interface{}) bool {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return false
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Slice {
		return false
	}
	elem.Set(reflect.MakeSlice(elem.Type(), 0, 0))
	return true
}

func (c *Client) authorize(req *http.Request) {
	if c.session == nil {
		return
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) teardown() {
	if c.session != nil {
		c.session.Teardown()
	}
}

// extractMessage 错误文案优先级：信封 message → 默认文案
func extractMessage(raw []byte, status int) string {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("请求失败 (HTTP %d)", status)
}
