package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"fyp-portal/client/session"
	"fyp-portal/internal/dto"
)

func newTestClient(handler http.Handler) (*Client, *session.Session, *httptest.Server) {
	srv := httptest.NewServer(handler)
	sess := session.New(session.NewMemoryStorage(), session.NewMemoryStorage())
	return New(srv.URL, sess, nil), sess, srv
}

// ── 响应信封解包 ──

func TestClient_Decode_Envelope(t *testing.T) {
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"statusCode":200,"message":"操作成功","data":{"id":"g1","name":"小组一"},"timestamp":"2026-05-01T10:00:00Z"}`))
	}))
	defer srv.Close()

	var resp dto.GroupResponse
	if err := c.Get(context.Background(), "/api/v1/group/my", &resp); err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if resp.ID != "g1" || resp.Name != "小组一" {
		t.Errorf("应解包信封的 data 字段，实际: %+v", resp)
	}
}

func TestClient_Decode_BareBody(t *testing.T) {
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":"i1","title":"课题甲","idea_status":"approved","created_at":""}]`))
	}))
	defer srv.Close()

	var resp []dto.IdeaResponse
	if err := c.Get(context.Background(), "/api/v1/project/ideas", &resp); err != nil {
		t.Fatalf("裸响应体应可直接解码: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "i1" {
		t.Errorf("裸数组解码错误: %+v", resp)
	}
}

func TestClient_Decode_ShapeMismatchCoercedToEmptySlice(t *testing.T) {
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// 服务端异常返回了对象而非数组
		w.Write([]byte(`{"statusCode":200,"message":"ok","data":{"unexpected":true}}`))
	}))
	defer srv.Close()

	var resp []dto.IdeaResponse
	if err := c.Get(context.Background(), "/api/v1/project/ideas", &resp); err != nil {
		t.Fatalf("形态不符时不应抛错: %v", err)
	}
	if resp == nil || len(resp) != 0 {
		t.Errorf("期望空数组，实际: %v", resp)
	}
}

// ── 错误文案提取 ──

func TestClient_ErrorMessageFromEnvelope(t *testing.T) {
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"statusCode":409,"message":"该时段该教室已有其他小组"}`))
	}))
	defer srv.Close()

	err := c.Post(context.Background(), "/api/v1/coordinator/schedules", nil, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("期望 APIError，实际: %v", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("期望状态 409，实际 %d", apiErr.Status)
	}
	if apiErr.UserMessage() != "该时段该教室已有其他小组" {
		t.Errorf("应提取信封 message，实际: %s", apiErr.UserMessage())
	}
}

func TestClient_ErrorMessageFallbackOnNonJSON(t *testing.T) {
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("Bad Gateway"))
	}))
	defer srv.Close()

	err := c.Get(context.Background(), "/api/v1/group/my", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("期望 APIError，实际: %v", err)
	}
	if !strings.Contains(apiErr.Message, "502") {
		t.Errorf("无信封时应落到含状态码的兜底文案，实际: %s", apiErr.Message)
	}
}

// ── 401 全局处理 ──

func TestClient_Unauthorized_TearsDownSession(t *testing.T) {
	c, sess, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"statusCode":401,"message":"Token 已失效"}`))
	}))
	defer srv.Close()

	sess.Save("expired-token", `{"id":"u1"}`, true)
	var torn atomic.Bool
	sess.OnTeardown(func() { torn.Store(true) })

	err := c.Get(context.Background(), "/api/v1/group/my", nil)

	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("期望 ErrUnauthorized，实际: %v", err)
	}
	if sess.Authenticated() {
		t.Error("401 后会话应被清空")
	}
	if !torn.Load() {
		t.Error("401 应触发会话失效监听")
	}
}

func TestClient_AuthorizationHeaderFromSession(t *testing.T) {
	var gotAuth string
	c, sess, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"statusCode":200,"message":"ok","data":null}`))
	}))
	defer srv.Close()

	sess.Save("tok-abc", `{}`, false)
	c.Get(context.Background(), "/api/v1/auth/profile", nil)

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("应携带会话 Token，实际: %s", gotAuth)
	}
}

func TestAuth_Refresh_UpdatesSessionToken(t *testing.T) {
	var gotPath string
	c, sess, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"statusCode":200,"message":"Token 刷新成功","data":{"access_token":"tok-new","refresh_token":"ref-new","expires_in":900,"user":{"id":"u1","name":"张三"}}}`))
	}))
	defer srv.Close()

	sess.Save("tok-old", `{"id":"u1"}`, true)

	resp, err := c.Auth().Refresh(context.Background(), "ref-old")
	if err != nil {
		t.Fatalf("Refresh 应成功: %v", err)
	}
	if gotPath != "/api/v1/auth/refresh" {
		t.Errorf("期望请求 /api/v1/auth/refresh，实际: %s", gotPath)
	}
	if resp.AccessToken != "tok-new" {
		t.Errorf("期望新 Token tok-new，实际: %s", resp.AccessToken)
	}
	if tok := sess.Token(); tok != "tok-new" {
		t.Errorf("会话 Token 应被更新，实际: %s", tok)
	}
	if !sess.Remembered() {
		t.Error("刷新后记住我状态应保持")
	}
}

// ── 本地前置校验：命中时不产生网络调用 ──

func TestStudent_CreateGroup_TooManyMembersNoNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := c.Student().CreateGroup(context.Background(), "小组一", []string{"u2", "u3", "u4"})

	if !errors.Is(err, ErrTooManyMembers) {
		t.Fatalf("期望 ErrTooManyMembers，实际: %v", err)
	}
	if hits.Load() != 0 {
		t.Error("本地校验不通过时不应发起请求")
	}
}

func TestSupervisor_Reject_EmptyReasonNoNetwork(t *testing.T) {
	var hits atomic.Int32
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sup := c.Supervisor()
	for _, reason := range []string{"", "   ", "\t\n"} {
		if _, err := sup.RejectIdea(context.Background(), "idea-1", reason); !errors.Is(err, ErrReasonRequired) {
			t.Errorf("原因 %q 应被本地拒绝，实际: %v", reason, err)
		}
		if _, err := sup.RejectProposal(context.Background(), "p-1", reason); !errors.Is(err, ErrReasonRequired) {
			t.Errorf("提案拒绝原因 %q 应被本地拒绝，实际: %v", reason, err)
		}
		if _, err := sup.RejectDocument(context.Background(), "d-1", reason); !errors.Is(err, ErrReasonRequired) {
			t.Errorf("文档拒绝原因 %q 应被本地拒绝，实际: %v", reason, err)
		}
	}
	if hits.Load() != 0 {
		t.Error("空白原因不应发起任何请求")
	}
}

func TestStudent_UploadDocument_LockedNoUpload(t *testing.T) {
	var uploadHits atomic.Int32
	c, _, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			uploadHits.Add(1)
		}
		// GET /documents：尚未提交提案，上传未解锁
		w.Write([]byte(`{"statusCode":200,"message":"ok","data":{"can_upload_documents":false,"documents":[]}}`))
	}))
	defer srv.Close()

	_, err := c.Student().UploadDocument(context.Background(), "report", "", "report.pdf", strings.NewReader("pdf"))

	if !errors.Is(err, ErrDocumentsLocked) {
		t.Fatalf("期望 ErrDocumentsLocked，实际: %v", err)
	}
	if uploadHits.Load() != 0 {
		t.Error("未解锁时不应发起上传请求")
	}
}

// ── 文件 URL 归一化 ──

func TestClient_FileURL_NormalizesBackslashes(t *testing.T) {
	c := New("http://localhost:8080", nil, nil)

	got := c.FileURL(`uploads\proposals\g1\v1.pdf`)
	want := "http://localhost:8080/uploads/proposals/g1/v1.pdf"
	if got != want {
		t.Errorf("期望 %s，实际 %s", want, got)
	}

	// 绝对 URL 原样返回
	abs := "https://cdn.example.com/f.pdf"
	if c.FileURL(abs) != abs {
		t.Error("绝对 URL 不应被改写")
	}
}
