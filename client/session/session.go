package session

import (
	"errors"
	"sync"
)

// ErrNoStorage 目标存储未注入（某些运行环境没有持久存储）
var ErrNoStorage = errors.New("会话存储未注入")

// ── 存储键 ──

const (
	keyToken    = "fyp_token"
	keyUser     = "fyp_user"
	keyRemember = "fyp_remember_me"
)

// Storage 键值存储抽象
// 持久存储与会话级存储实现同一接口，由调用方注入
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Session 进程级会话对象
// 凭证按「记住我」标记写入持久或会话级存储；读取时两处都查，
// 登出 / 401 时无条件清空两处的全部三个键
type Session struct {
	mu        sync.RWMutex
	durable   Storage
	scoped    Storage
	listeners []func()
}

// New 创建 Session；durable 为持久存储，scoped 为会话级存储
func New(durable, scoped Storage) *Session {
	return &Session{durable: durable, scoped: scoped}
}

// Save 登录成功后写入凭证
// remember 为 true 时写入持久存储，否则写入会话级存储；
// 写之前先清空两处，避免新旧凭证并存
func (s *Session) Save(token, userJSON string, remember bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()

	target := s.scoped
	if remember {
		target = s.durable
	}
	if target == nil {
		return ErrNoStorage
	}
	if err := target.Set(keyToken, token); err != nil {
		return err
	}
	if err := target.Set(keyUser, userJSON); err != nil {
		return err
	}
	flag := "false"
	if remember {
		flag = "true"
	}
	return target.Set(keyRemember, flag)
}

// Token 读取当前 Token；持久与会话级存储都查
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(keyToken)
}

// User 读取当前用户资料（序列化 JSON）
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(keyUser)
}

// Remembered 当前凭证是否写在持久存储
func (s *Session) Remembered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.durable == nil {
		return false
	}
	v, ok := s.durable.Get(keyRemember)
	return ok && v == "true"
}

// lookupLocked 先查持久存储再查会话级存储；未注入的存储视同未命中，
// 与 clearLocked 的空值策略保持一致
func (s *Session) lookupLocked(key string) string {
	for _, store := range []Storage{s.durable, s.scoped} {
		if store == nil {
			continue
		}
		if v, ok := store.Get(key); ok && v != "" {
			return v
		}
	}
	return ""
}

// Authenticated 是否持有 Token
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Clear 登出：清空两处存储的全部会话键
func (s *Session) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()
}

// Teardown 401 全局处理：清空凭证并通知监听者（触发跳转）
// 重复调用无害，多个并发请求同时收到 401 时各自触发即可
func (s *Session) Teardown() {
	s.mu.Lock()
	s.clearLocked()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// OnTeardown 注册会话失效监听（如跳转到登录页）
func (s *Session) OnTeardown(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) clearLocked() {
	for _, store := range []Storage{s.durable, s.scoped} {
		if store == nil {
			continue
		}
		store.Delete(keyToken)
		store.Delete(keyUser)
		store.Delete(keyRemember)
	}
}
