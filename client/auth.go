package client

import (
	"context"
	"encoding/json"
	"fmt"

	"fyp-portal/internal/dto"
)

// AuthAPI 认证接口（登录/登出/个人资料）
type AuthAPI struct {
	c *Client
}

// Auth 认证接口入口
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Login 按角色登录并把凭据写入会话
// remember 为 true 时存入持久存储，否则仅保留到本次会话结束
func (a *AuthAPI) Login(ctx context.Context, role, email, password string, remember bool) (*dto.TokenResponse, error) {
	req := dto.LoginRequest{Email: email, Password: password, RememberMe: remember}

	var resp dto.TokenResponse
	if err := a.c.Post(ctx, fmt.Sprintf("/api/v1/auth/%s/login", role), req, &resp); err != nil {
		return nil, err
	}

	if sess := a.c.session; sess != nil {
		userJSON, err := json.Marshal(resp.User)
		if err != nil {
			return nil, err
		}
		if err := sess.Save(resp.AccessToken, string(userJSON), remember); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Refresh 用 Refresh Token 换取新的 Token 对并更新会话凭据
// 记住我状态沿用当前会话的设置
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	req := dto.RefreshTokenRequest{RefreshToken: refreshToken}

	var resp dto.TokenResponse
	if err := a.c.Post(ctx, "/api/v1/auth/refresh", req, &resp); err != nil {
		return nil, err
	}

	if sess := a.c.session; sess != nil {
		userJSON, err := json.Marshal(resp.User)
		if err != nil {
			return nil, err
		}
		if err := sess.Save(resp.AccessToken, string(userJSON), sess.Remembered()); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Logout 通知服务端拉黑当前 Token 并清空本地会话
// 服务端失败不阻塞本地退出
func (a *AuthAPI) Logout(ctx context.Context) error {
	err := a.c.Post(ctx, "/api/v1/auth/logout", nil, nil)
	if sess := a.c.session; sess != nil {
		sess.Teardown()
	}
	return err
}

// Profile 获取当前用户资料
func (a *AuthAPI) Profile(ctx context.Context) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := a.c.Get(ctx, "/api/v1/auth/profile", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProfile 更新个人资料
func (a *AuthAPI) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var resp dto.UserResponse
	if err := a.c.Put(ctx, "/api/v1/auth/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetPassword 修改密码
func (a *AuthAPI) SetPassword(ctx context.Context, oldPassword, newPassword string) error {
	req := dto.SetPasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	return a.c.Put(ctx, "/api/v1/auth/password", req, nil)
}
