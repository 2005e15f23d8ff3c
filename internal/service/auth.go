package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"careers-portal/internal/core/auth"
	"careers-portal/internal/core/metrics"
	"careers-portal/internal/domain"
	"careers-portal/pkg/utils"
)

// AdminAuth 单一后台账号；会话为签名令牌
type AdminAuth struct {
	username string
	hash     string
	jwter    *auth.JWTer
	revoker  auth.Revoker
	log      *zap.Logger
}

// NewAdminAuth password 与 passwordHash 二选一；明文在启动时哈希，之后不再保留
func NewAdminAuth(username, password, passwordHash string, j *auth.JWTer, rv auth.Revoker, l *zap.Logger) (*AdminAuth, error) {
	hash := passwordHash
	if hash == "" {
		if password == "" {
			return nil, errors.New("admin password is required")
		}
		if utils.IsBcryptHash(password) {
			hash = password
		} else {
			h, err := utils.HashPassword(password)
			if err != nil {
				return nil, err
			}
			hash = h
		}
	}
	return &AdminAuth{username: username, hash: hash, jwter: j, revoker: rv, log: l}, nil
}

// Login 成功返回会话令牌及过期时间
func (s *AdminAuth) Login(username, password string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// 用户名错误时仍做一次 bcrypt，耗时一致
	passOK := utils.CheckPassword(password, s.hash)
	if !userOK || !passOK {
		metrics.AdminLogins.WithLabelValues("failure").Inc()
		s.log.Warn("admin login failed", zap.String("username", username))
		return "", time.Time{}, domain.ErrInvalidCredentials
	}
	tok, claims, err := s.jwter.Issue(s.username)
	if err != nil {
		return "", time.Time{}, err
	}
	metrics.AdminLogins.WithLabelValues("success").Inc()
	s.log.Info("admin login", zap.String("jti", claims.ID))
	return tok, claims.ExpiresAt.Time, nil
}

// Authorize 校验会话令牌：签名、过期、adm 位、是否已登出
func (s *AdminAuth) Authorize(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	claims, err := s.jwter.Parse(token)
	if err != nil || !claims.Admin {
		return nil, domain.ErrUnauthorized
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		// 吊销表不可用时拒绝
		s.log.Error("revocation lookup failed", zap.Error(err))
		return nil, domain.ErrUnauthorized
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Logout 吊销令牌；无效令牌直接忽略
func (s *AdminAuth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwter.Parse(token)
	if err != nil {
		return nil
	}
	until := time.Now()
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return s.revoker.Revoke(ctx, claims.ID, until)
}
