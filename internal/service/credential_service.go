package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/numora-app/numora-api/internal/config"

	"golang.org/x/crypto/pbkdf2"
)

const credentialKeyLength = 32

// CredentialService 口令摘要服务。摘要确定性地由口令派生，
// 盐值与迭代次数为全局配置，同一口令在同一部署内摘要相同。
type CredentialService struct {
	salt       []byte
	iterations int
}

// NewCredentialService 创建口令摘要服务
func NewCredentialService(cfg *config.AuthConfig) *CredentialService {
	iterations := 100000
	var salt []byte
	if cfg != nil {
		if cfg.HashIterations > 0 {
			iterations = cfg.HashIterations
		}
		salt = []byte(cfg.PasswordSalt)
	}
	return &CredentialService{salt: salt, iterations: iterations}
}

// HashPassword 计算口令摘要（PBKDF2-SHA256，HEX 编码）
func (s *CredentialService) HashPassword(password string) string {
	key := pbkdf2.Key([]byte(password), s.salt, s.iterations, credentialKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword 校验口令是否与存储摘要一致
func (s *CredentialService) VerifyPassword(password, digest string) bool {
	computed := s.HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
