package service

import (
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/numora-app/numora-api/internal/config"
	"github.com/numora-app/numora-api/internal/constants"

	_ "image/jpeg"
	_ "image/png"
)

// AvatarService 用户头像存储。头像按用户 ID 命名存放在本地
// uploads 目录下，由静态路由对外提供；同一用户重新上传会
// 覆盖（先清理旧文件再写入）。
type AvatarService struct {
	cfg *config.Config
}

// NewAvatarService 创建头像服务
func NewAvatarService(cfg *config.Config) *AvatarService {
	return &AvatarService{cfg: cfg}
}

// SaveAvatar 保存用户头像，返回对外可访问的相对路径。
func (s *AvatarService) SaveAvatar(userID string, file *multipart.FileHeader) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", ErrUploadInvalidType
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrUploadInvalidType
		}
	}

	// 确认内容是可解码的图片，仅靠文件头嗅探会放过截断的文件
	if _, _, err := image.DecodeConfig(src); err != nil {
		return "", ErrUploadInvalidType
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	dir := filepath.Join(s.uploadDir(), constants.AvatarDirDefault)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	// 清理旧头像，扩展名可能与本次不同
	s.removeExisting(dir, userID)

	savePath := filepath.Join(dir, userID+ext)
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return fmt.Sprintf("/uploads/%s/%s%s", constants.AvatarDirDefault, userID, ext), nil
}

// AvatarURL 返回用户头像路径，未上传过时返回默认头像。
func (s *AvatarService) AvatarURL(userID string) string {
	dir := filepath.Join(s.uploadDir(), constants.AvatarDirDefault)
	for _, ext := range s.allowedExtensions() {
		if _, err := os.Stat(filepath.Join(dir, userID+ext)); err == nil {
			return fmt.Sprintf("/uploads/%s/%s%s", constants.AvatarDirDefault, userID, ext)
		}
	}
	return fmt.Sprintf("/uploads/%s/%s", constants.AvatarDirDefault, constants.AvatarDefaultFile)
}

// RemoveAvatar 删除用户头像文件（注销账号时调用）。
func (s *AvatarService) RemoveAvatar(userID string) {
	s.removeExisting(filepath.Join(s.uploadDir(), constants.AvatarDirDefault), userID)
}

func (s *AvatarService) removeExisting(dir, userID string) {
	for _, ext := range s.allowedExtensions() {
		_ = os.Remove(filepath.Join(dir, userID+ext))
	}
}

func (s *AvatarService) uploadDir() string {
	dir := strings.TrimSpace(s.cfg.Upload.Dir)
	if dir == "" {
		dir = "./uploads"
	}
	return dir
}

func (s *AvatarService) allowedExtensions() []string {
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		return s.cfg.Upload.AllowedExtensions
	}
	return []string{".jpg", ".jpeg", ".png"}
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}
