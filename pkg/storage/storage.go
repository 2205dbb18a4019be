package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"fyp-portal/config"
)

// Store 本地磁盘附件存储
// 保存的相对路径统一使用正斜杠，构造下载 URL 时无需再做分隔符转换
type Store struct {
	root string
}

// NewStore 创建附件存储并确保根目录存在
func NewStore(cfg *config.StorageConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &Store{root: cfg.UploadDir}, nil
}

// Root 返回存储根目录（用于静态文件路由挂载）
func (s *Store) Root() string { return s.root }

// Save 将上传内容写入 <root>/<subdir>/，返回相对路径
// 文件名加 UUID 前缀避免覆盖同名文件
func (s *Store) Save(r io.Reader, subdir, filename string) (string, error) {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建子目录失败: %w", err)
	}

	name := uuid.New().String()[:8] + "_" + filepath.Base(filename)
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}

	return NormalizePath(filepath.Join(subdir, name)), nil
}

// NormalizePath 将路径分隔符统一为正斜杠（历史数据中存在反斜杠路径）
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
