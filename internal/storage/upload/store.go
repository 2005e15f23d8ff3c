package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"careers-portal/internal/domain"
)

// TimestampLayout 文件名前缀：YYYYMMDDHHMMSS
const TimestampLayout = "20060102150405"

var DefaultAllowedExt = []string{"pdf", "doc", "docx"}

var ErrInvalidName = errors.New("invalid file name")

// Store 简历平铺目录存储
type Store struct {
	dir     string
	allowed map[string]struct{}
	now     func() time.Time
}

func New(dir string, allowedExt []string) *Store {
	if len(allowedExt) == 0 {
		allowedExt = DefaultAllowedExt
	}
	allowed := make(map[string]struct{}, len(allowedExt))
	for _, e := range allowedExt {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	return &Store{dir: dir, allowed: allowed, now: time.Now}
}

func (s *Store) Dir() string { return s.dir }

// EnsureDir 启动时创建上传目录
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Allowed 按扩展名（大小写不敏感）校验
func (s *Store) Allowed(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	_, ok := s.allowed[Extension(filename)]
	return ok
}

// Save 校验扩展名后以 "<UTC 时间戳>_<安全文件名>" 写入目录，返回生成的文件名。
func (s *Store) Save(ctx context.Context, original string, r io.Reader) (string, error) {
	if !s.Allowed(original) {
		return "", domain.ErrInvalidFileType
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	safe := SecureFilename(original)
	if safe == "" || safe == Extension(original) {
		safe = "resume." + Extension(original)
	}
	ts := s.now().UTC().Format(TimestampLayout)

	name := ts + "_" + safe
	f, err := s.create(name)
	if errors.Is(err, fs.ErrExist) {
		// 同一秒同名上传：插入短随机段，不覆盖已有文件
		name = ts + "_" + uuid.NewString()[:8] + "_" + safe
		f, err = s.create(name)
	}
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("close upload: %w", err)
	}
	return name, nil
}

func (s *Store) create(name string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}

// Path 返回存储文件的完整路径；拒绝目录穿越
func (s *Store) Path(name string) (string, error) {
	clean := filepath.Clean(name)
	if clean == "." || clean != filepath.Base(clean) || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, clean), nil
}

// Exists 文件是否存在
func (s *Store) Exists(name string) bool {
	p, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Open 打开已存储文件
func (s *Store) Open(ctx context.Context, name string) (*os.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Remove 删除文件；文件已不存在视为成功
func (s *Store) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
