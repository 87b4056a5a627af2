package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store 成品持久化协作方：装配完成后由调用方上传音轨和字幕。
// 实现方只要满足 put/delete 契约即可替换为对象存储。
type Store interface {
	// Put 保存一份内容，返回可取回的 URL/键
	Put(data []byte, contentType string) (string, error)
	// Delete 删除之前 Put 的内容，返回是否真的删掉了
	Delete(url string) (bool, error)
}

var extByContentType = map[string]string{
	"audio/mpeg":      ".mp3",
	"audio/wav":       ".wav",
	"application/zip": ".zip",
	"text/plain":      ".srt",
}

// FileStore 本地目录实现
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Put(data []byte, contentType string) (string, error) {
	ext := extByContentType[contentType]
	if ext == "" {
		ext = ".bin"
	}
	path := filepath.Join(s.Dir, uuid.New().String()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	logrus.Infof("storage: stored %d bytes at %s", len(data), path)
	return path, nil
}

func (s *FileStore) Delete(url string) (bool, error) {
	if err := os.Remove(url); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
