// Package assets 把随程序分发的音色库安装到数据目录。
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rmls/musicgap/internal/logger"
)

// Install 把 src 复制到 dataDir 下的同名文件，返回安装后的路径。
// 目标已存在且大小一致时跳过复制。先写临时文件再重命名，避免留下半个文件。
func Install(src, dataDir string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("读取音色库 %s 失败: %w", src, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("音色库 %s 是目录", src)
	}

	dst := filepath.Join(dataDir, filepath.Base(src))
	if existing, err := os.Stat(dst); err == nil && existing.Size() == info.Size() {
		logger.Debugf("[assets] 音色库已安装: %s", dst)
		return dst, nil
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("创建数据目录失败: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("打开音色库失败: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dataDir, ".install-*")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return "", fmt.Errorf("复制音色库失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("写入音色库失败: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return "", fmt.Errorf("安装音色库失败: %w", err)
	}

	logger.Infof("[assets] 音色库已安装: %s (%d 字节)", dst, info.Size())
	return dst, nil
}
