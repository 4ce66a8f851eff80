package xutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileExist path 存在且不是目录，输入视频、配置文件、.env 都用它判断
func FileExist(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureDir 逐级创建目录，dir 已存在但是文件时报错
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("[%s] exists and is not a directory", dir)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// EnsureParentDir 为即将写入的文件（日志、span、编码输出）准备所在目录
func EnsureParentDir(file string) error {
	return EnsureDir(filepath.Dir(file))
}
