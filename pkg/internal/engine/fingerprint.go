package engine

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/yeisme/mediavault/pkg/internal/types"
)

// SampleSize 指纹头部采样大小；只读取这么多字节，
// 扫描数万文件时成本为 O(min(size, SampleSize)) 而不是 O(size).
const SampleSize = 16 * 1024

// Fingerprint 计算内容指纹："{字节大小}-{头部采样的 SHA-1 十六进制}".
// 读取失败时降级为 Fallback 签名，从不返回错误；
// 相同 (size, 头部字节) 必然得到相同指纹，零字节内容对空采样哈希.
func Fingerprint(r io.Reader, size, lastModified int64, name string) string {
	if r == nil {
		return Fallback(size, lastModified, name)
	}

	h := sha1.New()
	if _, err := io.CopyN(h, r, SampleSize); err != nil && !errors.Is(err, io.EOF) {
		return Fallback(size, lastModified, name)
	}

	return fmt.Sprintf("%d-%x", size, h.Sum(nil))
}

// FingerprintBytes 对内存中的内容计算指纹，等价于 Fingerprint 的无错误路径.
func FingerprintBytes(data []byte, size int64) string {
	sample := data
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	return fmt.Sprintf("%d-%x", size, sha1.Sum(sample))
}

// Fallback 降级签名："{size}-{mtime}-{名称字符数}".
// 明确弱于内容指纹（可能同时产生假阳性与假阴性），
// 聚类引擎只比较签名相等，不解释签名构造.
func Fallback(size, lastModified int64, name string) string {
	return fmt.Sprintf("%d-%d-%d", size, lastModified, utf8.RuneCountInString(name))
}

// GroupKey 返回记录参与聚类的分组键：已有指纹，或按降级约定合成的键，
// 保证两条都未能指纹化的记录仍按同一规则比较.
func GroupKey(f *types.MediaFile) string {
	if f.Hash != "" {
		return f.Hash
	}

	return Fallback(f.Size, f.LastModified, f.Name)
}
