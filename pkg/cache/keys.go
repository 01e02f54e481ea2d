package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// FingerprintKey 构造指纹缓存键.
// 键基于 (name, size, mtime) 的 xxhash 摘要，名称可能含任意 Unicode，
// 摘要化后对 Redis/内存实现都是安全的键形态.
func FingerprintKey(name string, size, lastModified int64) string {
	d := xxhash.New()

	// xxhash.Digest 的 Write 系列永不返回错误
	_, _ = d.WriteString(name)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(fmt.Sprintf("%d:%d", size, lastModified))

	return fmt.Sprintf("fp:%016x", d.Sum64())
}
