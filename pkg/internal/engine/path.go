package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yeisme/mediavault/pkg/internal/types"
)

// monthTokens 固定 12 项的月份目录表，下标为 0 起的日历月.
var monthTokens = [12]string{
	"01_Jan", "02_Feb", "03_Mar", "04_Apr", "05_May", "06_Jun",
	"07_Jul", "08_Aug", "09_Sep", "10_Oct", "11_Nov", "12_Dec",
}

// UnknownBucket 无法推导日期时的归档桶.
const UnknownBucket = "Unknown/Unknown"

// ProposePath 推导 "YYYY/MM_Mon/原文件名" 归档路径.
// 优先使用候选恢复日期（毫秒时间戳的十进制字符串），否则使用 mtime；
// 候选日期无法解析、或年份超出 [0, 9999] 时落入 Unknown 桶，永不 panic.
// 统一按 UTC 解释时间戳，保证跨机器确定性.
func ProposePath(f *types.MediaFile) string {
	ms := f.LastModified

	if f.SuggestedDate != "" {
		v, err := strconv.ParseInt(f.SuggestedDate, 10, 64)
		if err != nil {
			return UnknownBucket + "/" + f.Name
		}

		ms = v
	}

	t := time.UnixMilli(ms).UTC()

	year := t.Year()
	if year < 0 || year > 9999 {
		return UnknownBucket + "/" + f.Name
	}

	return fmt.Sprintf("%04d/%s/%s", year, monthTokens[int(t.Month())-1], f.Name)
}
