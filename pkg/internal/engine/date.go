package engine

import (
	"regexp"
	"strconv"
	"time"
)

// 常见相机/手机命名里的时间戳形态，按可信度排序.
var nameDatePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	// IMG_20190509_154733.jpg / VID_20190509_154733.mp4
	{regexp.MustCompile(`(20|19)\d{2}(0[1-9]|1[0-2])[0-3]\d_\d{6}`), "20060102_150405"},
	// Screenshot_20190919-053857.jpg
	{regexp.MustCompile(`(20|19)\d{2}(0[1-9]|1[0-2])[0-3]\d-\d{6}`), "20060102-150405"},
	// Screenshot 2019-04-16-11-19-37.jpg
	{regexp.MustCompile(`(20|19)\d{2}-(0[1-9]|1[0-2])-[0-3]\d-\d{2}-\d{2}-\d{2}`), "2006-01-02-15-04-05"},
	// 2019-04-16 裸日期，只到天
	{regexp.MustCompile(`(20|19)\d{2}-(0[1-9]|1[0-2])-[0-3]\d`), "2006-01-02"},
	// 20190416 裸日期，只到天
	{regexp.MustCompile(`(20|19)\d{2}(0[1-9]|1[0-2])[0-3]\d`), "20060102"},
}

var unixMillisPattern = regexp.MustCompile(`(1[5-9]\d{11})`)

// RecoverDateFromName 尝试从文件名还原拍摄时间，返回毫秒时间戳.
// 找不到可信的时间戳时返回 (0, false)，调用方自行回退到 mtime.
func RecoverDateFromName(name string) (int64, bool) {
	for _, pat := range nameDatePatterns {
		match := pat.re.FindString(name)
		if match == "" {
			continue
		}

		t, err := time.ParseInLocation(pat.layout, match, time.UTC)
		if err != nil {
			continue
		}

		return t.UnixMilli(), true
	}

	// Snapchat-1699999999999.jpg 一类的毫秒时间戳
	if match := unixMillisPattern.FindString(name); match != "" {
		ms, err := strconv.ParseInt(match, 10, 64)
		if err == nil {
			return ms, true
		}
	}

	return 0, false
}
