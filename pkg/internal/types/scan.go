package types

// ScanItem 摄取请求中的单个文件描述.
// Data 为 base64 编码的原始内容；指纹只读取头部采样，内容可以截断传输.
type ScanItem struct {
	Name         string `json:"name"          rule:"required,max=512"`
	Size         int64  `json:"size"          rule:"min=0"`
	Type         string `json:"type"          rule:"max=255"`
	LastModified int64  `json:"last_modified"`
	Data         string `json:"data,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
	// CapturedDate / SuggestedDate 调用方已经恢复出的日期（毫秒时间戳字符串），
	// 两者都为空时服务端会尝试从文件名还原候选日期
	CapturedDate  string `json:"captured_date,omitempty"`
	SuggestedDate string `json:"suggested_date,omitempty"`
}

// ScanRequest 批量摄取请求.
type ScanRequest struct {
	Items []ScanItem `json:"items" rule:"required,min=1,dive"`
}

// ScanResponse 摄取结果.
type ScanResponse struct {
	Ingested int `json:"ingested"`
	// Duplicates 本次摄取后全库重聚类得到的重复记录数
	Duplicates int         `json:"duplicates"`
	Records    []MediaFile `json:"records"`
}

// ReclusterRequest 重聚类请求.
type ReclusterRequest struct {
	// Legacy 为 true 时启用旧式全量覆盖模式
	Legacy bool `json:"legacy"`
}

// ReclusterResponse 重聚类结果.
type ReclusterResponse struct {
	Total      int `json:"total"`
	Duplicates int `json:"duplicates"`
	Changed    int `json:"changed"`
}
