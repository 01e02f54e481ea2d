package types

// DuplicateCluster 共享一个指纹（或外部视觉分组）的记录集合，含本地决选的主记录.
// 聚类永不落盘，按需从记录集合重算.
type DuplicateCluster struct {
	ClusterID string   `json:"cluster_id"`
	PrimaryID string   `json:"primary_id"`
	IDs       []string `json:"ids"`
	// WastedBytes 非主记录占用的字节总数
	WastedBytes int64 `json:"wasted_bytes"`
}

// DuplicatesResponse 聚类浏览结果.
type DuplicatesResponse struct {
	Clusters []DuplicateCluster `json:"clusters"`
	// TotalWastedBytes 所有聚类中非主记录的字节总数
	TotalWastedBytes int64 `json:"total_wasted_bytes"`
}

// VisualImage 发送给外部分类器的单张图片.
type VisualImage struct {
	ID       string         `json:"id"`
	Data     string         `json:"data"`
	MimeType string         `json:"mimeType"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// VisualCluster 外部分类器返回的聚类条目.
// PrimaryId 表达的是视觉代表性而非归档优先级，核心会按本地决选规则重算主记录.
type VisualCluster struct {
	ClusterID string   `json:"clusterId"`
	PrimaryID string   `json:"primaryId"`
	IDs       []string `json:"ids"`
}

// VisualDuplicatesRequest 视觉查重请求；IDs 为空时取全库图片记录.
type VisualDuplicatesRequest struct {
	IDs []string `json:"ids"`
}
