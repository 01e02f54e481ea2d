package types

// OptimizeRequest 压缩优化请求.
// NewSize 为优化后的字节数；0 表示仅标记状态，不修改大小.
type OptimizeRequest struct {
	NewSize int64 `json:"new_size" rule:"min=0"`
}

// OptimizeResponse 优化结果.
type OptimizeResponse struct {
	ID         string `json:"id"`
	SizeBefore int64  `json:"size_before"`
	SizeAfter  int64  `json:"size_after"`
	Saved      int64  `json:"saved"`
}
