package types

// OrganizeEntry 单条归档路径预览.
type OrganizeEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalPath string `json:"original_path,omitempty"`
	ProposedPath string `json:"proposed_path"`
}

// OrganizePreviewResponse 归档路径预览结果.
type OrganizePreviewResponse struct {
	Entries []OrganizeEntry `json:"entries"`
}

// ApplyDatesRequest 把候选日期落实为拍摄日期.
// IDs 为空时应用到所有带候选日期的记录.
type ApplyDatesRequest struct {
	IDs []string `json:"ids"`
}

// ApplyDatesResponse 落实结果.
type ApplyDatesResponse struct {
	Applied int `json:"applied"`
}

// MarkMoveRequest 标记待移动/已移动（仅更新状态，不执行文件系统操作）.
type MarkMoveRequest struct {
	IDs []string `json:"ids" rule:"required,min=1"`
	// Done 为 true 时标记为 moved，否则 pending_move
	Done bool `json:"done"`
}
