package types

// TrashResponse 回收站内容.
type TrashResponse struct {
	Items []MediaFile `json:"items"`
	Total int         `json:"total"`
}

// PurgeRequest 清理回收站请求.
type PurgeRequest struct {
	// OlderThanDays 仅清理进入回收站超过该天数的记录；0 表示全部
	OlderThanDays int `json:"older_than_days" rule:"min=0,max=365"`
}

// PurgeResponse 清理结果.
type PurgeResponse struct {
	Purged int `json:"purged"`
}
