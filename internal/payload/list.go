package payload

// 列表请求统一接口
type (
	// SearchQuery 列表查询参数（从 query 中获取）
	// 各页面额外的筛选参数直接定义在 handler 的请求结构体中
	SearchQuery struct {
		Search string `form:"search"`
	}
	ListResp[T any] struct {
		Rows  []T   `json:"rows"`
		Count int64 `json:"count"`
	}
)

func NewListResp[T any](rows []T) ListResp[T] {
	if rows == nil {
		rows = []T{}
	}
	return ListResp[T]{Rows: rows, Count: int64(len(rows))}
}

// DeleteQuery carries the operator's confirmation of a delete.
type DeleteQuery struct {
	Confirm bool `form:"confirm"`
}
