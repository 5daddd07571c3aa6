package dto

// OKResponse is the envelope of every successful response.
type OKResponse struct {
	OK   bool        `json:"ok"`
	Data interface{} `json:"data"`
}

// PageMeta accompanies paginated lists.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}
