package dto

// StreamDataPrefetch is the payload published on the prefetch stream.
type StreamDataPrefetch struct {
	TaskID      string `json:"task_id"`
	CompanyName string `json:"company_name"`
	Year        *int   `json:"year,omitempty"`
}

// PrefetchResult reports the outcome of one prefetch task.
type PrefetchResult struct {
	CompanyName string `json:"company_name"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}
