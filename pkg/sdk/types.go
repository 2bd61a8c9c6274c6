package patentsim

// Result is one similarity hit.
type Result struct {
	PatentNumber string  `json:"patent_number"`
	Similarity   float64 `json:"similarity"`
}

// Patent is a stored patent record.
type Patent struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Claims   string `json:"claims"`
}

// PatentPage is one page of GET /patents.
type PatentPage struct {
	Items  []Patent `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// HealthStatus is the aggregated server health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthy reports whether every component check passed.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }
