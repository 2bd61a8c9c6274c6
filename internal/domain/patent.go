package domain

// Patent is a scraped patent record. Number is the unique public identifier
// (e.g. "US1234567A"); the text fields default to "" when missing on the page.
type Patent struct {
	Number   string
	Title    string
	Abstract string
	Claims   string
}

// ScoredResult is a single similarity hit.
type ScoredResult struct {
	PatentNumber string  `json:"patent_number"`
	Similarity   float64 `json:"similarity"`
}
