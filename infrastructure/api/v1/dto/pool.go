package dto

// PoolImportItem is one image to add to the pool.
type PoolImportItem struct {
	URL   string `json:"url"`
	Phase int    `json:"phase,omitempty"`
}

// PoolImportRequest is the body of POST /api/v1/pool/import.
type PoolImportRequest struct {
	Images []PoolImportItem `json:"images"`
}

// PoolImportResponse reports the outcome of an import run.
type PoolImportResponse struct {
	Imported   int `json:"imported"`
	Duplicates int `json:"duplicates"`
	Embedded   int `json:"embedded"`
	NoFace     int `json:"no_face"`
	Failed     int `json:"failed"`
}
