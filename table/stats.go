package table

// Stats is a snapshot of the table counters
type Stats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Tombstones int `json:"tombstones"`
	Indexes    int `json:"indexes"`
	Buckets    int `json:"buckets"`
}
