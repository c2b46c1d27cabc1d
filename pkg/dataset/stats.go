package dataset

// Stats counts what happened to the records of one assembly
type Stats struct {
	RecordsIn       int            `json:"records_in"`
	Excluded        int            `json:"excluded"`
	Kept            int            `json:"kept"`
	Fallbacks       int            `json:"fallbacks"`
	RowsOut         int            `json:"rows_out"`
	RowsPerOperator map[string]int `json:"rows_per_operator"`
}

func newStats() Stats {
	return Stats{RowsPerOperator: make(map[string]int)}
}
