package sqldb

// Row maps column names to values
type Row map[string]any

// RecordSet is the ordered sequence of rows produced by one statement
type RecordSet []Row

// Result is the raw outcome of a round trip.
// A nil RecordSet means the statement did not return rows
type Result struct {
	RecordSets   []RecordSet    `json:"recordsets"`
	RecordSet    RecordSet      `json:"recordset,omitempty"`
	Output       map[string]any `json:"output"`
	RowsAffected []int64        `json:"rowsAffected"`
}

// NewRowsResult wraps record sets. The first one is promoted to RecordSet
func NewRowsResult(sets ...RecordSet) *Result {
	r := &Result{
		RecordSets:   make([]RecordSet, 0, len(sets)),
		Output:       map[string]any{},
		RowsAffected: make([]int64, 0, len(sets)),
	}
	for _, set := range sets {
		if set == nil {
			set = RecordSet{}
		}
		r.RecordSets = append(r.RecordSets, set)
		r.RowsAffected = append(r.RowsAffected, int64(len(set)))
	}
	if len(r.RecordSets) > 0 {
		r.RecordSet = r.RecordSets[0]
	}
	return r
}

// NewExecResult is the Result of a statement that returned no rows
func NewExecResult(rowsAffected int64) *Result {
	return &Result{
		RecordSets:   []RecordSet{},
		Output:       map[string]any{},
		RowsAffected: []int64{rowsAffected},
	}
}

// First returns the first row of the first record set
func (r *Result) First() (Row, bool) {
	if r == nil || len(r.RecordSet) == 0 {
		return nil, false
	}
	return r.RecordSet[0], true
}
