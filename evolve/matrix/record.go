package matrix

import "fmt"

// Record is the plain serialized form of a Matrix.
type Record struct {
	Rows int         `json:"rows"`
	Cols int         `json:"cols"`
	Data [][]float64 `json:"data"`
}

// Record returns the serialized form of m. The returned data does not share storage with m.
func (m *Matrix) Record() Record {
	data := make([][]float64, m.rows)
	for i := range data {
		row := make([]float64, m.cols)
		copy(row, m.data[i*m.cols:(i+1)*m.cols])
		data[i] = row
	}
	return Record{Rows: m.rows, Cols: m.cols, Data: data}
}

// FromRecord rebuilds a Matrix from its serialized form.
// It only checks that Data fills the declared grid; callers that need a
// particular shape must compare it themselves.
func FromRecord(r Record) (*Matrix, error) {
	m, err := New(r.Rows, r.Cols)
	if err != nil {
		return nil, fmt.Errorf("FromRecord: %w", err)
	}
	if len(r.Data) != r.Rows {
		return nil, fmt.Errorf("FromRecord: %d data rows for %d declared: %w", len(r.Data), r.Rows, ErrDimensionMismatch)
	}
	for i, row := range r.Data {
		if len(row) != r.Cols {
			return nil, fmt.Errorf("FromRecord: row %d has %d columns, want %d: %w", i, len(row), r.Cols, ErrDimensionMismatch)
		}
		copy(m.data[i*r.Cols:], row)
	}
	return m, nil
}
