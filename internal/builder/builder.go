// Package builder accumulates rows of unknown and varying width into a
// rectangular grid of text cells.
//
//	b := builder.New()
//	b.SetHeader("index", "measure", "value")
//	b.PushRecord("0", "weight", "0.443")
//	grid := b.Build()
//
// Short rows are padded lazily: the builder tracks whether padding is owed
// and only normalizes before an export or a column-wise edit.
package builder

// shape tracks whether every stored row already has CountColumns cells.
type shape uint8

const (
	shapeNormalized shape = iota
	shapeDirty
)

// Builder collects a header and records and produces a Grid.
//
// A Builder is not safe for concurrent use. Wrap it in a Locked when
// several goroutines feed one table.
type Builder struct {
	data         [][]string
	header       []string
	hasHeader    bool
	countColumns int
	shape        shape
	emptyText    string
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{}
}

// WithCapacity returns an empty Builder with room for n records.
func WithCapacity(n int) *Builder {
	return &Builder{data: make([][]string, 0, n)}
}

// FromRows returns a Builder holding rows as records, without a header.
func FromRows(rows [][]string) *Builder {
	b := WithCapacity(len(rows))
	for _, row := range rows {
		b.PushRecord(row...)
	}
	return b
}

// Collect is the variadic form of FromRows.
func Collect(rows ...[]string) *Builder {
	return FromRows(rows)
}

// SetHeader replaces the header.
func (b *Builder) SetHeader(cells ...string) *Builder {
	row := newRow(cells, b.countColumns)
	b.updateSize(len(row))
	b.header = row
	b.hasHeader = true
	return b
}

// RemoveHeader drops the header. The column count is recomputed from the
// widest record and the old header so no data is truncated.
func (b *Builder) RemoveHeader() *Builder {
	if !b.hasHeader {
		return b
	}

	size := len(b.header)
	for _, row := range b.data {
		if len(row) > size {
			size = len(row)
		}
	}

	b.header = nil
	b.hasHeader = false
	b.countColumns = size
	for _, row := range b.data {
		if len(row) != size {
			b.shape = shapeDirty
			break
		}
	}
	return b
}

// SetDefaultText sets the text used to pad short rows. Cells padded
// earlier keep their text.
func (b *Builder) SetDefaultText(text string) *Builder {
	b.emptyText = text
	return b
}

// PushRecord appends a record.
func (b *Builder) PushRecord(cells ...string) *Builder {
	row := newRow(cells, b.countColumns)
	b.updateSize(len(row))
	b.data = append(b.data, row)
	return b
}

// Extend appends one record built from cells. It is PushRecord without the
// chaining result.
func (b *Builder) Extend(cells ...string) {
	b.PushRecord(cells...)
}

// InsertRecord inserts a record so that it ends up at index.
// It fails with an OutOfRangeError when index > CountRecords().
func (b *Builder) InsertRecord(index int, cells ...string) error {
	if index < 0 || index > len(b.data) {
		return OutOfRangeError{Op: "insert record", Index: index, Max: len(b.data)}
	}

	row := newRow(cells, b.countColumns)
	b.updateSize(len(row))
	b.data = append(b.data, nil)
	copy(b.data[index+1:], b.data[index:])
	b.data[index] = row
	return nil
}

// RemoveRecord deletes the record at index.
// It panics with an OutOfRangeError when index >= CountRecords().
func (b *Builder) RemoveRecord(index int) *Builder {
	if index < 0 || index >= len(b.data) {
		panic(OutOfRangeError{Op: "remove record", Index: index, Max: len(b.data) - 1})
	}

	b.data = append(b.data[:index], b.data[index+1:]...)
	return b
}

// RemoveColumn deletes column index from the header and every record.
// It panics with an OutOfRangeError when index >= CountColumns().
func (b *Builder) RemoveColumn(index int) *Builder {
	b.normalize()
	if index < 0 || index >= b.countColumns {
		panic(OutOfRangeError{Op: "remove column", Index: index, Max: b.countColumns - 1})
	}

	if b.hasHeader && index < len(b.header) {
		b.header = removeAt(b.header, index)
	}
	for i, row := range b.data {
		if index < len(row) {
			b.data[i] = removeAt(row, index)
		}
	}
	b.countColumns--
	return b
}

// PushColumn appends a column. When a header is set the first cell becomes
// its header text; the remaining cells fill records top to bottom. Missing
// cells are empty and surplus cells are dropped.
func (b *Builder) PushColumn(cells ...string) *Builder {
	b.normalize()
	b.spliceColumn(b.countColumns, cells)
	return b
}

// InsertColumn inserts a column at index, filled the same way as
// PushColumn. It fails with an OutOfRangeError when index > CountColumns().
func (b *Builder) InsertColumn(index int, cells ...string) error {
	if index < 0 || index > b.countColumns {
		return OutOfRangeError{Op: "insert column", Index: index, Max: b.countColumns}
	}

	b.normalize()
	b.spliceColumn(index, cells)
	return nil
}

// HintColumnSize sets the column count and marks the builder normalized
// without padding anything. The caller vouches for the shape.
func (b *Builder) HintColumnSize(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.countColumns = n
	b.shape = shapeNormalized
	return b
}

// Clean removes every column whose cells are empty in all records, then
// every record that is empty across the remaining columns.
func (b *Builder) Clean() *Builder {
	b.normalize()

	cols := make([]int, 0, b.countColumns)
	for col := 0; col < b.countColumns; col++ {
		if !b.columnEmpty(col) {
			cols = append(cols, col)
		}
	}

	if len(cols) != b.countColumns {
		if b.hasHeader {
			b.header = pick(b.header, cols)
		}
		for i, row := range b.data {
			b.data[i] = pick(row, cols)
		}
		b.countColumns = len(cols)
	}

	kept := b.data[:0]
	for _, row := range b.data {
		if !rowEmpty(row) {
			kept = append(kept, row)
		}
	}
	for i := len(kept); i < len(b.data); i++ {
		b.data[i] = nil
	}
	b.data = kept

	return b
}

// Clear drops all records and keeps the header.
func (b *Builder) Clear() *Builder {
	b.data = nil
	b.shape = shapeNormalized
	b.countColumns = 0
	if b.hasHeader {
		b.countColumns = len(b.header)
	}
	return b
}

// CountColumns returns the number of columns the built grid will have.
func (b *Builder) CountColumns() int {
	return b.countColumns
}

// CountRecords returns the number of records, not counting the header.
func (b *Builder) CountRecords() int {
	return len(b.data)
}

// HasHeader reports whether a header is set.
func (b *Builder) HasHeader() bool {
	return b.hasHeader
}

// Header returns a copy of the padded header, or nil when none is set.
func (b *Builder) Header() []string {
	if !b.hasHeader {
		return nil
	}
	b.normalize()
	return copyRow(b.header)
}

// Records returns a copy of the padded records without the header.
func (b *Builder) Records() [][]string {
	b.normalize()
	out := make([][]string, len(b.data))
	for i, row := range b.data {
		out[i] = copyRow(row)
	}
	return out
}

// Build pads short rows and returns the grid, header first when present.
// The grid shares no memory with the builder.
func (b *Builder) Build() Grid {
	b.normalize()

	n := len(b.data)
	if b.hasHeader {
		n++
	}
	grid := make(Grid, 0, n)
	if b.hasHeader {
		grid = append(grid, copyRow(b.header))
	}
	for _, row := range b.data {
		grid = append(grid, copyRow(row))
	}
	return grid
}

// Clone returns a deep copy of b.
func (b *Builder) Clone() *Builder {
	c := *b
	if b.hasHeader {
		c.header = copyRow(b.header)
	}
	c.data = make([][]string, len(b.data), cap(b.data))
	for i, row := range b.data {
		c.data[i] = copyRow(row)
	}
	return &c
}

// updateSize applies the growth rule for a newly stored row of size cells.
// It runs before the row is stored.
func (b *Builder) updateSize(size int) {
	switch {
	case size < b.countColumns:
		b.shape = shapeDirty
	case size > b.countColumns:
		b.countColumns = size
		if len(b.data) > 0 || b.hasHeader {
			b.shape = shapeDirty
		}
	}
}

// normalize pads the header and every record up to countColumns.
func (b *Builder) normalize() {
	if b.shape == shapeNormalized {
		return
	}

	if b.hasHeader {
		b.header = pad(b.header, b.countColumns, b.emptyText)
	}
	for i, row := range b.data {
		b.data[i] = pad(row, b.countColumns, b.emptyText)
	}
	b.shape = shapeNormalized
}

func (b *Builder) spliceColumn(index int, cells []string) {
	next := 0
	take := func() string {
		if next >= len(cells) {
			return ""
		}
		next++
		return cells[next-1]
	}

	if b.hasHeader {
		b.header = insertAt(b.header, index, take())
	}
	for i, row := range b.data {
		b.data[i] = insertAt(row, index, take())
	}
	b.countColumns++
}

func (b *Builder) columnEmpty(col int) bool {
	for _, row := range b.data {
		if col < len(row) && row[col] != "" {
			return false
		}
	}
	return true
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}

func newRow(cells []string, capacity int) []string {
	if capacity < len(cells) {
		capacity = len(cells)
	}
	row := make([]string, len(cells), capacity)
	copy(row, cells)
	return row
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}

func pad(row []string, n int, text string) []string {
	for len(row) < n {
		row = append(row, text)
	}
	return row
}

func insertAt(row []string, index int, cell string) []string {
	if index > len(row) {
		index = len(row)
	}
	row = append(row, "")
	copy(row[index+1:], row[index:])
	row[index] = cell
	return row
}

func removeAt(row []string, index int) []string {
	return append(row[:index], row[index+1:]...)
}

// pick returns the cells of row at the given ascending indexes.
func pick(row []string, indexes []int) []string {
	out := make([]string, 0, len(indexes))
	for _, i := range indexes {
		if i < len(row) {
			out = append(out, row[i])
		}
	}
	return out
}
