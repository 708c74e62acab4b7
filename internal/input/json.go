package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// readJSON accepts a top-level array whose elements are arrays (one row
// each), objects (keys become the header) or scalars (one-cell rows).
func readJSON(r io.Reader) (Data, error) {
	var items []json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&items); err != nil {
		return Data{}, ParseError{Format: FormatJSON, Err: err}
	}

	cols := newColumns()
	var data Data
	for i, item := range items {
		row, err := jsonRow(item, cols)
		if err != nil {
			return Data{}, ParseError{Format: FormatJSON, Err: fmt.Errorf("item %d: %w", i, err)}
		}
		data.Rows = append(data.Rows, row)
	}
	data.Header = cols.names
	return data, nil
}

// readNDJSON reads one JSON array, object or scalar per line.
func readNDJSON(r io.Reader) (Data, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	cols := newColumns()
	var data Data
	line := 0
	for sc.Scan() {
		line++
		if isBlank(sc.Bytes()) {
			continue
		}
		row, err := jsonRow(json.RawMessage(sc.Bytes()), cols)
		if err != nil {
			return Data{}, ParseError{Format: FormatNDJSON, Line: line, Err: err}
		}
		data.Rows = append(data.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return Data{}, ParseError{Format: FormatNDJSON, Line: line, Err: err}
	}
	data.Header = cols.names
	return data, nil
}

func jsonRow(raw json.RawMessage, cols *columns) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty value")
	}

	switch trimmed[0] {
	case '[':
		var cells []json.RawMessage
		if err := json.Unmarshal(trimmed, &cells); err != nil {
			return nil, err
		}
		row := make([]string, len(cells))
		for i, cell := range cells {
			text, err := jsonCell(cell)
			if err != nil {
				return nil, err
			}
			row[i] = text
		}
		return row, nil
	case '{':
		keys, values, err := jsonObject(trimmed)
		if err != nil {
			return nil, err
		}
		return cols.place(keys, values), nil
	default:
		text, err := jsonCell(trimmed)
		if err != nil {
			return nil, err
		}
		return []string{text}, nil
	}
}

// jsonObject decodes an object keeping its key order.
func jsonObject(raw []byte) ([]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		text, err := jsonCell(value)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, text)
	}
	return keys, values, nil
}

// jsonCell renders one JSON value as cell text: strings unquoted, null
// empty, anything else in compact JSON.
func jsonCell(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return "", nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
}
