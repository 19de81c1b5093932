package git

import (
	"fmt"
	"strings"
)

// Decode turns git log output produced by a compiled Command back into
// records, one per commit, in stream order.
//
// Decode never fails. A chunk that does not match the template yields a
// partial record: missing fields are left out, surplus tab-separated tokens
// are folded back into the last field, and name-status lines without a path
// are skipped. Use DecodeStrict to reject such input instead.
func Decode(raw string, fields []Field, nameStatus bool) []Record {
	records, _ := decode(raw, fields, nameStatus, false)
	return records
}

// DecodeStrict is Decode, but returns a *DecodeError for the first chunk that
// does not match the template.
func DecodeStrict(raw string, fields []Field, nameStatus bool) ([]Record, error) {
	return decode(raw, fields, nameStatus, true)
}

func decode(raw string, fields []Field, nameStatus bool, strict bool) ([]Record, error) {
	chunks, err := splitChunks(raw, strict)
	if err != nil {
		return nil, err
	}

	scalar := ScalarFields(fields)
	order := append([]Field(nil), fields...)
	records := make([]Record, 0, len(chunks))

	for i, chunk := range chunks {
		rec, err := decodeChunk(i, chunk, scalar, nameStatus, strict)
		if err != nil {
			return nil, err
		}
		rec.order = order
		records = append(records, rec)
	}
	return records, nil
}

// splitChunks splits the stream on the begin sentinel. Every commit starts
// with the sentinel, so the first one sits at offset zero and the rest follow
// a newline.
func splitChunks(raw string, strict bool) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	rest, found := strings.CutPrefix(raw, BeginSentinel)
	if !found && strict {
		return nil, &DecodeError{Index: 0, Reason: "stream does not start with " + BeginSentinel}
	}

	chunks := strings.Split(rest, "\n"+BeginSentinel)
	if len(chunks) == 1 && chunks[0] == "" {
		return nil, nil
	}
	return chunks, nil
}

func decodeChunk(index int, chunk string, scalar []Field, nameStatus bool, strict bool) (Record, error) {
	var rec Record

	scalarPart, statusPart, found := strings.Cut(chunk, EndSentinel)
	if !found && strict {
		return rec, &DecodeError{Index: index, Reason: "missing " + EndSentinel}
	}

	tokens := strings.Split(scalarPart, Delimiter)
	// The template puts a delimiter before the first field.
	if tokens[0] != "" && strict {
		return rec, &DecodeError{Index: index, Reason: fmt.Sprintf("unexpected text before first field: %q", tokens[0])}
	}
	tokens = tokens[1:]

	switch {
	case len(tokens) < len(scalar):
		if strict {
			return rec, &DecodeError{Index: index, Reason: fmt.Sprintf("got %d values for %d fields", len(tokens), len(scalar))}
		}
	case len(tokens) > len(scalar):
		if strict {
			return rec, &DecodeError{Index: index, Reason: fmt.Sprintf("got %d values for %d fields", len(tokens), len(scalar))}
		}
		if len(scalar) > 0 {
			last := len(scalar) - 1
			tokens = append(tokens[:last:last], strings.Join(tokens[last:], Delimiter))
		}
	}

	rec.Values = make([]FieldValue, 0, len(scalar))
	for i, f := range scalar {
		if i >= len(tokens) {
			break
		}
		rec.Values = append(rec.Values, FieldValue{Field: f, Value: tokens[i]})
	}

	if nameStatus {
		status, files, err := parseNameStatus(index, statusPart, strict)
		if err != nil {
			return rec, err
		}
		rec.Status = status
		rec.Files = files
	}
	return rec, nil
}

// parseNameStatus flattens the name-status section into parallel status and
// path slices. Each line is "<status>\t[<source>\t...]<path>"; the final path
// is the one the commit leaves behind. A rename also removes its source
// paths, so each of them is recorded as a "D" entry after all real rows.
func parseNameStatus(index int, section string, strict bool) ([]string, []string, error) {
	status := []string{}
	files := []string{}
	var deletedStatus, deletedFiles []string

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		cols := strings.Split(line, Delimiter)
		if len(cols) < 2 || cols[0] == "" {
			if strict {
				return nil, nil, &DecodeError{Index: index, Reason: fmt.Sprintf("malformed name-status line %q", line)}
			}
			continue
		}

		code := cols[0]
		status = append(status, code)
		files = append(files, cols[len(cols)-1])

		if isRename(code) {
			for _, source := range cols[1 : len(cols)-1] {
				deletedStatus = append(deletedStatus, "D")
				deletedFiles = append(deletedFiles, source)
			}
		}
	}

	status = append(status, deletedStatus...)
	files = append(files, deletedFiles...)
	return status, files, nil
}
