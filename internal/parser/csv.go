package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize is the number of data rows rendered per paragraph.
const csvBatchSize = 20

// CSVParser renders message tables as labelled row paragraphs.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	headers := records[0]
	rows := records[1:]
	var blocks []string
	for i := 0; i < len(rows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(rows))

		var b strings.Builder
		for _, row := range rows[i:end] {
			for j, cell := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				if j < len(headers) {
					b.WriteString(headers[j] + ": ")
				}
				b.WriteString(cell)
			}
			b.WriteString("\n")
		}
		blocks = append(blocks, b.String())
	}
	return joinBlocks(blocks), nil
}
