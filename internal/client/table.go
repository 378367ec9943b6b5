package client

import (
	"encoding/csv"
	"fmt"
	"strings"

	"storefront/catalog/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// TableParser lexes source text into header-keyed rows.
type TableParser interface {
	Parse(text string) ([]domain.Row, error)
}

func NewTableParser(format string) (TableParser, error) {
	switch format {
	case "csv", "":
		return csvParser{}, nil
	case "html":
		return htmlParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}

type csvParser struct{}

func (csvParser) Parse(text string) ([]domain.Row, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\ufeff")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return []domain.Row{}, nil
	}

	headers := trimAll(records[0])
	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, rowFromRecord(headers, record))
	}
	return rows, nil
}

// htmlParser reads the first table of a spreadsheet published as a web page.
// The first row with a non-blank data cell is the header row; row-number
// columns rendered as <th> are ignored.
type htmlParser struct{}

func (htmlParser) Parse(text string) ([]domain.Row, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in HTML source")
	}

	var headers []string
	rows := make([]domain.Row, 0)
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return td.Text()
		})
		if headers == nil {
			if !allBlank(cells) {
				headers = trimAll(cells)
			}
			return
		}
		rows = append(rows, rowFromRecord(headers, cells))
	})

	return rows, nil
}

// rowFromRecord keys a record by header. Missing trailing cells become empty
// values so alias lookup still sees the column; the first duplicate header wins.
func rowFromRecord(headers, record []string) domain.Row {
	row := make(domain.Row, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if _, dup := row[h]; dup {
			continue
		}
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func allBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
