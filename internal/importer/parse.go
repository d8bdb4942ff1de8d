// AngelaMos | 2026
// parse.go

package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/carterperez-dev/salescrm/internal/core"
)

const (
	ColumnOrg         = "Org"
	ColumnCountry     = "Country"
	ColumnSponsorship = "Sponsorship Potential"
)

var requiredColumns = []string{ColumnOrg, ColumnCountry, ColumnSponsorship}

// Row is one data line of an import file. Line is the 1-based line number
// in the file, header included.
type Row struct {
	Line        int
	Org         string
	Country     string
	Sponsorship string
}

// ParseCSV reads the header, checks the required columns are present and
// returns every data row. Extra columns are ignored.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv file is empty: %w", core.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %s: %w", err, core.ErrInvalidInput)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("csv is missing columns: %s: %w", strings.Join(missing, ", "), core.ErrInvalidInput)
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %s: %w", err, core.ErrInvalidInput)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{
			Line:        line,
			Org:         field(record, ColumnOrg),
			Country:     field(record, ColumnCountry),
			Sponsorship: field(record, ColumnSponsorship),
		})
	}

	return rows, nil
}
