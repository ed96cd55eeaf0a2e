package schema

import (
	"fmt"

	"cloud.google.com/go/bigquery"
)

// Table is the generic schema: columns are declared in the config instead of
// in code. No partitioning or clustering is assumed.
type Table struct {
	name    string
	columns []Column
}

func NewTable(name string, columns []Column) (Table, error) {
	if len(columns) == 0 {
		return Table{}, fmt.Errorf("schema %q declares no columns", name)
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Name == "" {
			return Table{}, fmt.Errorf("schema %q declares a column without a name", name)
		}
		if seen[col.Name] {
			return Table{}, fmt.Errorf("schema %q declares column %q twice", name, col.Name)
		}
		seen[col.Name] = true
	}
	return Table{name: name, columns: columns}, nil
}

func (t Table) Name() string {
	return t.name
}

func (t Table) Columns() []Column {
	return t.columns
}

func (t Table) GetBigQueryTimePartitioning() *bigquery.TimePartitioning {
	return nil
}

func (t Table) GetBigQueryClustering() *bigquery.Clustering {
	return nil
}
