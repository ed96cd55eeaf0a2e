package destinations

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
)

// Postgres rejects statements with more bind parameters than this.
const maxBindParameters = 65535

type PostgresConfig struct {
	ConnectionUrl string
	TableName     string

	// RowInsertLimit caps the rows per INSERT statement. Zero means as many
	// as the bind-parameter limit allows.
	RowInsertLimit int
}

func NewPostgres(config PostgresConfig) Postgres {
	return Postgres{
		config: config,
	}
}

type Postgres struct {
	config PostgresConfig
	db     *sql.DB
	layout []schema.Column
}

func (p *Postgres) Connect() error {
	db, err := sql.Open("postgres", p.config.ConnectionUrl)
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to reach postgres: %w", err)
	}
	p.db = db

	logger.Info().Str("table", p.config.TableName).Msg("postgres connection established")
	return nil
}

func (p *Postgres) CreateTable(layout []schema.Column) error {
	p.layout = layout

	if _, err := p.db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(p.config.TableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", p.config.TableName, err)
	}
	if _, err := p.db.Exec(schema.GetPostgresCreateTableCommand(p.config.TableName, layout)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", p.config.TableName, err)
	}

	logger.Info().Str("table", p.config.TableName).Int("columns", len(layout)).Msg("table created")
	return nil
}

func (p *Postgres) AppendChunk(chunk *source.Chunk) error {
	limit := rowsPerInsert(len(p.layout)+1, p.config.RowInsertLimit)

	for offset := 0; offset < len(chunk.Rows); offset += limit {
		end := min(offset+limit, len(chunk.Rows))
		if err := p.bulkInsert(chunk.Rows[offset:end], chunk.FirstRowIndex+int64(offset)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Postgres) bulkInsert(rows [][]interface{}, firstRowIndex int64) error {
	columnNames := schema.GetCSVHeader(p.layout)

	valueArgs := make([]interface{}, 0, len(rows)*len(columnNames))
	for i, row := range rows {
		valueArgs = append(valueArgs, firstRowIndex+int64(i))
		valueArgs = append(valueArgs, row...)
	}

	stmt := buildInsertStatement(p.config.TableName, columnNames, len(rows))
	if _, err := p.db.Exec(stmt, valueArgs...); err != nil {
		return fmt.Errorf("failed to append %d rows to %s: %w", len(rows), p.config.TableName, err)
	}
	return nil
}

// rowsPerInsert caps the rows per INSERT statement so it never carries more
// than maxBindParameters placeholders. Always at least 1.
func rowsPerInsert(columnCount, configuredLimit int) int {
	limit := maxBindParameters / columnCount
	if configuredLimit > 0 && configuredLimit < limit {
		limit = configuredLimit
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}

// buildInsertStatement renders a multi-row INSERT with $n placeholders, one
// placeholder tuple per row.
func buildInsertStatement(tableName string, columnNames []string, rowCount int) string {
	argsCounter := 1
	templateStrings := make([]string, 0, rowCount)
	for i := 0; i < rowCount; i++ {
		s := make([]string, len(columnNames))
		for j := range s {
			s[j] = "$" + strconv.FormatInt(int64(argsCounter), 10)
			argsCounter += 1
		}
		templateStrings = append(templateStrings, fmt.Sprintf("(%s)", strings.Join(s, ", ")))
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		pq.QuoteIdentifier(tableName),
		"\""+strings.Join(columnNames, "\", \"")+"\"",
		strings.Join(templateStrings, ", "),
	)
}

func (p *Postgres) Close() error {
	if p.db == nil {
		return nil
	}
	return p.db.Close()
}
