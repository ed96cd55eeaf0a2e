package utils

type Config struct {
	Sources           []Source      `yaml:"sources"`
	Destinations      []Destination `yaml:"destinations"`
	Connections       []Connection  `yaml:"connections"`
	LogLevel          string        `yaml:"log_level"`
	TelemetryDisabled bool          `yaml:"telemetry_disabled"`
}

type Source struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Schema    string `yaml:"schema"`
	ChunkSize int    `yaml:"chunk_size"`

	// Columns is only read for the generic "table" schema; named schemas
	// carry their own column declarations.
	Columns []SourceColumn `yaml:"columns,omitempty"`
}

type SourceColumn struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type Destination struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// big_query
	ProjectID  string `yaml:"project_id,omitempty"`
	DatasetID  string `yaml:"dataset_id,omitempty"`
	TableID    string `yaml:"table_id,omitempty"`
	BucketName string `yaml:"bucket_name,omitempty"`

	// postgres
	ConnectionURL  string `yaml:"connection_url,omitempty"`
	TableName      string `yaml:"table_name,omitempty"`
	RowInsertLimit int    `yaml:"row_insert_limit,omitempty"`
}

type Connection struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	Cron        string `yaml:"cron"`
}
