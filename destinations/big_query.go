package destinations

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"

	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
)

type BigQueryConfig struct {
	ProjectId  string
	DatasetId  string
	TableId    string
	BucketName string
}

func NewBigQuery(config BigQueryConfig, dataSchema schema.DataSchema) BigQuery {
	return BigQuery{
		config:     config,
		dataSchema: dataSchema,
	}
}

// BigQuery stages each chunk as a gzipped CSV object in a bucket and runs a
// synchronous load job against the table. Chunks are loaded one at a time,
// in source order.
type BigQuery struct {
	config     BigQueryConfig
	dataSchema schema.DataSchema

	client        *bigquery.Client
	storageClient *storage.Client
	layout        []schema.Column
}

func (b *BigQuery) Connect() error {
	ctx := context.Background()

	client, err := bigquery.NewClient(ctx, b.config.ProjectId)
	if err != nil {
		return fmt.Errorf("bigquery.NewClient: %w", err)
	}
	b.client = client

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		_ = client.Close()
		return fmt.Errorf("storage.NewClient: %w", err)
	}
	b.storageClient = storageClient

	logger.Info().
		Str("dataset", b.config.DatasetId).
		Str("table", b.config.TableId).
		Msg("bigquery connection established")
	return nil
}

func (b *BigQuery) CreateTable(layout []schema.Column) error {
	b.layout = layout
	ctx := context.Background()

	tableRef := b.client.Dataset(b.config.DatasetId).Table(b.config.TableId)

	if err := tableRef.Delete(ctx); err != nil {
		var apiErr *googleapi.Error
		if !errors.As(err, &apiErr) || apiErr.Code != 404 {
			return fmt.Errorf("failed to drop table %s: %w", b.config.TableId, err)
		}
	}

	metadata := &bigquery.TableMetadata{
		Schema:           schema.GetBigQuerySchema(layout),
		TimePartitioning: b.dataSchema.GetBigQueryTimePartitioning(),
		Clustering:       b.dataSchema.GetBigQueryClustering(),
	}
	if err := tableRef.Create(ctx, metadata); err != nil {
		return fmt.Errorf("failed to create table %s: %w", b.config.TableId, err)
	}

	logger.Info().Str("table", b.config.TableId).Int("columns", len(layout)).Msg("table created")
	return nil
}

func (b *BigQuery) AppendChunk(chunk *source.Chunk) error {
	csvBuffer := new(bytes.Buffer)
	csvWriter := csv.NewWriter(csvBuffer)

	if err := csvWriter.Write(schema.GetCSVHeader(b.layout)); err != nil {
		return err
	}
	for i, row := range chunk.Rows {
		line := make([]string, 0, len(row)+1)
		line = append(line, strconv.FormatInt(chunk.FirstRowIndex+int64(i), 10))
		for _, cell := range row {
			line = append(line, formatCSVValue(cell))
		}
		if err := csvWriter.Write(line); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}

	objectName := fmt.Sprintf("csvload/%s.csv.gz", uuid.New().String())
	if err := b.uploadCloudBucket(objectName, csvBuffer); err != nil {
		return err
	}

	if err := b.importCSVExplicitSchema(fmt.Sprintf("gs://%s/%s", b.config.BucketName, objectName)); err != nil {
		return err
	}

	logger.Debug().Str("object", objectName).Int("rows", chunk.RowCount()).Msg("chunk loaded")
	return nil
}

func (b *BigQuery) uploadCloudBucket(object string, buf io.Reader) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*900)
	defer cancel()

	o := b.storageClient.Bucket(b.config.BucketName).Object(object)
	o = o.If(storage.Conditions{DoesNotExist: true})

	wc := o.NewWriter(ctx)
	wc.ContentEncoding = "gzip"

	gzipWriter := gzip.NewWriter(wc)
	if _, err := io.Copy(gzipWriter, buf); err != nil {
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("gzip close: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	return nil
}

func (b *BigQuery) importCSVExplicitSchema(bucketFilePath string) error {
	ctx := context.Background()

	gcsRef := bigquery.NewGCSReference(bucketFilePath)
	gcsRef.SkipLeadingRows = 1
	gcsRef.Schema = schema.GetBigQuerySchema(b.layout)
	loader := b.client.Dataset(b.config.DatasetId).Table(b.config.TableId).LoaderFrom(gcsRef)
	loader.WriteDisposition = bigquery.WriteAppend

	job, err := loader.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}

	if status.Err() != nil {
		return fmt.Errorf("load job completed with error: %w", status.Err())
	}
	return nil
}

// formatCSVValue renders a coerced cell for a staged CSV file. NULL is the
// empty field.
func formatCSVValue(cell interface{}) string {
	switch value := cell.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case time.Time:
		return value.UTC().Format("2006-01-02 15:04:05")
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}

func (b *BigQuery) Close() error {
	var closeErr error
	if b.storageClient != nil {
		closeErr = b.storageClient.Close()
	}
	if b.client != nil {
		if err := b.client.Close(); err != nil && closeErr == nil {
			closeErr = err
		}
	}
	return closeErr
}
