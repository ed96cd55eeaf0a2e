package schema

import (
	"cloud.google.com/go/bigquery"
)

// YellowTaxi is the NYC TLC yellow trip record layout, in source column
// order. Vendor and location ids come in as nullable integers because the
// published files contain empty cells.
type YellowTaxi struct{}

func (t YellowTaxi) Name() string {
	return "yellow_taxi"
}

func (t YellowTaxi) Columns() []Column {
	return []Column{
		{Name: "VendorID", Type: ColumnInteger},
		{Name: "tpep_pickup_datetime", Type: ColumnTimestamp},
		{Name: "tpep_dropoff_datetime", Type: ColumnTimestamp},
		{Name: "passenger_count", Type: ColumnInteger},
		{Name: "trip_distance", Type: ColumnFloat},
		{Name: "RatecodeID", Type: ColumnInteger},
		{Name: "store_and_fwd_flag", Type: ColumnString},
		{Name: "PULocationID", Type: ColumnInteger},
		{Name: "DOLocationID", Type: ColumnInteger},
		{Name: "payment_type", Type: ColumnInteger},
		{Name: "fare_amount", Type: ColumnFloat},
		{Name: "extra", Type: ColumnFloat},
		{Name: "mta_tax", Type: ColumnFloat},
		{Name: "tip_amount", Type: ColumnFloat},
		{Name: "tolls_amount", Type: ColumnFloat},
		{Name: "improvement_surcharge", Type: ColumnFloat},
		{Name: "total_amount", Type: ColumnFloat},
		{Name: "congestion_surcharge", Type: ColumnFloat},
	}
}

func (t YellowTaxi) GetBigQueryTimePartitioning() *bigquery.TimePartitioning {
	return &bigquery.TimePartitioning{
		Field: "tpep_pickup_datetime",
		Type:  bigquery.DayPartitioningType,
	}
}

func (t YellowTaxi) GetBigQueryClustering() *bigquery.Clustering {
	return &bigquery.Clustering{Fields: []string{"tpep_pickup_datetime"}}
}
