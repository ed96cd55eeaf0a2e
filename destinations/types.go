package destinations

import (
	"github.com/csvload/csvload/schema"
	"github.com/csvload/csvload/source"
	"github.com/csvload/csvload/utils"
)

var (
	logger = utils.LoadLogger("destinations")
)

// Destination is a relational sink for one ingestion run. CreateTable is
// destructive: an existing table with the configured name is dropped and
// recreated from the layout. AppendChunk writes rows in source order; each
// append is its own implicit transaction, nothing spans chunks.
type Destination interface {
	Connect() error
	CreateTable(layout []schema.Column) error
	AppendChunk(chunk *source.Chunk) error
	Close() error
}
