package catalog

import (
	"time"

	"github.com/gofrs/uuid"
)

// OutcomeBuilder accumulates OutcomeEntry values for one creation job
// before it is recorded, mirroring sqltest.Fixture's DBName generation
// via gofrs/uuid for a unique, opaque per-job identifier.
type OutcomeBuilder struct {
	jobID   string
	entries []OutcomeEntry
}

func NewOutcomeBuilder() *OutcomeBuilder {
	return &OutcomeBuilder{jobID: uuid.Must(uuid.NewV4()).String()}
}

func (b *OutcomeBuilder) Created(objectName string) *OutcomeBuilder {
	b.entries = append(b.entries, OutcomeEntry{ObjectName: objectName, Kind: OutcomeCreated})
	return b
}

func (b *OutcomeBuilder) Skipped(objectName, reason string) *OutcomeBuilder {
	b.entries = append(b.entries, OutcomeEntry{ObjectName: objectName, Kind: OutcomeSkipped, Reason: reason})
	return b
}

func (b *OutcomeBuilder) Failed(objectName, message, statement string) *OutcomeBuilder {
	b.entries = append(b.entries, OutcomeEntry{ObjectName: objectName, Kind: OutcomeError, Message: message, Statement: statement})
	return b
}

// Build finalizes the outcome, stamping it with the current time. The
// catalog never stamps timestamps itself (Outcome.Timestamp's doc
// comment) so that replaying a recorded outcome in a test never
// depends on wall-clock time.
func (b *OutcomeBuilder) Build() Outcome {
	return Outcome{
		JobID:     b.jobID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Entries:   b.entries,
	}
}
