package extract

// Extractor defines a minimal interface for table extraction strategies.
// Implementations can swap table-detection heuristics without changing
// callers.
type Extractor interface {
	// Extract converts decoded HTML text into a Grid.
	// Implementations should be deterministic and avoid side effects.
	Extract(text string) (Grid, error)
}

// FirstQualifying selects the first table in document order with more than
// one row, per FromHTML. Candidates are never ranked; document order decides.
type FirstQualifying struct{}

func (FirstQualifying) Extract(text string) (Grid, error) {
	return FromHTML(text)
}
