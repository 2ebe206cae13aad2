package rename

// SkipReason explains why a document was left unchanged.
type SkipReason string

// Skip reasons reported for unchanged documents.
const (
	SkipReasonNoMapping      SkipReason = "no mapping"
	SkipReasonAlreadyRenamed SkipReason = "already renamed"
)

// Table resolves exact titles to their replacements. It is immutable once built.
type Table struct {
	replacements map[string]string
	targets      map[string]struct{}
}

// NewTable builds a Table; the first mapping for a repeated title wins and mappings without a replacement are ignored.
func NewTable(mappings []TitleMapping) Table {
	table := Table{
		replacements: make(map[string]string, len(mappings)),
		targets:      make(map[string]struct{}, len(mappings)),
	}
	for _, mapping := range mappings {
		if len(mapping.To) == 0 {
			continue
		}
		if _, exists := table.replacements[mapping.From]; exists {
			continue
		}
		table.replacements[mapping.From] = mapping.To
		table.targets[mapping.To] = struct{}{}
	}
	return table
}

// Len reports the number of distinct source titles.
func (table Table) Len() int {
	return len(table.replacements)
}

// Resolve returns the replacement for currentTitle, or the reason the title stays as is.
func (table Table) Resolve(currentTitle string) (string, SkipReason, bool) {
	replacement, exists := table.replacements[currentTitle]
	if exists && replacement != currentTitle {
		return replacement, "", true
	}
	if exists {
		return "", SkipReasonAlreadyRenamed, false
	}
	if _, isTarget := table.targets[currentTitle]; isTarget {
		return "", SkipReasonAlreadyRenamed, false
	}
	return "", SkipReasonNoMapping, false
}
