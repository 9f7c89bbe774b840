package leadimport

// maxSkippedExamples bounds how many skipped rows are kept for display.
const maxSkippedExamples = 5

// SkippedRow is a row that was rejected before creation, with the reason and
// its 1-based line number in the original file.
type SkippedRow struct {
	Record map[string]any
	Reason string
	Line   int
}

// RowError is a row that passed validation but could not be created.
type RowError struct {
	Record map[string]any
	Err    error
}

// Result summarizes one import run.
type Result struct {
	Total    int
	Valid    int
	Imported int
	Skipped  int
	Errors   int

	// SkippedExamples holds up to maxSkippedExamples skipped rows.
	SkippedExamples []SkippedRow
	RowErrors       []RowError
}
