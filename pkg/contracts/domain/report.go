package domain

// RunReport is the run-scoped accumulator threaded through the
// pipeline. It is created when a run starts and discarded when the
// run ends; nothing in the pipeline keeps process-wide counters.
type RunReport struct {
	RunID               string
	SubjectsTotal       int
	SubjectsKept        int
	SubjectsQuarantined int
	RowsWritten         int
	TolerableIssues     int
	ExistentialIssues   int
	DuplicateResponses  int
}

// Observe folds one subject's normalization result into the report.
func (r *RunReport) Observe(result SubjectResult) {
	r.SubjectsTotal++
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityExistential:
			r.ExistentialIssues++
		case SeverityTolerable:
			r.TolerableIssues++
		}
	}
	if result.HasExistential() {
		r.SubjectsQuarantined++
	} else {
		r.SubjectsKept++
		r.RowsWritten += len(result.Rows)
	}
}
