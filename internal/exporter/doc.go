// Package exporter writes the pipeline's outputs: per-subject CSV
// files, the composite CSV, the tolerable-issue error log, the
// quarantine JSON, the duplicate-response audit JSON, and the optional
// Excel workbook. Filesystem failures surface as *WriteError and are
// fatal to the run.
package exporter
