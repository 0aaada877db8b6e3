// Package dataprocessing contains the core of the EMA conversion
// pipeline: loading the raw submissions document, normalizing each
// subject's pings into flat rows, and classifying data defects into
// tolerable and existential issues.
//
// Data defects never surface as Go errors here. The normalizer
// captures every problem as a domain.ParsingIssue and the classifier
// decides per subject whether the data is kept or quarantined. Only
// I/O failures (unreadable input) return errors.
package dataprocessing
