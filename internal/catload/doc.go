// Package catload reconciles the catalogs committed to the database,
// as reported by loader job logs, against the master list of expected
// catalog files.
//
// Ownership boundary:
// - job id parsing
//
// - job id to log file resolution
//
// - per-log extraction of committed catalogs, cached as <log>_cats
//
// - the remaining set and its output file
//
// Loading catalogs into the database is done by the loader jobs, not here.
package catload
