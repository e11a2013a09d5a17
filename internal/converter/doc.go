// Package converter turns grouped plate records into conversion jobs and
// the on-disk TOML job scripts the external conversion tool consumes.
//
// A Job carries everything the tool needs resolved up front: codec fourcc,
// display colorspace, frame range, and the full set of output paths under
// the scan directory (mov, dpx, jpg). Building a job validates the record;
// nothing is written until WriteScript.
package converter
