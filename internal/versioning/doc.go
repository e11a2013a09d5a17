// Package versioning resolves the next safe version number for each
// selected row against the tracking database's published version codes.
//
// A code has the form {seq}_{shot}_{colorspace}_{type}_v{NNN}. Resolution
// is max(existing)+1 per (shot, colorspace, type) tuple, or 1 when the
// tuple has never been published. The computation is deterministic over the
// snapshot it is handed; two operators resolving against the same stale
// snapshot will pick the same number, which the caller must treat as a
// known race, not something this package prevents.
package versioning
