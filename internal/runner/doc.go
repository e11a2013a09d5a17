// Package runner executes conversion jobs by shelling out to the
// configured conversion binary, one process per job, with optional
// parallelism and per-job timeouts. All jobs in a batch run to completion;
// the result partitions them into completed and failed in input order.
package runner
