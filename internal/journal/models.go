package journal

import "time"

// Stage names the pipeline phases a batch moves through.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageGroup     Stage = "group"
	StageResolve   Stage = "resolve"
	StageGenerate  Stage = "generate"
	StageConvert   Stage = "convert"
	StagePublish   Stage = "publish"
	StageCleanup   Stage = "cleanup"
)

// BatchStatus is the terminal disposition of a batch.
type BatchStatus string

const (
	BatchRunning   BatchStatus = "running"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

// JobStatus records what happened to one shot's conversion job.
type JobStatus string

const (
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobPublished JobStatus = "published"
	JobSkipped   JobStatus = "skipped"
)

// Batch is one journal entry per pipeline run.
type Batch struct {
	ID           string
	SheetPath    string
	Colorspace   string
	Codec        string
	Stage        Stage
	Status       BatchStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobEntry is one shot outcome within a batch.
type JobEntry struct {
	ID         int64
	BatchID    string
	Sequence   string
	Shot       string
	Version    int
	ScriptPath string
	Status     JobStatus
	ExitCode   int
	Duration   time.Duration
	Detail     string
	CreatedAt  time.Time
}
