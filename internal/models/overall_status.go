package models

// JobStatus is the lifecycle state reported by the batch status feed.
type JobStatus string

const (
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusInProgress JobStatus = "INPROGRESS"
	JobStatusNotStarted JobStatus = "NOTSTARTED"
	JobStatusFailed     JobStatus = "FAILED"
)

type PhaseStatus struct {
	Status JobStatus `json:"status"`
}

// BatchStatusEntry describes the current run of one batch in one environment.
type BatchStatusEntry struct {
	BatchID    string                 `json:"batchId"`
	BatchType  BatchType              `json:"batchType"`
	RunDate    string                 `json:"runDate"`
	LRD        string                 `json:"lrd"`
	StartTime  string                 `json:"startTime"`
	EndTime    string                 `json:"endTime"`
	Status     JobStatus              `json:"status"`
	Completion string                 `json:"completion"`
	Days       int                    `json:"days"`
	Hours      int                    `json:"hours"`
	Mins       int                    `json:"mins"`
	ETA        string                 `json:"eta"`
	Phase      map[string]PhaseStatus `json:"phase"`
}

type EnvironmentBatches struct {
	Environment        string             `json:"environment"`
	OverallBatchStatus []BatchStatusEntry `json:"overallBatchStatus"`
}

// OverallStatus is the payload of the overall status feed.
type OverallStatus struct {
	LastRefresh  string               `json:"lastRefresh"`
	BatchDetails []EnvironmentBatches `json:"batchDetails"`
}
