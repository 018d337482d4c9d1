package connecthealth

// BelongsToWorker reports whether workerID is the local worker.
// The comparison is byte-exact: Kafka Connect reports worker identity as
// host:port and no normalization or case-folding is applied.
func BelongsToWorker(workerID, localWorkerID string) bool {
	return workerID == localWorkerID
}

// BelongsTo reports whether the connector runs on the given worker.
func (ci ConnectorInfo) BelongsTo(localWorkerID string) bool {
	return BelongsToWorker(ci.WorkerID, localWorkerID)
}

// BelongsTo reports whether the task runs on the given worker.
func (ti TaskInfo) BelongsTo(localWorkerID string) bool {
	return BelongsToWorker(ti.WorkerID, localWorkerID)
}
