package entity

// Status is the lifecycle state of an image record. There is exactly one
// transition: pending -> available, applied by the metadata store's
// idempotent update when the object store signals that the upload
// finished. It never reverts.
type Status string

const (
	Pending   Status = "PENDING"
	Available Status = "AVAILABLE"
)
