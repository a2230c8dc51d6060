package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are slash-separated paths such as "applications/<id>/cv.pdf".
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// ApplicationFileKey returns the storage key for a raw uploaded CV.
func ApplicationFileKey(applicationID, fileName string) string {
	return "applications/" + applicationID + "/" + fileName
}

// AnalysisKey returns the storage key for a cached analysis document.
func AnalysisKey(applicationID string) string {
	return "applications/" + applicationID + "/analysis.json"
}

// GoldenProfileKey returns the storage key for a job's golden candidate profile.
func GoldenProfileKey(jobID string) string {
	return "jobs/" + jobID + "/goldenCandidate.json"
}
