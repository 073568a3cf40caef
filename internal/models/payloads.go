package models

// These structs define the JSON payloads for the HTTP surface of the
// pipeline. The submission endpoint acknowledges immediately; the actual
// run is asynchronous and observed by polling the document record.

// ProcessRequest is the submission payload for the clause processor.
// Filename is the source-location URI of the uploaded contract PDF.
type ProcessRequest struct {
	DocumentID string `json:"id"`
	Filename   string `json:"filename"`
}

// ProcessResponse acknowledges receipt of a processing submission.
type ProcessResponse struct {
	Status     string `json:"status"`
	DocumentID string `json:"documentId"`
}
