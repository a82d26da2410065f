package dto

// ── QR module ──

// QRIssueResponse returns the issued code identifier and nothing else; the
// scanning admin looks the enrollment up through the scan endpoint.
type QRIssueResponse struct {
	QRID string `json:"qrid"`
}

// QRPeekResponse reports scan status for client-side polling.
type QRPeekResponse struct {
	Scanned bool `json:"scanned"`
}

// QRScanResponse is the joined enrollment handed to the scanning admin.
type QRScanResponse struct {
	User      UserPayload `json:"user"`
	EventData EventData   `json:"eventData"`
	Entry     EntryStatus `json:"entry"`
}
