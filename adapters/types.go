package adapters

// Hit is one outgoing analytics hit in the tracker's wire vocabulary.
// Absent keys and empty values are both treated as missing.
type Hit map[string]string

// Clone returns a shallow copy of the hit.
func (h Hit) Clone() Hit {
	if h == nil {
		return nil
	}
	c := make(Hit, len(h))
	for k, v := range h {
		c[k] = v
	}
	return c
}

// CustomEvent is a finalized first-party event.
type CustomEvent struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties"`
	IssuedAt   int64             `json:"issuedAt"`
}

// StorageQuotaExceededError is returned by storage adapters that refuse
// to persist more events.
type StorageQuotaExceededError struct {
	Message string
}

func (e *StorageQuotaExceededError) Error() string {
	if e.Message == "" {
		return "storage quota exceeded"
	}
	return e.Message
}
