package hitproxy

import (
	"time"

	"github.com/google/uuid"
)

// Draft is a custom event under construction. It is created per hit by the
// mapper, edited by extenders and finalized when recorded. A Draft is not
// safe for concurrent use.
type Draft struct {
	Name       string
	properties map[string]string
}

// NewDraft creates an empty draft named name.
func NewDraft(name string) *Draft {
	return &Draft{Name: name, properties: make(map[string]string)}
}

// AddProperty sets key to value. Empty values are ignored so that missing
// inputs never show up as empty properties.
func (d *Draft) AddProperty(key, value string) {
	if key == "" || value == "" {
		return
	}
	d.properties[key] = value
}

// RemoveProperty deletes key.
func (d *Draft) RemoveProperty(key string) {
	delete(d.properties, key)
}

// Property returns the value of key and whether it is set.
func (d *Draft) Property(key string) (string, bool) {
	v, ok := d.properties[key]
	return v, ok
}

// Properties returns a copy of the current properties.
func (d *Draft) Properties() map[string]string {
	out := make(map[string]string, len(d.properties))
	for k, v := range d.properties {
		out[k] = v
	}
	return out
}

// Len returns the number of properties.
func (d *Draft) Len() int {
	return len(d.properties)
}

// Finalize produces the immutable event handed to the sink.
func (d *Draft) Finalize() CustomEvent {
	return CustomEvent{
		ID:         uuid.NewString(),
		Name:       d.Name,
		Properties: d.Properties(),
		IssuedAt:   time.Now().UnixMilli(),
	}
}
