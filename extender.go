package hitproxy

// Extender edits a draft event after mapping and before it is recorded.
// Extenders may add or remove properties. They run synchronously inside
// Send and must not retain the draft.
type Extender interface {
	Extend(event *Draft, hit Hit, state TrackerState)
}

// ExtenderFunc adapts a function to Extender.
type ExtenderFunc func(event *Draft, hit Hit, state TrackerState)

func (f ExtenderFunc) Extend(event *Draft, hit Hit, state TrackerState) {
	f(event, hit, state)
}

// StaticProperties returns an extender that adds fixed properties.
func StaticProperties(properties map[string]string) Extender {
	props := make(map[string]string, len(properties))
	for k, v := range properties {
		props[k] = v
	}
	return ExtenderFunc(func(event *Draft, _ Hit, _ TrackerState) {
		for k, v := range props {
			event.AddProperty(k, v)
		}
	})
}

// RemoveProperties returns an extender that strips keys from every event.
func RemoveProperties(keys ...string) Extender {
	keys = append([]string(nil), keys...)
	return ExtenderFunc(func(event *Draft, _ Hit, _ TrackerState) {
		for _, k := range keys {
			event.RemoveProperty(k)
		}
	})
}

// CachedTrackerFields reads keys from state once and adds the captured
// values to every event. Use it for tracker attributes that are expensive or
// unsafe to read while a hit is being sent, such as a lazily generated
// client id.
func CachedTrackerFields(state TrackerState, keys ...string) Extender {
	cached := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := state.Get(k); ok {
			cached[k] = v
		}
	}
	return StaticProperties(cached)
}
