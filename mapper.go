package hitproxy

// Mapper turns a hit and the tracker state into a draft event.
type Mapper interface {
	Map(hit Hit, state TrackerState) *Draft
}

// MapperFunc adapts a function to Mapper.
type MapperFunc func(hit Hit, state TrackerState) *Draft

func (f MapperFunc) Map(hit Hit, state TrackerState) *Draft {
	return f(hit, state)
}

// FieldMapper is the default Mapper. It names the event after the hit type,
// copies the configured tracker fields and then the fields selected for the
// hit type.
type FieldMapper struct {
	typeKey string
	fields  FieldSets
	policy  HitFieldPolicy
}

var _ Mapper = (*FieldMapper)(nil)

// NewFieldMapper creates a mapper. Nil members of fields select the
// defaults; prefix is applied to every key.
func NewFieldMapper(fields FieldSets, policy HitFieldPolicy, prefix string) *FieldMapper {
	return &FieldMapper{
		typeKey: withPrefix(prefix, KeyHitType),
		fields:  fields.resolve(prefix),
		policy:  policy,
	}
}

// Map builds the draft. Missing or empty values are skipped.
func (m *FieldMapper) Map(hit Hit, state TrackerState) *Draft {
	hitType := hit[m.typeKey]
	draft := NewDraft(hitType)

	for _, key := range m.fields.Tracker {
		if v, ok := state.Get(key); ok {
			draft.AddProperty(key, v)
		}
	}

	if m.policy == HitFieldsAll {
		copyAll(draft, hit)
		return draft
	}

	keys, known := m.fields.HitTypes[hitType]
	if !known {
		if m.policy == HitFieldsByTypeOrAll {
			copyAll(draft, hit)
		}
		return draft
	}

	for _, key := range keys {
		if v := hit[key]; v != "" {
			draft.AddProperty(key, v)
			continue
		}
		// screen name is a tracker attribute set before the screenview is sent
		if hitType == HitTypeScreenView {
			if v, ok := state.Get(key); ok {
				draft.AddProperty(key, v)
			}
		}
	}
	return draft
}

func copyAll(draft *Draft, hit Hit) {
	for k, v := range hit {
		draft.AddProperty(k, v)
	}
}
