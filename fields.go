package hitproxy

import "fmt"

// FieldSets selects which keys the default mapper copies into a custom event.
type FieldSets struct {
	// Tracker keys are read from the tracker state for every hit.
	Tracker []string
	// HitTypes maps a hit type to the keys copied from hits of that type.
	HitTypes map[string][]string
}

var defaultTrackerFields = []string{
	KeyProtocolVersion, KeyTrackingID, KeyClientID, KeyUserID,
	KeyAppName, KeyAppVersion, KeyAppID, KeyAppInstallerID,
	KeyCampaignID, KeyAdWordsID, KeyDisplayAdsID,
	KeyDocumentReferrer, KeyCampaignName, KeyCampaignSource, KeyCampaignMedium,
	KeyCampaignKeyword, KeyCampaignContent,
	KeyDocumentLocation, KeyDocumentHostName, KeyDocumentPath, KeyDocumentTitle,
}

// DefaultTrackerFields returns a fresh copy of the tracker-level keys
// copied into every event.
func DefaultTrackerFields() []string {
	return append([]string(nil), defaultTrackerFields...)
}

// DefaultFieldSets returns a fresh copy of the default field selection.
func DefaultFieldSets() FieldSets {
	return FieldSets{
		Tracker: DefaultTrackerFields(),
		HitTypes: map[string][]string{
			HitTypeScreenView: {KeyScreenName},
			HitTypeEvent:      {KeyEventCategory, KeyEventAction, KeyEventLabel, KeyEventValue},
			HitTypeSocial:     {KeySocialNetwork, KeySocialAction, KeySocialTarget},
			HitTypeException:  {KeyExceptionDescription, KeyExceptionFatal},
			HitTypeTiming:     {KeyTimingCategory, KeyTimingVariable, KeyTimingTime, KeyTimingLabel},
		},
	}
}

// resolve fills nil members with defaults and returns a deep copy with
// prefix applied to every key.
func (f FieldSets) resolve(prefix string) FieldSets {
	def := DefaultFieldSets()
	if f.Tracker == nil {
		f.Tracker = def.Tracker
	}
	if f.HitTypes == nil {
		f.HitTypes = def.HitTypes
	}

	out := FieldSets{
		Tracker:  make([]string, len(f.Tracker)),
		HitTypes: make(map[string][]string, len(f.HitTypes)),
	}
	for i, k := range f.Tracker {
		out.Tracker[i] = withPrefix(prefix, k)
	}
	for hitType, keys := range f.HitTypes {
		pk := make([]string, len(keys))
		for i, k := range keys {
			pk[i] = withPrefix(prefix, k)
		}
		out.HitTypes[hitType] = pk
	}
	return out
}

// HitFieldPolicy decides which hit entries the default mapper copies.
type HitFieldPolicy int

const (
	// HitFieldsByType copies the configured fields of known hit types and
	// nothing from hits of unknown types.
	HitFieldsByType HitFieldPolicy = iota
	// HitFieldsByTypeOrAll copies the configured fields of known hit types
	// and the whole hit for unknown types.
	HitFieldsByTypeOrAll
	// HitFieldsAll copies the whole hit regardless of type.
	HitFieldsAll
)

var hitFieldPolicyNames = map[HitFieldPolicy]string{
	HitFieldsByType:      "by_type",
	HitFieldsByTypeOrAll: "by_type_or_all",
	HitFieldsAll:         "all",
}

func (p HitFieldPolicy) String() string {
	if name, ok := hitFieldPolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("HitFieldPolicy(%d)", int(p))
}

func (p HitFieldPolicy) valid() bool {
	_, ok := hitFieldPolicyNames[p]
	return ok
}

// ParseHitFieldPolicy parses the String form of a policy.
func ParseHitFieldPolicy(s string) (HitFieldPolicy, error) {
	for p, name := range hitFieldPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown hit field policy %q", s)
}
