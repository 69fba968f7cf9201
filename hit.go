package hitproxy

import (
	"strconv"
	"strings"
	"time"
)

// Measurement Protocol v1 parameter keys, without the SDK-internal "&" prefix.
const (
	KeyHitType         = "t"
	KeyProtocolVersion = "v"
	KeyTrackingID      = "tid"
	KeyClientID        = "cid"
	KeyUserID          = "uid"
	KeyAnonymizeIP     = "aip"
	KeySampleRate      = "sf"

	KeyAppName        = "an"
	KeyAppVersion     = "av"
	KeyAppID          = "aid"
	KeyAppInstallerID = "aiid"

	KeyDocumentReferrer = "dr"
	KeyCampaignName     = "cn"
	KeyCampaignSource   = "cs"
	KeyCampaignMedium   = "cm"
	KeyCampaignKeyword  = "ck"
	KeyCampaignContent  = "cc"
	KeyCampaignID       = "ci"
	KeyAdWordsID        = "gclid"
	KeyDisplayAdsID     = "dclid"

	KeyDocumentLocation = "dl"
	KeyDocumentHostName = "dh"
	KeyDocumentPath     = "dp"
	KeyDocumentTitle    = "dt"
	KeyScreenName       = "cd"
	KeyEncoding         = "de"
	KeyLanguage         = "ul"
	KeyScreenColors     = "sd"
	KeyScreenResolution = "sr"
	KeyViewportSize     = "vp"

	KeyEventCategory = "ec"
	KeyEventAction   = "ea"
	KeyEventLabel    = "el"
	KeyEventValue    = "ev"

	KeySocialNetwork = "sn"
	KeySocialAction  = "sa"
	KeySocialTarget  = "st"

	KeyExceptionDescription = "exd"
	KeyExceptionFatal       = "exf"

	KeyTimingCategory = "utc"
	KeyTimingVariable = "utv"
	KeyTimingTime     = "utt"
	KeyTimingLabel    = "utl"
)

// Hit types.
const (
	HitTypePageView    = "pageview"
	HitTypeScreenView  = "screenview"
	HitTypeEvent       = "event"
	HitTypeTransaction = "transaction"
	HitTypeItem        = "item"
	HitTypeSocial      = "social"
	HitTypeException   = "exception"
	HitTypeTiming      = "timing"
)

// PageView returns a pageview hit.
func PageView() Hit {
	return Hit{KeyHitType: HitTypePageView}
}

// ScreenView returns a screenview hit. The screen name normally comes from
// the tracker; pass a non-empty name to set it on the hit itself.
func ScreenView(screenName string) Hit {
	h := Hit{KeyHitType: HitTypeScreenView}
	if screenName != "" {
		h[KeyScreenName] = screenName
	}
	return h
}

// Event returns an event hit. Label and value are set with With.
func Event(category, action string) Hit {
	return Hit{
		KeyHitType:       HitTypeEvent,
		KeyEventCategory: category,
		KeyEventAction:   action,
	}
}

// Social returns a social interaction hit.
func Social(network, action, target string) Hit {
	return Hit{
		KeyHitType:       HitTypeSocial,
		KeySocialNetwork: network,
		KeySocialAction:  action,
		KeySocialTarget:  target,
	}
}

// Exception returns an exception hit.
func Exception(description string, fatal bool) Hit {
	f := "0"
	if fatal {
		f = "1"
	}
	return Hit{
		KeyHitType:              HitTypeException,
		KeyExceptionDescription: description,
		KeyExceptionFatal:       f,
	}
}

// Timing returns a user timing hit; d is reported in milliseconds.
func Timing(category, variable string, d time.Duration) Hit {
	return Hit{
		KeyHitType:        HitTypeTiming,
		KeyTimingCategory: category,
		KeyTimingVariable: variable,
		KeyTimingTime:     strconv.FormatInt(d.Milliseconds(), 10),
	}
}

// With sets key on a hit under construction and returns it.
// It mutates h; use it only while building a hit.
func With(h Hit, key, value string) Hit {
	h[key] = value
	return h
}

// Prefixed returns a copy of h with prefix prepended to every key that does
// not already carry it.
func Prefixed(h Hit, prefix string) Hit {
	out := make(Hit, len(h))
	for k, v := range h {
		out[withPrefix(prefix, k)] = v
	}
	return out
}

func withPrefix(prefix, key string) string {
	if prefix == "" || strings.HasPrefix(key, prefix) {
		return key
	}
	return prefix + key
}
