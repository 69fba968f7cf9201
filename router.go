package hitproxy

import (
	"fmt"
	"sync/atomic"
)

// Mode selects which downstreams receive traffic.
type Mode int

const (
	// ModeSDKAndProxy forwards hits to the tracker and records custom events.
	ModeSDKAndProxy Mode = iota
	// ModeSDKOnly forwards hits to the tracker only.
	ModeSDKOnly
	// ModeProxyOnly records custom events only.
	ModeProxyOnly
)

var modeNames = map[Mode]string{
	ModeSDKAndProxy: "sdk_and_proxy",
	ModeSDKOnly:     "sdk_only",
	ModeProxyOnly:   "proxy_only",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) toggles() (sdk, proxy bool) {
	switch m {
	case ModeSDKOnly:
		return true, false
	case ModeProxyOnly:
		return false, true
	default:
		return true, true
	}
}

// ParseMode parses the String form of a mode.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

var standardHitTypes = []string{
	HitTypePageView, HitTypeScreenView, HitTypeEvent, HitTypeTransaction,
	HitTypeItem, HitTypeSocial, HitTypeException, HitTypeTiming,
}

// DefaultAllowedHitTypes returns a fresh list of every standard hit type.
// Pass it, or a subset, as Config.AllowedHitTypes to restrict proxying.
func DefaultAllowedHitTypes() []string {
	return append([]string(nil), standardHitTypes...)
}

// router decides per hit which downstreams receive it.
type router struct {
	sdk     atomic.Bool
	proxy   atomic.Bool
	allowed map[string]struct{}
}

func newRouter(mode Mode, allowedHitTypes []string) *router {
	r := &router{}
	r.setMode(mode)
	if len(allowedHitTypes) > 0 {
		r.allowed = make(map[string]struct{}, len(allowedHitTypes))
		for _, t := range allowedHitTypes {
			r.allowed[t] = struct{}{}
		}
	}
	return r
}

func (r *router) setMode(mode Mode) {
	sdk, proxy := mode.toggles()
	r.sdk.Store(sdk)
	r.proxy.Store(proxy)
}

// mode reports the current mode; false when both toggles are off.
func (r *router) mode() (Mode, bool) {
	sdk, proxy := r.sdk.Load(), r.proxy.Load()
	switch {
	case sdk && proxy:
		return ModeSDKAndProxy, true
	case sdk:
		return ModeSDKOnly, true
	case proxy:
		return ModeProxyOnly, true
	default:
		return 0, false
	}
}

// allows reports whether hitType passes the allow-list.
func (r *router) allows(hitType string) bool {
	if r.allowed == nil {
		return true
	}
	_, ok := r.allowed[hitType]
	return ok
}
