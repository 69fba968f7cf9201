package hitproxy

import (
	"fmt"
	"net/url"
	"strconv"
)

// Get returns a tracker attribute by wire key. The proxy's key prefix is
// applied when key does not already carry it.
func (p *Proxy) Get(key string) (string, bool) {
	return p.tracker.Get(withPrefix(p.prefix, key))
}

// Set stores a tracker attribute by wire key.
func (p *Proxy) Set(key, value string) {
	p.tracker.Set(withPrefix(p.prefix, key), value)
}

func (p *Proxy) SetAppName(appName string)               { p.Set(KeyAppName, appName) }
func (p *Proxy) SetAppVersion(appVersion string)         { p.Set(KeyAppVersion, appVersion) }
func (p *Proxy) SetAppID(appID string)                   { p.Set(KeyAppID, appID) }
func (p *Proxy) SetAppInstallerID(appInstallerID string) { p.Set(KeyAppInstallerID, appInstallerID) }
func (p *Proxy) SetClientID(clientID string)             { p.Set(KeyClientID, clientID) }
func (p *Proxy) SetUserID(userID string)                 { p.Set(KeyUserID, userID) }
func (p *Proxy) SetScreenName(screenName string)         { p.Set(KeyScreenName, screenName) }
func (p *Proxy) SetLanguage(language string)             { p.Set(KeyLanguage, language) }
func (p *Proxy) SetLocation(location string)             { p.Set(KeyDocumentLocation, location) }
func (p *Proxy) SetHostname(hostname string)             { p.Set(KeyDocumentHostName, hostname) }
func (p *Proxy) SetPage(page string)                     { p.Set(KeyDocumentPath, page) }
func (p *Proxy) SetTitle(title string)                   { p.Set(KeyDocumentTitle, title) }
func (p *Proxy) SetReferrer(referrer string)             { p.Set(KeyDocumentReferrer, referrer) }
func (p *Proxy) SetEncoding(encoding string)             { p.Set(KeyEncoding, encoding) }
func (p *Proxy) SetScreenColors(screenColors string)     { p.Set(KeyScreenColors, screenColors) }
func (p *Proxy) SetViewportSize(viewportSize string)     { p.Set(KeyViewportSize, viewportSize) }

// SetSampleRate sets the sampling percentage (0-100).
func (p *Proxy) SetSampleRate(sampleRate float64) {
	p.Set(KeySampleRate, strconv.FormatFloat(sampleRate, 'f', -1, 64))
}

// SetScreenResolution sets the screen resolution as "WIDTHxHEIGHT".
func (p *Proxy) SetScreenResolution(width, height int) {
	p.Set(KeyScreenResolution, strconv.Itoa(width)+"x"+strconv.Itoa(height))
}

// SetAnonymizeIP asks the collector to anonymize the sender's IP.
func (p *Proxy) SetAnonymizeIP(anonymize bool) {
	if anonymize {
		p.Set(KeyAnonymizeIP, "1")
		return
	}
	p.Set(KeyAnonymizeIP, "")
}

// campaignParams maps campaign URL query parameters to wire keys.
var campaignParams = []struct {
	query string
	key   string
}{
	{"utm_campaign", KeyCampaignName},
	{"utm_source", KeyCampaignSource},
	{"utm_medium", KeyCampaignMedium},
	{"utm_term", KeyCampaignKeyword},
	{"utm_content", KeyCampaignContent},
	{"utm_id", KeyCampaignID},
	{"gclid", KeyAdWordsID},
	{"dclid", KeyDisplayAdsID},
}

// SetCampaignParamsOnNextHit reads utm_*, gclid and dclid from the query of
// rawURL. The values are set on the tracker for the next Send only, so both
// the forwarded hit and the recorded event carry them. A URL without
// campaign parameters cancels pending ones.
func (p *Proxy) SetCampaignParamsOnNextHit(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid campaign url: %w", err)
	}
	query := u.Query()

	var campaign map[string]string
	for _, cp := range campaignParams {
		if v := query.Get(cp.query); v != "" {
			if campaign == nil {
				campaign = make(map[string]string)
			}
			campaign[cp.key] = v
		}
	}

	p.campaignMu.Lock()
	p.campaign = campaign
	p.campaignMu.Unlock()
	return nil
}

func (p *Proxy) takeCampaign() map[string]string {
	p.campaignMu.Lock()
	defer p.campaignMu.Unlock()
	campaign := p.campaign
	p.campaign = nil
	return campaign
}

// clearCampaign removes campaign values unless they were overwritten.
func (p *Proxy) clearCampaign(campaign map[string]string) {
	for k, v := range campaign {
		if current, ok := p.Get(k); ok && current == v {
			p.Set(k, "")
		}
	}
}
