package winzone

import "time"

// Resolve returns the IANA zone name for a Windows time-zone name.
// Names without a mapping are returned unchanged, so IANA names and
// unknown vendor names pass through. Resolve never fails.
func Resolve(windowsZone string) string {
	if iana, ok := windowsZones[windowsZone]; ok {
		return iana
	}
	return windowsZone
}

// Location resolves name and loads the corresponding time.Location.
// name may be a Windows zone name or an IANA one.
func Location(name string) (*time.Location, error) {
	return time.LoadLocation(Resolve(name))
}
