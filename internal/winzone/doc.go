// Package winzone maps Windows time-zone names to IANA zone names.
//
// Microsoft Graph reports task timestamps with the time zone the item was
// created in, which is often a Windows display zone such as
// "Pacific Standard Time" rather than an IANA name. This package resolves
// those names using the CLDR windowsZones mapping (territory "001") so the
// values can be fed to time.LoadLocation.
//
// The mapping table in zones.go is generated offline by the program in the
// gen subdirectory; it is never fetched at runtime.
//
// # Usage
//
//	loc, err := winzone.Location("W. Europe Standard Time")
//	// loc is Europe/Berlin
//
// Resolve never fails: names without a CLDR entry (including names that are
// already IANA zones) pass through unchanged.
package winzone
