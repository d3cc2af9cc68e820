// Command gen regenerates the CLDR Windows to IANA zone table in zones.go.
//
// It fetches windowsZones.xml from the CLDR repository, keeps the
// territory "001" (world default) entries, and writes them out as a sorted
// Go map. Run it from the repository root:
//
//	go run ./internal/winzone/gen
package main

import (
	"bytes"
	"encoding/xml"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"time"
)

const zonesXMLURL = "https://raw.githubusercontent.com/unicode-org/cldr/main/common/supplemental/windowsZones.xml"

type supplementalData struct {
	MapZones []mapZone `xml:"windowsZones>mapTimezones>mapZone"`
}

type mapZone struct {
	Other     string `xml:"other,attr"`
	Territory string `xml:"territory,attr"`
	Type      string `xml:"type,attr"`
}

func main() {
	output := flag.String("o", "internal/winzone/zones.go", "output file")
	flag.Parse()

	zones, err := fetchZones(zonesXMLURL)
	if err != nil {
		log.Fatalf("fetch zones: %v", err)
	}

	src, err := render(zones)
	if err != nil {
		log.Fatalf("render zones: %v", err)
	}

	if err := os.WriteFile(*output, src, 0o644); err != nil {
		log.Fatalf("write %s: %v", *output, err)
	}
	fmt.Printf("wrote %d zones to %s\n", len(zones), *output)
}

func fetchZones(url string) (map[string]string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var data supplementalData
	if err := xml.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing windowsZones.xml: %w", err)
	}

	// The world default ("001") entry carries the canonical IANA zone for
	// each Windows name; per-territory refinements are ignored.
	zones := make(map[string]string)
	for _, mz := range data.MapZones {
		if mz.Territory == "001" {
			zones[mz.Other] = mz.Type
		}
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("no territory 001 entries found")
	}
	return zones, nil
}

func render(zones map[string]string) ([]byte, error) {
	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	buf.WriteString("// Code generated by internal/winzone/gen. DO NOT EDIT.\n")
	buf.WriteString("//\n")
	buf.WriteString("// Source: CLDR windowsZones.xml, territory \"001\" entries.\n\n")
	buf.WriteString("package winzone\n\n")
	buf.WriteString("var windowsZones = map[string]string{\n")
	for _, name := range names {
		fmt.Fprintf(&buf, "\t%q: %q,\n", name, zones[name])
	}
	buf.WriteString("}\n")

	return format.Source(buf.Bytes())
}
