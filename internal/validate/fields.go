// Package validate checks raw upload rows and turns them into client records.
package validate

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// Accepted VLAN range, inclusive.
const (
	MinVLAN = 100
	MaxVLAN = 4092
)

var (
	macRegex   = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)
	indexRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// ValidIP reports whether s is a literal IPv4 or IPv6 address.
func ValidIP(s string) bool {
	_, err := netip.ParseAddr(s)
	return err == nil
}

// ValidMAC reports whether s is six colon-separated hex octets, any case.
func ValidMAC(s string) bool {
	return macRegex.MatchString(s)
}

// ValidVLAN reports whether s is an integer in [MinVLAN, MaxVLAN].
func ValidVLAN(s string) bool {
	_, ok := parseVLAN(s)
	return ok
}

// ValidIndex reports whether s, once trimmed, is exactly two upper case letters.
func ValidIndex(s string) bool {
	return indexRegex.MatchString(strings.TrimSpace(s))
}

func parseVLAN(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, v >= MinVLAN && v <= MaxVLAN
}

// CanonicalMAC upper-cases a MAC that already passed ValidMAC.
func CanonicalMAC(s string) string {
	return strings.ToUpper(s)
}
