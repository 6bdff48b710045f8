// Package visitor holds records about who reached the platform: firewall
// interceptions, logins and the resolved location of their IP.
package visitor

import (
	"strings"
	"time"
)

// Address is a human readable location for an IP.
type Address struct {
	Formatted string `json:"formatted"`
	Province  string `json:"province,omitempty"`
	// Source names the resolver that produced the address.
	Source string `json:"source"`
}

func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Formatted) == ""
}

// Interception is a request blocked by the firewall.
type Interception struct {
	IP         string    `json:"ip"`
	RequestURL string    `json:"request_url"`
	UserAgent  string    `json:"user_agent,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Address    string    `json:"address,omitempty"`
	Time       time.Time `json:"time"`
}

// LoginType is how the user signed in.
type LoginType int

const (
	LoginDefault LoginType = iota
	LoginSSO
	LoginToken
)

// LoginRecord is appended to a user on every resolved login.
type LoginRecord struct {
	IP            string
	LoginType     LoginType
	LoginTime     time.Time
	PhysicAddress string
	Province      string
}

// SearchRank is a search keyword and how often it was queried.
type SearchRank struct {
	Keywords string `json:"keywords"`
	Count    int64  `json:"count"`
}

// TrackingEntry is one buffered page-view record.
type TrackingEntry struct {
	IP       string    `json:"ip"`
	Path     string    `json:"path"`
	Referrer string    `json:"referrer,omitempty"`
	Time     time.Time `json:"time"`
}
