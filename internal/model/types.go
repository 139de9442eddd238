package model

import (
	"encoding/json"
	"time"
)

// wireFormat is the collector's timestamp encoding: ISO-8601 with
// microseconds, always UTC with a trailing Z.
const wireFormat = "2006-01-02T15:04:05.000000"

// Timestamp normalizes to UTC when serialized.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(wireFormat+"Z", s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(wireFormat) + "Z"
}

// Record is one parsed DNS query log entry. Records are plain values:
// no identity beyond their fields, never mutated after the parser emits
// them.
type Record struct {
	Timestamp  Timestamp `json:"timestamp"`
	Name       string    `json:"name"`
	ClientIP   string    `json:"client_ip"`
	ClientName string    `json:"client_name"`
	Type       string    `json:"type"`
}

// RankEntry is one row of a frequency rank.
type RankEntry struct {
	Key        string  `json:"key"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Report struct {
	TotalRecords  int         `json:"total_records"`
	ClientIPRank  []RankEntry `json:"client_ip_rank"`
	HostRank      []RankEntry `json:"host_rank"`
	QueryTypeRank []RankEntry `json:"query_type_rank"`
}
