package stats

import (
	"sort"

	"github.com/danielfard/PruebaTecnica/internal/model"
)

// counter tracks frequencies while remembering first-appearance order,
// so ties rank in encounter order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) top(n int, total int) []model.RankEntry {
	keys := append([]string{}, c.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	entries := []model.RankEntry{}
	for _, key := range keys {
		count := c.counts[key]
		entries = append(entries, model.RankEntry{
			Key:        key,
			Count:      count,
			Percentage: float64(count) / float64(total) * 100,
		})
	}
	return entries
}

// Summarize counts the records and ranks the topN most frequent client
// IPs, queried hosts, and query types. Zero records yields empty ranks.
func Summarize(records []model.Record, topN int) model.Report {
	report := model.Report{
		TotalRecords:  len(records),
		ClientIPRank:  []model.RankEntry{},
		HostRank:      []model.RankEntry{},
		QueryTypeRank: []model.RankEntry{},
	}
	if len(records) == 0 || topN <= 0 {
		return report
	}

	clientIPs := newCounter()
	hosts := newCounter()
	types := newCounter()
	for _, record := range records {
		clientIPs.add(record.ClientIP)
		hosts.add(record.Name)
		types.add(record.Type)
	}

	report.ClientIPRank = clientIPs.top(topN, len(records))
	report.HostRank = hosts.top(topN, len(records))
	report.QueryTypeRank = types.top(topN, len(records))
	return report
}
