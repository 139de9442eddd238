package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/danielfard/PruebaTecnica/internal/model"
	"github.com/miekg/dns"
	"go.uber.org/zap"
)

// minFields is the number of whitespace-separated tokens a BIND query
// log line must carry before the positional fields below are valid.
const minFields = 13

// timeLayout matches BIND's query log clock, e.g.
// "18-May-2021 16:34:13.003". Fractional digits are flexible.
const timeLayout = "02-Jan-2006 15:04:05.999999"

type Config struct {
	Logger *zap.Logger
}

// ParseFile reads a query log from disk. An unreadable file is fatal
// and yields no records.
func ParseFile(path string, cfg Config) ([]model.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	defer file.Close()
	return Parse(file, cfg)
}

// Parse converts a line-oriented query log into records. Malformed
// lines are skipped with a diagnostic; line order is preserved.
func Parse(r io.Reader, cfg Config) ([]model.Record, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	records := []model.Record{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) < minFields {
			logger.Debug("skipping short line",
				zap.Int("line", lineNo),
				zap.Int("fields", len(fields)),
			)
			continue
		}

		ts, err := time.Parse(timeLayout, fields[0]+" "+fields[1])
		if err != nil {
			logger.Debug("skipping line with unparseable timestamp",
				zap.Int("line", lineNo),
				zap.String("timestamp", fields[0]+" "+fields[1]),
			)
			continue
		}

		qtype := fields[11]
		if _, known := dns.StringToType[qtype]; !known {
			// Kept as-is: the collector treats the type as opaque.
			logger.Debug("unrecognized query type",
				zap.Int("line", lineNo),
				zap.String("type", qtype),
			)
		}

		clientIP, _, _ := strings.Cut(fields[6], "#")
		records = append(records, model.Record{
			Timestamp:  model.Timestamp(ts),
			Name:       fields[9],
			ClientIP:   clientIP,
			ClientName: fields[5],
			Type:       qtype,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read query log: %w", err)
	}
	return records, nil
}
