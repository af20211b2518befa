// Package profiling summarizes the data quality of each extract column.
package profiling

import (
	"math"
	"strconv"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
)

const sampleSize = 3

const (
	TypeInteger = "integer"
	TypeDecimal = "decimal"
	TypeText    = "text"
	TypeEmpty   = "empty"
)

// ColumnProfile describes one column of one extract.
type ColumnProfile struct {
	Table          string
	Column         string
	DataType       string
	TotalRows      int
	NullCount      int
	NullPercentage float64
	DistinctCount  int
	SampleValues   []string
}

// Profile profiles every loaded table in load order. Tables should already be
// null-normalized so that null tokens count as nulls.
func Profile(t domain.Tables) []ColumnProfile {
	var out []ColumnProfile
	out = append(out, profileTable(domain.TableLeads, t.Leads)...)
	out = append(out, profileTable(domain.TableReferrals, t.Referrals)...)
	out = append(out, profileTable(domain.TableReferralLogs, t.ReferralLogs)...)
	out = append(out, profileTable(domain.TableUsers, t.Users)...)
	out = append(out, profileTable(domain.TableStatuses, t.Statuses)...)
	out = append(out, profileTable(domain.TableRewards, t.Rewards)...)
	out = append(out, profileTable(domain.TableTransactions, t.Transactions)...)
	return out
}

type columnStats struct {
	nulls    int
	seen     map[string]struct{}
	samples  []string
	integers bool
	decimals bool
}

func profileTable[T any](table string, rows []T) []ColumnProfile {
	columns := domain.Columns[T]()
	stats := make([]*columnStats, len(columns))
	for i := range stats {
		stats[i] = &columnStats{seen: map[string]struct{}{}, integers: true, decimals: true}
	}

	for r := range rows {
		for i, v := range domain.Values(&rows[r]) {
			stats[i].add(v)
		}
	}

	out := make([]ColumnProfile, 0, len(columns))
	for i, name := range columns {
		s := stats[i]
		out = append(out, ColumnProfile{
			Table:          table,
			Column:         name,
			DataType:       s.dataType(),
			TotalRows:      len(rows),
			NullCount:      s.nulls,
			NullPercentage: percentage(s.nulls, len(rows)),
			DistinctCount:  len(s.seen),
			SampleValues:   s.samples,
		})
	}
	return out
}

func (s *columnStats) add(v *string) {
	if v == nil {
		s.nulls++
		return
	}
	if _, ok := s.seen[*v]; ok {
		return
	}
	s.seen[*v] = struct{}{}
	if len(s.samples) < sampleSize {
		s.samples = append(s.samples, *v)
	}
	if _, err := strconv.ParseInt(*v, 10, 64); err != nil {
		s.integers = false
	}
	if _, err := strconv.ParseFloat(*v, 64); err != nil {
		s.decimals = false
	}
}

func (s *columnStats) dataType() string {
	switch {
	case len(s.seen) == 0:
		return TypeEmpty
	case s.integers:
		return TypeInteger
	case s.decimals:
		return TypeDecimal
	default:
		return TypeText
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 100
}
