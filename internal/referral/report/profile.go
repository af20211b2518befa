package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/smallbiznis/referralaudit/internal/referral/profiling"
)

var ProfileHeader = []string{
	"table_name",
	"column_name",
	"data_type",
	"total_rows",
	"null_count",
	"null_percentage",
	"distinct_count",
	"sample_values",
}

// WriteProfile writes one row per profiled column.
func WriteProfile(w io.Writer, profiles []profiling.ColumnProfile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ProfileHeader); err != nil {
		return err
	}
	for _, p := range profiles {
		row := []string{
			p.Table,
			p.Column,
			p.DataType,
			strconv.Itoa(p.TotalRows),
			strconv.Itoa(p.NullCount),
			strconv.FormatFloat(p.NullPercentage, 'f', 2, 64),
			strconv.Itoa(p.DistinctCount),
			strings.Join(p.SampleValues, ", "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
