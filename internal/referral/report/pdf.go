package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"github.com/smallbiznis/referralaudit/internal/referral/fraud"
)

// MaxFlaggedRows caps the flagged record listing; the CSV report has all rows.
const MaxFlaggedRows = 200

type SummaryData struct {
	RunID       string
	GeneratedAt time.Time
	Source      string
	Summary     fraud.Summary
	Records     []domain.ReferralRecord
}

var (
	headingText = props.Text{Size: 9, Style: fontstyle.Bold}
	cellText    = props.Text{Size: 8}
	numberText  = props.Text{Size: 8, Align: align.Right}
)

// RenderSummaryPDF renders the run header, verdict totals, the rule catalog
// with counts and the flagged records.
func RenderSummaryPDF(data SummaryData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Referral Fraud Audit", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(18,
		col.New(6).Add(
			text.New("Run: "+data.RunID, props.Text{Top: 0, Size: 9}),
			text.New("Generated: "+data.GeneratedAt.Format(TimeLayout), props.Text{Top: 4, Size: 9}),
			text.New("Source: "+data.Source, props.Text{Top: 8, Size: 9}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Referrals: %d", data.Summary.Total), props.Text{Top: 0, Size: 9, Align: align.Right}),
			text.New(fmt.Sprintf("Valid: %d", data.Summary.Valid), props.Text{Top: 4, Size: 9, Align: align.Right}),
			text.New(fmt.Sprintf("Flagged: %d", data.Summary.Flagged), props.Text{Top: 8, Size: 9, Align: align.Right, Style: fontstyle.Bold}),
		),
	)

	// Rule catalog
	m.AddRow(10,
		text.NewCol(12, "Checks", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(7,
		text.NewCol(1, "#", headingText),
		text.NewCol(3, "Check", headingText),
		text.NewCol(4, "Description", headingText),
		text.NewCol(3, "Action required", headingText),
		text.NewCol(1, "Count", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for i, rc := range data.Summary.ByRule {
		m.AddRow(14,
			text.NewCol(1, strconv.Itoa(i+1), cellText),
			text.NewCol(3, rc.Rule.CheckType, cellText),
			text.NewCol(4, rc.Rule.Description, cellText),
			text.NewCol(3, rc.Rule.Action, cellText),
			text.NewCol(1, strconv.Itoa(rc.Count), numberText),
		)
	}

	// Flagged records
	m.AddRow(10,
		text.NewCol(12, "Flagged referrals", props.Text{Size: 12, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(7,
		text.NewCol(2, "Referral", headingText),
		text.NewCol(3, "Referrer", headingText),
		text.NewCol(2, "Referral at", headingText),
		text.NewCol(5, "Reason", headingText),
	)

	listed := 0
	for i := range data.Records {
		rec := &data.Records[i]
		if rec.IsBusinessLogicValid {
			continue
		}
		if listed == MaxFlaggedRows {
			break
		}
		listed++
		m.AddRow(8,
			text.NewCol(2, str(rec.ReferralID), cellText),
			text.NewCol(3, str(rec.ReferrerName), cellText),
			text.NewCol(2, instant(rec.ReferralAt), cellText),
			text.NewCol(5, str(rec.FraudReason), cellText),
		)
	}
	if listed == 0 {
		m.AddRow(8, text.NewCol(12, "No referrals were flagged.", cellText))
	} else if data.Summary.Flagged > listed {
		m.AddRow(8, text.NewCol(12,
			fmt.Sprintf("%d more flagged referrals are listed in the CSV report.", data.Summary.Flagged-listed),
			props.Text{Size: 8, Style: fontstyle.Italic},
		))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
