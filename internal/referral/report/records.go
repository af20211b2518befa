// Package report renders the audit outputs: the annotated referral report,
// the data profile and the PDF summary.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
)

// TimeLayout formats naive local instants in every output.
const TimeLayout = "2006-01-02 15:04:05"

// RecordHeader lists the report columns in output order.
var RecordHeader = []string{
	"referral_details_id",
	"referral_id",
	"referral_source",
	"referral_source_category",
	"referral_at",
	"referrer_id",
	"referrer_name",
	"referrer_phone_number",
	"referrer_homeclub",
	"referee_id",
	"referee_name",
	"referee_phone",
	"referral_status",
	"num_reward_days",
	"transaction_id",
	"transaction_status",
	"transaction_at",
	"transaction_location",
	"transaction_type",
	"updated_at",
	"reward_granted_at",
	"is_business_logic_valid",
	"fraud_reason",
}

// WriteRecords writes the header and one row per record, in record order.
// Absent values are written as empty cells.
func WriteRecords(w io.Writer, recs []domain.ReferralRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeader); err != nil {
		return err
	}
	for i := range recs {
		if err := cw.Write(recordRow(&recs[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(r *domain.ReferralRecord) []string {
	return []string{
		strconv.FormatInt(r.ReferralDetailsID, 10),
		str(r.ReferralID),
		str(r.ReferralSource),
		str(r.ReferralSourceCategory),
		instant(r.ReferralAt),
		str(r.ReferrerID),
		str(r.ReferrerName),
		str(r.ReferrerPhoneNumber),
		str(r.ReferrerHomeclub),
		str(r.RefereeID),
		str(r.RefereeName),
		str(r.RefereePhone),
		str(r.ReferralStatus),
		integer(r.NumRewardDays),
		str(r.TransactionID),
		str(r.TransactionStatus),
		instant(r.TransactionAt),
		str(r.TransactionLocation),
		str(r.TransactionType),
		instant(r.UpdatedAt),
		instant(r.RewardGrantedAt),
		boolean(r.IsBusinessLogicValid),
		str(r.FraudReason),
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func instant(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.Format(TimeLayout)
}

func integer(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func boolean(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
