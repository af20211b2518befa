// Package domain contains the raw extract rows and the assembled referral record.
//
// Raw rows keep every column as an optional string exactly as it arrived from
// the upstream extract. Typed values are only derived during assembly, where a
// malformed value degrades to absent instead of failing the run.
package domain

import "time"

// LeadLog is one row of the lead extract.
type LeadLog struct {
	ID                *string `csv:"id" gorm:"column:id"`
	LeadID            *string `csv:"lead_id" gorm:"column:lead_id"`
	SourceCategory    *string `csv:"source_category" gorm:"column:source_category"`
	PreferredLocation *string `csv:"preferred_location" gorm:"column:preferred_location"`
	TimezoneLocation  *string `csv:"timezone_location" gorm:"column:timezone_location"`
	CurrentStatus     *string `csv:"current_status" gorm:"column:current_status"`
	CreatedAt         *string `csv:"created_at" gorm:"column:created_at"`
}

func (LeadLog) TableName() string { return "lead_log" }

// UserReferral is the base referral table; every output record starts here.
type UserReferral struct {
	ReferralID           *string `csv:"referral_id" gorm:"column:referral_id"`
	ReferralSource       *string `csv:"referral_source" gorm:"column:referral_source"`
	ReferralAt           *string `csv:"referral_at" gorm:"column:referral_at"`
	ReferrerID           *string `csv:"referrer_id" gorm:"column:referrer_id"`
	RefereeID            *string `csv:"referee_id" gorm:"column:referee_id"`
	RefereeName          *string `csv:"referee_name" gorm:"column:referee_name"`
	RefereePhone         *string `csv:"referee_phone" gorm:"column:referee_phone"`
	ReferralRewardID     *string `csv:"referral_reward_id" gorm:"column:referral_reward_id"`
	TransactionID        *string `csv:"transaction_id" gorm:"column:transaction_id"`
	UserReferralStatusID *string `csv:"user_referral_status_id" gorm:"column:user_referral_status_id"`
	UpdatedAt            *string `csv:"updated_at" gorm:"column:updated_at"`
}

func (UserReferral) TableName() string { return "user_referrals" }

// UserReferralLog records reward activity for a referral. Only the latest
// entry per referral is used.
type UserReferralLog struct {
	ID                  *string `csv:"id" gorm:"column:id"`
	UserReferralID      *string `csv:"user_referral_id" gorm:"column:user_referral_id"`
	SourceTransactionID *string `csv:"source_transaction_id" gorm:"column:source_transaction_id"`
	CreatedAt           *string `csv:"created_at" gorm:"column:created_at"`
	IsRewardGranted     *string `csv:"is_reward_granted" gorm:"column:is_reward_granted"`
}

func (UserReferralLog) TableName() string { return "user_referral_logs" }

// UserLog is one row of the member extract.
type UserLog struct {
	ID                    *string `csv:"id" gorm:"column:id"`
	UserID                *string `csv:"user_id" gorm:"column:user_id"`
	Name                  *string `csv:"name" gorm:"column:name"`
	PhoneNumber           *string `csv:"phone_number" gorm:"column:phone_number"`
	Homeclub              *string `csv:"homeclub" gorm:"column:homeclub"`
	TimezoneHomeclub      *string `csv:"timezone_homeclub" gorm:"column:timezone_homeclub"`
	MembershipExpiredDate *string `csv:"membership_expired_date" gorm:"column:membership_expired_date"`
	IsDeleted             *string `csv:"is_deleted" gorm:"column:is_deleted"`
}

func (UserLog) TableName() string { return "user_logs" }

type ReferralStatus struct {
	ID          *string `csv:"id" gorm:"column:id"`
	Description *string `csv:"description" gorm:"column:description"`
	CreatedAt   *string `csv:"created_at" gorm:"column:created_at"`
}

func (ReferralStatus) TableName() string { return "user_referral_statuses" }

type ReferralReward struct {
	ID          *string `csv:"id" gorm:"column:id"`
	RewardValue *string `csv:"reward_value" gorm:"column:reward_value"`
	RewardType  *string `csv:"reward_type" gorm:"column:reward_type"`
	CreatedAt   *string `csv:"created_at" gorm:"column:created_at"`
}

func (ReferralReward) TableName() string { return "referral_rewards" }

type PaidTransaction struct {
	TransactionID       *string `csv:"transaction_id" gorm:"column:transaction_id"`
	TransactionStatus   *string `csv:"transaction_status" gorm:"column:transaction_status"`
	TransactionAt       *string `csv:"transaction_at" gorm:"column:transaction_at"`
	TransactionLocation *string `csv:"transaction_location" gorm:"column:transaction_location"`
	TransactionType     *string `csv:"transaction_type" gorm:"column:transaction_type"`
	TimezoneTransaction *string `csv:"timezone_transaction" gorm:"column:timezone_transaction"`
}

func (PaidTransaction) TableName() string { return "paid_transactions" }

// Tables is the full set of extracts for one run. A nil slice means the table
// was never loaded, which is fatal; an empty slice is a valid, empty table.
type Tables struct {
	Leads        []LeadLog
	Referrals    []UserReferral
	ReferralLogs []UserReferralLog
	Users        []UserLog
	Statuses     []ReferralStatus
	Rewards      []ReferralReward
	Transactions []PaidTransaction
}

const (
	TableLeads        = "lead_log"
	TableReferrals    = "user_referrals"
	TableReferralLogs = "user_referral_logs"
	TableUsers        = "user_logs"
	TableStatuses     = "user_referral_statuses"
	TableRewards      = "referral_rewards"
	TableTransactions = "paid_transactions"
)

// TableNames lists the extracts in load order.
var TableNames = []string{
	TableLeads,
	TableReferrals,
	TableReferralLogs,
	TableUsers,
	TableStatuses,
	TableRewards,
	TableTransactions,
}

// Missing returns the names of tables that were never loaded.
func (t Tables) Missing() []string {
	loaded := map[string]bool{
		TableLeads:        t.Leads != nil,
		TableReferrals:    t.Referrals != nil,
		TableReferralLogs: t.ReferralLogs != nil,
		TableUsers:        t.Users != nil,
		TableStatuses:     t.Statuses != nil,
		TableRewards:      t.Rewards != nil,
		TableTransactions: t.Transactions != nil,
	}
	var missing []string
	for _, name := range TableNames {
		if !loaded[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

const (
	SourceUserSignUp       = "User Sign Up"
	SourceDraftTransaction = "Draft Transaction"
	SourceLead             = "Lead"

	CategoryOnline  = "Online"
	CategoryOffline = "Offline"

	StatusBerhasil      = "Berhasil"
	StatusMenunggu      = "Menunggu"
	StatusTidakBerhasil = "Tidak Berhasil"

	TransactionPaid          = "Paid"
	TransactionNoTransaction = "No Transaction"
)

// ReferralRecord is one denormalized referral after assembly. Pointer fields
// are absent when the source value was missing or could not be interpreted.
// Instants are naive local wall-clock times stored with time.UTC as location.
type ReferralRecord struct {
	ReferralDetailsID      int64
	ReferralID             *string
	ReferralSource         *string
	ReferralSourceCategory *string
	ReferralAt             *time.Time

	ReferrerID                 *string
	ReferrerName               *string
	ReferrerPhoneNumber        *string
	ReferrerHomeclub           *string
	ReferrerTimezone           *string
	ReferrerMembershipExpiryAt *time.Time
	ReferrerIsDeleted          bool

	RefereeID    *string
	RefereeName  *string
	RefereePhone *string

	ReferralStatus  *string
	NumRewardDays   *int
	IsRewardGranted bool

	TransactionID       *string
	TransactionStatus   *string
	TransactionAt       *time.Time
	TransactionLocation *string
	TransactionType     *string

	UpdatedAt       *time.Time
	RewardGrantedAt *time.Time

	IsBusinessLogicValid bool
	FraudReason          *string
}

// HasReward reports whether a positive reward was assigned.
func (r *ReferralRecord) HasReward() bool {
	return r.NumRewardDays != nil && *r.NumRewardDays > 0
}

// StatusIs compares the referral status against a label; absent never matches.
func (r *ReferralRecord) StatusIs(label string) bool {
	return r.ReferralStatus != nil && *r.ReferralStatus == label
}

// SetVerdict records the rule engine outcome keeping the validity flag consistent.
func (r *ReferralRecord) SetVerdict(reason *string) {
	r.FraudReason = reason
	r.IsBusinessLogicValid = reason == nil
}
