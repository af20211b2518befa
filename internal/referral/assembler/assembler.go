package assembler

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/referralaudit/internal/referral/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Config controls zone fallback and boolean parsing.
type Config struct {
	FallbackTimezone string
	TruthyTokens     []string
}

// DegradeObserver is notified whenever a present source value could not be
// turned into a field value and the field was left absent.
type DegradeObserver interface {
	FieldDegraded(field string)
}

const (
	FieldReferralAt      = "referral_at"
	FieldUpdatedAt       = "updated_at"
	FieldRewardGrantedAt = "reward_granted_at"
	FieldTransactionAt   = "transaction_at"
	FieldMembershipExp   = "membership_expired_date"
	FieldNumRewardDays   = "num_reward_days"
	FieldSourceCategory  = "referral_source_category"
	FieldReferralLog     = "join_referral_log"
	FieldStatus          = "join_status"
	FieldReward          = "join_reward"
	FieldTransaction     = "join_transaction"
	FieldReferrer        = "join_referrer"
	FieldLead            = "join_lead"
)

type Params struct {
	fx.In

	Config   Config
	Log      *zap.Logger
	Observer DegradeObserver `optional:"true"`
}

type Assembler struct {
	log      *zap.Logger
	observer DegradeObserver
	fallback string
	truthy   truthySet
}

func New(p Params) (*Assembler, error) {
	if strings.TrimSpace(p.Config.FallbackTimezone) == "" {
		return nil, fmt.Errorf("%w: fallback timezone is required", domain.ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(p.Config.FallbackTimezone); err != nil {
		return nil, fmt.Errorf("%w: fallback timezone %q: %v", domain.ErrInvalidConfig, p.Config.FallbackTimezone, err)
	}
	tokens := p.Config.TruthyTokens
	if len(tokens) == 0 {
		tokens = []string{"TRUE"}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		log:      log.Named("referral.assembler"),
		observer: p.Observer,
		fallback: p.Config.FallbackTimezone,
		truthy:   newTruthySet(tokens),
	}, nil
}

// run holds the per-batch state of one Assemble call.
type run struct {
	*Assembler
	zones *zoneCache
	title cases.Caser
}

// Assemble joins the extracts into one record per base referral, in base table order.
func (a *Assembler) Assemble(t domain.Tables) ([]domain.ReferralRecord, error) {
	if missing := t.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingTable, strings.Join(missing, ", "))
	}

	// 1. null tokens
	Normalize(t)

	// 2-4. deduplicated indexes
	users := firstByKey(t.Users, func(u *domain.UserLog) *string { return u.UserID })
	leads := latestByKey(t.Leads,
		func(l *domain.LeadLog) *string { return l.LeadID },
		func(l *domain.LeadLog) *string { return l.CreatedAt },
	)
	logs := latestByKey(t.ReferralLogs,
		func(l *domain.UserReferralLog) *string { return l.UserReferralID },
		func(l *domain.UserReferralLog) *string { return l.CreatedAt },
	)
	statuses := firstByKey(t.Statuses, func(s *domain.ReferralStatus) *string { return s.ID })
	rewards := firstByKey(t.Rewards, func(r *domain.ReferralReward) *string { return r.ID })
	transactions := firstByKey(t.Transactions, func(tx *domain.PaidTransaction) *string { return tx.TransactionID })

	r := &run{
		Assembler: a,
		zones:     newZoneCache(),
		title:     cases.Title(language.Und),
	}

	records := make([]domain.ReferralRecord, 0, len(t.Referrals))
	for i := range t.Referrals {
		ref := &t.Referrals[i]

		// 5. left joins
		refLog := lookup(logs, ref.ReferralID)
		status := lookup(statuses, ref.UserReferralStatusID)
		reward := lookup(rewards, ref.ReferralRewardID)
		tx := lookup(transactions, ref.TransactionID)
		user := lookup(users, ref.ReferrerID)
		lead := lookup(leads, ref.RefereeID)

		r.noteJoin(FieldReferralLog, ref.ReferralID, refLog != nil)
		r.noteJoin(FieldStatus, ref.UserReferralStatusID, status != nil)
		r.noteJoin(FieldReward, ref.ReferralRewardID, reward != nil)
		r.noteJoin(FieldTransaction, ref.TransactionID, tx != nil)
		r.noteJoin(FieldReferrer, ref.ReferrerID, user != nil)

		rec := domain.ReferralRecord{
			ReferralDetailsID: int64(i + 1),
			ReferralID:        ref.ReferralID,
			ReferralSource:    ref.ReferralSource,
			ReferrerID:        ref.ReferrerID,
			RefereeID:         ref.RefereeID,
			RefereeName:       ref.RefereeName,
			RefereePhone:      ref.RefereePhone,
		}

		if refLog != nil {
			rec.IsRewardGranted = r.truthy.parse(refLog.IsRewardGranted)
		}
		if status != nil {
			rec.ReferralStatus = status.Description
		}
		if reward != nil {
			rec.NumRewardDays = ParseRewardDays(reward.RewardValue)
			r.noteParsed(FieldNumRewardDays, reward.RewardValue, rec.NumRewardDays != nil)
		}

		var leadZone, leadCategory *string
		if lead != nil {
			leadZone = lead.TimezoneLocation
			leadCategory = lead.SourceCategory
		}

		if user != nil {
			rec.ReferrerName = user.Name
			rec.ReferrerPhoneNumber = user.PhoneNumber
			rec.ReferrerHomeclub = user.Homeclub
			rec.ReferrerTimezone = user.TimezoneHomeclub
			rec.ReferrerIsDeleted = r.truthy.parse(user.IsDeleted)
			rec.ReferrerMembershipExpiryAt = parseInstant(user.MembershipExpiredDate)
			r.noteParsed(FieldMembershipExp, user.MembershipExpiredDate, rec.ReferrerMembershipExpiryAt != nil)
		}

		// 6. source category
		rec.ReferralSourceCategory = sourceCategory(rec.ReferralSource, leadCategory)
		if rec.ReferralSource != nil && strings.EqualFold(strings.TrimSpace(*rec.ReferralSource), domain.SourceLead) {
			r.noteJoin(FieldLead, ref.RefereeID, lead != nil)
		}

		// 7. zone resolution
		rec.ReferralAt = r.convert(FieldReferralAt, ref.ReferralAt, firstPresent(rec.ReferrerTimezone, leadZone))
		rec.UpdatedAt = r.convert(FieldUpdatedAt, ref.UpdatedAt, firstPresent(rec.ReferrerTimezone, &r.fallback))
		if refLog != nil {
			rec.RewardGrantedAt = r.convert(FieldRewardGrantedAt, refLog.CreatedAt, firstPresent(rec.ReferrerTimezone, &r.fallback))
		}
		if tx != nil {
			rec.TransactionID = tx.TransactionID
			rec.TransactionStatus = tx.TransactionStatus
			rec.TransactionLocation = tx.TransactionLocation
			rec.TransactionType = tx.TransactionType
			rec.TransactionAt = r.convert(FieldTransactionAt, tx.TransactionAt, tx.TimezoneTransaction)
		}

		// 8. title case
		rec.ReferrerName = r.titleCase(rec.ReferrerName)
		rec.RefereeName = r.titleCase(rec.RefereeName)
		rec.ReferralStatus = r.titleCase(rec.ReferralStatus)
		rec.TransactionStatus = r.titleCase(rec.TransactionStatus)
		rec.TransactionType = r.titleCase(rec.TransactionType)
		rec.ReferralSource = r.titleCase(rec.ReferralSource)
		rec.ReferralSourceCategory = r.titleCase(rec.ReferralSourceCategory)
		if !validCategory(rec.ReferralSourceCategory) {
			if rec.ReferralSourceCategory != nil {
				r.degraded(FieldSourceCategory, rec.ReferralID)
			}
			rec.ReferralSourceCategory = nil
		}

		records = append(records, rec)
	}

	a.log.Debug("referrals assembled",
		zap.Int("referrals", len(records)),
		zap.Int("users", len(users)),
		zap.Int("leads", len(leads)),
		zap.Int("referral_logs", len(logs)),
	)
	return records, nil
}

// Normalize applies null normalization to every table without assembling.
// It is idempotent, so profiling can run on the same tables before Assemble.
func Normalize(t domain.Tables) {
	domain.MapValues(t.Leads, normalizeNull)
	domain.MapValues(t.Referrals, normalizeNull)
	domain.MapValues(t.ReferralLogs, normalizeNull)
	domain.MapValues(t.Users, normalizeNull)
	domain.MapValues(t.Statuses, normalizeNull)
	domain.MapValues(t.Rewards, normalizeNull)
	domain.MapValues(t.Transactions, normalizeNull)
}

func sourceCategory(source, leadCategory *string) *string {
	if source == nil {
		return nil
	}
	switch value := strings.TrimSpace(*source); {
	case strings.EqualFold(value, domain.SourceUserSignUp):
		category := domain.CategoryOnline
		return &category
	case strings.EqualFold(value, domain.SourceDraftTransaction):
		category := domain.CategoryOffline
		return &category
	case strings.EqualFold(value, domain.SourceLead):
		return leadCategory
	default:
		return nil
	}
}

func validCategory(v *string) bool {
	return v != nil && (*v == domain.CategoryOnline || *v == domain.CategoryOffline)
}

func (r *run) titleCase(v *string) *string {
	if v == nil {
		return nil
	}
	out := titleWords(r.title, *v)
	return &out
}

func (r *run) convert(field string, raw *string, zone *string) *time.Time {
	if raw == nil {
		return nil
	}
	utc := parseInstant(raw)
	local := r.zones.toLocal(utc, zone)
	if local == nil {
		r.log.Debug("timestamp degraded to absent",
			zap.String("field", field),
			zap.String("value", *raw),
			zap.Stringp("zone", zone),
		)
		r.notify(field)
	}
	return local
}

func (r *run) noteParsed(field string, raw *string, ok bool) {
	if raw == nil || ok {
		return
	}
	r.log.Debug("value degraded to absent", zap.String("field", field), zap.String("value", *raw))
	r.notify(field)
}

func (r *run) noteJoin(field string, key *string, matched bool) {
	if key == nil || matched {
		return
	}
	r.degraded(field, key)
}

func (r *run) degraded(field string, key *string) {
	r.log.Debug("unresolved value", zap.String("field", field), zap.Stringp("key", key))
	r.notify(field)
}

func (r *run) notify(field string) {
	if r.observer != nil {
		r.observer.FieldDegraded(field)
	}
}
