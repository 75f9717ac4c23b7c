package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// PlatformSettings is the effective, fully-resolved platform configuration.
type PlatformSettings struct {
	General      GeneralSettings      `json:"general" yaml:"general"`
	Session      SessionSettings      `json:"session" yaml:"session"`
	Payment      PaymentSettings      `json:"payment" yaml:"payment"`
	Notification NotificationSettings `json:"notification" yaml:"notification"`
}

type GeneralSettings struct {
	PlatformName      string `json:"platformName" yaml:"platformName"`
	SupportEmail      string `json:"supportEmail" yaml:"supportEmail"`
	MaintenanceMode   bool   `json:"maintenanceMode" yaml:"maintenanceMode"`
	AllowRegistration bool   `json:"allowRegistration" yaml:"allowRegistration"`
}

type SessionSettings struct {
	MinSessionDuration    int     `json:"minSessionDuration" yaml:"minSessionDuration"`
	MaxSessionDuration    int     `json:"maxSessionDuration" yaml:"maxSessionDuration"`
	CancellationPolicy    string  `json:"cancellationPolicy" yaml:"cancellationPolicy"`
	PlatformFeePercentage float64 `json:"platformFeePercentage" yaml:"platformFeePercentage"`
}

type PaymentSettings struct {
	Currency       string  `json:"currency" yaml:"currency"`
	MinimumPayout  float64 `json:"minimumPayout" yaml:"minimumPayout"`
	PayoutSchedule string  `json:"payoutSchedule" yaml:"payoutSchedule"`
	StripeEnabled  bool    `json:"stripeEnabled" yaml:"stripeEnabled"`
}

type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications" yaml:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications" yaml:"pushNotifications"`
	ReminderTime       int  `json:"reminderTime" yaml:"reminderTime"`
}

func DefaultSettings() PlatformSettings {
	return PlatformSettings{
		General: GeneralSettings{
			PlatformName:      "MentorConnect",
			SupportEmail:      "support@mentorconnect.app",
			AllowRegistration: true,
		},
		Session: SessionSettings{
			MinSessionDuration:    30,
			MaxSessionDuration:    120,
			PlatformFeePercentage: 10,
		},
		Payment: PaymentSettings{
			Currency:       "USD",
			MinimumPayout:  50,
			PayoutSchedule: "monthly",
			StripeEnabled:  true,
		},
		Notification: NotificationSettings{
			EmailNotifications: true,
			PushNotifications:  true,
			ReminderTime:       24,
		},
	}
}

// SettingsPatch is a partial update. A nil field leaves the current value
// untouched. Patches are applied in order: defaults, settings file, stored
// admin overrides.
type SettingsPatch struct {
	General      *GeneralPatch      `json:"general,omitempty" yaml:"general,omitempty"`
	Session      *SessionPatch      `json:"session,omitempty" yaml:"session,omitempty"`
	Payment      *PaymentPatch      `json:"payment,omitempty" yaml:"payment,omitempty"`
	Notification *NotificationPatch `json:"notification,omitempty" yaml:"notification,omitempty"`
}

type GeneralPatch struct {
	PlatformName      *string `json:"platformName,omitempty" yaml:"platformName,omitempty"`
	SupportEmail      *string `json:"supportEmail,omitempty" yaml:"supportEmail,omitempty"`
	MaintenanceMode   *bool   `json:"maintenanceMode,omitempty" yaml:"maintenanceMode,omitempty"`
	AllowRegistration *bool   `json:"allowRegistration,omitempty" yaml:"allowRegistration,omitempty"`
}

type SessionPatch struct {
	MinSessionDuration    *int     `json:"minSessionDuration,omitempty" yaml:"minSessionDuration,omitempty"`
	MaxSessionDuration    *int     `json:"maxSessionDuration,omitempty" yaml:"maxSessionDuration,omitempty"`
	CancellationPolicy    *string  `json:"cancellationPolicy,omitempty" yaml:"cancellationPolicy,omitempty"`
	PlatformFeePercentage *float64 `json:"platformFeePercentage,omitempty" yaml:"platformFeePercentage,omitempty"`
}

type PaymentPatch struct {
	Currency       *string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	MinimumPayout  *float64 `json:"minimumPayout,omitempty" yaml:"minimumPayout,omitempty"`
	PayoutSchedule *string  `json:"payoutSchedule,omitempty" yaml:"payoutSchedule,omitempty"`
	StripeEnabled  *bool    `json:"stripeEnabled,omitempty" yaml:"stripeEnabled,omitempty"`
}

type NotificationPatch struct {
	EmailNotifications *bool `json:"emailNotifications,omitempty" yaml:"emailNotifications,omitempty"`
	PushNotifications  *bool `json:"pushNotifications,omitempty" yaml:"pushNotifications,omitempty"`
	ReminderTime       *int  `json:"reminderTime,omitempty" yaml:"reminderTime,omitempty"`
}

// Apply returns s with every non-nil field of p written over it.
func (s PlatformSettings) Apply(p SettingsPatch) PlatformSettings {
	if g := p.General; g != nil {
		set(&s.General.PlatformName, g.PlatformName)
		set(&s.General.SupportEmail, g.SupportEmail)
		set(&s.General.MaintenanceMode, g.MaintenanceMode)
		set(&s.General.AllowRegistration, g.AllowRegistration)
	}
	if ss := p.Session; ss != nil {
		set(&s.Session.MinSessionDuration, ss.MinSessionDuration)
		set(&s.Session.MaxSessionDuration, ss.MaxSessionDuration)
		set(&s.Session.CancellationPolicy, ss.CancellationPolicy)
		set(&s.Session.PlatformFeePercentage, ss.PlatformFeePercentage)
	}
	if pp := p.Payment; pp != nil {
		set(&s.Payment.Currency, pp.Currency)
		set(&s.Payment.MinimumPayout, pp.MinimumPayout)
		set(&s.Payment.PayoutSchedule, pp.PayoutSchedule)
		set(&s.Payment.StripeEnabled, pp.StripeEnabled)
	}
	if n := p.Notification; n != nil {
		set(&s.Notification.EmailNotifications, n.EmailNotifications)
		set(&s.Notification.PushNotifications, n.PushNotifications)
		set(&s.Notification.ReminderTime, n.ReminderTime)
	}
	return s
}

// Merge folds next into p; fields set in next win.
func (p SettingsPatch) Merge(next SettingsPatch) SettingsPatch {
	if next.General != nil {
		if p.General == nil {
			p.General = &GeneralPatch{}
		}
		g := *p.General
		g.PlatformName = pick(g.PlatformName, next.General.PlatformName)
		g.SupportEmail = pick(g.SupportEmail, next.General.SupportEmail)
		g.MaintenanceMode = pick(g.MaintenanceMode, next.General.MaintenanceMode)
		g.AllowRegistration = pick(g.AllowRegistration, next.General.AllowRegistration)
		p.General = &g
	}
	if next.Session != nil {
		if p.Session == nil {
			p.Session = &SessionPatch{}
		}
		s := *p.Session
		s.MinSessionDuration = pick(s.MinSessionDuration, next.Session.MinSessionDuration)
		s.MaxSessionDuration = pick(s.MaxSessionDuration, next.Session.MaxSessionDuration)
		s.CancellationPolicy = pick(s.CancellationPolicy, next.Session.CancellationPolicy)
		s.PlatformFeePercentage = pick(s.PlatformFeePercentage, next.Session.PlatformFeePercentage)
		p.Session = &s
	}
	if next.Payment != nil {
		if p.Payment == nil {
			p.Payment = &PaymentPatch{}
		}
		pp := *p.Payment
		pp.Currency = pick(pp.Currency, next.Payment.Currency)
		pp.MinimumPayout = pick(pp.MinimumPayout, next.Payment.MinimumPayout)
		pp.PayoutSchedule = pick(pp.PayoutSchedule, next.Payment.PayoutSchedule)
		pp.StripeEnabled = pick(pp.StripeEnabled, next.Payment.StripeEnabled)
		p.Payment = &pp
	}
	if next.Notification != nil {
		if p.Notification == nil {
			p.Notification = &NotificationPatch{}
		}
		n := *p.Notification
		n.EmailNotifications = pick(n.EmailNotifications, next.Notification.EmailNotifications)
		n.PushNotifications = pick(n.PushNotifications, next.Notification.PushNotifications)
		n.ReminderTime = pick(n.ReminderTime, next.Notification.ReminderTime)
		p.Notification = &n
	}
	return p
}

// Validate checks the invariants of resolved settings.
func (s PlatformSettings) Validate() error {
	if s.Session.MinSessionDuration <= 0 {
		return errors.New("minSessionDuration must be positive")
	}
	if s.Session.MaxSessionDuration < s.Session.MinSessionDuration {
		return errors.New("maxSessionDuration must not be below minSessionDuration")
	}
	if s.Session.PlatformFeePercentage < 0 || s.Session.PlatformFeePercentage > 100 {
		return errors.New("platformFeePercentage must be between 0 and 100")
	}
	if s.Payment.MinimumPayout < 0 {
		return errors.New("minimumPayout must not be negative")
	}
	return nil
}

// LoadSettingsFile reads a YAML settings patch. A missing file is not an
// error and yields an empty patch.
func LoadSettingsFile(path string) (SettingsPatch, error) {
	var patch SettingsPatch
	if path == "" {
		return patch, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return patch, nil
		}
		return patch, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &patch); err != nil {
		return patch, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return patch, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func pick[T any](cur, next *T) *T {
	if next != nil {
		return next
	}
	return cur
}
