package models

import "time"

type UserAccount struct {
	JsonModel
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"unique"`
	Banned bool   `gorm:"default:false" json:"-"`
	LastIp string `json:"-"`
	//"STARTED_AUTH", "FINISHED_AUTH"
	Status   string   `json:"-"`
	GoogleID string   `json:"-"`
	AppleID  string   `json:"-"`
	Platform Platform `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`

	Subscription          Subscription `gorm:"default:free" json:"subscription"`
	SubscriptionExpiresAt *time.Time   `json:"-"`
	// superadmin override of the per-plan daily cap
	EnforcedDailyGenerationLimit *int32 `json:"enforced_daily_generation_limit"`

	// free-text style hint forwarded to the AI stylist, e.g. "minimal, dark colors"
	StylePreference *string `json:"style_preference"`

	ReceiveNotifications bool   `json:"receive_notifications"`
	IsSuperadmin         bool   `json:"is_superadmin"`
	AvatarURL            string `json:"avatar_url"`
}

// HasUnlimitedEntitlement reports whether the daily generation quota applies.
func (u *UserAccount) HasUnlimitedEntitlement() bool {
	return u.Subscription == ProPlus
}

// DailyGenerationLimit resolves the per-day outfit generation cap for the
// user's plan. Enforced limits set by support win over plan defaults.
func (u *UserAccount) DailyGenerationLimit() int32 {
	if u.EnforcedDailyGenerationLimit != nil {
		return *u.EnforcedDailyGenerationLimit
	}
	switch u.Subscription {
	case Pro:
		return 25
	case Trial:
		return 10
	default:
		return 3
	}
}

type UserPushToken struct {
	JsonModel
	UserAccountID uint
	UserAccount   UserAccount `json:"user_account"`
	Platform      Platform    `sql:"type:ENUM('ios', 'android', 'web')" json:"platform"`
	Token         string      `json:"token"`
	Active        bool        `gorm:"default:false" json:"-"`
}

type UserPushIn struct {
	Token    string `json:"token"`
	Platform string `json:"platform" validate:"required,platform"`
}

type UserSettingsIn struct {
	ReceiveNotifications bool    `json:"receive_notifications"`
	StylePreference      *string `json:"style_preference"`
}
