package models

import "time"

type PaymentMode string

const (
	PaymentModeFree PaymentMode = "free"
	PaymentModePaid PaymentMode = "paid"
)

func (m PaymentMode) Valid() bool {
	return m == PaymentModeFree || m == PaymentModePaid
}

const (
	SettingsID         = "app_settings"
	DefaultPaypalEmail = "paybey2@gmail.com"

	DefaultLogoURL        = "https://customer-assets.emergentagent.com/job_7aedad12-b510-4b3d-9a6d-74dcee097495/artifacts/5461ncmm_SIGMAT.png"
	DefaultLandingHeroURL = "https://images.unsplash.com/photo-1541800298525-46ec4a4e5c5c?crop=entropy&cs=srgb&fm=jpg&q=85&w=600"
	DefaultLoginBgURL     = "https://images.unsplash.com/photo-1607030698714-2dc69ead9bf7?crop=entropy&cs=srgb&fm=jpg&q=85&w=800"
	DefaultRegisterBgURL  = "https://images.unsplash.com/photo-1562862640-61aef0574543?crop=entropy&cs=srgb&fm=jpg&q=85&w=800"
)

// Settings is the single global configuration record.
type Settings struct {
	ID                 string      `json:"-" gorm:"primaryKey;size:64"`
	LogoURL            string      `json:"logo_url" gorm:"type:text"`
	BackgroundURL      string      `json:"background_url" gorm:"type:text"`
	LandingHeroURL     string      `json:"landing_hero_url" gorm:"type:text"`
	LoginBackgroundURL string      `json:"login_bg_url" gorm:"type:text"`
	RegisterBgURL      string      `json:"register_bg_url" gorm:"type:text"`
	PaymentMode        PaymentMode `json:"payment_mode" gorm:"size:10;default:'paid'"`
	PaypalEmail        string      `json:"paypal_email" gorm:"size:255"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                 SettingsID,
		LogoURL:            DefaultLogoURL,
		LandingHeroURL:     DefaultLandingHeroURL,
		LoginBackgroundURL: DefaultLoginBgURL,
		RegisterBgURL:      DefaultRegisterBgURL,
		PaymentMode:        PaymentModePaid,
		PaypalEmail:        DefaultPaypalEmail,
	}
}

// ChargesForMessages reports whether sending a message costs a point.
func (s Settings) ChargesForMessages() bool {
	return s.PaymentMode != PaymentModeFree
}

// SettingsUpdate carries the optional fields of an admin settings edit.
type SettingsUpdate struct {
	LogoURL            *string      `json:"logo_url"`
	BackgroundURL      *string      `json:"background_url"`
	LandingHeroURL     *string      `json:"landing_hero_url"`
	LoginBackgroundURL *string      `json:"login_bg_url"`
	RegisterBgURL      *string      `json:"register_bg_url"`
	PaymentMode        *PaymentMode `json:"payment_mode"`
	PaypalEmail        *string      `json:"paypal_email"`
}

// Apply writes the set fields of u onto s.
func (u SettingsUpdate) Apply(s *Settings) {
	if u.LogoURL != nil {
		s.LogoURL = *u.LogoURL
	}
	if u.BackgroundURL != nil {
		s.BackgroundURL = *u.BackgroundURL
	}
	if u.LandingHeroURL != nil {
		s.LandingHeroURL = *u.LandingHeroURL
	}
	if u.LoginBackgroundURL != nil {
		s.LoginBackgroundURL = *u.LoginBackgroundURL
	}
	if u.RegisterBgURL != nil {
		s.RegisterBgURL = *u.RegisterBgURL
	}
	if u.PaymentMode != nil {
		s.PaymentMode = *u.PaymentMode
	}
	if u.PaypalEmail != nil {
		s.PaypalEmail = *u.PaypalEmail
	}
}
