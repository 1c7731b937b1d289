package model

import "time"

// DefaultProfile the single local user profile
const DefaultProfile = "default"

// Preferences persisted user settings
type Preferences struct {
	Profile              string    `gorm:"primaryKey;type:varchar(64)" json:"profile"`
	CurrentNetwork       string    `gorm:"type:varchar(20)" json:"current_network"`
	LastConnectedWallet  string    `gorm:"type:varchar(100)" json:"last_connected_wallet"`
	LastConnectedAddress string    `gorm:"type:varchar(66)" json:"last_connected_address"`
	AutoConnectEnabled   bool      `gorm:"type:tinyint(1)" json:"auto_connect_enabled"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specify table name
func (Preferences) TableName() string {
	return "tb_preferences"
}

// NewDefaultPreferences preferences of a fresh install
func NewDefaultPreferences(profile string) *Preferences {
	if profile == "" {
		profile = DefaultProfile
	}
	return &Preferences{
		Profile:            profile,
		AutoConnectEnabled: true,
	}
}
