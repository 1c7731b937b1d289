package dao

import (
	"errors"

	"walrus-extend/database"
	"walrus-extend/model"
)

// PreferencesDAO preferences data access object
type PreferencesDAO struct {
	db      database.Database
	profile string
}

// NewPreferencesDAO create preferences DAO for the default profile
func NewPreferencesDAO(db database.Database) *PreferencesDAO {
	return &PreferencesDAO{db: db, profile: model.DefaultProfile}
}

// Load returns stored preferences, or defaults when none were saved
func (dao *PreferencesDAO) Load() (*model.Preferences, error) {
	prefs, err := dao.db.GetPreferences(dao.profile)
	if errors.Is(err, database.ErrNotFound) {
		return model.NewDefaultPreferences(dao.profile), nil
	}
	return prefs, err
}

// Update loads, mutates and saves the preferences
func (dao *PreferencesDAO) Update(mutate func(p *model.Preferences)) (*model.Preferences, error) {
	prefs, err := dao.Load()
	if err != nil {
		return nil, err
	}
	mutate(prefs)
	prefs.Profile = dao.profile
	if err := dao.db.SavePreferences(prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetCurrentNetwork persists the active network
func (dao *PreferencesDAO) SetCurrentNetwork(network string) error {
	_, err := dao.Update(func(p *model.Preferences) { p.CurrentNetwork = network })
	return err
}

// SetLastWallet persists the last connected wallet; empty values clear it
func (dao *PreferencesDAO) SetLastWallet(wallet, address string) error {
	_, err := dao.Update(func(p *model.Preferences) {
		p.LastConnectedWallet = wallet
		p.LastConnectedAddress = address
	})
	return err
}

// SetAutoConnect persists the auto-connect flag
func (dao *PreferencesDAO) SetAutoConnect(enabled bool) error {
	_, err := dao.Update(func(p *model.Preferences) { p.AutoConnectEnabled = enabled })
	return err
}
