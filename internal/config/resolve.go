package config

import (
	"os"
	"strings"
)

// EnvMailboxID supplies a default mailbox when none is saved.
const EnvMailboxID = "HELPSCOUT_MAILBOX_ID"

// DefaultMailbox resolves the default mailbox id: the saved preference,
// else HELPSCOUT_MAILBOX_ID, else "".
func DefaultMailbox() string {
	if prefs, err := LoadPreferences(); err == nil && prefs.DefaultMailbox != "" {
		return prefs.DefaultMailbox
	}
	return strings.TrimSpace(os.Getenv(EnvMailboxID))
}

// SetDefaultMailbox saves the default mailbox id.
func SetDefaultMailbox(id string) error {
	prefs, err := LoadPreferences()
	if err != nil {
		return err
	}
	prefs.DefaultMailbox = strings.TrimSpace(id)
	return SavePreferences(prefs)
}

// ClearDefaultMailbox removes the saved default mailbox.
func ClearDefaultMailbox() error {
	prefs, err := LoadPreferences()
	if err != nil {
		return err
	}
	prefs.DefaultMailbox = ""
	return SavePreferences(prefs)
}
