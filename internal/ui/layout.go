package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutPermanentDrawerWidth is the width at and above which the drawer
	// stays docked on the left. Narrower terminals get a modal drawer.
	LayoutPermanentDrawerWidth = 100

	// DrawerWidth is the drawer's outer width including its border.
	DrawerWidth = 22

	// FormWidth is the outer width of the creation form modal.
	FormWidth = 56
)

// Log page limits.
const (
	// LogTailLines is the number of trailing log lines shown on the logs page.
	LogTailLines = 500
)

// Timing constants.
const (
	// SnackbarTimeout is how long a snackbar stays up without esc.
	SnackbarTimeout = 3 * time.Second

	// ActionTimeout bounds backend calls triggered from the settings page.
	ActionTimeout = 5 * time.Second

	// DefaultUIInterval is the default refresh interval for file-backed pages.
	DefaultUIInterval = 2 * time.Second
)
