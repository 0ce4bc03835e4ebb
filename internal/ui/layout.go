package ui

import "time"

const (
	// LayoutCompactWidth is the width below which the header drops the API URL.
	LayoutCompactWidth = 80

	// chromeHeight is the number of rows used by the header and command bar.
	chromeHeight = 2

	// helpWidth is the width of the help overlay box.
	helpWidth = 44

	// DefaultRefreshInterval is how often the shell re-reads the shared store.
	DefaultRefreshInterval = time.Second
)
