package models

// Slot is an available booking window returned by the availability source.
type Slot struct {
	ID     string `json:"id"`
	Date   string `json:"date"`   // "YYYY-MM-DD"
	Start  int    `json:"start"`  // minutes from midnight (e.g., 600 for 10:00)
	End    int    `json:"end"`    // minutes from midnight (e.g., 720 for 12:00)
	Window string `json:"window"` // display form, e.g. "10:00-12:00"
}
