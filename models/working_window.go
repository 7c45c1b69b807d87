package models

import "time"

// WorkingWindow is the open/close window for one weekday. Start and End are
// minutes from midnight (e.g. 540 for 9:00 AM). A window with Closed set, or
// a weekday with no window at all, means the owner does not work that day.
//
// Windows are owned either by a salon or by an individual staff member; a
// staff-level window overrides the salon-level one for that weekday.
type WorkingWindow struct {
	Day    time.Weekday `bson:"day" json:"day"`
	Start  int          `bson:"start" json:"start"`
	End    int          `bson:"end" json:"end"`
	Closed bool         `bson:"closed" json:"closed"`
}

// ClosedWindow returns the window representing "not open that day".
func ClosedWindow(day time.Weekday) WorkingWindow {
	return WorkingWindow{Day: day, Closed: true}
}

// Span returns the open length in minutes, zero when closed.
func (w WorkingWindow) Span() int {
	if w.Closed || w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// WeeklySchedule groups the per-weekday windows of one owner (salon or staff).
type WeeklySchedule struct {
	OwnerID string          `bson:"ownerId" json:"ownerId"`
	Windows []WorkingWindow `bson:"windows" json:"windows"`
}
