package hydration

// CalendarCell is one slot of a Sunday-first month grid. Padding cells belong
// to the adjacent months and never carry intake data.
type CalendarCell struct {
	Date    Day
	Padding bool
	Locked  bool
	Day     *DayAggregate
}

// MonthGrid lays out m as complete 7-day weeks starting on Sunday.
func MonthGrid(m Month) []CalendarCell {
	first := m.FirstDay()
	last := m.LastDay()

	lead := int(first.Time().Weekday())
	start := first.AddDays(-lead)

	trail := 6 - int(last.Time().Weekday())
	end := last.AddDays(trail)

	cells := make([]CalendarCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDays(1) {
		cells = append(cells, CalendarCell{
			Date:    d,
			Padding: d.Before(first) || d.After(last),
		})
	}
	return cells
}
