package history

// FilterYear keeps records whose timestamp falls in year. Records without a
// timestamp cannot be placed in a year and are dropped. A year of 0 returns
// records unchanged.
func FilterYear(records []Record, year int) []Record {
	if year == 0 {
		return records
	}
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if r.HasTimestamp() && r.Timestamp.Year() == year {
			kept = append(kept, r)
		}
	}
	return kept
}
