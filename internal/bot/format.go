package bot

import (
	"fmt"
	"time"
)

// German date names, indexed by time.Weekday and time.Month-1.
var (
	germanWeekdays = [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}
	germanMonths   = [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
)

// formatLongDate renders a date the way the replies phrase it, e.g.
// "Montag, 4. März 2024".
func formatLongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d. %s %d", germanWeekdays[t.Weekday()], t.Day(), germanMonths[t.Month()-1], t.Year())
}
