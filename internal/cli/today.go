package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parseToday resolves a --today value relative to now. It accepts natural
// language ("tomorrow", "next friday") and calendar dates. An empty value
// means now.
func parseToday(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now, nil
	}

	for _, layout := range []string{time.DateOnly, "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	if res, err := w.Parse(value, now); err == nil && res != nil {
		return res.Time, nil
	}
	return time.Time{}, fmt.Errorf("cannot understand date %q", value)
}
