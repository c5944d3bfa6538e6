// Package timezone keeps the application location used for booking dates,
// event grouping and audit timestamps.
//
//	timezone.Init(cfg.App.Timezone)
//	today := timezone.Today()
//	day, err := timezone.Parse(constant.DayLayout, "2025-03-14")
//
// Until Init is called every helper works in UTC. Names must come from the
// IANA database ("UTC", "Asia/Manila", "Europe/London").
package timezone
