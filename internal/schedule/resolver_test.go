package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranjalekhande/paddock-ai/internal/models"
)

func britishGP() models.Event {
	return models.Event{
		Round:    12,
		Name:     "British Grand Prix",
		Location: "Silverstone",
		Country:  "United Kingdom",
		Circuit:  "Silverstone Circuit",
		Date:     "2025-07-06",
		Timezone: "Europe/London",
		Sessions: map[models.SessionKind]string{
			models.SessionRace: "2025-07-06T15:00:00",
		},
	}
}

func fullWeekendGP() models.Event {
	return models.Event{
		Round:    12,
		Name:     "British Grand Prix",
		Location: "Silverstone",
		Country:  "United Kingdom",
		Circuit:  "Silverstone Circuit",
		Date:     "2025-07-06",
		Timezone: "Europe/London",
		Sessions: map[models.SessionKind]string{
			models.SessionPractice1:  "2025-07-04T12:30:00",
			models.SessionPractice2:  "2025-07-04T16:00:00",
			models.SessionPractice3:  "2025-07-05T11:30:00",
			models.SessionQualifying: "2025-07-05T15:00:00",
			models.SessionRace:       "2025-07-06T15:00:00",
		},
	}
}

func TestResolveSessionTimeBST(t *testing.T) {
	// London is UTC+1 in July, so 15:00 local is 14:00 UTC.
	got, err := ResolveSessionTime("2025-07-06T15:00:00", "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 6, 14, 0, 0, 0, time.UTC), got)
}

func TestResolveSessionTimeSpaceSeparated(t *testing.T) {
	got, err := ResolveSessionTime("2025-07-06 15:00:00", "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 6, 14, 0, 0, 0, time.UTC), got)
}

func TestResolveSessionTimeMalformed(t *testing.T) {
	_, err := ResolveSessionTime("not-a-date", "Europe/London")
	require.Error(t, err)

	var parseErr *TimeParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not-a-date", parseErr.Value)
}

func TestResolveSessionTimeUnknownTimezone(t *testing.T) {
	_, err := ResolveSessionTime("2025-07-06T15:00:00", "Mars/Olympus_Mons")
	require.Error(t, err)

	var parseErr *TimeParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "Mars/Olympus_Mons", parseErr.Timezone)
}

func TestResolveSessionTimeRoundTrip(t *testing.T) {
	const local = "2025-07-06T15:00:00"
	const tz = "Europe/London"

	utc, err := ResolveSessionTime(local, tz)
	require.NoError(t, err)

	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	back := utc.In(loc).Format("2006-01-02T15:04:05")
	assert.Equal(t, local, back)
}

// Scenario: race local 15:00 BST, now at race start (14:00 UTC).
func TestResolveLiveRace(t *testing.T) {
	event := britishGP()
	now := time.Date(2025, 7, 6, 14, 0, 0, 0, time.UTC)

	resolved := Resolve(event, now)
	assert.Equal(t, models.StatusCurrent, resolved.Status)
	assert.True(t, resolved.IsLive)
	assert.Equal(t, "race", resolved.LiveSession)
	assert.Equal(t, TTLLiveRace, resolved.CacheTTL)
}

// Scenario: three days before the race, inside the 7-day near window.
func TestResolveUpcomingSoon(t *testing.T) {
	event := britishGP()
	now := time.Date(2025, 7, 3, 14, 0, 0, 0, time.UTC)

	resolved := Resolve(event, now)
	assert.Equal(t, models.StatusUpcoming, resolved.Status)
	assert.False(t, resolved.IsLive)
	assert.Equal(t, TTLUpcomingSoon, resolved.CacheTTL)
}

// Scenario: ten days after the race.
func TestResolveCompleted(t *testing.T) {
	event := britishGP()
	now := time.Date(2025, 7, 16, 14, 0, 0, 0, time.UTC)

	resolved := Resolve(event, now)
	assert.Equal(t, models.StatusCompleted, resolved.Status)
	assert.False(t, resolved.IsLive)
	assert.Equal(t, TTLCompleted, resolved.CacheTTL)
}

// Scenario: malformed race time falls back to the date-only rule.
func TestClassifyStatusDateFallback(t *testing.T) {
	event := britishGP()
	event.Sessions[models.SessionRace] = "not-a-date"

	now := time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, models.StatusCurrent, ClassifyStatus(event, now))

	// More than one day past the calendar date.
	now = time.Date(2025, 7, 8, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, models.StatusCompleted, ClassifyStatus(event, now))

	// More than two days before it.
	now = time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, models.StatusUpcoming, ClassifyStatus(event, now))
}

// Scenario: live qualifying with the race still ahead.
func TestDetectLiveQualifyingAndNextSession(t *testing.T) {
	event := fullWeekendGP()
	// Qualifying starts 14:00 UTC on July 5; 30 minutes in.
	now := time.Date(2025, 7, 5, 14, 30, 0, 0, time.UTC)

	live, kind := DetectLiveSession(event, now)
	require.True(t, live)
	assert.Equal(t, models.SessionQualifying, kind)

	nextKind, nextStart, ok := NextSession(event, now)
	require.True(t, ok)
	assert.Equal(t, models.SessionRace, nextKind)
	assert.Equal(t, time.Date(2025, 7, 6, 14, 0, 0, 0, time.UTC), nextStart)
}

func TestDetectLiveSessionBoundsInclusive(t *testing.T) {
	event := britishGP()
	raceStart := time.Date(2025, 7, 6, 14, 0, 0, 0, time.UTC)

	live, _ := DetectLiveSession(event, raceStart)
	assert.True(t, live, "live at exact start")

	live, _ = DetectLiveSession(event, raceStart.Add(3*time.Hour))
	assert.True(t, live, "live at exact end")

	live, _ = DetectLiveSession(event, raceStart.Add(3*time.Hour+time.Second))
	assert.False(t, live, "not live past the end")

	live, _ = DetectLiveSession(event, raceStart.Add(-time.Second))
	assert.False(t, live, "not live before the start")
}

func TestDetectLiveSessionOnlyDefinedKinds(t *testing.T) {
	event := britishGP()
	// During what would be practice1 on a full weekend.
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

	live, kind := DetectLiveSession(event, now)
	assert.False(t, live)
	assert.Empty(t, kind)
}

func TestNextSessionAllPast(t *testing.T) {
	event := fullWeekendGP()
	now := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	_, _, ok := NextSession(event, now)
	assert.False(t, ok)
}

func TestWeekendWindowStartsAtFirstPractice(t *testing.T) {
	event := fullWeekendGP()
	// Practice1 starts 11:30 UTC on July 4. One minute before that the
	// weekend has not begun.
	now := time.Date(2025, 7, 4, 11, 29, 0, 0, time.UTC)
	assert.Equal(t, models.StatusUpcoming, ClassifyStatus(event, now))

	now = time.Date(2025, 7, 4, 11, 30, 0, 0, time.UTC)
	assert.Equal(t, models.StatusCurrent, ClassifyStatus(event, now))
}

func TestCacheTTLTable(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "live race",
			now:  time.Date(2025, 7, 6, 15, 0, 0, 0, time.UTC),
			want: TTLLiveRace,
		},
		{
			name: "live practice",
			now:  time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC),
			want: TTLLiveSession,
		},
		{
			name: "live qualifying",
			now:  time.Date(2025, 7, 5, 14, 30, 0, 0, time.UTC),
			want: TTLLiveSession,
		},
		{
			name: "current weekend between sessions",
			now:  time.Date(2025, 7, 5, 9, 0, 0, 0, time.UTC),
			want: TTLCurrent,
		},
		{
			name: "upcoming within seven days",
			now:  time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
			want: TTLUpcomingSoon,
		},
		{
			name: "upcoming beyond seven days",
			now:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			want: TTLUpcoming,
		},
		{
			name: "completed",
			now:  time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC),
			want: TTLCompleted,
		},
	}

	event := fullWeekendGP()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheTTL(event, tt.now))
		})
	}
}

// Status never moves backward as now advances.
func TestClassifyStatusMonotonic(t *testing.T) {
	event := fullWeekendGP()

	rank := map[models.EventStatus]int{
		models.StatusUpcoming:  0,
		models.StatusCurrent:   1,
		models.StatusCompleted: 2,
	}

	start := time.Date(2025, 6, 25, 0, 0, 0, 0, time.UTC)
	prev := -1
	for now := start; now.Before(start.Add(20 * 24 * time.Hour)); now = now.Add(30 * time.Minute) {
		r := rank[ClassifyStatus(event, now)]
		require.GreaterOrEqual(t, r, prev, "status regressed at %s", now)
		prev = r
	}
}

func TestResolveNextSessionTimeRFC3339(t *testing.T) {
	event := britishGP()
	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	resolved := Resolve(event, now)
	assert.Equal(t, "race", resolved.NextSession)
	assert.Equal(t, "2025-07-06T14:00:00Z", resolved.NextSessionTime)
}

func TestCurrentAndNextEvent(t *testing.T) {
	silverstone := fullWeekendGP()
	spa := models.Event{
		Round:    13,
		Name:     "Belgian Grand Prix",
		Date:     "2025-07-27",
		Timezone: "Europe/Brussels",
		Sessions: map[models.SessionKind]string{
			models.SessionRace: "2025-07-27T15:00:00",
		},
	}
	events := []models.Event{silverstone, spa}

	// During the British GP weekend.
	now := time.Date(2025, 7, 5, 14, 30, 0, 0, time.UTC)
	current, ok := CurrentEvent(events, now)
	require.True(t, ok)
	assert.Equal(t, "British Grand Prix", current.Name)

	next, ok := NextEvent(events, now)
	require.True(t, ok)
	assert.Equal(t, "Belgian Grand Prix", next.Name)

	// After the season's last round here.
	now = time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)
	_, ok = NextEvent(events, now)
	assert.False(t, ok)
}
