package livetiming

import (
	"encoding/json"
	"sort"
	"time"
)

// changeMessage is a delta pushed after the initial reference message.
type changeMessage struct {
	ChangeSetID string       `json:"C"`
	Messages    []hubMessage `json:"M"`
}

type hubMessage struct {
	Hub       string            `json:"H"`
	Method    string            `json:"M"`
	Arguments []json.RawMessage `json:"A"`
}

// referenceMessage is the full-state message sent once after subscribing.
type referenceMessage struct {
	Reference struct {
		SessionInfo *sessionInfo          `json:"SessionInfo"`
		LapCount    *lapCount             `json:"LapCount"`
		TrackStatus *trackStatus          `json:"TrackStatus"`
		DriverList  map[string]driverInfo `json:"DriverList"`
		TimingData  *timingData           `json:"TimingData"`
	} `json:"R"`
	Identifier string `json:"I"`
}

type sessionInfo struct {
	Meeting struct {
		Name string `json:"Name"`
	} `json:"Meeting"`
	Name string `json:"Name"`
	Type string `json:"Type"`
}

type lapCount struct {
	CurrentLap *int `json:"CurrentLap"`
	TotalLaps  *int `json:"TotalLaps"`
}

type trackStatus struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
}

type driverInfo struct {
	ShortName *string `json:"Tla"`
	FirstName *string `json:"FirstName"`
	LastName  *string `json:"LastName"`
	TeamName  *string `json:"TeamName"`
	Line      *int    `json:"Line"`
}

type timingData struct {
	Lines map[string]driverTiming `json:"Lines"`
}

type driverTiming struct {
	Line                    *int    `json:"Line"`
	GapToLeader             *string `json:"GapToLeader"`
	IntervalToPositionAhead struct {
		Value *string `json:"Value"`
	} `json:"IntervalToPositionAhead"`
	LastLapTime struct {
		Value *string `json:"Value"`
	} `json:"LastLapTime"`
	InPit        *bool `json:"InPit"`
	Retired      *bool `json:"Retired"`
	NumberOfLaps *int  `json:"NumberOfLaps"`
}

// processMessage folds one feed message into the snapshot. Change messages
// vastly outnumber the single reference message, so they are tried first.
func (c *Client) processMessage(msg []byte) {
	var change changeMessage
	if err := json.Unmarshal(msg, &change); err == nil && len(change.Messages) > 0 {
		for _, m := range change.Messages {
			c.applyFeedMessage(m)
		}
		return
	}

	var reference referenceMessage
	if err := json.Unmarshal(msg, &reference); err == nil && reference.Identifier != "" {
		c.applyReference(reference)
		return
	}
}

// applyFeedMessage dispatches one "feed" hub call by topic name.
func (c *Client) applyFeedMessage(m hubMessage) {
	if m.Hub != "Streaming" || m.Method != "feed" || len(m.Arguments) < 2 {
		return
	}

	var topic string
	if err := json.Unmarshal(m.Arguments[0], &topic); err != nil {
		return
	}
	data := m.Arguments[1]

	c.mu.Lock()
	defer c.mu.Unlock()

	switch topic {
	case "SessionInfo":
		var info sessionInfo
		if err := json.Unmarshal(data, &info); err == nil {
			c.applySessionInfo(&info)
		}
	case "LapCount":
		var lc lapCount
		if err := json.Unmarshal(data, &lc); err == nil {
			c.applyLapCount(&lc)
		}
	case "TrackStatus":
		var ts trackStatus
		if err := json.Unmarshal(data, &ts); err == nil {
			c.applyTrackStatus(&ts)
		}
	case "DriverList":
		var drivers map[string]driverInfo
		if err := json.Unmarshal(data, &drivers); err == nil {
			c.applyDriverList(drivers)
		}
	case "TimingData":
		var td timingData
		if err := json.Unmarshal(data, &td); err == nil {
			c.applyTimingData(&td)
		}
	case "Heartbeat":
		// keep the snapshot timestamp moving during quiet spells
	default:
		c.log.WithField("topic", topic).Debug("Unhandled live timing topic")
		return
	}

	c.refreshLocked()
}

func (c *Client) applyReference(reference referenceMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.applySessionInfo(reference.Reference.SessionInfo)
	c.applyLapCount(reference.Reference.LapCount)
	c.applyTrackStatus(reference.Reference.TrackStatus)
	c.applyDriverList(reference.Reference.DriverList)
	if reference.Reference.TimingData != nil {
		c.applyTimingData(reference.Reference.TimingData)
	}
	c.refreshLocked()
}

func (c *Client) applySessionInfo(info *sessionInfo) {
	if info == nil {
		return
	}
	if info.Meeting.Name != "" {
		c.snapshot.MeetingName = info.Meeting.Name
	}
	if info.Name != "" {
		c.snapshot.SessionName = info.Name
	}
	if info.Type != "" {
		c.snapshot.SessionType = info.Type
	}
}

func (c *Client) applyLapCount(lc *lapCount) {
	if lc == nil {
		return
	}
	if lc.CurrentLap != nil {
		c.snapshot.CurrentLap = *lc.CurrentLap
	}
	if lc.TotalLaps != nil {
		c.snapshot.TotalLaps = *lc.TotalLaps
	}
}

func (c *Client) applyTrackStatus(ts *trackStatus) {
	if ts == nil {
		return
	}
	if ts.Message != "" {
		c.snapshot.TrackStatus = ts.Message
	} else if ts.Status != "" {
		c.snapshot.TrackStatus = ts.Status
	}
}

func (c *Client) applyDriverList(drivers map[string]driverInfo) {
	for number, info := range drivers {
		line := c.drivers[number]
		line.Number = number
		if info.ShortName != nil {
			line.ShortName = *info.ShortName
		}
		if info.FirstName != nil && info.LastName != nil {
			line.Name = *info.FirstName + " " + *info.LastName
		}
		if info.TeamName != nil {
			line.Team = *info.TeamName
		}
		if info.Line != nil {
			line.Position = *info.Line
		}
		c.drivers[number] = line
	}
}

func (c *Client) applyTimingData(td *timingData) {
	for number, timing := range td.Lines {
		line := c.drivers[number]
		line.Number = number
		if timing.Line != nil {
			line.Position = *timing.Line
		}
		if timing.GapToLeader != nil && *timing.GapToLeader != "" {
			line.GapToLeader = *timing.GapToLeader
		}
		if timing.IntervalToPositionAhead.Value != nil && *timing.IntervalToPositionAhead.Value != "" {
			line.IntervalGap = *timing.IntervalToPositionAhead.Value
		}
		if timing.LastLapTime.Value != nil && *timing.LastLapTime.Value != "" {
			line.LastLapTime = *timing.LastLapTime.Value
		}
		if timing.InPit != nil {
			line.InPit = *timing.InPit
		}
		if timing.Retired != nil {
			line.Retired = *timing.Retired
		}
		if timing.NumberOfLaps != nil {
			line.NumberOfLaps = *timing.NumberOfLaps
		}
		c.drivers[number] = line
	}
}

// refreshLocked rebuilds the sorted leaderboard and stamps the snapshot.
// Callers must hold the write lock.
func (c *Client) refreshLocked() {
	board := make([]DriverLine, 0, len(c.drivers))
	for _, line := range c.drivers {
		board = append(board, line)
	}
	sort.Slice(board, func(i, j int) bool {
		// Drivers without a position yet sink to the bottom.
		if board[i].Position == 0 {
			return false
		}
		if board[j].Position == 0 {
			return true
		}
		return board[i].Position < board[j].Position
	})

	c.snapshot.Leaderboard = board
	c.snapshot.UpdatedAt = time.Now()
	c.fresh = true
}
