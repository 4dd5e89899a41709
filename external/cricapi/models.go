package cricapi

import (
	"bytes"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

type envelope[T any] struct {
	Data   T            `json:"data"`
	Status string       `json:"status"`
	Reason string       `json:"reason"`
	Info   envelopeInfo `json:"info"`
}

type envelopeInfo struct {
	HitsToday  int `json:"hitsToday"`
	HitsUsed   int `json:"hitsUsed"`
	HitsLimit  int `json:"hitsLimit"`
	OffsetRows int `json:"offsetRows"`
	TotalRows  int `json:"totalRows"`
}

type matchItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	MatchType    string      `json:"matchType"`
	Status       string      `json:"status"`
	Venue        string      `json:"venue"`
	DateTimeGMT  string      `json:"dateTimeGMT"`
	Teams        []string    `json:"teams"`
	TeamInfo     []teamInfo  `json:"teamInfo"`
	Score        []scoreItem `json:"score"`
	SeriesID     string      `json:"series_id"`
	MatchStarted bool        `json:"matchStarted"`
	MatchEnded   bool        `json:"matchEnded"`
	MS           string      `json:"ms"`
}

type teamInfo struct {
	Name      string `json:"name"`
	ShortName string `json:"shortname"`
	Img       string `json:"img"`
}

type scoreItem struct {
	R      flexInt   `json:"r"`
	W      flexInt   `json:"w"`
	O      flexFloat `json:"o"`
	Inning string    `json:"inning"`
}

type scorecardData struct {
	matchItem
	Scorecard []inningsCard `json:"scorecard"`
}

type inningsCard struct {
	Batting  []battingRow  `json:"batting"`
	Bowling  []bowlingRow  `json:"bowling"`
	Catching []catchingRow `json:"catching"`
	Inning   string        `json:"inning"`
}

type playerRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type battingRow struct {
	Batsman       playerRef `json:"batsman"`
	Dismissal     string    `json:"dismissal"`
	DismissalText string    `json:"dismissal-text"`
	Bowler        playerRef `json:"bowler"`
	Catcher       playerRef `json:"catcher"`
	R             flexInt   `json:"r"`
	B             flexInt   `json:"b"`
	Fours         flexInt   `json:"4s"`
	Sixes         flexInt   `json:"6s"`
}

type bowlingRow struct {
	Bowler playerRef `json:"bowler"`
	O      flexFloat `json:"o"`
	M      flexInt   `json:"m"`
	R      flexInt   `json:"r"`
	W      flexInt   `json:"w"`
}

type catchingRow struct {
	Catcher playerRef `json:"catcher"`
	Stumped flexInt   `json:"stumped"`
	Runout  flexInt   `json:"runout"`
	Catch   flexInt   `json:"catch"`
}

type squadTeam struct {
	TeamName  string        `json:"teamName"`
	ShortName string        `json:"shortname"`
	Img       string        `json:"img"`
	Players   []squadPlayer `json:"players"`
}

type squadPlayer struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	BattingStyle string `json:"battingStyle"`
	BowlingStyle string `json:"bowlingStyle"`
	Country      string `json:"country"`
	PlayerImg    string `json:"playerImg"`
}

// flexInt accepts numbers, numeric strings and null.
type flexInt int

func (v *flexInt) UnmarshalJSON(data []byte) error {
	f, err := decodeFlexNumber(data)
	if err != nil {
		return err
	}
	*v = flexInt(int(f))
	return nil
}

// flexFloat accepts numbers, numeric strings and null.
type flexFloat float64

func (v *flexFloat) UnmarshalJSON(data []byte) error {
	f, err := decodeFlexNumber(data)
	if err != nil {
		return err
	}
	*v = flexFloat(f)
	return nil
}

func decodeFlexNumber(data []byte) (float64, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return 0, err
		}
		text = strings.TrimSpace(text)
		if text == "" || text == "-" {
			return 0, nil
		}
		return strconv.ParseFloat(text, 64)
	}
	return strconv.ParseFloat(string(trimmed), 64)
}
