package cricapi

import (
	"strings"
	"time"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/player"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-cricket/internal/usecase"
)

var providerTimeLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseProviderDateTime reads dateTimeGMT. Failures yield the zero time so
// the classifier excludes the match.
func parseProviderDateTime(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range providerTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

func mapMatch(item matchItem, syncedAt time.Time) match.Match {
	out := match.Match{
		ID:            strings.TrimSpace(item.ID),
		Name:          strings.TrimSpace(item.Name),
		MatchType:     strings.ToLower(strings.TrimSpace(item.MatchType)),
		Status:        strings.TrimSpace(item.Status),
		Venue:         strings.TrimSpace(item.Venue),
		StartAt:       parseProviderDateTime(item.DateTimeGMT),
		HasStarted:    item.MatchStarted,
		HasEnded:      item.MatchEnded,
		DeclaredState: match.ParseState(item.MS),
		SyncedAt:      syncedAt,
	}

	for i := 0; i < len(out.Teams); i++ {
		if i < len(item.Teams) {
			out.Teams[i].Name = strings.TrimSpace(item.Teams[i])
		}
		info, ok := findTeamInfo(item.TeamInfo, out.Teams[i].Name, i)
		if !ok {
			continue
		}
		out.Teams[i].Name = firstNonEmpty(out.Teams[i].Name, strings.TrimSpace(info.Name))
		out.Teams[i].ShortName = strings.TrimSpace(info.ShortName)
		out.Teams[i].ImageURL = strings.TrimSpace(info.Img)
	}

	for _, score := range item.Score {
		out.Innings = append(out.Innings, match.Innings{
			Label:   strings.TrimSpace(score.Inning),
			Runs:    int(score.R),
			Wickets: int(score.W),
			Overs:   float64(score.O),
		})
	}
	return out
}

func findTeamInfo(infos []teamInfo, name string, index int) (teamInfo, bool) {
	if name != "" {
		for _, info := range infos {
			if strings.EqualFold(strings.TrimSpace(info.Name), name) {
				return info, true
			}
		}
	}
	if name == "" && index < len(infos) {
		return infos[index], true
	}
	return teamInfo{}, false
}

type performanceAccumulator struct {
	order      []string
	byID       map[string]*scoring.Performance
	bowledBall map[string]int
}

func newPerformanceAccumulator() *performanceAccumulator {
	return &performanceAccumulator{
		byID:       make(map[string]*scoring.Performance),
		bowledBall: make(map[string]int),
	}
}

// skippedSpell is a bowling row whose overs could not be read. Its overs and
// runs conceded are left out so the economy stays consistent.
type skippedSpell struct {
	PlayerID string
	Innings  string
	Overs    float64
}

func (a *performanceAccumulator) get(ref playerRef, teamName string) *scoring.Performance {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		return nil
	}
	perf, ok := a.byID[id]
	if !ok {
		perf = &scoring.Performance{PlayerID: id}
		a.byID[id] = perf
		a.order = append(a.order, id)
	}
	perf.PlayerName = firstNonEmpty(perf.PlayerName, strings.TrimSpace(ref.Name))
	perf.TeamName = firstNonEmpty(perf.TeamName, teamName)
	return perf
}

func (a *performanceAccumulator) result() []scoring.Performance {
	out := make([]scoring.Performance, 0, len(a.order))
	for _, id := range a.order {
		perf := *a.byID[id]
		if balls := a.bowledBall[id]; balls > 0 {
			perf.Overs = float64(balls/6) + float64(balls%6)/10
		}
		out = append(out, perf)
	}
	return out
}

// mapScorecard merges every innings into one Performance per player.
// Run-outs credited with several fielders ("run out (A/B)") count as assisted
// for every fielder named, whether or not the provider sets them as catcher.
func mapScorecard(data scorecardData, syncedAt time.Time) (usecase.ExternalScorecard, []skippedSpell) {
	m := mapMatch(data.matchItem, syncedAt)
	acc := newPerformanceAccumulator()
	var skipped []skippedSpell

	for _, card := range data.Scorecard {
		battingTeam := inningsTeam(card.Inning, m.Teams)
		fieldingTeam := opposingTeam(battingTeam, m.Teams)

		direct := make(map[string]int)
		assisted := make(map[string]int)
		// shared fielders named in "A/B" run-outs other than the credited catcher
		var shared []string
		for _, row := range card.Batting {
			perf := acc.get(row.Batsman, battingTeam)
			if perf == nil {
				continue
			}
			perf.Runs += int(row.R)
			perf.BallsFaced += int(row.B)
			perf.Fours += int(row.Fours)
			perf.Sixes += int(row.Sixes)
			if isDismissed(row.Dismissal, row.DismissalText) {
				perf.Dismissed = true
			}

			if isRunOut(row.Dismissal, row.DismissalText) {
				fielderID := strings.TrimSpace(row.Catcher.ID)
				if strings.Contains(row.DismissalText, "/") {
					for _, name := range runOutFielders(row.DismissalText) {
						if fielderID == "" || !sameFielder(row.Catcher.Name, name) {
							shared = append(shared, name)
						}
					}
					if fielderID != "" {
						assisted[fielderID]++
					}
				} else if fielderID != "" {
					direct[fielderID]++
				}
			}
		}

		for _, row := range card.Bowling {
			perf := acc.get(row.Bowler, fieldingTeam)
			if perf == nil {
				continue
			}
			perf.Wickets += int(row.W)
			perf.Maidens += int(row.M)
			balls, err := scoring.LegalBalls(float64(row.O))
			if err != nil {
				skipped = append(skipped, skippedSpell{
					PlayerID: perf.PlayerID,
					Innings:  strings.TrimSpace(card.Inning),
					Overs:    float64(row.O),
				})
				continue
			}
			perf.RunsConceded += int(row.R)
			acc.bowledBall[perf.PlayerID] += balls
		}

		for _, row := range card.Catching {
			perf := acc.get(row.Catcher, fieldingTeam)
			if perf == nil {
				continue
			}
			perf.Catches += int(row.Catch)
			perf.Stumpings += int(row.Stumped)

			id := perf.PlayerID
			known := direct[id] + assisted[id]
			perf.RunOutsAssisted += assisted[id]
			perf.RunOutsDirect += direct[id]
			if extra := int(row.Runout) - known; extra > 0 {
				named := takeSharedMentions(&shared, row.Catcher.Name, extra)
				perf.RunOutsAssisted += named
				perf.RunOutsDirect += extra - named
			}
		}
	}

	return usecase.ExternalScorecard{
		Match:        m,
		Performances: acc.result(),
	}, skipped
}

// runOutFielders reads the fielders from "run out (Smith/†Carey)".
func runOutFielders(text string) []string {
	open := strings.Index(text, "(")
	end := strings.LastIndex(text, ")")
	if open < 0 || end <= open {
		return nil
	}
	var out []string
	for _, part := range strings.Split(text[open+1:end], "/") {
		name := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "†"))
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// sameFielder matches a full name against the short form used in dismissal
// text, which is usually the surname.
func sameFielder(fullName, short string) bool {
	full := strings.ToLower(strings.TrimSpace(fullName))
	short = strings.ToLower(strings.TrimSpace(short))
	if full == "" || short == "" {
		return false
	}
	return full == short || strings.HasSuffix(full, " "+short) || strings.HasSuffix(short, " "+full)
}

// takeSharedMentions removes up to limit mentions of name from shared and
// reports how many were taken.
func takeSharedMentions(shared *[]string, name string, limit int) int {
	taken := 0
	kept := (*shared)[:0]
	for _, mention := range *shared {
		if taken < limit && sameFielder(name, mention) {
			taken++
			continue
		}
		kept = append(kept, mention)
	}
	*shared = kept
	return taken
}

func isDismissed(dismissal, text string) bool {
	lowerText := strings.ToLower(strings.TrimSpace(text))
	if strings.Contains(lowerText, "not out") || strings.Contains(lowerText, "retired hurt") || lowerText == "batting" {
		return false
	}
	return strings.TrimSpace(dismissal) != "" || lowerText != ""
}

func isRunOut(dismissal, text string) bool {
	d := strings.ToLower(strings.TrimSpace(dismissal))
	if d == "runout" || d == "run out" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), "run out")
}

// inningsTeam extracts "India" from "India Inning 1".
func inningsTeam(label string, teams [2]match.TeamInfo) string {
	label = strings.TrimSpace(label)
	for _, team := range teams {
		if team.Name != "" && strings.HasPrefix(strings.ToLower(label), strings.ToLower(team.Name)) {
			return team.Name
		}
	}
	if idx := strings.Index(strings.ToLower(label), " inning"); idx > 0 {
		return strings.TrimSpace(label[:idx])
	}
	return label
}

func opposingTeam(battingTeam string, teams [2]match.TeamInfo) string {
	switch {
	case strings.EqualFold(teams[0].Name, battingTeam):
		return teams[1].Name
	case strings.EqualFold(teams[1].Name, battingTeam):
		return teams[0].Name
	default:
		return ""
	}
}

func mapSquad(matchID string, teams []squadTeam) player.Squad {
	out := player.Squad{MatchID: matchID, Teams: make([]player.SquadTeam, 0, len(teams))}
	for _, team := range teams {
		squadTeam := player.SquadTeam{
			TeamName:  strings.TrimSpace(team.TeamName),
			ShortName: strings.TrimSpace(team.ShortName),
			ImageURL:  strings.TrimSpace(team.Img),
			Players:   make([]player.Player, 0, len(team.Players)),
		}
		for _, item := range team.Players {
			p := player.Player{
				ID:           strings.TrimSpace(item.ID),
				Name:         strings.TrimSpace(item.Name),
				TeamName:     squadTeam.TeamName,
				Country:      strings.TrimSpace(item.Country),
				PlayingRole:  scoring.ParsePlayingRole(item.Role),
				BattingStyle: strings.TrimSpace(item.BattingStyle),
				BowlingStyle: strings.TrimSpace(item.BowlingStyle),
				ImageURL:     strings.TrimSpace(item.PlayerImg),
			}
			if p.Validate() != nil {
				continue
			}
			squadTeam.Players = append(squadTeam.Players, p)
		}
		out.Teams = append(out.Teams, squadTeam)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
