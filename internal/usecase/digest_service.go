package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/valyala/bytebufferpool"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/position"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/roster"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/domain/transaction"
	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

// PositionSuffixMode selects how the position suffix of a player line
// is built.
type PositionSuffixMode string

const (
	// SuffixNonPrimary renders the primary position followed by the
	// remaining eligible ones, e.g. "C/LW/RW".
	SuffixNonPrimary PositionSuffixMode = "non_primary"
	// SuffixAllEligible renders the raw eligible list in slot order.
	SuffixAllEligible PositionSuffixMode = "all_eligible"
)

type RenderOptions struct {
	PositionSuffixMode PositionSuffixMode
	TopicHeaders       bool
}

// ReferenceData is the snapshot of league entities a digest render
// resolves message ids against. Renders never modify it.
type ReferenceData struct {
	Players      []roster.Player
	FantasyTeams []roster.FantasyTeam
	ProTeams     []roster.ProTeam
}

// DigestService turns transaction topics into the human-readable digest
// text that gets published to notification sinks.
type DigestService struct {
	taxonomy transaction.Taxonomy
	opts     RenderOptions
	collator *collate.Collator
	logger   *logging.Logger
}

func NewDigestService(taxonomy transaction.Taxonomy, opts RenderOptions, logger *logging.Logger) *DigestService {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.PositionSuffixMode == "" {
		opts.PositionSuffixMode = SuffixNonPrimary
	}

	return &DigestService{
		taxonomy: taxonomy,
		opts:     opts,
		collator: collate.New(language.English, collate.IgnoreCase, collate.Numeric),
		logger:   logger,
	}
}

// TypeIDs lists the message type ids this digest can render, for
// server-side feed filtering.
func (s *DigestService) TypeIDs() []int {
	return s.taxonomy.TypeIDs()
}

// RenderDigest renders all topics into one digest. Topic blocks are
// separated by a blank line, lines within a topic are sorted, and lines
// under a header are indented. An empty result means nothing to report.
func (s *DigestService) RenderDigest(topics []transaction.MessageTopic, refs ReferenceData) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, topic := range topics {
		lines := make([]string, 0, len(topic.Messages))
		for _, msg := range topic.Messages {
			line, err := s.RenderMessage(msg, refs)
			if err != nil {
				return "", fmt.Errorf("render message id=%s: %w", msg.ID, err)
			}
			lines = append(lines, line)
		}
		s.sortLines(lines)

		header := ""
		if s.opts.TopicHeaders {
			header = s.taxonomy.TopicHeader(topic)
		}
		if header != "" {
			_, _ = buf.WriteString(header)
			_ = buf.WriteByte('\n')
		}
		for _, line := range lines {
			if header != "" {
				_, _ = buf.WriteString("    ")
			}
			_, _ = buf.WriteString(line)
			_ = buf.WriteByte('\n')
		}
		_ = buf.WriteByte('\n')
	}

	return strings.TrimRight(buf.String(), " \t\n"), nil
}

// RenderMessage renders a single message. An unknown message type or a
// failed player/team lookup is an error. An unresolvable acting team
// degrades to an empty line; an unresolvable destination team drops the
// "to" clause from an otherwise renderable trade leg.
func (s *DigestService) RenderMessage(msg transaction.Message, refs ReferenceData) (string, error) {
	kind, err := s.taxonomy.Kind(msg.MessageTypeID)
	if err != nil {
		return "", err
	}

	var team *roster.FantasyTeam
	if ref := kind.TeamRef(msg); ref.Resolvable() {
		found, err := roster.FindFantasyTeam(refs.FantasyTeams, ref.ID)
		if err != nil {
			return "", err
		}
		team = &found
	}

	var toTeam *roster.FantasyTeam
	if kind.WithToTeam && msg.To.Resolvable() {
		found, err := roster.FindFantasyTeam(refs.FantasyTeams, msg.To.ID)
		if err != nil {
			return "", err
		}
		toTeam = &found
	}

	if kind.DraftPick {
		return s.renderDraftPick(kind, msg, team, toTeam, len(refs.FantasyTeams)), nil
	}

	if !msg.TargetID.Present() {
		return "", nil
	}

	player, err := roster.FindPlayer(refs.Players, msg.TargetID.ID)
	if err != nil {
		return "", err
	}
	proTeam, err := roster.FindProTeam(refs.ProTeams, player.ProTeamID)
	if err != nil {
		return "", err
	}
	suffix, err := s.positionSuffix(player)
	if err != nil {
		return "", err
	}

	if team == nil {
		return "", nil
	}

	base := fmt.Sprintf("%s %s %s %s, %s %s",
		team.Abbrev, kind.Action, player.FirstName, player.LastName, proTeam.Abbrev, suffix)

	switch {
	case kind.WithToTeam:
		// destination unresolved, report the leg without it
		if toTeam == nil {
			return base, nil
		}
		return base + " to " + toTeam.Abbrev, nil
	case kind.Origin != "":
		return base + " from " + kind.Origin, nil
	default:
		return base, nil
	}
}

// renderDraftPick describes a pick changing hands. The overall pick
// number maps to a round and an in-round slot via the league size.
func (s *DigestService) renderDraftPick(kind transaction.Kind, msg transaction.Message, team, toTeam *roster.FantasyTeam, leagueSize int) string {
	if team == nil || toTeam == nil || !msg.TargetID.Present() || leagueSize < 1 {
		return ""
	}

	overall := msg.TargetID.ID
	teams := int64(leagueSize)
	round := (overall + teams - 1) / teams
	pick := overall % teams
	if pick == 0 {
		pick = teams
	}

	return fmt.Sprintf("%s %s pick %d (round %d, pick %d) to %s",
		team.Abbrev, kind.Action, overall, round, pick, toTeam.Abbrev)
}

func (s *DigestService) positionSuffix(p roster.Player) (string, error) {
	eligible, err := position.Eligible(p.EligibleSlots)
	if err != nil {
		return "", err
	}
	primary, err := position.ResolveDefault(p.DefaultPositionID)
	if err != nil {
		return "", err
	}

	if s.opts.PositionSuffixMode == SuffixAllEligible {
		return strings.Join(position.Abbrevs(eligible), "/"), nil
	}

	extra := position.NonPrimary(eligible, primary)
	if len(extra) == 0 {
		return primary.Abbrev, nil
	}

	return primary.Abbrev + "/" + strings.Join(position.Abbrevs(extra), "/"), nil
}

// sortLines orders lines case-insensitively with numeric awareness, so
// "pick 9" sorts before "pick 10". Unrendered lines float to the top.
func (s *DigestService) sortLines(lines []string) {
	sort.SliceStable(lines, func(i, j int) bool {
		switch {
		case lines[i] == "" && lines[j] == "":
			return false
		case lines[i] == "":
			return true
		case lines[j] == "":
			return false
		}
		return s.collator.CompareString(lines[i], lines[j]) < 0
	})
}
