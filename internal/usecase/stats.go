package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/olekukonko/tablewriter"
	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/domain"
)

// statsCacheTTL is in seconds; aggregates are cheap but the stats
// command tends to get spammed in admin channels.
const statsCacheTTL = 60

var statKinds = []string{"verified", "major", "year", "transfer", "affiliation"}

// StatsUsecase renders identity-store aggregates. Rendered tables
// are cached in memcached when a client is configured.
type StatsUsecase struct {
	stats StatsRepository
	cache *memcache.Client
}

func NewStatsUsecase(stats StatsRepository, cache *memcache.Client) *StatsUsecase {
	return &StatsUsecase{stats: stats, cache: cache}
}

// Render returns the requested aggregate as a code-fenced table.
func (uc *StatsUsecase) Render(ctx context.Context, kind string) (string, error) {
	key := "stats:" + kind
	if uc.cache != nil {
		if item, err := uc.cache.Get(key); err == nil {
			return string(item.Value), nil
		}
	}

	var out string
	switch kind {
	case "verified":
		count, err := uc.stats.CountMembers(ctx)
		if err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "stats query failed"))
		}
		out = fmt.Sprintf("```\nNumber of Verified Users: %d\n```", count)
	case "transfer":
		count, err := uc.stats.CountTransfers(ctx)
		if err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "stats query failed"))
		}
		out = fmt.Sprintf("```\nNumber of Transfer Students: %d\n```", count)
	case "major":
		rows, err := uc.stats.CountByMajor(ctx)
		if err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "stats query failed"))
		}
		out = renderTable("Majors by Count", "Major", rows)
	case "year":
		rows, err := uc.stats.CountByGradYear(ctx)
		if err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "stats query failed"))
		}
		out = renderTable("Graduation Year by Count", "Year", rows)
	case "affiliation":
		rows, err := uc.stats.CountByAffiliation(ctx)
		if err != nil {
			return "", domain.Fault(pkgerrors.Wrap(err, "stats query failed"))
		}
		out = renderTable("Affiliation by Count", "Affiliation", rows)
	default:
		return "", domain.Validation("Usage: !stats <" + strings.Join(statKinds, "|") + ">")
	}

	if uc.cache != nil {
		uc.cache.Set(&memcache.Item{Key: key, Value: []byte(out), Expiration: statsCacheTTL})
	}
	return out, nil
}

// Rows returns the raw aggregate for the ops API.
func (uc *StatsUsecase) Rows(ctx context.Context, kind string) ([]domain.StatRow, error) {
	switch kind {
	case "verified":
		count, err := uc.stats.CountMembers(ctx)
		if err != nil {
			return nil, err
		}
		return []domain.StatRow{{Label: "verified", Count: count}}, nil
	case "transfer":
		count, err := uc.stats.CountTransfers(ctx)
		if err != nil {
			return nil, err
		}
		return []domain.StatRow{{Label: "transfer", Count: count}}, nil
	case "major":
		return uc.stats.CountByMajor(ctx)
	case "year":
		return uc.stats.CountByGradYear(ctx)
	case "affiliation":
		return uc.stats.CountByAffiliation(ctx)
	default:
		return nil, domain.NotFoundError{Resource: "stat kind"}
	}
}

func renderTable(title, label string, rows []domain.StatRow) string {
	var buf bytes.Buffer
	buf.WriteString(title + "\n")
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{label, "Count"})
	for _, row := range rows {
		table.Append([]string{row.Label, strconv.FormatInt(row.Count, 10)})
	}
	table.Render()
	return "```\n" + buf.String() + "```"
}
