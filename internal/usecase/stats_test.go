package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/uclaacm/bruinbot/internal/domain"
)

type mockStatsRepo struct {
	members      int64
	transfers    int64
	majors       []domain.StatRow
	years        []domain.StatRow
	affiliations []domain.StatRow
}

func (r *mockStatsRepo) CountMembers(ctx context.Context) (int64, error)   { return r.members, nil }
func (r *mockStatsRepo) CountTransfers(ctx context.Context) (int64, error) { return r.transfers, nil }
func (r *mockStatsRepo) CountByMajor(ctx context.Context) ([]domain.StatRow, error) {
	return r.majors, nil
}
func (r *mockStatsRepo) CountByGradYear(ctx context.Context) ([]domain.StatRow, error) {
	return r.years, nil
}
func (r *mockStatsRepo) CountByAffiliation(ctx context.Context) ([]domain.StatRow, error) {
	return r.affiliations, nil
}

func TestStatsRenderCounts(t *testing.T) {
	uc := NewStatsUsecase(&mockStatsRepo{members: 42, transfers: 7}, nil)
	ctx := context.Background()

	out, err := uc.Render(ctx, "verified")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Number of Verified Users: 42") {
		t.Errorf("verified output: %s", out)
	}

	out, err = uc.Render(ctx, "transfer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Number of Transfer Students: 7") {
		t.Errorf("transfer output: %s", out)
	}
}

func TestStatsRenderTable(t *testing.T) {
	uc := NewStatsUsecase(&mockStatsRepo{majors: []domain.StatRow{
		{Label: "computer science", Count: 12},
		{Label: "mathematics", Count: 3},
	}}, nil)

	out, err := uc.Render(context.Background(), "major")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "```") || !strings.HasSuffix(out, "```") {
		t.Errorf("table should be code fenced: %s", out)
	}
	if !strings.Contains(out, "computer science") || !strings.Contains(out, "12") {
		t.Errorf("table missing rows: %s", out)
	}
	if !strings.Contains(out, "Majors by Count") {
		t.Errorf("table missing title: %s", out)
	}
}

func TestStatsRenderUnknownKind(t *testing.T) {
	uc := NewStatsUsecase(&mockStatsRepo{}, nil)

	_, err := uc.Render(context.Background(), "gpa")
	ue := assertUserError(t, err, domain.KindValidation)
	if !strings.Contains(ue.Message, "Usage: !stats") {
		t.Errorf("unexpected message: %s", ue.Message)
	}
}

func TestStatsRows(t *testing.T) {
	uc := NewStatsUsecase(&mockStatsRepo{members: 5}, nil)
	ctx := context.Background()

	rows, err := uc.Rows(ctx, "verified")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 5 {
		t.Errorf("rows: %+v", rows)
	}

	if _, err := uc.Rows(ctx, "gpa"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected not-found for unknown kind, got %v", err)
	}
}
