package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/brandsignal/brandsignal/internal/testhelpers"
)

func TestDetectTrends_ValidatesDays(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)

	if _, err := svc.DetectTrends(0); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for days=0, got %v", err)
	}
	if _, err := svc.DetectTrends(-5); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for negative days, got %v", err)
	}
}

func TestDetectTrends_FrequencyAndSort(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")
	initech := testhelpers.SeedCompetitor(t, db, "Initech")

	// Acme: 14 pricing updates over 14 days (7/week).
	for i := 0; i < 14; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypePricing).
			WithTitle(fmt.Sprintf("pricing %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i*12) * time.Hour)).
			Insert(t, db, acme.ID)
	}
	// Initech: 2 release updates.
	for i := 0; i < 2; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeRelease).
			WithTitle(fmt.Sprintf("release %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i*24) * time.Hour)).
			Insert(t, db, initech.ID)
	}

	trends, err := svc.DetectTrends(14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trends) != 2 {
		t.Fatalf("expected 2 trend groups, got %d", len(trends))
	}

	// Sorted by frequency descending.
	if trends[0].CompetitorName != "Acme" || trends[0].Type != database.UpdateTypePricing {
		t.Errorf("expected the Acme pricing group first, got %+v", trends[0])
	}
	wantFreq := 14.0 / 14.0 * 7
	if trends[0].Frequency != wantFreq {
		t.Errorf("expected frequency %.2f, got %.2f", wantFreq, trends[0].Frequency)
	}
	if trends[1].CompetitorName != "Initech" {
		t.Errorf("expected Initech second, got %+v", trends[1])
	}
}

func TestDetectTrends_Direction(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	// Direction compares the sizes of the sorted timeline split at its
	// midpoint index, so an odd-sized group reads as increasing (the second
	// half carries the extra update) even when the updates sit in the older
	// part of the window.
	for i := 0; i < 3; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeFeature).
			WithTitle(fmt.Sprintf("old %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i+15) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	trends, err := svc.DetectTrends(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend group, got %d", len(trends))
	}
	if trends[0].Trend != TrendIncreasing {
		t.Errorf("expected increasing for an odd-sized group, got %s", trends[0].Trend)
	}
}

func TestDetectTrends_DirectionStableOnEvenSplit(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	// Even group: both halves are the same size, direction stays stable.
	for i := 0; i < 4; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeFeature).
			WithTitle(fmt.Sprintf("update %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i+1) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	trends, err := svc.DetectTrends(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trends) != 1 {
		t.Fatalf("expected 1 trend group, got %d", len(trends))
	}
	if trends[0].Trend != TrendStable {
		t.Errorf("expected stable for an even-sized group, got %s", trends[0].Trend)
	}
}

func TestDetectTrends_ExcludesOutsideWindow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	testhelpers.NewCompetitorUpdateBuilder().
		WithType(database.UpdateTypePricing).
		WithPublishedAt(time.Now().Add(-40 * 24 * time.Hour)).
		Insert(t, db, acme.ID)

	trends, err := svc.DetectTrends(30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trends) != 0 {
		t.Errorf("updates outside the window must be ignored, got %v", trends)
	}
}

func TestDetectPatterns_RegularCadence(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	// Perfectly regular: one release every 14 days.
	for i := 0; i < 5; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeRelease).
			WithTitle(fmt.Sprintf("release %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i*14) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	pattern, err := svc.DetectPatterns(acme.ID, database.UpdateTypeRelease)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern == nil {
		t.Fatalf("expected a pattern for a perfectly regular cadence")
	}
	if pattern.Pattern != "Every 2 weeks" {
		t.Errorf("expected %q, got %q", "Every 2 weeks", pattern.Pattern)
	}
	if pattern.Confidence <= 0.6 {
		t.Errorf("expected confidence above the threshold, got %.2f", pattern.Confidence)
	}
}

func TestDetectPatterns_TooFewUpdates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	for i := 0; i < 2; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeRelease).
			WithTitle(fmt.Sprintf("release %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i*7) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	pattern, err := svc.DetectPatterns(acme.ID, database.UpdateTypeRelease)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != nil {
		t.Errorf("fewer than 3 updates must yield no pattern, got %+v", pattern)
	}
}

func TestDetectPatterns_IrregularCadence(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	// Intervals of 1, 20, and 2 days: far too irregular.
	offsets := []int{0, 1, 21, 23}
	for i, off := range offsets {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeCampaign).
			WithTitle(fmt.Sprintf("campaign %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(off) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	pattern, err := svc.DetectPatterns(acme.ID, database.UpdateTypeCampaign)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern != nil {
		t.Errorf("irregular intervals must yield no pattern, got %+v", pattern)
	}
}

func TestDetectPatterns_DailyPhrase(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewTrendService(db)
	acme := testhelpers.SeedCompetitor(t, db, "Acme")

	for i := 0; i < 4; i++ {
		testhelpers.NewCompetitorUpdateBuilder().
			WithType(database.UpdateTypeAnnouncement).
			WithTitle(fmt.Sprintf("news %d", i)).
			WithPublishedAt(time.Now().Add(-time.Duration(i*3) * 24 * time.Hour)).
			Insert(t, db, acme.ID)
	}

	pattern, err := svc.DetectPatterns(acme.ID, database.UpdateTypeAnnouncement)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pattern == nil {
		t.Fatalf("expected a pattern")
	}
	if pattern.Pattern != "Every 3 days" {
		t.Errorf("expected %q, got %q", "Every 3 days", pattern.Pattern)
	}
}
