package services

import (
	"errors"
	"testing"
	"time"

	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/brandsignal/brandsignal/internal/testhelpers"
)

func rawUpdate(title string) RawCompetitorUpdate {
	return RawCompetitorUpdate{
		CompetitorName: "Acme",
		Title:          title,
		SourceChannel:  database.ChannelNews,
		PublishedAt:    time.Now(),
	}
}

func TestProcessCompetitorUpdate_ClassifiesTypeAndImpact(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("Acme slashes subscription cost")
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var update database.CompetitorUpdate
	if err := db.First(&update).Error; err != nil {
		t.Fatalf("update not created: %v", err)
	}
	if update.Type != database.UpdateTypePricing {
		t.Errorf("expected PRICING, got %s", update.Type)
	}
	if update.Impact != database.SeverityHigh {
		t.Errorf("expected HIGH impact for pricing, got %s", update.Impact)
	}
}

func TestProcessCompetitorUpdate_HighImpactEmitsAlert(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("Major pricing overhaul")
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var alert database.Alert
	err := db.Where("title = ?", "High-impact update: Acme - Major pricing overhaul").First(&alert).Error
	if err != nil {
		t.Fatalf("expected high-impact alert: %v", err)
	}
	if alert.Severity != database.SeverityCritical {
		t.Errorf("expected CRITICAL for pricing with high-impact keyword, got %s", alert.Severity)
	}
	if alert.CompetitorUpdateID == nil {
		t.Errorf("alert must link the triggering update")
	}
}

func TestProcessCompetitorUpdate_MediumImpactNoAlert(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("Quarterly results steady")
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&database.Alert{}).Count(&count)
	if count != 0 {
		t.Errorf("MEDIUM impact must not emit an alert, got %d", count)
	}
}

func TestProcessCompetitorUpdate_SourceURLDedup(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("Major pricing overhaul")
	raw.SourceURL = "https://acme.example.com/blog/pricing"
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}

	// Redeliver with an edited title; still one row and one alert.
	raw.Title = "Major pricing overhaul (updated)"
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}

	var updates int64
	db.Model(&database.CompetitorUpdate{}).Count(&updates)
	if updates != 1 {
		t.Errorf("expected 1 update row, got %d", updates)
	}

	var update database.CompetitorUpdate
	db.First(&update)
	if update.Title != "Major pricing overhaul (updated)" {
		t.Errorf("redelivery must patch the title, got %q", update.Title)
	}

	var alerts int64
	db.Model(&database.Alert{}).Count(&alerts)
	if alerts != 1 {
		t.Errorf("redelivery must not take the alert path, got %d alerts", alerts)
	}
}

func TestProcessCompetitorUpdate_NoSourceURLAlwaysCreates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("Quarterly results steady")
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if err := svc.ProcessCompetitorUpdate(raw); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	var count int64
	db.Model(&database.CompetitorUpdate{}).Count(&count)
	if count != 2 {
		t.Errorf("updates without a source URL are always distinct, got %d rows", count)
	}
}

func TestProcessCompetitorUpdate_ReusesCompetitor(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	first := rawUpdate("Quarterly results steady")
	second := rawUpdate("Board reshuffle complete")
	second.CompetitorWebsite = "https://acme.example.com"
	if err := svc.ProcessCompetitorUpdate(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ProcessCompetitorUpdate(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var competitors []database.Competitor
	db.Find(&competitors)
	if len(competitors) != 1 {
		t.Fatalf("expected 1 competitor, got %d", len(competitors))
	}
	if competitors[0].Website != "https://acme.example.com" {
		t.Errorf("later ingestion must backfill the website, got %q", competitors[0].Website)
	}
}

func TestProcessCompetitorUpdate_Validation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raw := rawUpdate("")
	if err := svc.ProcessCompetitorUpdate(raw); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing title, got %v", err)
	}
}

func TestProcessCompetitorUpdatesBatch_SkipsBadRecords(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewCompetitorService(db, NewAlertService(db, nil))

	raws := []RawCompetitorUpdate{
		rawUpdate("Quarterly results steady"),
		rawUpdate(""),
	}

	failed, err := svc.ProcessCompetitorUpdatesBatch(raws)
	if err == nil {
		t.Errorf("expected aggregate error")
	}
	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}

	var count int64
	db.Model(&database.CompetitorUpdate{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 update persisted, got %d", count)
	}
}
