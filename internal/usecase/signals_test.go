package usecase

import (
	"context"
	"testing"
	"time"

	"SwingSight/internal/domain/models"
)

func bullAnalysis() *models.StructureAnalysis {
	return &models.StructureAnalysis{
		Symbol:    "BTCUSDT",
		Timeframe: "1h",
		Bars:      150,
		SwingHighs: []models.SwingPoint{
			{BarIndex: 120, Price: 66100, Kind: models.PointHigh},
		},
		SwingLows: []models.SwingPoint{
			{BarIndex: 100, Price: 63800, Kind: models.PointLow},
		},
		Regime: &models.RegimeAssessment{
			State: models.RegimeBull,
			Close: 65900,
		},
	}
}

func TestDeriveBull(t *testing.T) {
	ev := Derive(bullAnalysis(), time.Now())
	if ev.Action != models.ActionEnterLong {
		t.Fatalf("expected enter_long, got %s", ev.Action)
	}
	if ev.Support != 63800 || ev.Resistance != 66100 {
		t.Fatalf("unexpected levels %+v", ev)
	}
	if ev.Regime != models.RegimeBull || ev.Close != 65900 {
		t.Fatalf("unexpected regime fields %+v", ev)
	}
}

func TestDeriveBearAndRange(t *testing.T) {
	a := bullAnalysis()
	a.Regime.State = models.RegimeBear
	if ev := Derive(a, time.Now()); ev.Action != models.ActionEnterShort {
		t.Fatalf("expected enter_short, got %s", ev.Action)
	}
	a.Regime.State = models.RegimeRange
	if ev := Derive(a, time.Now()); ev.Action != models.ActionStandAside {
		t.Fatalf("expected stand_aside, got %s", ev.Action)
	}
}

func TestDeriveNoRegime(t *testing.T) {
	a := bullAnalysis()
	a.Regime = nil
	ev := Derive(a, time.Now())
	if ev.Action != models.ActionStandAside {
		t.Fatalf("expected stand_aside without regime, got %s", ev.Action)
	}
	if ev.Note == "" {
		t.Fatalf("expected explanatory note")
	}
}

func TestSignalRecord(t *testing.T) {
	journal := &fakeJournal{}
	publisher := &fakePublisher{}
	metrics := newFakeMetrics()
	uc := NewSignalUseCase(journal, publisher, metrics, testLogger(t))

	ev, err := uc.Record(context.Background(), bullAnalysis())
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(journal.events) != 1 || len(publisher.published) != 1 {
		t.Fatalf("expected journal and publish, got %d/%d", len(journal.events), len(publisher.published))
	}
	if metrics.signals[string(ev.Action)] != 1 {
		t.Fatalf("signal metric not recorded")
	}
}

func TestSignalRecordPublishBestEffort(t *testing.T) {
	journal := &fakeJournal{}
	publisher := &fakePublisher{err: context.DeadlineExceeded}
	uc := NewSignalUseCase(journal, publisher, newFakeMetrics(), testLogger(t))

	if _, err := uc.Record(context.Background(), bullAnalysis()); err != nil {
		t.Fatalf("publish failure must not fail the record: %v", err)
	}
	if len(journal.events) != 1 {
		t.Fatalf("journal entry missing")
	}
}

func TestSignalRecent(t *testing.T) {
	journal := &fakeJournal{}
	uc := NewSignalUseCase(journal, nil, newFakeMetrics(), testLogger(t))

	for i := 0; i < 5; i++ {
		if _, err := uc.Record(context.Background(), bullAnalysis()); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	got, err := uc.Recent(context.Background(), "BTCUSDT", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if _, err := uc.Recent(context.Background(), "", 3); err == nil {
		t.Fatalf("missing symbol must fail")
	}
}
