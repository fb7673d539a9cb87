package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ghuser/livebid/pkg/logger"
	"github.com/ghuser/livebid/services/auction/domain/events"
)

type sinkCall struct {
	sink    string
	eventID uuid.UUID
}

type fakeSink struct {
	name  string
	calls *[]sinkCall
	err   error
}

func (f *fakeSink) Record(_ context.Context, evt events.BidAcceptedEvent) error {
	*f.calls = append(*f.calls, sinkCall{f.name, evt.EventID})
	return f.err
}

func (f *fakeSink) Push(ctx context.Context, evt events.BidAcceptedEvent) error {
	return f.Record(ctx, evt)
}

func (f *fakeSink) Recent(context.Context, string, int) ([]events.BidAcceptedEvent, error) {
	return nil, nil
}

func TestBidRecorder_Record(t *testing.T) {
	boom := errors.New("boom")
	evt := events.BidAcceptedEvent{EventID: uuid.New(), ItemID: "item-1", BidderID: "u1", Amount: 110}

	tests := []struct {
		name       string
		archiveErr error
		historyErr error
		noArchive  bool
		noHistory  bool
		wantCalls  []string
		wantErr    bool
	}{
		{name: "both sinks", wantCalls: []string{"archive", "history"}},
		{name: "archive fails first", archiveErr: boom, wantCalls: []string{"archive"}, wantErr: true},
		{name: "history fails", historyErr: boom, wantCalls: []string{"archive", "history"}, wantErr: true},
		{name: "history only", noArchive: true, wantCalls: []string{"history"}},
		{name: "archive only", noHistory: true, wantCalls: []string{"archive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []sinkCall
			rec := &BidRecorder{log: logger.Discard()}
			if !tt.noArchive {
				rec.archive = &fakeSink{name: "archive", calls: &calls, err: tt.archiveErr}
			}
			if !tt.noHistory {
				rec.history = &fakeSink{name: "history", calls: &calls, err: tt.historyErr}
			}

			err := rec.Record(context.Background(), evt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, boom) {
				t.Errorf("expected wrapped cause, got %v", err)
			}
			if len(calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %+v, want %v", calls, tt.wantCalls)
			}
			for i, want := range tt.wantCalls {
				if calls[i].sink != want || calls[i].eventID != evt.EventID {
					t.Errorf("call %d = %+v, want %s", i, calls[i], want)
				}
			}
		})
	}
}

func TestBidRecorder_Enabled(t *testing.T) {
	if NewBidRecorder(nil, nil, logger.Discard()).Enabled() {
		t.Fatal("recorder without sinks must report disabled")
	}
}
