package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/pkg/clients/anthropic"
)

type fakeAI struct {
	reply string
	err   error
	calls int
}

func (f *fakeAI) ExtractJSON(context.Context, string, anthropic.Document) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.reply), nil
}

var pdf = anthropic.Document{MediaType: "application/pdf", Data: []byte("%PDF-1.7 challan")}

func TestExtractChallanQuarantinesInvalidRecords(t *testing.T) {
	ai := &fakeAI{reply: `{"records":[
		{"date":"2026-10-16","fuel_id":"petrol","quantity":12000,"amount":"1140000.50","supplier":"IOCL","id":"ignored"},
		{"date":"2026-10-16","fuel_id":"diesel","quantity":0,"amount":10},
		{"date":"16/10/2026","fuel_id":"diesel","tank_id":"T2","quantity":5,"amount":10},
		"not an object"
	]}`}
	svc := NewService(ai, nil)

	got, err := svc.Extract(context.Background(), Request{Kind: KindChallan, Document: pdf, TankID: "T1"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(got.Purchases) != 1 {
		t.Fatalf("expected one accepted purchase, got %+v", got.Purchases)
	}
	p := got.Purchases[0]
	if p.ID != "" || p.TankID != "T1" || !p.Amount.Equal(decimal.RequireFromString("1140000.50")) {
		t.Fatalf("unexpected purchase draft %+v", p)
	}

	if len(got.Rejected) != 3 {
		t.Fatalf("expected 3 rejected records, got %+v", got.Rejected)
	}
	if got.Rejected[0].Index != 1 || got.Rejected[0].Fields["quantity"] != "gt" {
		t.Fatalf("unexpected rejection %+v", got.Rejected[0])
	}
	if got.Rejected[1].Fields["date"] != "datetime" {
		t.Fatalf("unexpected rejection %+v", got.Rejected[1])
	}
	if got.Rejected[2].Fields != nil || got.Rejected[2].Reason == "" {
		t.Fatalf("undecodable record must carry a reason %+v", got.Rejected[2])
	}
}

func TestExtractCachesByDocument(t *testing.T) {
	ai := &fakeAI{reply: `{"records":[]}`}
	svc := NewService(ai, nil)
	ctx := context.Background()

	first, err := svc.Extract(ctx, Request{Kind: KindSalesReport, Document: pdf})
	if err != nil || first.Cached {
		t.Fatalf("first Extract = %+v, %v", first, err)
	}
	second, err := svc.Extract(ctx, Request{Kind: KindSalesReport, Document: pdf})
	if err != nil || !second.Cached {
		t.Fatalf("second Extract = %+v, %v", second, err)
	}
	if _, err := svc.Extract(ctx, Request{Kind: KindBankStatement, Document: pdf, Account: "hdfc"}); err != nil {
		t.Fatalf("Extract bank statement: %v", err)
	}
	if ai.calls != 2 {
		t.Fatalf("ai calls = %d, want 2", ai.calls)
	}
}

func TestExtractBankStatement(t *testing.T) {
	ai := &fakeAI{reply: `{"records":[
		{"date":"2026-10-15","description":"Cash deposit","credit":250000},
		{"date":"2026-10-15","description":"Blank line"}
	]}`}
	got, err := NewService(ai, nil).Extract(context.Background(), Request{Kind: KindBankStatement, Document: pdf, Account: "hdfc"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got.AccountEntries) != 1 || got.AccountEntries[0].Account != "hdfc" || got.AccountEntries[0].Kind != models.AccountBank {
		t.Fatalf("unexpected entries %+v", got.AccountEntries)
	}
	if len(got.Rejected) != 1 {
		t.Fatalf("expected the empty line to be rejected, got %+v", got.Rejected)
	}
}

func TestExtractErrors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewService(&fakeAI{}, nil).Extract(ctx, Request{Kind: "invoice", Document: pdf}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := NewService(&fakeAI{reply: `[1,2]`}, nil).Extract(ctx, Request{Kind: KindChallan, Document: pdf}); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected ErrMalformedOutput, got %v", err)
	}
	overloaded := errors.New("anthropic api error (status 529)")
	if _, err := NewService(&fakeAI{err: overloaded}, nil).Extract(ctx, Request{Kind: KindChallan, Document: pdf}); !errors.Is(err, overloaded) {
		t.Fatalf("expected wrapped ai error, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind("challan"); err != nil || k != KindChallan {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("receipt"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
