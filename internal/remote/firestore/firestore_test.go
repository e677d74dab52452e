package firestore

import (
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"arha/internal/core"
	"arha/internal/remote"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		notProvisioned bool
	}{
		{"permission denied", status.Error(codes.PermissionDenied, "missing permissions"), true},
		{"database missing", status.Error(codes.NotFound, "database (default) does not exist"), true},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad token"), true},
		{"unavailable", status.Error(codes.Unavailable, "connection reset"), false},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			if got := errors.Is(err, remote.ErrNotProvisioned); got != tt.notProvisioned {
				t.Errorf("classify(%v) not provisioned = %v, want %v", tt.err, got, tt.notProvisioned)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("classify must keep the original error in the chain")
			}
		})
	}
}

func TestDocumentConversion(t *testing.T) {
	in := core.Transaction{
		ID:             "abc",
		Date:           core.NewDate(2024, time.March, 5),
		Plate:          "DK 1 AB",
		OwnerName:      "BUDI",
		ServiceType:    core.ServiceRelocation,
		AmountReceived: core.NewMoney(100000),
		ProcessingCost: core.NewMoney(40000),
		Profit:         core.NewMoney(55000),
		Notes:          "catatan",
		ProcessedBy:    "ARHA",
		CreatedAt:      1709600000000,
	}
	doc := toDocument(in)
	if doc.Date != "2024-03-05" || doc.Profit != 55000 || doc.ServiceType != "Mutasi" {
		t.Fatalf("unexpected document %+v", doc)
	}
	out, err := fromDocument(doc)
	if err != nil {
		t.Fatalf("fromDocument: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round trip mismatch: %+v vs %+v", out, in)
	}
}

func TestFromDocumentRejectsBadDate(t *testing.T) {
	if _, err := fromDocument(document{ID: "x", Date: "kemarin"}); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}
