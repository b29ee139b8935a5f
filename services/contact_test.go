package services

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	adminNumber    string
	adminErr       error
	earliestNumber string
	earliestErr    error
}

func (f *fakeDirectory) AdminWhatsappNumber(ctx context.Context) (string, error) {
	return f.adminNumber, f.adminErr
}

func (f *fakeDirectory) EarliestWhatsappNumber(ctx context.Context) (string, error) {
	return f.earliestNumber, f.earliestErr
}

func TestResolveContactInfoAdminTier(t *testing.T) {
	dir := &fakeDirectory{adminNumber: "212611111111", earliestNumber: "212622222222"}

	info, err := ResolveContactInfo(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Source != ContactSourceAdmin {
		t.Fatalf("source = %q, want admin", info.Source)
	}
	if info.WhatsappNumber != "212611111111" {
		t.Fatalf("number = %q, want the admin's", info.WhatsappNumber)
	}
}

func TestResolveContactInfoFallbackUserTier(t *testing.T) {
	// Admin exists but has no number set.
	dir := &fakeDirectory{earliestNumber: "212622222222"}

	info, err := ResolveContactInfo(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if info.Source != ContactSourceFallbackUser {
		t.Fatalf("source = %q, want fallback-user", info.Source)
	}
	if info.WhatsappNumber != "212622222222" {
		t.Fatalf("number = %q, want the earliest user's", info.WhatsappNumber)
	}
}

func TestResolveContactInfoDefaultTier(t *testing.T) {
	info, err := ResolveContactInfo(context.Background(), &fakeDirectory{})
	if err != nil {
		t.Fatal(err)
	}
	if info.Source != ContactSourceDefault {
		t.Fatalf("source = %q, want default", info.Source)
	}
	if info.WhatsappNumber != DefaultWhatsappNumber() {
		t.Fatalf("number = %q, want the default", info.WhatsappNumber)
	}
}

func TestResolveContactInfoStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	dir := &fakeDirectory{adminErr: storeErr}

	info, err := ResolveContactInfo(context.Background(), dir)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the store error surfaced", err)
	}
	// The caller still gets a usable number.
	if info.Source != ContactSourceDefault || info.WhatsappNumber != DefaultWhatsappNumber() {
		t.Fatalf("on error got %+v, want the default number", info)
	}
}

func TestResolveContactInfoEarliestError(t *testing.T) {
	storeErr := errors.New("cursor timeout")
	dir := &fakeDirectory{earliestErr: storeErr}

	info, err := ResolveContactInfo(context.Background(), dir)
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want the store error surfaced", err)
	}
	if info.WhatsappNumber != DefaultWhatsappNumber() {
		t.Fatalf("number = %q, want the default", info.WhatsappNumber)
	}
}
