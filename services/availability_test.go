package services

import (
	"testing"
	"time"

	"github.com/marouan1337/oussaaaa/models"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	booked := models.AvailabilityPeriod{
		StartDate: now.AddDate(0, 0, -2),
		EndDate:   now.AddDate(0, 0, 3),
		Status:    models.PeriodBooked,
	}
	pastBooked := models.AvailabilityPeriod{
		StartDate: now.AddDate(0, -2, 0),
		EndDate:   now.AddDate(0, -1, 0),
		Status:    models.PeriodBooked,
	}
	coveringBlocked := models.AvailabilityPeriod{
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 1),
		Status:    models.PeriodBlocked,
	}

	tests := []struct {
		name    string
		stored  string
		periods []models.AvailabilityPeriod
		want    string
	}{
		{"maintenance wins over booked period", models.StatusMaintenance, []models.AvailabilityPeriod{booked}, models.StatusMaintenance},
		{"maintenance with no periods", models.StatusMaintenance, nil, models.StatusMaintenance},
		{"booked period covering now", models.StatusAvailable, []models.AvailabilityPeriod{booked}, models.StatusRented},
		{"booked period in the past", models.StatusAvailable, []models.AvailabilityPeriod{pastBooked}, models.StatusAvailable},
		{"blocked period covering now is not rented", models.StatusAvailable, []models.AvailabilityPeriod{coveringBlocked}, models.StatusAvailable},
		{"no periods", models.StatusAvailable, nil, models.StatusAvailable},
		{"stored rented without covering period derives available", models.StatusRented, []models.AvailabilityPeriod{pastBooked}, models.StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.stored, tt.periods, now)
			if got != tt.want {
				t.Fatalf("DeriveStatus(%q) = %q, want %q", tt.stored, got, tt.want)
			}
		})
	}
}

func TestDeriveStatusBoundsInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	periods := []models.AvailabilityPeriod{{StartDate: start, EndDate: end, Status: models.PeriodBooked}}

	if got := DeriveStatus(models.StatusAvailable, periods, start); got != models.StatusRented {
		t.Fatalf("at startDate: got %q, want rented", got)
	}
	if got := DeriveStatus(models.StatusAvailable, periods, end); got != models.StatusRented {
		t.Fatalf("at endDate: got %q, want rented", got)
	}
	if got := DeriveStatus(models.StatusAvailable, periods, end.Add(time.Second)); got != models.StatusAvailable {
		t.Fatalf("just after endDate: got %q, want available", got)
	}
}
