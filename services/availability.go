package services

import (
	"time"

	"github.com/marouan1337/oussaaaa/models"
)

// DeriveStatus computes the status shown on list and detail views from a
// listing's stored status and its availability periods. Maintenance always
// wins; otherwise a booked period whose [startDate, endDate] interval
// contains now makes the listing rented; otherwise it is available.
//
// Every view that needs a display status must go through this function.
func DeriveStatus(stored string, periods []models.AvailabilityPeriod, now time.Time) string {
	if stored == models.StatusMaintenance {
		return models.StatusMaintenance
	}
	for _, p := range periods {
		if p.Status != models.PeriodBooked {
			continue
		}
		if now.Before(p.StartDate) || now.After(p.EndDate) {
			continue
		}
		return models.StatusRented
	}
	return models.StatusAvailable
}
