// Package compose renders the SMS text sent to the user.
package compose

import (
	"fmt"
	"strings"

	"dining-concierge/internal/models"
)

// FormatAddress drops the trailing city/state/zip component and joins the rest.
func FormatAddress(components []string) string {
	if len(components) == 0 {
		return ""
	}
	return strings.Join(components[:len(components)-1], ", ")
}

// NoAvailability is sent when the search found nothing for the cuisine.
func NoAvailability(cuisine, location string) string {
	return fmt.Sprintf("Sorry! We do not have any data for %s in %s.", cuisine, location)
}

// Suggestions lists the records in order.
func Suggestions(req models.DiningRequest, records []*models.RestaurantRecord) string {
	entries := make([]string, 0, len(records))
	for i, rec := range records {
		entries = append(entries, fmt.Sprintf("%d. %s, located at %s", i+1, rec.Name, FormatAddress(rec.Address)))
	}

	return fmt.Sprintf("Hello! Here are my %s restaurant(shop) suggestions for %d people, for %s at %s: %s. Enjoy your meal!",
		req.Cuisine, req.PartySize, req.Date, req.Time, strings.Join(entries, ", "))
}
