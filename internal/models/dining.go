package models

import "strconv"

// Field names double as the front-end slot names.
const (
	FieldLocation  = "location"
	FieldCuisine   = "cuisine"
	FieldPartySize = "partySize"
	FieldDate      = "date"
	FieldTime      = "time"
	FieldPhone     = "phone"
)

// FieldOrder is the order in which fields are validated.
var FieldOrder = []string{FieldLocation, FieldCuisine, FieldPartySize, FieldDate, FieldTime, FieldPhone}

// DiningRequest is one user's fully validated ask.
type DiningRequest struct {
	Location  string `json:"location"`
	Cuisine   string `json:"cuisine"`
	PartySize int    `json:"partySize"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	Phone     string `json:"phone"`
}

// Slots renders the request back into front-end slot values.
func (r DiningRequest) Slots() map[string]*string {
	size := strconv.Itoa(r.PartySize)
	return map[string]*string{
		FieldLocation:  &r.Location,
		FieldCuisine:   &r.Cuisine,
		FieldPartySize: &size,
		FieldDate:      &r.Date,
		FieldTime:      &r.Time,
		FieldPhone:     &r.Phone,
	}
}

// ValidationResult reports the first violated field, if any.
type ValidationResult struct {
	Valid   bool   `json:"isValid"`
	Field   string `json:"violatedSlot,omitempty"`
	Message string `json:"message,omitempty"`
}

// Category is a business category tag as stored by the ingestion job.
type Category struct {
	Alias string `json:"alias" dynamodbav:"alias"`
	Title string `json:"title" dynamodbav:"title"`
}

// Candidate is a search hit used only to drive selection.
type Candidate struct {
	ID         string     `json:"id"`
	Categories []Category `json:"categories"`
}

// RestaurantRecord is the detail record owned by the ingestion job.
type RestaurantRecord struct {
	ID          string     `json:"id" dynamodbav:"id"`
	Name        string     `json:"name" dynamodbav:"name"`
	Address     []string   `json:"address" dynamodbav:"address"`
	ReviewCount int        `json:"review_count" dynamodbav:"review_count"`
	Rating      float64    `json:"rating" dynamodbav:"rating"`
	ZipCode     string     `json:"zip_code,omitempty" dynamodbav:"zip_code,omitempty"`
	Latitude    string     `json:"latitude,omitempty" dynamodbav:"latitude,omitempty"`
	Longitude   string     `json:"longitude,omitempty" dynamodbav:"longitude,omitempty"`
	Categories  []Category `json:"categories,omitempty" dynamodbav:"categories,omitempty"`
}
