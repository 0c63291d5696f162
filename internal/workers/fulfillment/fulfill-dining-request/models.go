// internal/workers/fulfillment/fulfill-dining-request/models.go
package fulfilldiningrequest

// Output is written back to the process instance when a run finishes.
type Output struct {
	Outcome        string   `json:"outcome"`
	MessageID      string   `json:"messageId,omitempty"`
	NotificationID string   `json:"notificationId,omitempty"`
	RestaurantIDs  []string `json:"restaurantIds,omitempty"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Location       string   `json:"location,omitempty"`
}
