package fiber

// CreateEventRequest represents a single clickstream event
// @Description Clickstream event DTO
type CreateEventRequest struct {
	SessionKey   string   `json:"user_session"`
	UserID       string   `json:"user_id"`
	EventType    string   `json:"event_type" example:"cart"`
	Timestamp    int64    `json:"timestamp"`
	ProductID    string   `json:"product_id"`
	CategoryID   string   `json:"category_id"`
	CategoryCode string   `json:"category_code" example:"electronics.smartphone"`
	Brand        string   `json:"brand"`
	Price        *float64 `json:"price"`
	PriceTier    string   `json:"price_tier" example:"Medium"`
	Category     string   `json:"main_category" example:"electronics"`
}

type CreateEventResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type BulkCreateEventsRequest struct {
	Events []CreateEventRequest `json:"events"`
}

type BulkCreateEventsResponse struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_event"`
	Message string `json:"message" example:"Event payload is invalid"`
}
