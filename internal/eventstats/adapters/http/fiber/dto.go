package fiber

type StatsGroupResponse struct {
	Key            string `json:"key" example:"Medium"`
	TotalCount     int64  `json:"total_count"`
	UniqueSessions int64  `json:"unique_sessions"`
	UniqueUsers    int64  `json:"unique_users"`
}

type StatsResponse struct {
	EventType      string               `json:"event_type" example:"cart"`
	From           int64                `json:"from"`
	To             int64                `json:"to"`
	TotalCount     int64                `json:"total_count"`
	UniqueSessions int64                `json:"unique_sessions"`
	UniqueUsers    int64                `json:"unique_users"`
	GroupBy        string               `json:"group_by,omitempty"`
	Groups         []StatsGroupResponse `json:"groups"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_query"`
	Message string `json:"message" example:"from and to are required"`
}
