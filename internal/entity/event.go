package entity

// DashboardEvent is the dashboard's own view of an event under license review.
type DashboardEvent struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	Time       string  `json:"time"`
	Venue      string  `json:"venue"`
	Licensed   bool    `json:"licensed"`
	Source     string  `json:"source"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Address    string  `json:"address"`
	Capacity   int     `json:"capacity"`
	Inspector  string  `json:"inspector"`
	Notes      string  `json:"notes"`
	Screenshot *string `json:"screenshot"`
	Thumbnail  *string `json:"thumbnail,omitempty"`
}

const (
	SourcePredictHQ = "PredictHQ"
	SourceManual    = "manual"

	InspectorAutoImported = "Auto-imported"
	InspectorUnassigned   = "Unassigned"
)

// CreateEventRequest is the operator's add-event submission.
type CreateEventRequest struct {
	Name      string   `json:"name" form:"name"`
	Date      string   `json:"date" form:"date"`
	Time      string   `json:"time" form:"time"`
	Venue     string   `json:"venue" form:"venue"`
	Address   string   `json:"address" form:"address"`
	Source    string   `json:"source" form:"source"`
	Capacity  int      `json:"capacity" form:"capacity"`
	Inspector string   `json:"inspector" form:"inspector"`
	Notes     string   `json:"notes" form:"notes"`
	Licensed  bool     `json:"licensed" form:"licensed"`
	Lat       *float64 `json:"lat,omitempty" form:"lat"`
	Lng       *float64 `json:"lng,omitempty" form:"lng"`
}

type SetLicenseRequest struct {
	Licensed *bool `json:"licensed" binding:"required"`
}

// Screenshot is uploaded evidence already written to session storage.
type Screenshot struct {
	URL          string
	ThumbnailURL string
}
