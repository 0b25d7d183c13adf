package domain

import "time"

type Weather struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weatherCode"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
}

type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	PreviousClose float64 `json:"previousClose"`
}

// WidgetSnapshot is side-channel data shown next to an edition. It is keyed
// by the collection run, not by edition identity.
type WidgetSnapshot struct {
	Weather   *Weather  `json:"weather,omitempty"`
	Quotes    []Quote   `json:"quotes,omitempty"`
	FetchedAt time.Time `json:"fetchedAt"`
}
