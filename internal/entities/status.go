package entities

// CampaignStatusInfo is the currency and side snapshot from the status file
type CampaignStatusInfo struct {
	MP   float64 `json:"mp"`
	SP   float64 `json:"sp"`
	AP   float64 `json:"ap"`
	RP   float64 `json:"rp"`
	Army string  `json:"army"`
}
