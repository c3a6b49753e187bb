package unblock_slots

// UnblockSlotsRequest HTTP request model
type UnblockSlotsRequest struct {
	BlockIDs []int64 `json:"blockIds"`
}

// UnblockSlotsResponse HTTP response model
type UnblockSlotsResponse struct {
	Removed []int64 `json:"removed"`
}
