package registry

type UnmappedPage struct {
	Unmapped []UnmappedDetail `json:"unmapped"`
	Total    int              `json:"total"`
}

type PayerPage struct {
	Payers []Payer `json:"payers"`
	Total  int     `json:"total"`
}

type GroupPage struct {
	Groups []Group `json:"groups"`
	Total  int     `json:"total"`
}

type MapPayerRequest struct {
	DetailID int64  `json:"detail_id"`
	PayerID  string `json:"payer_id"`
}

type UpdatePrettyNameRequest struct {
	PayerID    string `json:"payer_id"`
	PrettyName string `json:"pretty_name"`
}

// UpdateGroupRequest clears the assignment when GroupID is empty.
type UpdateGroupRequest struct {
	PayerID string `json:"payer_id"`
	GroupID string `json:"group_id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
