package redirect

// ResolveRequest is the payload for the redirect.resolve service.
type ResolveRequest struct {
	Path string `json:"path"`
}

// ResolveResponse is the wire form of a Decision.
type ResolveResponse struct {
	Action   string `json:"action"`
	Location string `json:"location,omitempty"`
	Status   int    `json:"status,omitempty"`
}

// toResponse converts a Decision to its wire form.
func toResponse(d Decision) ResolveResponse {
	return ResolveResponse{
		Action:   d.Action.String(),
		Location: d.Location,
		Status:   d.Status,
	}
}

// ToDecision converts a wire response back to a Decision.
func (r ResolveResponse) ToDecision() Decision {
	return Decision{
		Action:   ParseAction(r.Action),
		Location: r.Location,
		Status:   r.Status,
	}
}
