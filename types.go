package main

import "coffeeintel/models"

// Request/response DTOs. Keep them minimal and explicit.

type sessionResp struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type estateReq struct {
	Estate string `json:"estate"`
}

// scenarioReq moves one slider (name + value) or, with parameters, all four.
type scenarioReq struct {
	Name       string                     `json:"name,omitempty"`
	Value      *float64                   `json:"value,omitempty"`
	Parameters *models.ScenarioParameters `json:"parameters,omitempty"`
}

type promptReq struct {
	Text string `json:"text"`
}
