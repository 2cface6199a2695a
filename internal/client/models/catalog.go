package models

import "github.com/dmitrijs2005/gophtimeline/internal/gatewayapi"

type (
	PostSummary        = gatewayapi.PostSummary
	CompetitionSummary = gatewayapi.CompetitionSummary
	PersonSummary      = gatewayapi.PersonSummary
)
