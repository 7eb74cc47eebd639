package models

import "github.com/google/uuid"

// Outcome grades how a cook session turned out.
type Outcome string

const (
	OutcomeNailedIt   Outcome = "nailed_it"
	OutcomeGood       Outcome = "good"
	OutcomeOkay       Outcome = "okay"
	OutcomeFail       Outcome = "fail"
	OutcomeExperiment Outcome = "experiment"
)

// CookResult is the outcome assessment of one cook session. Each session
// has at most one result; the unique index on CookSessionID is the race
// safety net for concurrent get-or-create requests. Ratings are 1-10 and
// optional.
type CookResult struct {
	Model
	CookSessionID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"cook_session_id"`

	Outcome Outcome `gorm:"size:20;default:'experiment'" json:"outcome"`

	OverallRating    *int `gorm:"check:overall_rating IS NULL OR (overall_rating >= 1 AND overall_rating <= 10)" json:"overall_rating"`
	TasteRating      *int `gorm:"check:taste_rating IS NULL OR (taste_rating >= 1 AND taste_rating <= 10)" json:"taste_rating"`
	TextureRating    *int `gorm:"check:texture_rating IS NULL OR (texture_rating >= 1 AND texture_rating <= 10)" json:"texture_rating"`
	AppearanceRating *int `gorm:"check:appearance_rating IS NULL OR (appearance_rating >= 1 AND appearance_rating <= 10)" json:"appearance_rating"`

	WouldMakeAgain bool `gorm:"default:false" json:"would_make_again"`

	WhatWorked   string `gorm:"type:text" json:"what_worked"`
	WhatToChange string `gorm:"type:text" json:"what_to_change"`
	NextTimePlan string `gorm:"type:text" json:"next_time_plan"`

	CookSession *CookSession `gorm:"foreignKey:CookSessionID;constraint:OnDelete:CASCADE" json:"cook_session,omitempty"`
}
