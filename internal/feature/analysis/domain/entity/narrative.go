// Package entity defines the domain models for the AI analysis feature.
package entity

import "time"

// Citation is a web source the model grounded its answer on.
type Citation struct {
	URL   string
	Title string
}

// Narrative is a complete generated answer.
type Narrative struct {
	Text        string
	Citations   []Citation
	GeneratedAt time.Time
}

// Thesis is a multi-section investment thesis.
type Thesis struct {
	IndustryAnalysis  string
	FinancialAnalysis string
	NewsAnalysis      string
	FinalThesis       string
	GeneratedAt       time.Time
}
