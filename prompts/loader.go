package prompts

import (
	_ "embed"
)

//go:embed summary_system.txt
var SummarySystem string

// Summary takes the minimum words, maximum words and the article text
//
//go:embed summary.txt
var Summary string
