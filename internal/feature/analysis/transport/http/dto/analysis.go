package dto

// AnalysisRequest は POST /api/analysis のリクエストボディです。
// Stream を省略した場合はストリーミングで応答します。
type AnalysisRequest struct {
	Symbol   string `json:"symbol"`
	Question string `json:"question"`
	Stream   *bool  `json:"stream"`
}

// ThesisRequest は POST /api/analysis/thesis のリクエストボディです。
type ThesisRequest struct {
	Symbol string `json:"symbol"`
	Stream *bool  `json:"stream"`
}

// CitationResponse は引用元です。
type CitationResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// AnalysisResponse は非ストリーミング時の分析結果です。
type AnalysisResponse struct {
	Analysis    string             `json:"analysis"`
	Citations   []CitationResponse `json:"citations"`
	GeneratedAt string             `json:"generatedAt"`
}

// ThesisResponse は非ストリーミング時の投資テーゼです。
type ThesisResponse struct {
	IndustryAnalysis  string `json:"industryAnalysis"`
	FinancialAnalysis string `json:"financialAnalysis"`
	NewsAnalysis      string `json:"newsAnalysis"`
	FinalThesis       string `json:"finalThesis"`
	GeneratedAt       string `json:"generatedAt"`
}
